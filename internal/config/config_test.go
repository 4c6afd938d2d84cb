package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, SourceFS, cfg.ContentSource)
	assert.Equal(t, "content/tutorial", cfg.ContentDir)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "tutorial:", cfg.RedisPrefix)
	assert.Equal(t, 15*time.Second, cfg.GraphQLTimeout)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.File)
}

func TestLoadFileEnvAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tutorial.yaml"), []byte(`
listen_addr: ":9000"
root_url: " https://svelte.dev "
cache_ttl: 30s
log_level: debug
redirects:
  old-slug: new-slug
`), 0o644))

	t.Setenv("TUTORIAL_LISTEN_ADDR", ":9100")
	t.Setenv("TUTORIAL_WATCH", "true")

	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.String("content-dir", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--content-dir", "/srv/tutorial"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "tutorial.yaml", cfg.File)
	assert.Equal(t, ":9100", cfg.ListenAddr, "env beats file")
	assert.Equal(t, "/srv/tutorial", cfg.ContentDir, "flags beat everything")
	assert.Equal(t, "debug", cfg.LogLevel, "unset flags do not override")
	assert.Equal(t, "https://svelte.dev", cfg.RootURL)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.Watch)
	assert.Equal(t, map[string]string{"old-slug": "new-slug"}, cfg.Redirects)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.ErrorContains(t, err, "error reading config file")
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TUTORIAL_CONTENT_SOURCE", "GraphQL")
	t.Setenv("TUTORIAL_WATCH", "true")

	_, err := Load("", nil)
	assert.ErrorContains(t, err, "watch is only supported")

	bad := Config{ContentSource: "s3", CacheTTL: -time.Second}
	err = bad.Validate()
	assert.ErrorContains(t, err, "content_source must be")
	assert.ErrorContains(t, err, "cache_ttl must not be negative")
}

func TestValidateRejectsEmptyRedisPrefix(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TUTORIAL_REDIS_ADDR", "localhost:6379")
	t.Setenv("TUTORIAL_REDIS_PREFIX", "")

	_, err := Load("", nil)
	assert.ErrorContains(t, err, "redis_prefix must not be empty")

	t.Setenv("TUTORIAL_REDIS_PREFIX", "svelte:")
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "svelte:", cfg.RedisPrefix)
}

func TestValidateGraphQLTimeout(t *testing.T) {
	cfg := Config{ContentSource: SourceGraphQL, GraphQLEndpoint: "http://cms/api/graphql"}
	assert.ErrorContains(t, cfg.Validate(), "graphql_timeout must be positive")

	cfg.GraphQLTimeout = 5 * time.Second
	assert.NoError(t, cfg.Validate())
}
