package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix = "TUTORIAL_"

	SourceFS      = "fs"
	SourceGraphQL = "graphql"
)

// DefaultConfigFiles are tried in order when no config file is given.
var DefaultConfigFiles = []string{"tutorial.yaml", "tutorial.yml"}

type Config struct {
	ListenAddr string `koanf:"listen_addr"`
	StaticDir  string `koanf:"static_dir"`

	RootURL string `koanf:"root_url"`

	ContentSource string `koanf:"content_source"`
	ContentDir    string `koanf:"content_dir"`
	Watch         bool   `koanf:"watch"`

	GraphQLEndpoint  string        `koanf:"graphql_endpoint"`
	GraphQLAuthToken string        `koanf:"graphql_auth_token"`
	GraphQLTimeout   time.Duration `koanf:"graphql_timeout"`

	RedisAddr   string        `koanf:"redis_addr"`
	RedisPrefix string        `koanf:"redis_prefix"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`

	LogLevel string `koanf:"log_level"`

	// StartSlug is where GET /tutorial redirects.
	StartSlug string `koanf:"start_slug"`

	// Redirects adds deprecated-slug mappings on top of the built-in ones.
	Redirects map[string]string `koanf:"redirects"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"listen_addr":      ":8080",
		"static_dir":       "internal/web/static",
		"root_url":         "",
		"content_source":   SourceFS,
		"content_dir":      "content/tutorial",
		"watch":            false,
		"graphql_endpoint": "http://localhost:3000/api/graphql",
		"graphql_timeout":  "15s",
		"redis_prefix":     "tutorial:",
		"cache_ttl":        "10m",
		"log_level":        "info",
		"start_slug":       "welcome-to-svelte",
	}
}

// Load reads configuration. Precedence, highest first: explicitly set flags,
// TUTORIAL_* environment variables, the config file, defaults. cfgFile may be
// empty, in which case DefaultConfigFiles are tried. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// TUTORIAL_LISTEN_ADDR -> listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	cfg.RootURL = strings.TrimSpace(cfg.RootURL)
	cfg.ContentSource = strings.ToLower(strings.TrimSpace(cfg.ContentSource))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.ContentSource {
	case SourceFS:
		if strings.TrimSpace(c.ContentDir) == "" {
			errs = append(errs, errors.New("content_dir is required when content_source is fs"))
		}
	case SourceGraphQL:
		if strings.TrimSpace(c.GraphQLEndpoint) == "" {
			errs = append(errs, errors.New("graphql_endpoint is required when content_source is graphql"))
		}
		if c.GraphQLTimeout <= 0 {
			errs = append(errs, errors.New("graphql_timeout must be positive"))
		}
		if c.Watch {
			errs = append(errs, errors.New("watch is only supported for content_source fs"))
		}
	default:
		errs = append(errs, fmt.Errorf("content_source must be %q or %q, got %q", SourceFS, SourceGraphQL, c.ContentSource))
	}

	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("cache_ttl must not be negative"))
	}
	// Flush on reload deletes every key under the prefix.
	if c.RedisAddr != "" && strings.TrimSpace(c.RedisPrefix) == "" {
		errs = append(errs, errors.New("redis_prefix must not be empty when redis_addr is set"))
	}

	return errors.Join(errs...)
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
