package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	backend "github.com/redis/go-redis/v9"
	"tutorial/internal/config"
	"tutorial/internal/content/cachestore"
	"tutorial/internal/content/fsstore"
	"tutorial/internal/content/gqlstore"
	"tutorial/internal/gql"
	"tutorial/internal/markdown"
	"tutorial/internal/tutorial"
)

// contentStores is the store chain for one process. fs and cache are nil
// when their backend is not configured.
type contentStores struct {
	store tutorial.Store
	fs    *fsstore.Store
	cache *cachestore.Store
}

func (s contentStores) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

func openStores(ctx context.Context, cfg config.Config, redirects tutorial.Redirects, logger *slog.Logger) (contentStores, error) {
	opts := markdown.Options{
		RootURL:     cfg.RootURL,
		ResolveLink: redirects.ResolveLink,
	}

	var stores contentStores
	switch cfg.ContentSource {
	case config.SourceGraphQL:
		stores.store = gqlstore.New(gql.NewClient(cfg), opts)
	default:
		fsStore, err := fsstore.Open(os.DirFS(cfg.ContentDir), fsstore.WithMarkdownOptions(opts))
		if err != nil {
			return contentStores{}, fmt.Errorf("open content dir %q: %w", cfg.ContentDir, err)
		}
		stores.fs = fsStore
		stores.store = fsStore
	}

	if cfg.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, cache reads will fall through", "addr", cfg.RedisAddr, "error", err)
		}
		stores.cache = cachestore.New(stores.store, client,
			cachestore.WithPrefix(cfg.RedisPrefix),
			cachestore.WithTTL(cfg.CacheTTL),
			cachestore.WithLogger(logger),
		)
		stores.store = stores.cache
	}

	return stores, nil
}
