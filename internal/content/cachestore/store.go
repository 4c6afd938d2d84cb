// Package cachestore decorates a tutorial.Store with a Redis read-through
// cache. Only found results are cached.
package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	backend "github.com/redis/go-redis/v9"
	"tutorial/internal/tutorial"
)

const (
	defaultPrefix = "tutorial:"
	defaultTTL    = 10 * time.Minute
)

type Store struct {
	next   tutorial.Store
	client *backend.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*Store)

// WithTTL sets the expiration for cached entries. Zero keeps them until
// invalidated.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix shared by all cached entries. An empty
// prefix keeps the default, since Flush deletes everything under it.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithLogger sets the logger used to report Redis failures that the store
// falls through.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(next tutorial.Store, client *backend.Client, opts ...Option) *Store {
	store := &Store{
		next:   next,
		client: client,
		prefix: defaultPrefix,
		ttl:    defaultTTL,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) contentKey(slug string) string {
	return s.prefix + "content:" + slug
}

func (s *Store) exerciseKey(slug string) string {
	return s.prefix + "exercise:" + slug
}

func (s *Store) LoadContent(ctx context.Context, slug string) (*tutorial.Content, error) {
	return readThrough(ctx, s, s.contentKey(slug), func() (*tutorial.Content, error) {
		return s.next.LoadContent(ctx, slug)
	})
}

func (s *Store) LoadExercise(ctx context.Context, slug string) (*tutorial.Exercise, error) {
	return readThrough(ctx, s, s.exerciseKey(slug), func() (*tutorial.Exercise, error) {
		return s.next.LoadExercise(ctx, slug)
	})
}

// readThrough serves key from Redis, falling back to load on a miss. A Redis
// failure on read or write degrades to the wrapped store instead of failing
// the request.
func readThrough[T any](ctx context.Context, s *Store, key string, load func() (*T, error)) (*T, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached T
		decodeErr := json.Unmarshal(raw, &cached)
		if decodeErr == nil {
			return &cached, nil
		}
		s.logger.Warn("cache entry undecodable, reloading", "key", key, "error", decodeErr)
	case !errors.Is(err, backend.Nil):
		s.logger.Warn("cache read failed", "key", key, "error", err)
	}

	value, err := load()
	if err != nil || value == nil {
		return value, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache entry unencodable", "key", key, "error", err)
		return value, nil
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// Invalidate drops both cached entries for slug.
func (s *Store) Invalidate(ctx context.Context, slug string) error {
	if err := s.client.Del(ctx, s.contentKey(slug), s.exerciseKey(slug)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate %q: %w", slug, err)
	}
	return nil
}

// Flush drops every entry under the store prefix.
func (s *Store) Flush(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	keys := make([]string, 0, 64)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, backend.Nil) {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
