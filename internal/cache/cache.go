// Package cache stores intermediate pipeline results so repeated runs over the
// same input can skip completed stages.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("key not found in cache")
	ErrInvalidKey = errors.New("invalid cache key")
	ErrClosed     = errors.New("cache is closed")
)

// Kinds of cached entries, one per short-circuitable stage
const (
	KindDocument = "document"
	KindResume   = "resume"
	KindGitHub   = "github"
	KindWebsite  = "website"
)

// Backends
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Cache is a byte-oriented key/value store
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Get(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error

	Clear(ctx context.Context) error

	Close() error
}

// Options selects and configures a backend
type Options struct {
	Backend  string
	Dir      string
	RedisURL string
	TTL      time.Duration
}

// DefaultOptions returns a file cache under ./cache.
func DefaultOptions() Options {
	return Options{
		Backend: BackendFile,
		Dir:     "cache",
	}
}

// New opens the configured backend.
func New(opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			dir = DefaultOptions().Dir
		}
		return NewFileCache(dir)
	case BackendRedis:
		return NewRedisCache(opts.RedisURL, opts.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// Key builds the cache key for a stage result of the given input.
func Key(kind, input string) string {
	return kind + ":" + BaseName(input)
}

// BaseName reduces an input path or object key to the name used in cache
// keys: the last path element without its extension.
func BaseName(input string) string {
	base := filepath.Base(strings.TrimRight(input, "/"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// splitKey validates a key and returns its kind and base name.
func splitKey(key string) (kind, base string, err error) {
	kind, base, ok := strings.Cut(key, ":")
	if !ok || kind == "" || base == "" || base == "." || base == ".." ||
		strings.ContainsAny(kind, `/\:`) || strings.ContainsAny(base, `/\`) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return kind, base, nil
}

// GetJSON loads and decodes a cached value. Misses return ErrNotFound.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes and stores a value.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
