package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/viant/afs"
	"github.com/vmihailenco/msgpack/v5"
)

const cacheFileName = "cache.msgpack"

// ErrCacheMismatch marks a cache written for another rule configuration.
var ErrCacheMismatch = errors.New("cache fingerprint mismatch")

// Cache remembers the digest of every file in its formatted form.
type Cache struct {
	// Fingerprint identifies the rule configuration the digests were produced with.
	Fingerprint string            `msgpack:"fingerprint"`
	Digests     map[m.Path]string `msgpack:"digests"`
}

// NewCache creates an empty cache for fingerprint.
func NewCache(fingerprint string) *Cache {
	return &Cache{Fingerprint: fingerprint, Digests: make(map[m.Path]string)}
}

// Settled reports whether path's current digest equals its cached formatted digest.
func (c *Cache) Settled(path m.Path, digest string) bool {
	cached, ok := c.Digests[path]
	return ok && cached == digest
}

// CacheStore persists the incremental-run cache.
type CacheStore interface {
	// Load returns the cache in dir. A missing cache, or one written with another
	// fingerprint, yields an empty cache.
	Load(ctx context.Context, dir m.Path, fingerprint string) (*Cache, error)
	Save(ctx context.Context, dir m.Path, cache *Cache) error
}

// MsgpackCacheStore stores the cache as a msgpack file.
type MsgpackCacheStore struct {
	fs afs.Service
}

// NewMsgpackCacheStore creates a MsgpackCacheStore.
func NewMsgpackCacheStore() *MsgpackCacheStore {
	return &MsgpackCacheStore{fs: afs.New()}
}

func (s *MsgpackCacheStore) Load(ctx context.Context, dir m.Path, fingerprint string) (*Cache, error) {
	location := filepath.Join(string(dir), cacheFileName)

	exists, err := s.fs.Exists(ctx, location)
	if err != nil || !exists {
		return NewCache(fingerprint), nil
	}

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", location, err)
	}

	var cache Cache
	if err := msgpack.Unmarshal(data, &cache); err != nil {
		slog.Error("Discarding unreadable cache", "path", location, "error", err)
		return NewCache(fingerprint), nil
	}

	if cache.Fingerprint != fingerprint {
		slog.Debug("Discarding cache", "path", location, "error", ErrCacheMismatch)
		return NewCache(fingerprint), nil
	}

	if cache.Digests == nil {
		cache.Digests = make(map[m.Path]string)
	}

	return &cache, nil
}

func (s *MsgpackCacheStore) Save(ctx context.Context, dir m.Path, cache *Cache) error {
	data, err := msgpack.Marshal(cache)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	location := filepath.Join(string(dir), cacheFileName)
	if err := s.fs.Upload(ctx, location, 0o644, bytes.NewReader(data)); err != nil {
		slog.Error("Failed to write cache", "path", location, "error", err)
		return fmt.Errorf("write cache %s: %w", location, err)
	}

	return nil
}
