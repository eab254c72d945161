// Package store persists the import configuration and the last imported
// record collection in a key-value backend: local files, Redis or Postgres.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Backend.Get for a key that was never written.
var ErrNotFound = errors.New("key not found")

// Backend is a minimal key-value store. Put replaces the whole value.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Kinds accepted by Open.
const (
	KindFile     = "file"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

// Settings selects and configures a backend.
type Settings struct {
	Kind      string
	Dir       string
	KeyPrefix string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseURL string
}

// Open connects the backend named by s.Kind.
func Open(ctx context.Context, s Settings) (Backend, error) {
	switch strings.ToLower(s.Kind) {
	case KindFile, "":
		return NewFileBackend(s.Dir)
	case KindRedis:
		return OpenRedis(ctx, s.RedisAddr, s.RedisPassword, s.RedisDB, s.KeyPrefix)
	case KindPostgres:
		return OpenPostgres(ctx, s.DatabaseURL, s.KeyPrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", s.Kind)
	}
}
