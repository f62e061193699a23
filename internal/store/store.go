// Package store persists lobby state as opaque JSON values under string keys.
package store

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Store is a key-value store. Get reports false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// LobbyKey is the key a lobby's state lives under.
func LobbyKey(code string) string {
	return "lobby/" + code
}

// Options carries the settings Open needs for each driver.
type Options struct {
	Driver      string
	DatabaseURL string
	S3Bucket    string
	S3Gzip      bool
}

// Open builds the store named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverPostgres:
		return OpenPostgres(opts.DatabaseURL)
	case DriverS3:
		return OpenS3(ctx, opts.S3Bucket, opts.S3Gzip)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
