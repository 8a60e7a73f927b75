// Package storage defines the single named slot the catalog snapshot lives in.
// Concrete drivers live in the sub-packages.
package storage

import (
	"context"
	"errors"
)

// Driver identifies a concrete slot backend.
type Driver string

const (
	DriverMemory   Driver = "memory"   // process memory (tests, throwaway sessions)
	DriverRedis    Driver = "redis"    // single redis key
	DriverSQLite   Driver = "sqlite"   // local file (default)
	DriverPostgres Driver = "postgres" // state table row
	DriverS3       Driver = "s3"       // single object in a bucket
)

// DefaultKey is the slot name used when none is configured.
const DefaultKey = "products"

// ErrEmpty is returned by Read when nothing was ever written to the slot.
var ErrEmpty = errors.New("snapshot slot is empty")

// Slot holds one serialized snapshot. Write replaces the previous value wholesale.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}

// Watcher is implemented by slots that announce writes, so a running process can pick
// up snapshots written by another one without waiting for its next mutation.
type Watcher interface {
	// Watch calls onChange after every write until ctx is done.
	Watch(ctx context.Context, onChange func()) error
}

// ParseDriver validates a driver name coming from configuration.
func ParseDriver(name string) (Driver, error) {
	switch d := Driver(name); d {
	case DriverMemory, DriverRedis, DriverSQLite, DriverPostgres, DriverS3:
		return d, nil
	default:
		return "", errors.New("unknown storage driver " + name)
	}
}
