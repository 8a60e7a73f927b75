package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix          = "catalog:" // Key prefix for snapshots: catalog:{slot}
	eventChannelSuffix = ":events"  // Pub/Sub channel notified on every write: catalog:{slot}:events
	pingTimeout        = 2 * time.Second
)

// Options configures a redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Slot stores the snapshot under a single redis key.
type Slot struct {
	client *redis.Client
	key    string
}

// New wraps an existing client. The caller keeps ownership of the client.
func New(client *redis.Client, name string) *Slot {
	if name == "" {
		name = storage.DefaultKey
	}
	return &Slot{client: client, key: keyPrefix + name}
}

// Open dials redis and fails fast when the server is unreachable.
func Open(ctx context.Context, opts Options, name string) (*Slot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(client, name), nil
}

// Key returns the redis key holding the snapshot.
func (s *Slot) Key() string { return s.key }

// EventChannel returns the pub/sub channel notified after each write.
func (s *Slot) EventChannel() string { return s.key + eventChannelSuffix }

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return data, nil
}

// Write replaces the snapshot and announces its size on the event channel.
func (s *Slot) Write(ctx context.Context, data []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key, data, 0)
	pipe.Publish(ctx, s.EventChannel(), strconv.Itoa(len(data)))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Watch subscribes to the event channel and calls onChange for each notification,
// including the ones caused by this process's own writes.
func (s *Slot) Watch(ctx context.Context, onChange func()) error {
	sub := s.client.Subscribe(ctx, s.EventChannel())
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.EventChannel(), err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			onChange()
		}
	}
}

func (s *Slot) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Slot) Close() error {
	return s.client.Close()
}

func (s *Slot) Driver() storage.Driver { return storage.DriverRedis }
