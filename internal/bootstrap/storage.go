package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/GoSim-25-26J-441/product-catalog/config"
	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
	"github.com/GoSim-25-26J-441/product-catalog/internal/storage/memory"
	"github.com/GoSim-25-26J-441/product-catalog/internal/storage/postgres"
	redisslot "github.com/GoSim-25-26J-441/product-catalog/internal/storage/redis"
	s3slot "github.com/GoSim-25-26J-441/product-catalog/internal/storage/s3"
	"github.com/GoSim-25-26J-441/product-catalog/internal/storage/sqlite"
)

// OpenSlot opens the snapshot slot selected by STORAGE_DRIVER. The caller closes it.
func OpenSlot(ctx context.Context, cfg *config.Config) (storage.Slot, error) {
	key := cfg.Storage.Key

	var (
		slot storage.Slot
		err  error
	)
	switch cfg.Storage.Driver {
	case storage.DriverMemory:
		slot = memory.New()
	case storage.DriverRedis:
		slot, err = redisslot.Open(ctx, redisslot.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, key)
	case storage.DriverSQLite:
		slot, err = sqlite.Open(cfg.SQLite.Path, key)
	case storage.DriverPostgres:
		slot, err = openPostgres(ctx, postgres.DSN(&cfg.DB), key)
	case storage.DriverS3:
		slot, err = s3slot.New(ctx, s3Config(cfg.S3), key)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s slot: %w", cfg.Storage.Driver, err)
	}

	log.Printf("[storage] using %s slot %q", slot.Driver(), key)
	return slot, nil
}

func openPostgres(ctx context.Context, dsn, key string) (storage.Slot, error) {
	pool, err := OpenDB(ctx, DBOptions{DSN: dsn, MaxConns: 4})
	if err != nil {
		return nil, err
	}
	slot, err := postgres.New(ctx, pool, key)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return slot, nil
}

func s3Config(cfg config.S3Config) s3slot.Config {
	return s3slot.Config{
		Region:          cfg.Region,
		Bucket:          cfg.Bucket,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		PathStyle:       cfg.PathStyle,
	}
}
