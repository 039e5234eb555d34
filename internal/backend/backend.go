// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package backend opens the persistence services selected by configuration
// and exposes them as a store.Adapter and a dispatch.SentSet.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"affiliatedesk/internal/cache"
	"affiliatedesk/internal/config"
	"affiliatedesk/internal/database"
	"affiliatedesk/internal/dispatch"
	"affiliatedesk/internal/storage"
	"affiliatedesk/internal/store"
)

// Backend holds the open connections behind the record store.
type Backend struct {
	Adapter store.Adapter
	SentSet dispatch.SentSet

	// DB is set for the sqlite and postgres backends.
	DB *sql.DB
	// Valkey is set when the valkey backend or the Valkey sent set is used.
	Valkey *redis.Client
}

// Open connects to the configured backend, running migrations for SQL
// backends. The caller must Close the result.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		b.Adapter = store.NewMemoryAdapter()

	case config.BackendSQLite, config.BackendPostgres:
		driver, dsn := database.DriverSQLite, cfg.SQLitePath
		if cfg.StoreBackend == config.BackendPostgres {
			driver, dsn = database.DriverPostgres, cfg.DSN()
		}
		db, err := database.Connect(ctx, driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.StoreBackend, err)
		}
		b.DB = db
		if err := database.Migrate(db, driver); err != nil {
			b.Close()
			return nil, fmt.Errorf("migrate %s: %w", cfg.StoreBackend, err)
		}
		b.Adapter = database.NewKV(db, driver)

	case config.BackendValkey:
		if err := b.connectValkey(cfg); err != nil {
			return nil, err
		}
		b.Adapter = cache.NewKV(b.Valkey, cache.DefaultPrefix)

	case config.BackendS3:
		client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("open s3: %w", err)
		}
		if client == nil {
			return nil, errors.New("open s3: endpoint and credentials are required")
		}
		b.Adapter = client

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.ValkeySentSet {
		if b.Valkey == nil {
			if err := b.connectValkey(cfg); err != nil {
				b.Close()
				return nil, err
			}
		}
		b.SentSet = cache.NewSentSet(b.Valkey, cache.DefaultSentKey)
	} else {
		b.SentSet = dispatch.NewMemorySentSet()
	}

	slog.Info("store backend ready", "backend", cfg.StoreBackend, "valkey_sent_set", cfg.ValkeySentSet)
	return b, nil
}

func (b *Backend) connectValkey(cfg *config.Config) error {
	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		return fmt.Errorf("open valkey: %w", err)
	}
	b.Valkey = client
	return nil
}

// Close releases every open connection.
func (b *Backend) Close() error {
	var errs []error
	if b.DB != nil {
		errs = append(errs, b.DB.Close())
	}
	if b.Valkey != nil {
		errs = append(errs, b.Valkey.Close())
	}
	return errors.Join(errs...)
}
