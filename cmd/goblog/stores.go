package main

import (
	"context"
	"fmt"
	"log/slog"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/internal/envcfg"
	"github.com/MrEthical07/goBlog/internal/sqlstore"
	"github.com/MrEthical07/goBlog/internal/stores"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type backend interface {
	goBlog.UserStore
	goBlog.ContentStore
}

// openBackend returns the configured store and a function that releases
// it. With BLOG_STORE=redis and no REDIS_ADDR an in-process miniredis is
// started; its data lives only as long as the process.
func openBackend(ctx context.Context, s envcfg.Settings, logger *slog.Logger) (backend, func(), error) {
	switch s.Store {
	case envcfg.StoreRedis:
		return openRedis(ctx, s, logger)
	case envcfg.StoreSQLite, envcfg.StorePostgres:
		store, err := sqlstore.Open(s.Store, s.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store %q", s.Store)
	}
}

func openRedis(ctx context.Context, s envcfg.Settings, logger *slog.Logger) (backend, func(), error) {
	addr := s.RedisAddr
	var mr *miniredis.Miniredis
	if addr == "" {
		var err error
		if mr, err = miniredis.Run(); err != nil {
			return nil, nil, fmt.Errorf("start miniredis: %w", err)
		}
		addr = mr.Addr()
		logger.Warn("REDIS_ADDR not set, using in-memory redis; data is lost on exit", "addr", addr)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	})
	cleanup := func() {
		_ = client.Close()
		if mr != nil {
			mr.Close()
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return stores.New(client, s.RedisPrefix), cleanup, nil
}
