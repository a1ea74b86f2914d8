// Package blogtest builds engines backed by an in-process miniredis for
// tests in other packages.
package blogtest

import (
	"io"
	"log/slog"
	"testing"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/internal/stores"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Secret is the session key used by Config.
var Secret = []byte("blogtest-session-secret-0123456789")

// Config returns a valid configuration with cheap Argon2 parameters.
func Config() goBlog.Config {
	cfg := goBlog.DefaultConfig()
	cfg.Session.Secret = append([]byte(nil), Secret...)
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

// Env is a running test engine and its backing redis.
type Env struct {
	Engine *goBlog.Engine
	Redis  *miniredis.Miniredis
	Client *redis.Client
	Store  *stores.Store
}

// New builds an engine from Config after applying mutate. Everything is
// torn down with t.Cleanup.
func New(t testing.TB, mutate ...func(*goBlog.Config)) *Env {
	return NewWithBuilder(t, nil, mutate...)
}

// NewWithBuilder lets a test add builder options (audit sink, logger)
// before Build.
func NewWithBuilder(t testing.TB, extra func(*goBlog.Builder), mutate ...func(*goBlog.Config)) *Env {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := Config()
	for _, m := range mutate {
		m(&cfg)
	}

	store := stores.New(rdb, "")
	b := goBlog.New().
		WithConfig(cfg).
		WithStores(store).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if extra != nil {
		extra(b)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return &Env{Engine: engine, Redis: mr, Client: rdb, Store: store}
}
