package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/internal/audit"
	"github.com/MrEthical07/goBlog/internal/envcfg"
	"github.com/MrEthical07/goBlog/web"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			settings, err := root.settings()
			if err != nil {
				return err
			}
			if addr != "" {
				settings.Addr = addr
			}
			return serve(cmd.Context(), settings, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides BLOG_ADDR)")
	return cmd
}

func serve(parent context.Context, s envcfg.Settings, logger *slog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openBackend(ctx, s, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	cfg, err := engineConfig(s, logger)
	if err != nil {
		return err
	}
	for _, w := range cfg.Lint() {
		logger.Warn("config lint", "code", w.Code, "severity", w.Severity.String(), "message", w.Message)
	}

	builder := goBlog.New().
		WithConfig(cfg).
		WithStores(store).
		WithLogger(logger)

	sink, closeSink, err := auditSink(s, logger)
	if err != nil {
		return err
	}
	defer closeSink()
	if sink != nil {
		builder = builder.WithAuditSink(sink)
	}

	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	srv, err := web.NewServer(engine, web.Options{Logger: logger})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              s.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", s.Addr, "store", s.Store)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", s.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func engineConfig(s envcfg.Settings, logger *slog.Logger) (goBlog.Config, error) {
	cfg := goBlog.DefaultConfig()

	secret := []byte(s.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return cfg, err
		}
		secret = []byte(hex.EncodeToString(secret))
		logger.Warn("BLOG_SECRET not set, using a random secret; sessions will not survive a restart")
	}
	cfg.Session.Secret = secret
	cfg.Session.Format = s.SessionFormat
	cfg.Session.CookieSecure = s.CookieSecure
	cfg.Session.CookieHTTPOnly = s.CookieHTTPOnly

	if s.CascadeDelete {
		cfg.Content.Cascade = goBlog.CascadeComments
	}
	cfg.Audit.Enabled = s.Audit || s.NATSURL != ""
	cfg.Metrics.Enabled = s.Metrics
	cfg.Metrics.EnableLatencyHistograms = s.Metrics

	return cfg, cfg.Validate()
}

// auditSink picks NATS when BLOG_NATS_URL is set, otherwise the process log
// when BLOG_AUDIT is on.
func auditSink(s envcfg.Settings, logger *slog.Logger) (goBlog.AuditSink, func(), error) {
	noop := func() {}
	switch {
	case s.NATSURL != "":
		sink, conn, err := audit.ConnectNATS(s.NATSURL, s.NATSSubject)
		if err != nil {
			return nil, noop, fmt.Errorf("connect nats: %w", err)
		}
		logger.Info("publishing audit events", "subject", sink.Subject())
		return sink, func() {
			_ = conn.Drain()
			if n := sink.Failed(); n > 0 {
				logger.Warn("audit publishes failed", "count", n)
			}
		}, nil
	case s.Audit:
		return audit.NewSlogSink(logger.With("component", "audit")), noop, nil
	default:
		return nil, noop, nil
	}
}
