package goBlog

import (
	"errors"
	"io"
	"log/slog"

	"github.com/MrEthical07/goBlog/internal/audit"
	"github.com/MrEthical07/goBlog/password"
	"github.com/MrEthical07/goBlog/session"
)

// Builder assembles an Engine. A Builder can be used for one Build only.
type Builder struct {
	config Config

	users     UserStore
	content   ContentStore
	auditSink AuditSink
	logger    *slog.Logger

	built bool
}

func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the session signing secret.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.Session.Secret = cloneBytes(secret)
	return b
}

func (b *Builder) WithUserStore(s UserStore) *Builder {
	b.users = s
	return b
}

func (b *Builder) WithContentStore(s ContentStore) *Builder {
	b.content = s
	return b
}

// WithStores is shorthand for backends implementing both interfaces.
func (b *Builder) WithStores(s interface {
	UserStore
	ContentStore
}) *Builder {
	b.users = s
	b.content = s
	return b
}

// WithAuditSink sets the sink and enables audit dispatching.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

func (b *Builder) WithCascade(p CascadePolicy) *Builder {
	b.config.Content.Cascade = p
	return b
}

func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.users == nil {
		return nil, errors.New("user store required")
	}
	if b.content == nil {
		return nil, errors.New("content store required")
	}

	hasher, err := password.NewArgon2(cfg.passwordConfig())
	if err != nil {
		return nil, err
	}

	var codec session.Codec
	switch cfg.Session.Format {
	case SessionFormatJWT:
		codec, err = session.NewJWTCodec(cfg.Session.Secret, cfg.Session.Issuer)
	default:
		codec, err = session.NewHMACCodec(cfg.Session.Secret)
	}
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	engine := &Engine{
		config:  cfg,
		users:   b.users,
		content: b.content,
		hasher:  hasher,
		codec:   codec,
		cookies: cfg.cookieConfig(),
		metrics: NewMetrics(cfg.Metrics),
		logger:  logger,
		now:     timeNowUTC,
	}
	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true
	return engine, nil
}
