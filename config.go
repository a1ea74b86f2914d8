package goBlog

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MrEthical07/goBlog/password"
	"github.com/MrEthical07/goBlog/session"
)

// Config is the complete engine configuration. Build it from DefaultConfig
// and treat it as immutable once passed to the Builder.
type Config struct {
	Session  SessionConfig
	Password PasswordConfig
	Content  ContentConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// Session token formats.
const (
	SessionFormatHMAC = "hmac"
	SessionFormatJWT  = "jwt"
)

// SessionConfig controls token signing and the session cookie.
type SessionConfig struct {
	// Secret keys the HMAC or HS256 signature. Required.
	Secret []byte
	// Format is SessionFormatHMAC (default) or SessionFormatJWT.
	Format string
	// Issuer is set and enforced on JWT tokens when non-empty.
	Issuer string

	CookieName     string
	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
}

// PasswordConfig holds the Argon2id parameters.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// ContentConfig controls post and comment lifecycle.
type ContentConfig struct {
	Cascade CascadePolicy
}

type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns a development configuration. The secret is empty
// and must be set before Build; cookies carry no Secure or HttpOnly flag.
func DefaultConfig() Config {
	pw := password.DefaultConfig()
	return Config{
		Session: SessionConfig{
			Format:     SessionFormatHMAC,
			CookieName: session.CookieName,
			CookiePath: "/",
		},
		Password: PasswordConfig{
			Memory:      pw.Memory,
			Time:        pw.Time,
			Parallelism: pw.Parallelism,
			SaltLength:  pw.SaltLength,
			KeyLength:   pw.KeyLength,
		},
		Content: ContentConfig{
			Cascade: CascadeNone,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.Secret = cloneBytes(cfg.Session.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate rejects configurations the engine cannot run with. Advisory
// problems are reported by Lint instead.
func (c *Config) Validate() error {
	if len(c.Session.Secret) == 0 {
		return errors.New("Session Secret must not be empty")
	}
	switch c.Session.Format {
	case SessionFormatHMAC, SessionFormatJWT:
	default:
		return fmt.Errorf("unsupported Session Format %q", c.Session.Format)
	}
	if c.Session.CookieSameSite == http.SameSiteNoneMode && !c.Session.CookieSecure {
		return errors.New("Session CookieSameSite=None requires CookieSecure")
	}

	if err := c.passwordConfig().Validate(); err != nil {
		return err
	}

	if !c.Content.Cascade.valid() {
		return fmt.Errorf("unsupported Content Cascade policy %d", c.Content.Cascade)
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}
	return nil
}

func (c *Config) passwordConfig() password.Config {
	return password.Config{
		Memory:      c.Password.Memory,
		Time:        c.Password.Time,
		Parallelism: c.Password.Parallelism,
		SaltLength:  c.Password.SaltLength,
		KeyLength:   c.Password.KeyLength,
	}
}

func (c *Config) cookieConfig() session.CookieConfig {
	return session.CookieConfig{
		Name:     c.Session.CookieName,
		Path:     c.Session.CookiePath,
		Domain:   c.Session.CookieDomain,
		Secure:   c.Session.CookieSecure,
		HTTPOnly: c.Session.CookieHTTPOnly,
		SameSite: c.Session.CookieSameSite,
	}
}
