package goBlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MrEthical07/goBlog/internal/audit"
	"github.com/MrEthical07/goBlog/password"
	"github.com/MrEthical07/goBlog/session"
)

// Engine is the blog core: credentials, sessions, the authorization guard
// and content operations over the configured stores. It is safe for
// concurrent use once built.
type Engine struct {
	config  Config
	users   UserStore
	content ContentStore
	hasher  *password.Argon2
	codec   session.Codec
	cookies session.CookieConfig
	audit   *audit.Dispatcher
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}

// Close flushes pending audit events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// MetricsEnabled reports whether counters are being recorded.
func (e *Engine) MetricsEnabled() bool {
	return e != nil && e.metrics.Enabled()
}

// ObserveRequestLatency feeds the request latency histogram.
func (e *Engine) ObserveRequestLatency(d time.Duration) {
	if e == nil {
		return
	}
	e.metrics.Observe(MetricRequestLatency, d)
}

// Logger returns the engine's logger. It is never nil.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() error {
	if e == nil || e.users == nil || e.content == nil || e.codec == nil {
		return ErrEngineNotReady
	}
	return nil
}

// Register creates an account. The username is trimmed and lowercased
// before validation, so "Alice" and "alice " are the same account.
func (e *Engine) Register(ctx context.Context, username, plain, email string) (*User, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	username = FoldUsername(username)
	if verr := validateCredentials(username, plain, email); verr != nil {
		e.metricInc(MetricSignupInvalid)
		return nil, verr
	}

	hash, err := e.hasher.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := e.users.CreateUser(ctx, CreateUserInput{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		CreatedAt:    e.now(),
	})
	if err != nil {
		err = storeErr(err)
		if errors.Is(err, ErrDuplicateUsername) {
			e.metricInc(MetricSignupDuplicate)
		} else {
			e.metricInc(MetricBackendError)
		}
		e.emitAudit(ctx, auditEventSignupFailure, false, 0, "", 0, err, func() map[string]string {
			return map[string]string{"username": username}
		})
		return nil, err
	}

	e.metricInc(MetricSignupSuccess)
	e.emitAudit(ctx, auditEventSignupSuccess, true, u.ID, resourceUser, u.ID, nil, nil)
	return u, nil
}

// Authenticate returns the user when username and password match. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (e *Engine) Authenticate(ctx context.Context, username, plain string) (*User, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	username = FoldUsername(username)

	u, err := e.users.GetUserByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			e.loginFailed(ctx, username)
			return nil, ErrInvalidCredentials
		}
		e.metricInc(MetricBackendError)
		return nil, storeErr(err)
	}

	ok, err := e.hasher.Verify(plain, u.PasswordHash)
	if err != nil || !ok {
		if err != nil && !errors.Is(err, password.ErrPasswordTooLong) {
			e.logger.LogAttrs(ctx, slog.LevelWarn, "stored password hash unreadable",
				slog.Int64("user_id", u.ID),
				slog.String("error", err.Error()),
			)
		}
		e.loginFailed(ctx, username)
		return nil, ErrInvalidCredentials
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, u.ID, resourceUser, u.ID, nil, nil)
	return u, nil
}

func (e *Engine) loginFailed(ctx context.Context, username string) {
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, 0, "", 0, ErrInvalidCredentials, func() map[string]string {
		return map[string]string{"username": username}
	})
}

// IssueSession returns the cookie token for u.
func (e *Engine) IssueSession(u *User) (string, error) {
	if e == nil || e.codec == nil {
		return "", ErrEngineNotReady
	}
	if u == nil {
		return "", ErrUnauthenticated
	}
	token, err := e.codec.Issue(u.ID)
	if err != nil {
		return "", err
	}
	e.metricInc(MetricSessionIssued)
	return token, nil
}

// VerifySession returns the user id carried by token.
func (e *Engine) VerifySession(token string) (int64, bool) {
	if e == nil || e.codec == nil || token == "" {
		return 0, false
	}
	id, ok := e.codec.Verify(token)
	if !ok {
		e.metricInc(MetricSessionRejected)
	}
	return id, ok
}

// UserFromSession verifies token and loads its user. A bad token or a
// token for a user that no longer exists gives ErrUnauthenticated.
func (e *Engine) UserFromSession(ctx context.Context, token string) (*User, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	id, ok := e.VerifySession(token)
	if !ok {
		return nil, ErrUnauthenticated
	}
	u, err := e.users.GetUserByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			e.metricInc(MetricSessionRejected)
			return nil, ErrUnauthenticated
		}
		e.metricInc(MetricBackendError)
		return nil, storeErr(err)
	}
	return u, nil
}

// SessionCookie issues a token for u and wraps it in the session cookie.
func (e *Engine) SessionCookie(u *User) (*http.Cookie, error) {
	token, err := e.IssueSession(u)
	if err != nil {
		return nil, err
	}
	return session.NewCookie(e.cookies, token), nil
}

// ClearSessionCookie returns a cookie that logs the browser out.
func (e *Engine) ClearSessionCookie(ctx context.Context, u *User) *http.Cookie {
	if u != nil {
		e.metricInc(MetricLogout)
		e.emitAudit(ctx, auditEventLogout, true, u.ID, resourceUser, u.ID, nil, nil)
	}
	return session.ClearCookie(e.cookies)
}

// SessionToken extracts the session token from r's cookies.
func (e *Engine) SessionToken(r *http.Request) string {
	return session.TokenFromRequest(r, e.cookies)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// storeErr passes through the sentinels stores are allowed to return and
// wraps anything else as ErrStoreUnavailable.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrStoreUnavailable):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
