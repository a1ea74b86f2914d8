package goBlog

import (
	"fmt"
	"strings"
)

// LintSeverity ranks advisory configuration warnings.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning is one advisory finding. Code is stable and machine-readable.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintWarnings is the result of Config.Lint.
type LintWarnings []LintWarning

func (ws LintWarnings) Codes() []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Code
	}
	return out
}

// BySeverity returns the warnings at or above min.
func (ws LintWarnings) BySeverity(min LintSeverity) LintWarnings {
	var out LintWarnings
	for _, w := range ws {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError folds warnings at or above min into one error, or returns nil.
func (ws LintWarnings) AsError(min LintSeverity) error {
	hits := ws.BySeverity(min)
	if len(hits) == 0 {
		return nil
	}
	parts := make([]string, len(hits))
	for i, w := range hits {
		parts[i] = fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message)
	}
	return fmt.Errorf("config lint: %s", strings.Join(parts, "; "))
}

const (
	minSecretBytes         = 16
	recommendedSecretBytes = 32
	recommendedArgonMemKB  = 64 * 1024
)

// Lint reports settings that are legal but weak. It never fails; use
// AsError to turn findings into a startup gate.
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings
	add := func(code string, sev LintSeverity, msg string) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: msg})
	}

	switch n := len(c.Session.Secret); {
	case n == 0:
		// Validate rejects this.
	case n < minSecretBytes:
		add("session_secret_weak", LintHigh, fmt.Sprintf("session secret is %d bytes; tokens can be brute-forced", n))
	case n < recommendedSecretBytes:
		add("session_secret_short", LintWarn, fmt.Sprintf("session secret is %d bytes; %d or more recommended", n, recommendedSecretBytes))
	}

	if !c.Session.CookieHTTPOnly {
		add("cookie_not_httponly", LintWarn, "session cookie is readable from scripts")
	}
	if !c.Session.CookieSecure {
		add("cookie_not_secure", LintWarn, "session cookie is sent over plain HTTP")
	}
	if c.Session.Format == SessionFormatJWT {
		add("session_format_jwt", LintInfo, "JWT sessions carry no expiry and cannot be revoked without rotating the secret")
	}

	if c.Password.Memory < recommendedArgonMemKB {
		add("argon2_memory_low", LintWarn, fmt.Sprintf("argon2 memory %d KB is below %d KB", c.Password.Memory, recommendedArgonMemKB))
	}

	if c.Content.Cascade == CascadeNone {
		add("cascade_disabled", LintInfo, "comments of deleted posts are kept in storage")
	}
	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo, "content and credential mutations are not audited")
	}
	return ws
}
