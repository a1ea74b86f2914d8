package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newHMAC(t *testing.T, secret string) *HMACCodec {
	t.Helper()
	c, err := NewHMACCodec([]byte(secret))
	if err != nil {
		t.Fatalf("NewHMACCodec: %v", err)
	}
	return c
}

func TestHMACCodecRoundTrip(t *testing.T) {
	c := newHMAC(t, "test-secret")

	token, err := c.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !strings.HasPrefix(token, "42|") {
		t.Fatalf("unexpected token shape: %s", token)
	}
	mac := strings.TrimPrefix(token, "42|")
	if len(mac) != 64 || strings.ToLower(mac) != mac {
		t.Fatalf("expected 64 lower-hex chars, got %q", mac)
	}

	id, ok := c.Verify(token)
	if !ok || id != 42 {
		t.Fatalf("Verify = (%d, %v), want (42, true)", id, ok)
	}
}

func TestHMACCodecDeterministic(t *testing.T) {
	c := newHMAC(t, "test-secret")
	a, _ := c.Issue(7)
	b, _ := c.Issue(7)
	if a != b {
		t.Fatalf("expected identical tokens, got %s and %s", a, b)
	}
}

func TestHMACCodecRejectsTampering(t *testing.T) {
	c := newHMAC(t, "test-secret")
	token, _ := c.Issue(42)

	// Every single-character mutation must be rejected.
	for i := range token {
		for _, r := range []byte{'0', '9', 'a', 'f', 'A', 'F', '|', 'x'} {
			if token[i] == r {
				continue
			}
			mutated := token[:i] + string(r) + token[i+1:]
			if _, ok := c.Verify(mutated); ok {
				t.Fatalf("mutation at %d (%q) accepted: %s", i, r, mutated)
			}
		}
	}

	if _, ok := c.Verify(strings.ToUpper(token)); ok {
		t.Fatal("upper-cased mac must not verify")
	}
}

func TestHMACCodecRejectsMalformed(t *testing.T) {
	c := newHMAC(t, "test-secret")
	good, _ := c.Issue(5)
	mac := strings.TrimPrefix(good, "5|")

	for _, tok := range []string{
		"",
		"5",
		"5|",
		"|" + mac,
		"05|" + mac,
		"+5|" + mac,
		"5|" + mac + "|",
		"abc|def",
	} {
		if _, ok := c.Verify(tok); ok {
			t.Fatalf("expected %q to be rejected", tok)
		}
	}
}

func TestHMACCodecSecretMatters(t *testing.T) {
	a := newHMAC(t, "secret-a")
	b := newHMAC(t, "secret-b")
	token, _ := a.Issue(1)
	if _, ok := b.Verify(token); ok {
		t.Fatal("token issued under another secret must not verify")
	}
}

func TestHMACCodecRejectsNonPositiveID(t *testing.T) {
	c := newHMAC(t, "s")
	if _, err := c.Issue(0); err == nil {
		t.Fatal("expected error for id 0")
	}
	if _, err := NewHMACCodec(nil); err != ErrEmptySecret {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
}

func TestJWTCodecRoundTrip(t *testing.T) {
	c, err := NewJWTCodec([]byte("jwt-secret"), "goblog")
	if err != nil {
		t.Fatal(err)
	}
	token, err := c.Issue(99)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, ok := c.Verify(token)
	if !ok || id != 99 {
		t.Fatalf("Verify = (%d, %v), want (99, true)", id, ok)
	}

	other, _ := NewJWTCodec([]byte("other-secret"), "goblog")
	if _, ok := other.Verify(token); ok {
		t.Fatal("token signed with another secret must not verify")
	}

	wrongIssuer, _ := NewJWTCodec([]byte("jwt-secret"), "someone-else")
	if _, ok := wrongIssuer.Verify(token); ok {
		t.Fatal("issuer mismatch must not verify")
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three segments, got %d", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, ok := c.Verify(tampered); ok {
		t.Fatal("tampered payload must not verify")
	}
}

func TestJWTCodecRejectsNoneAlg(t *testing.T) {
	c, _ := NewJWTCodec([]byte("jwt-secret"), "")
	// {"alg":"none","typ":"JWT"}.{"uid":1}.
	none := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ1aWQiOjF9."
	if _, ok := c.Verify(none); ok {
		t.Fatal("alg=none must be rejected")
	}
}

func TestCookieHelpers(t *testing.T) {
	c := NewCookie(CookieConfig{}, "1|abc")
	if c.Name != CookieName || c.Path != "/" || c.Value != "1|abc" {
		t.Fatalf("unexpected cookie: %+v", c)
	}
	if c.Secure || c.HttpOnly {
		t.Fatal("default cookie must not set Secure or HttpOnly")
	}

	hardened := NewCookie(CookieConfig{Secure: true, HTTPOnly: true, SameSite: http.SameSiteLaxMode}, "t")
	if !hardened.Secure || !hardened.HttpOnly || hardened.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected hardened attributes: %+v", hardened)
	}

	cleared := ClearCookie(CookieConfig{})
	if cleared.Value != "" || cleared.MaxAge >= 0 || cleared.Path != "/" {
		t.Fatalf("unexpected clear cookie: %+v", cleared)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if TokenFromRequest(req, CookieConfig{}) != "" {
		t.Fatal("expected empty token without cookie")
	}
	req.AddCookie(c)
	if got := TokenFromRequest(req, CookieConfig{}); got != "1|abc" {
		t.Fatalf("TokenFromRequest = %q", got)
	}
}
