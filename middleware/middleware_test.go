package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/internal/blogtest"
)

func okHandler(t *testing.T, check func(r *http.Request)) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestLoadSessionAttachesUser(t *testing.T) {
	env := blogtest.New(t)
	u, err := env.Engine.Register(context.Background(), "alice", "secret1", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	cookie, err := env.Engine.SessionCookie(u)
	if err != nil {
		t.Fatalf("SessionCookie: %v", err)
	}

	var got *goBlog.User
	h := LoadSession(env.Engine)(okHandler(t, func(r *http.Request) {
		got, _ = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != u.ID {
		t.Fatalf("expected user %d in context, got %+v", u.ID, got)
	}
}

func TestLoadSessionIgnoresForgedCookie(t *testing.T) {
	env := blogtest.New(t)

	called := false
	h := LoadSession(env.Engine)(okHandler(t, func(r *http.Request) {
		called = true
		if _, ok := UserFromContext(r.Context()); ok {
			t.Fatal("forged cookie must not produce a user")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "user_id", Value: "1|deadbeef"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !called || rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestLoadSessionStoreDown(t *testing.T) {
	env := blogtest.New(t)
	u, err := env.Engine.Register(context.Background(), "alice", "secret1", "")
	if err != nil {
		t.Fatal(err)
	}
	cookie, _ := env.Engine.SessionCookie(u)
	_ = env.Client.Close()

	h := LoadSession(env.Engine)(okHandler(t, func(*http.Request) {
		t.Fatal("handler must not run when the store is down")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireUser(okHandler(t, nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/newpost", nil))

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != LoginPath {
		t.Fatalf("expected redirect to %s, got %d %q", LoginPath, rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireUserPassesSignedIn(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/newpost", nil)
	req = req.WithContext(WithUser(req.Context(), &goBlog.User{ID: 1, Username: "alice"}))
	rec := httptest.NewRecorder()
	RequireUser(okHandler(t, nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	h := RequestID(okHandler(t, func(r *http.Request) {
		seen = goBlog.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("expected generated id echoed, ctx=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("expected inbound id kept, got %q", seen)
	}
}

func TestRequestIDRejectsOversizedHeader(t *testing.T) {
	var seen string
	h := RequestID(okHandler(t, func(r *http.Request) {
		seen = goBlog.RequestIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(seen) != 36 {
		t.Fatalf("expected a fresh uuid, got %q", seen)
	}
}

func TestRequestLogWritesLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	env := blogtest.New(t, func(c *goBlog.Config) {
		c.Metrics.Enabled = true
		c.Metrics.EnableLatencyHistograms = true
	})

	h := RequestID(RequestLog(logger, env.Engine)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pot", nil))

	line := buf.String()
	for _, want := range []string{"method=GET", "path=/pot", "status=418", "bytes=15", "request_id="} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in log line %q", want, line)
		}
	}

	var total uint64
	for _, n := range env.Engine.MetricsSnapshot().Histograms[goBlog.MetricRequestLatency] {
		total += n
	}
	if total != 1 {
		t.Fatalf("expected one latency sample, got %d", total)
	}
}
