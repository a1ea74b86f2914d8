package web

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/internal/blogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t   *testing.T
	env *blogtest.Env
	srv *Server
}

func newHarness(t *testing.T, mutate ...func(*goBlog.Config)) *harness {
	t.Helper()
	env := blogtest.New(t, mutate...)
	srv, err := NewServer(env.Engine, Options{})
	require.NoError(t, err)
	return &harness{t: t, env: env, srv: srv}
}

func (h *harness) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	h.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "user_id" {
			return c
		}
	}
	t.Fatalf("no session cookie in response (status %d)", rec.Code)
	return nil
}

func (h *harness) signup(name string) *http.Cookie {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/signup", url.Values{
		"username": {name},
		"password": {"secret1"},
		"verify":   {"secret1"},
	}, nil)
	require.Equal(h.t, http.StatusFound, rec.Code, rec.Body.String())
	return sessionCookie(h.t, rec)
}

func (h *harness) newPost(cookie *http.Cookie, subject, content string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/newpost", url.Values{"subject": {subject}, "content": {content}}, cookie)
	require.Equal(h.t, http.StatusFound, rec.Code, rec.Body.String())
	return rec.Header().Get("Location")
}

func escaped(msg string) string {
	return template.HTMLEscapeString(msg)
}

func TestSignupSetsCookieAndRedirects(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/signup", url.Values{
		"username": {"  Alice "},
		"password": {"secret1"},
		"verify":   {"secret1"},
		"email":    {"a@b.com"},
	}, nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookie := sessionCookie(t, rec)
	assert.True(t, strings.HasPrefix(cookie.Value, "1|"))
	assert.Equal(t, "/", cookie.Path)

	home := h.do(http.MethodGet, "/", nil, cookie)
	assert.Contains(t, home.Body.String(), "alice")
}

func TestSignupValidationMessages(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/signup", url.Values{
		"username": {"a!"},
		"password": {"x"},
		"verify":   {"y"},
		"email":    {"nope"},
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, escaped(goBlog.MsgInvalidUsername))
	assert.Contains(t, body, escaped(goBlog.MsgInvalidPassword))
	assert.Contains(t, body, escaped(goBlog.MsgInvalidEmail))
	assert.NotContains(t, body, escaped(goBlog.MsgPasswordMismatch))
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignupPasswordMismatch(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/signup", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
		"verify":   {"secret2"},
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), escaped(goBlog.MsgPasswordMismatch))
	assert.Contains(t, rec.Body.String(), `value="alice"`)
}

func TestSignupDuplicate(t *testing.T) {
	h := newHarness(t)
	h.signup("alice")

	rec := h.do(http.MethodPost, "/signup", url.Values{
		"username": {"ALICE"},
		"password": {"other1"},
		"verify":   {"other1"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), escaped(goBlog.MsgDuplicateUsername))
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.signup("alice")

	bad := h.do(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}}, nil)
	require.Equal(t, http.StatusOK, bad.Code)
	assert.Contains(t, bad.Body.String(), msgInvalidLogin)

	unknown := h.do(http.MethodPost, "/login", url.Values{"username": {"bob"}, "password": {"secret1"}}, nil)
	assert.Contains(t, unknown.Body.String(), msgInvalidLogin)

	ok := h.do(http.MethodPost, "/login", url.Values{"username": {"Alice"}, "password": {"secret1"}}, nil)
	require.Equal(t, http.StatusFound, ok.Code)
	assert.Equal(t, "/", ok.Header().Get("Location"))
	sessionCookie(t, ok)
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newHarness(t)
	cookie := h.signup("alice")

	rec := h.do(http.MethodGet, "/logout", nil, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestAnonymousMutationsRedirectToLogin(t *testing.T) {
	h := newHarness(t)
	owner := h.signup("alice")
	loc := h.newPost(owner, "subject", "content")

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/newpost"},
		{http.MethodPost, "/newpost"},
		{http.MethodGet, loc + "/edit"},
		{http.MethodPost, loc + "/edit"},
		{http.MethodGet, loc + "/delete"},
		{http.MethodPost, loc + "/delete"},
		{http.MethodGet, loc + "/likes"},
		{http.MethodGet, loc + "/comment"},
		{http.MethodPost, loc + "/comment"},
		{http.MethodGet, "/999/edit"},
	}
	for _, tc := range cases {
		rec := h.do(tc.method, tc.path, url.Values{"subject": {"x"}, "content": {"y"}, "comment": {"z"}}, nil)
		assert.Equal(t, http.StatusFound, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), "%s %s", tc.method, tc.path)
	}
}

func TestForgedCookieIsAnonymous(t *testing.T) {
	h := newHarness(t)
	h.signup("alice")

	rec := h.do(http.MethodGet, "/newpost", nil, &http.Cookie{Name: "user_id", Value: "1|00"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestCreateAndViewPost(t *testing.T) {
	h := newHarness(t)
	cookie := h.signup("alice")

	loc := h.newPost(cookie, "Hello", "line one\nline <two>")
	assert.Equal(t, "/1", loc)

	rec := h.do(http.MethodGet, loc, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "line one<br>line &lt;two&gt;")
}

func TestNewPostRequiresSubjectAndContent(t *testing.T) {
	h := newHarness(t)
	cookie := h.signup("alice")

	rec := h.do(http.MethodPost, "/newpost", url.Values{"subject": {"only subject"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), goBlog.MsgMissingPost)
	assert.Contains(t, rec.Body.String(), `value="only subject"`)
}

func TestMainListsNewestFirst(t *testing.T) {
	h := newHarness(t)
	cookie := h.signup("alice")
	for _, s := range []string{"Post-A", "Post-B", "Post-C"} {
		h.newPost(cookie, s, "body")
	}

	body := h.do(http.MethodGet, "/", nil, nil).Body.String()
	a, b, c := strings.Index(body, "Post-A"), strings.Index(body, "Post-B"), strings.Index(body, "Post-C")
	require.True(t, a >= 0 && b >= 0 && c >= 0, body)
	assert.True(t, c < b && b < a, "expected C, B, A order")
}

func TestEditPostOwnership(t *testing.T) {
	h := newHarness(t)
	owner := h.signup("alice")
	other := h.signup("bob")
	loc := h.newPost(owner, "orig", "body")

	rec := h.do(http.MethodGet, loc+"/edit", nil, other)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgEditPostForbidden)

	rec = h.do(http.MethodPost, loc+"/edit", url.Values{"subject": {"hijack"}, "content": {"x"}}, other)
	assert.Contains(t, rec.Body.String(), msgEditPostForbidden)

	form := h.do(http.MethodGet, loc+"/edit", nil, owner)
	assert.Contains(t, form.Body.String(), `value="orig"`)

	rec = h.do(http.MethodPost, loc+"/edit", url.Values{"subject": {"new"}, "content": {"text"}}, owner)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, loc, rec.Header().Get("Location"))
	assert.Contains(t, h.do(http.MethodGet, loc, nil, nil).Body.String(), "new")
}

func TestLikes(t *testing.T) {
	h := newHarness(t)
	owner := h.signup("alice")
	fan := h.signup("bob")
	loc := h.newPost(owner, "s", "c")

	rec := h.do(http.MethodGet, loc+"/likes", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgLikeForbidden)

	for i := 0; i < 2; i++ {
		rec = h.do(http.MethodGet, loc+"/likes", nil, fan)
		require.Equal(t, http.StatusFound, rec.Code)
	}
	assert.Contains(t, h.do(http.MethodGet, loc, nil, nil).Body.String(), "2 likes")
}

func TestDeletePost(t *testing.T) {
	h := newHarness(t)
	owner := h.signup("alice")
	other := h.signup("bob")
	loc := h.newPost(owner, "Doomed", "c")

	rec := h.do(http.MethodGet, loc+"/delete", nil, other)
	assert.Contains(t, rec.Body.String(), msgDeletePostForbidden)

	confirm := h.do(http.MethodGet, loc+"/delete", nil, owner)
	require.Equal(t, http.StatusOK, confirm.Code)
	assert.Contains(t, confirm.Body.String(), "Doomed")

	done := h.do(http.MethodPost, loc+"/delete", nil, owner)
	require.Equal(t, http.StatusOK, done.Code)
	assert.Contains(t, done.Body.String(), "Doomed")

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, loc, nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, loc+"/delete", nil, owner).Code)
}

func TestComments(t *testing.T) {
	h := newHarness(t)
	owner := h.signup("alice")
	other := h.signup("bob")
	loc := h.newPost(owner, "s", "c")

	rec := h.do(http.MethodPost, loc+"/comment", url.Values{"comment": {"   "}}, other)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), goBlog.MsgInvalidComment)

	rec = h.do(http.MethodPost, loc+"/comment", url.Values{"comment": {"first!"}}, other)
	require.Equal(t, http.StatusFound, rec.Code)

	page := h.do(http.MethodGet, loc, nil, nil).Body.String()
	assert.Contains(t, page, "first!")
	assert.Contains(t, page, "bob")

	rec = h.do(http.MethodGet, loc+"/updatecomment/1", nil, owner)
	assert.Contains(t, rec.Body.String(), msgEditCommentForbidden)

	rec = h.do(http.MethodGet, loc+"/updatecomment/1", nil, other)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "first!")

	rec = h.do(http.MethodPost, loc+"/updatecomment/1", url.Values{"comment": {"edited"}}, other)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, h.do(http.MethodGet, loc, nil, nil).Body.String(), "edited")

	rec = h.do(http.MethodGet, loc+"/deletecomment/1", nil, owner)
	assert.Contains(t, rec.Body.String(), msgDeleteCommentForbidden)

	rec = h.do(http.MethodGet, loc+"/deletecomment/1", nil, other)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.NotContains(t, h.do(http.MethodGet, loc, nil, nil).Body.String(), "edited")

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, loc+"/deletecomment/1", nil, other).Code)
}

func TestCommentOnMissingPost(t *testing.T) {
	h := newHarness(t)
	cookie := h.signup("alice")

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/42/comment", nil, cookie).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/42/comment", url.Values{"comment": {"hi"}}, cookie).Code)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/no/such/page", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/99999999999999999999", nil, nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, func(c *goBlog.Config) { c.Metrics.Enabled = true })
	h.signup("alice")

	rec := h.do(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goblog_signup_success_total 1")
}

func TestMetricsHiddenWhenDisabled(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/metrics", nil, nil).Code)
}

func TestRequestIDHeaderSet(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/", nil, nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNl2br(t *testing.T) {
	assert.Equal(t, template.HTML("a<br>b<br>&lt;c&gt;"), nl2br("a\r\nb\n<c>"))
}
