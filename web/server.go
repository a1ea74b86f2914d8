package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/metrics/export/prometheus"
	"github.com/MrEthical07/goBlog/middleware"
	"github.com/gorilla/mux"
)

const loginPath = middleware.LoginPath

// Options configures NewServer.
type Options struct {
	// Logger receives access and error logs. Defaults to the engine logger.
	Logger *slog.Logger
	// DisableMetrics hides GET /metrics even when engine metrics are on.
	DisableMetrics bool
}

// Server holds the blog's HTTP handlers.
type Server struct {
	engine  *goBlog.Engine
	render  *renderer
	logger  *slog.Logger
	handler http.Handler
}

// NewServer parses the embedded templates and builds the router.
func NewServer(engine *goBlog.Engine, opts Options) (*Server, error) {
	if engine == nil {
		return nil, errors.New("web: nil engine")
	}
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = engine.Logger()
	}

	s := &Server{engine: engine, render: r, logger: logger}
	s.handler = middleware.RequestID(
		middleware.RequestLog(logger, engine)(
			middleware.LoadSession(engine)(s.routes(opts)),
		),
	)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes(opts Options) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(s.notFound)

	r.HandleFunc("/", s.handleMain).Methods(http.MethodGet)
	r.HandleFunc("/signup", s.handleSignupForm).Methods(http.MethodGet)
	r.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)

	r.Handle("/newpost", middleware.RequireUser(http.HandlerFunc(s.handleNewPostForm))).Methods(http.MethodGet)
	r.HandleFunc("/newpost", s.handleNewPost).Methods(http.MethodPost)

	const post = "/{id:[0-9]+}"
	const comment = "/{cid:[0-9]+}"
	r.HandleFunc(post, s.handlePermalink).Methods(http.MethodGet)
	r.HandleFunc(post+"/edit", s.handleEditForm).Methods(http.MethodGet)
	r.HandleFunc(post+"/edit", s.handleEdit).Methods(http.MethodPost)
	r.HandleFunc(post+"/delete", s.handleDeleteForm).Methods(http.MethodGet)
	r.HandleFunc(post+"/delete", s.handleDelete).Methods(http.MethodPost)
	r.HandleFunc(post+"/likes", s.handleLike).Methods(http.MethodGet)
	r.HandleFunc(post+"/comment", s.handleCommentForm).Methods(http.MethodGet)
	r.HandleFunc(post+"/comment", s.handleComment).Methods(http.MethodPost)
	r.HandleFunc(post+"/updatecomment"+comment, s.handleUpdateCommentForm).Methods(http.MethodGet)
	r.HandleFunc(post+"/updatecomment"+comment, s.handleUpdateComment).Methods(http.MethodPost)
	r.HandleFunc(post+"/deletecomment"+comment, s.handleDeleteComment).Methods(http.MethodGet)

	if !opts.DisableMetrics && s.engine.MetricsEnabled() {
		r.Handle("/metrics", prometheus.NewExporter(s.engine)).Methods(http.MethodGet)
	}
	return r
}

func currentUser(r *http.Request) *goBlog.User {
	u, _ := middleware.UserFromContext(r.Context())
	return u
}

// pathID reads a numeric route variable. The route patterns only admit
// digits, so failure means the value overflows int64.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func postURL(id int64) string {
	return "/" + strconv.FormatInt(id, 10)
}
