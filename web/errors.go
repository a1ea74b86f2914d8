package web

import (
	"errors"
	"net/http"

	goBlog "github.com/MrEthical07/goBlog"
)

// Messages shown on the error view when the guard refuses an action.
const (
	msgEditPostForbidden      = "Only post creator allowed to edit this post"
	msgDeletePostForbidden    = "Only post creator allowed to delete this post"
	msgLikeForbidden          = "You are not allowed to like your own post"
	msgEditCommentForbidden   = "Only comment owner can edit the comment"
	msgDeleteCommentForbidden = "Only comment owner can delete the comment"
	msgInternal               = "Something went wrong. Please try again."
)

// fail turns an engine error into a response:
//
//	ErrUnauthenticated  302 to /login
//	ErrNotFound         404 with the not-found view
//	ErrForbidden        200 with the error view and forbidden
//	anything else       500 with the error view
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, forbidden string) {
	switch {
	case errors.Is(err, goBlog.ErrUnauthenticated):
		http.Redirect(w, r, loginPath, http.StatusFound)
	case errors.Is(err, goBlog.ErrNotFound):
		s.notFound(w, r)
	case errors.Is(err, goBlog.ErrForbidden):
		s.page(w, r, http.StatusOK, pageError, view{Error: forbidden})
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", goBlog.RequestIDFromContext(r.Context()),
			"error", err,
		)
		s.page(w, r, http.StatusInternalServerError, pageError, view{Error: msgInternal})
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusNotFound, pageNotFound, view{})
}

// page renders name with the current user filled in.
func (s *Server) page(w http.ResponseWriter, r *http.Request, status int, name string, data view) {
	data.User = currentUser(r)
	if err := s.render.render(w, status, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "render failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
