package web

import (
	"errors"
	"net/http"

	goBlog "github.com/MrEthical07/goBlog"
)

const msgInvalidLogin = "Invalid login"

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, pageSignup, view{})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	form := goBlog.SignupForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Verify:   r.PostFormValue("verify"),
		Email:    r.PostFormValue("email"),
	}

	u, err := s.engine.Signup(r.Context(), form, s.engine.Registration())
	var verr *goBlog.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		s.page(w, r, http.StatusOK, pageSignup, view{
			Username: goBlog.FoldUsername(form.Username),
			Email:    form.Email,
			Errors:   verr.Fields,
		})
		return
	case errors.Is(err, goBlog.ErrDuplicateUsername):
		s.page(w, r, http.StatusOK, pageSignup, view{
			Errors: map[string]string{goBlog.FieldUsername: goBlog.MsgDuplicateUsername},
		})
		return
	default:
		s.fail(w, r, err, "")
		return
	}

	if !s.setSession(w, r, u) {
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, pageLogin, view{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := goBlog.FoldUsername(r.PostFormValue("username"))
	u, err := s.engine.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if errors.Is(err, goBlog.ErrInvalidCredentials) {
		s.page(w, r, http.StatusOK, pageLogin, view{Username: username, Error: msgInvalidLogin})
		return
	}
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	if !s.setSession(w, r, u) {
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.engine.ClearSessionCookie(r.Context(), currentUser(r)))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) setSession(w http.ResponseWriter, r *http.Request, u *goBlog.User) bool {
	cookie, err := s.engine.SessionCookie(u)
	if err != nil {
		s.fail(w, r, err, "")
		return false
	}
	http.SetCookie(w, cookie)
	return true
}
