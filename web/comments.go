package web

import (
	"errors"
	"net/http"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/permission"
)

func (s *Server) handleCommentForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.notFound(w, r)
		return
	}
	p, err := s.engine.CheckPost(r.Context(), currentUser(r), permission.CreateComment, id)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	s.page(w, r, http.StatusOK, pageComment, view{Subject: p.Subject, Content: p.Content})
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.notFound(w, r)
		return
	}
	text := r.PostFormValue("comment")
	_, err := s.engine.CreateComment(r.Context(), currentUser(r), id, text)
	if errors.Is(err, goBlog.ErrValidation) {
		p, perr := s.engine.GetPost(r.Context(), id)
		if perr != nil {
			s.fail(w, r, perr, "")
			return
		}
		s.page(w, r, http.StatusOK, pageComment, view{
			Subject: p.Subject,
			Content: p.Content,
			Comment: text,
			Error:   goBlog.MsgInvalidComment,
		})
		return
	}
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	http.Redirect(w, r, postURL(id), http.StatusFound)
}

func (s *Server) handleUpdateCommentForm(w http.ResponseWriter, r *http.Request) {
	postID, ok1 := pathID(r, "id")
	commentID, ok2 := pathID(r, "cid")
	if !ok1 || !ok2 {
		s.notFound(w, r)
		return
	}
	c, err := s.engine.CheckComment(r.Context(), currentUser(r), permission.EditComment, postID, commentID)
	if err != nil {
		s.fail(w, r, err, msgEditCommentForbidden)
		return
	}
	p, err := s.engine.GetPost(r.Context(), postID)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	s.page(w, r, http.StatusOK, pageComment, view{
		Subject: p.Subject,
		Content: p.Content,
		Comment: c.Text,
		Edit:    true,
	})
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	postID, ok1 := pathID(r, "id")
	commentID, ok2 := pathID(r, "cid")
	if !ok1 || !ok2 {
		s.notFound(w, r)
		return
	}
	if _, err := s.engine.UpdateComment(r.Context(), currentUser(r), postID, commentID, r.PostFormValue("comment")); err != nil {
		s.fail(w, r, err, msgEditCommentForbidden)
		return
	}
	http.Redirect(w, r, postURL(postID), http.StatusFound)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	postID, ok1 := pathID(r, "id")
	commentID, ok2 := pathID(r, "cid")
	if !ok1 || !ok2 {
		s.notFound(w, r)
		return
	}
	if err := s.engine.DeleteComment(r.Context(), currentUser(r), postID, commentID); err != nil {
		s.fail(w, r, err, msgDeleteCommentForbidden)
		return
	}
	http.Redirect(w, r, postURL(postID), http.StatusFound)
}
