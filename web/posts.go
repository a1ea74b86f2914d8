package web

import (
	"errors"
	"net/http"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/MrEthical07/goBlog/permission"
)

func (s *Server) handleMain(w http.ResponseWriter, r *http.Request) {
	posts, err := s.engine.ListPosts(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	s.page(w, r, http.StatusOK, pageMain, view{Posts: posts})
}

func (s *Server) handlePermalink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.notFound(w, r)
		return
	}
	p, err := s.engine.GetPost(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	comments, err := s.engine.CommentsFor(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	s.page(w, r, http.StatusOK, pagePermalink, view{Post: p, Comments: comments})
}

func (s *Server) handleNewPostForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, pageNewPost, view{})
}

func (s *Server) handleNewPost(w http.ResponseWriter, r *http.Request) {
	subject := r.PostFormValue("subject")
	content := r.PostFormValue("content")

	p, err := s.engine.CreatePost(r.Context(), currentUser(r), subject, content)
	if errors.Is(err, goBlog.ErrValidation) {
		s.page(w, r, http.StatusOK, pageNewPost, view{
			Subject: subject,
			Content: content,
			Error:   goBlog.MsgMissingPost,
		})
		return
	}
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	http.Redirect(w, r, postURL(p.ID), http.StatusFound)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.notFound(w, r)
		return
	}
	p, err := s.engine.CheckPost(r.Context(), currentUser(r), permission.EditPost, id)
	if err != nil {
		s.fail(w, r, err, msgEditPostForbidden)
		return
	}
	s.page(w, r, http.StatusOK, pageNewPost, view{Subject: p.Subject, Content: p.Content, Edit: true})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.notFound(w, r)
		return
	}
	_, err := s.engine.UpdatePost(r.Context(), currentUser(r), id, r.PostFormValue("subject"), r.PostFormValue("content"))
	if err != nil {
		s.fail(w, r, err, msgEditPostForbidden)
		return
	}
	http.Redirect(w, r, postURL(id), http.StatusFound)
}

func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.notFound(w, r)
		return
	}
	p, err := s.engine.CheckPost(r.Context(), currentUser(r), permission.DeletePost, id)
	if err != nil {
		s.fail(w, r, err, msgDeletePostForbidden)
		return
	}
	s.page(w, r, http.StatusOK, pageDelete, view{PostID: p.ID, Subject: p.Subject})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.notFound(w, r)
		return
	}
	p, err := s.engine.DeletePost(r.Context(), currentUser(r), id)
	if err != nil {
		s.fail(w, r, err, msgDeletePostForbidden)
		return
	}
	s.page(w, r, http.StatusOK, pageSuccessfulDelete, view{Subject: p.Subject})
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.notFound(w, r)
		return
	}
	if _, err := s.engine.LikePost(r.Context(), currentUser(r), id); err != nil {
		s.fail(w, r, err, msgLikeForbidden)
		return
	}
	http.Redirect(w, r, postURL(id), http.StatusFound)
}
