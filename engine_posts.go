package goBlog

import (
	"context"

	"github.com/MrEthical07/goBlog/permission"
)

// CreatePost stores a new post owned by requester. Subject and content must
// be non-blank.
func (e *Engine) CreatePost(ctx context.Context, requester *User, subject, content string) (*Post, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := e.authorize(ctx, permission.CreatePost, requester, 0, resourcePost, 0); err != nil {
		return nil, err
	}
	if verr := validatePostFields(subject, content); verr != nil {
		return nil, verr
	}

	p, err := e.content.CreatePost(ctx, NewPostInput{
		Subject:   subject,
		Content:   content,
		Creator:   requester.ID,
		CreatedAt: e.now(),
	})
	if err != nil {
		return nil, e.backendErr(err)
	}

	e.metricInc(MetricPostCreated)
	e.emitAudit(ctx, auditEventPostCreated, true, requester.ID, resourcePost, p.ID, nil, nil)
	return p, nil
}

func (e *Engine) GetPost(ctx context.Context, id int64) (*Post, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	p, err := e.content.GetPost(ctx, id)
	if err != nil {
		return nil, e.backendErr(err)
	}
	return p, nil
}

// ListPosts returns every post, newest first.
func (e *Engine) ListPosts(ctx context.Context) ([]*Post, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	posts, err := e.content.ListPosts(ctx)
	if err != nil {
		return nil, e.backendErr(err)
	}
	return posts, nil
}

// CheckPost loads post id and runs the guard for action without changing
// anything. Handlers use it to gate edit and delete forms.
func (e *Engine) CheckPost(ctx context.Context, requester *User, action permission.Action, id int64) (*Post, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if action.Mutates() {
		if err := e.requireUser(ctx, action, requester, resourcePost, id); err != nil {
			return nil, err
		}
	}
	p, err := e.content.GetPost(ctx, id)
	if err != nil {
		return nil, e.backendErr(err)
	}
	if err := e.authorize(ctx, action, requester, p.Creator, resourcePost, p.ID); err != nil {
		return p, err
	}
	return p, nil
}

// UpdatePost overwrites subject and content. Edits are not checked for
// blank fields.
func (e *Engine) UpdatePost(ctx context.Context, requester *User, id int64, subject, content string) (*Post, error) {
	if _, err := e.CheckPost(ctx, requester, permission.EditPost, id); err != nil {
		return nil, err
	}
	p, err := e.content.UpdatePost(ctx, id, subject, content, e.now())
	if err != nil {
		return nil, e.backendErr(err)
	}

	e.metricInc(MetricPostUpdated)
	e.emitAudit(ctx, auditEventPostUpdated, true, requester.ID, resourcePost, id, nil, nil)
	return p, nil
}

// DeletePost removes the post and returns it as it was before deletion.
// What happens to its comments is decided by the cascade policy.
func (e *Engine) DeletePost(ctx context.Context, requester *User, id int64) (*Post, error) {
	p, err := e.CheckPost(ctx, requester, permission.DeletePost, id)
	if err != nil {
		return nil, err
	}

	var comments []*Comment
	if e.config.Content.Cascade != CascadeNone {
		if comments, err = e.content.CommentsFor(ctx, id); err != nil {
			return nil, e.backendErr(err)
		}
	}

	if err := e.content.DeletePost(ctx, id); err != nil {
		return nil, e.backendErr(err)
	}
	e.applyCascade(ctx, id, comments)

	e.metricInc(MetricPostDeleted)
	e.emitAudit(ctx, auditEventPostDeleted, true, requester.ID, resourcePost, id, nil, func() map[string]string {
		return map[string]string{"cascade": e.config.Content.Cascade.String()}
	})
	return p, nil
}

// LikePost adds one like. Owners cannot like their own posts; anyone else
// may like as often as they want.
func (e *Engine) LikePost(ctx context.Context, requester *User, id int64) (*Post, error) {
	if _, err := e.CheckPost(ctx, requester, permission.LikePost, id); err != nil {
		return nil, err
	}
	p, err := e.content.IncrementLikes(ctx, id, e.now())
	if err != nil {
		return nil, e.backendErr(err)
	}

	e.metricInc(MetricPostLiked)
	e.emitAudit(ctx, auditEventPostLiked, true, requester.ID, resourcePost, id, nil, nil)
	return p, nil
}

// backendErr normalizes a store error and counts it.
func (e *Engine) backendErr(err error) error {
	err = storeErr(err)
	if isNotFound(err) {
		e.metricInc(MetricNotFound)
	} else {
		e.metricInc(MetricBackendError)
	}
	return err
}
