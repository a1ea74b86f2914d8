package goBlog

import (
	"context"
	"strconv"

	"github.com/MrEthical07/goBlog/permission"
)

// CreateComment attaches a comment to post postID. The author's username is
// copied onto the comment.
func (e *Engine) CreateComment(ctx context.Context, requester *User, postID int64, text string) (*Comment, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := e.authorize(ctx, permission.CreateComment, requester, 0, resourceComment, 0); err != nil {
		return nil, err
	}
	if _, err := e.content.GetPost(ctx, postID); err != nil {
		return nil, e.backendErr(err)
	}
	if verr := validateCommentText(text); verr != nil {
		return nil, verr
	}

	c, err := e.content.CreateComment(ctx, NewCommentInput{
		PostID:      postID,
		Creator:     requester.ID,
		CreatorName: requester.Username,
		Text:        text,
		CreatedAt:   e.now(),
	})
	if err != nil {
		return nil, e.backendErr(err)
	}

	e.metricInc(MetricCommentCreated)
	e.emitAudit(ctx, auditEventCommentCreated, true, requester.ID, resourceComment, c.ID, nil, func() map[string]string {
		return map[string]string{"post_id": formatID(postID)}
	})
	return c, nil
}

// GetComment returns a comment by id, including comments whose post was
// deleted.
func (e *Engine) GetComment(ctx context.Context, id int64) (*Comment, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	c, err := e.content.GetComment(ctx, id)
	if err != nil {
		return nil, e.backendErr(err)
	}
	return c, nil
}

// CommentsFor lists a post's comments in the order they were written. It
// returns ErrNotFound when the post itself is gone.
func (e *Engine) CommentsFor(ctx context.Context, postID int64) ([]*Comment, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if _, err := e.content.GetPost(ctx, postID); err != nil {
		return nil, e.backendErr(err)
	}
	comments, err := e.content.CommentsFor(ctx, postID)
	if err != nil {
		return nil, e.backendErr(err)
	}
	return comments, nil
}

// CheckComment loads comment commentID under post postID and runs the guard
// for action. Both records must exist and the comment must belong to the
// post.
func (e *Engine) CheckComment(ctx context.Context, requester *User, action permission.Action, postID, commentID int64) (*Comment, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if action.Mutates() {
		if err := e.requireUser(ctx, action, requester, resourceComment, commentID); err != nil {
			return nil, err
		}
	}
	if _, err := e.content.GetPost(ctx, postID); err != nil {
		return nil, e.backendErr(err)
	}
	c, err := e.content.GetComment(ctx, commentID)
	if err != nil {
		return nil, e.backendErr(err)
	}
	if c.PostID != postID {
		e.metricInc(MetricNotFound)
		return nil, ErrNotFound
	}
	if err := e.authorize(ctx, action, requester, c.Creator, resourceComment, c.ID); err != nil {
		return c, err
	}
	return c, nil
}

// UpdateComment replaces the comment text. Like post edits, the new text is
// not checked for blankness.
func (e *Engine) UpdateComment(ctx context.Context, requester *User, postID, commentID int64, text string) (*Comment, error) {
	if _, err := e.CheckComment(ctx, requester, permission.EditComment, postID, commentID); err != nil {
		return nil, err
	}
	c, err := e.content.UpdateComment(ctx, commentID, text)
	if err != nil {
		return nil, e.backendErr(err)
	}

	e.metricInc(MetricCommentUpdated)
	e.emitAudit(ctx, auditEventCommentUpdated, true, requester.ID, resourceComment, commentID, nil, nil)
	return c, nil
}

func (e *Engine) DeleteComment(ctx context.Context, requester *User, postID, commentID int64) error {
	if _, err := e.CheckComment(ctx, requester, permission.DeleteComment, postID, commentID); err != nil {
		return err
	}
	if err := e.content.DeleteComment(ctx, commentID); err != nil {
		return e.backendErr(err)
	}

	e.metricInc(MetricCommentDeleted)
	e.emitAudit(ctx, auditEventCommentDeleted, true, requester.ID, resourceComment, commentID, nil, func() map[string]string {
		return map[string]string{"post_id": formatID(postID)}
	})
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
