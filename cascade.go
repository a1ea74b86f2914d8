package goBlog

import (
	"context"
	"log/slog"
)

// CascadePolicy decides what happens to a post's comments when the post is
// deleted.
type CascadePolicy uint8

const (
	// CascadeNone leaves comments in storage. They stay reachable by id but
	// no longer appear under any post.
	CascadeNone CascadePolicy = iota
	// CascadeComments deletes the post's comments after the post itself.
	CascadeComments
)

func (p CascadePolicy) valid() bool {
	return p == CascadeNone || p == CascadeComments
}

func (p CascadePolicy) String() string {
	switch p {
	case CascadeNone:
		return "none"
	case CascadeComments:
		return "comments"
	default:
		return "unknown"
	}
}

// ParseCascadePolicy accepts "none", "comments" and the empty string.
func ParseCascadePolicy(s string) (CascadePolicy, bool) {
	switch s {
	case "", "none":
		return CascadeNone, true
	case "comments":
		return CascadeComments, true
	default:
		return CascadeNone, false
	}
}

// applyCascade runs after the post record is gone. comments is the list
// captured before deletion. Failures are logged and counted, never
// returned: the post delete has already succeeded.
func (e *Engine) applyCascade(ctx context.Context, postID int64, comments []*Comment) {
	if e.config.Content.Cascade != CascadeComments {
		return
	}
	for _, c := range comments {
		if err := e.content.DeleteComment(ctx, c.ID); err != nil && !isNotFound(err) {
			e.metricInc(MetricBackendError)
			e.logger.LogAttrs(ctx, slog.LevelWarn, "cascade comment delete failed",
				slog.Int64("post_id", postID),
				slog.Int64("comment_id", c.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		e.metricInc(MetricCascadeDeleted)
	}
}
