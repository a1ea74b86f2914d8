package goBlog

import (
	"context"
	"time"

	internalaudit "github.com/MrEthical07/goBlog/internal/audit"
)

// User is a registered account. ID is assigned by the UserStore and never
// changes; Username is stored case-folded.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}

// Post is an owned blog entry. Creator and CreatedAt are set once.
type Post struct {
	ID           int64
	Subject      string
	Content      string
	Creator      int64
	CreatedAt    time.Time
	LastModified time.Time
	Likes        int64
}

// Comment belongs to a post by id. CreatorName is copied from the author at
// creation time and is not kept in sync afterwards.
type Comment struct {
	ID          int64
	PostID      int64
	Creator     int64
	CreatorName string
	Text        string
	CreatedAt   time.Time
}

// CreateUserInput is passed to UserStore.CreateUser. PasswordHash is already
// salted and hashed; the plaintext never reaches a store.
type CreateUserInput struct {
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}

// NewPostInput is passed to ContentStore.CreatePost.
type NewPostInput struct {
	Subject   string
	Content   string
	Creator   int64
	CreatedAt time.Time
}

// NewCommentInput is passed to ContentStore.CreateComment.
type NewCommentInput struct {
	PostID      int64
	Creator     int64
	CreatorName string
	Text        string
	CreatedAt   time.Time
}

// UserStore persists credentials. Implementations return ErrNotFound for
// missing users and ErrDuplicateUsername when the username is taken.
type UserStore interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// ContentStore persists posts and comments. Implementations return
// ErrNotFound for missing records and never enforce ownership; that is the
// Engine's job.
type ContentStore interface {
	CreatePost(ctx context.Context, input NewPostInput) (*Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	ListPosts(ctx context.Context) ([]*Post, error)
	UpdatePost(ctx context.Context, id int64, subject, content string, modified time.Time) (*Post, error)
	IncrementLikes(ctx context.Context, id int64, modified time.Time) (*Post, error)
	DeletePost(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, input NewCommentInput) (*Comment, error)
	GetComment(ctx context.Context, id int64) (*Comment, error)
	CommentsFor(ctx context.Context, postID int64) ([]*Comment, error)
	UpdateComment(ctx context.Context, id int64, text string) (*Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives AuditEvent values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an AuditSink that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based AuditSink.
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// SlogSink logs audit events through a *slog.Logger.
type SlogSink = internalaudit.SlogSink

// NATSSink publishes audit events as JSON on a NATS subject.
type NATSSink = internalaudit.NATSSink

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}
