package sqlstore

import (
	"time"

	goBlog "github.com/MrEthical07/goBlog"
)

type UserModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"uniqueIndex;size:20;not null"`
	PasswordHash string    `gorm:"not null"`
	Email        string    `gorm:"size:254"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type PostModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Subject      string    `gorm:"not null"`
	Content      string    `gorm:"type:text;not null"`
	Creator      int64     `gorm:"index;not null"`
	CreatedAt    time.Time `gorm:"index;not null"`
	LastModified time.Time `gorm:"column:last_modified;not null"`
	Likes        int64     `gorm:"not null;default:0"`
}

func (PostModel) TableName() string {
	return "posts"
}

// CommentModel has no foreign key on post_id: comments outlive their post
// unless the engine cascades.
type CommentModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	PostID      int64     `gorm:"index;not null"`
	Creator     int64     `gorm:"not null"`
	CreatorName string    `gorm:"not null"`
	Text        string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (CommentModel) TableName() string {
	return "comments"
}

func (m *UserModel) mapToEntity() *goBlog.User {
	return &goBlog.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Email:        m.Email,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func (m *PostModel) mapToEntity() *goBlog.Post {
	return &goBlog.Post{
		ID:           m.ID,
		Subject:      m.Subject,
		Content:      m.Content,
		Creator:      m.Creator,
		CreatedAt:    m.CreatedAt.UTC(),
		LastModified: m.LastModified.UTC(),
		Likes:        m.Likes,
	}
}

func (m *CommentModel) mapToEntity() *goBlog.Comment {
	return &goBlog.Comment{
		ID:          m.ID,
		PostID:      m.PostID,
		Creator:     m.Creator,
		CreatorName: m.CreatorName,
		Text:        m.Text,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}
