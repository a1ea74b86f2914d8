package sqlstore

import (
	"context"
	"time"

	goBlog "github.com/MrEthical07/goBlog"
	"gorm.io/gorm"
)

func (s *Store) CreatePost(ctx context.Context, input goBlog.NewPostInput) (*goBlog.Post, error) {
	created := input.CreatedAt.UTC()
	m := PostModel{
		Subject:      input.Subject,
		Content:      input.Content,
		Creator:      input.Creator,
		CreatedAt:    created,
		LastModified: created,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return m.mapToEntity(), nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (*goBlog.Post, error) {
	var m PostModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return m.mapToEntity(), nil
}

func (s *Store) ListPosts(ctx context.Context) ([]*goBlog.Post, error) {
	var models []PostModel
	if err := s.db.WithContext(ctx).Order("created_at desc, id desc").Find(&models).Error; err != nil {
		return nil, mapErr(err)
	}
	posts := make([]*goBlog.Post, len(models))
	for i := range models {
		posts[i] = models[i].mapToEntity()
	}
	return posts, nil
}

func (s *Store) UpdatePost(ctx context.Context, id int64, subject, content string, modified time.Time) (*goBlog.Post, error) {
	res := s.db.WithContext(ctx).Model(&PostModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"subject":       subject,
		"content":       content,
		"last_modified": modified.UTC(),
	})
	if err := rowsOrNotFound(res); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, id)
}

// IncrementLikes adds one like in a single UPDATE so concurrent likes are
// never lost.
func (s *Store) IncrementLikes(ctx context.Context, id int64, modified time.Time) (*goBlog.Post, error) {
	res := s.db.WithContext(ctx).Model(&PostModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"likes":         gorm.Expr("likes + ?", 1),
		"last_modified": modified.UTC(),
	})
	if err := rowsOrNotFound(res); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes only the post row; comments keep their post_id.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	return rowsOrNotFound(s.db.WithContext(ctx).Delete(&PostModel{}, id))
}

func (s *Store) CreateComment(ctx context.Context, input goBlog.NewCommentInput) (*goBlog.Comment, error) {
	m := CommentModel{
		PostID:      input.PostID,
		Creator:     input.Creator,
		CreatorName: input.CreatorName,
		Text:        input.Text,
		CreatedAt:   input.CreatedAt.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return m.mapToEntity(), nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (*goBlog.Comment, error) {
	var m CommentModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return m.mapToEntity(), nil
}

func (s *Store) CommentsFor(ctx context.Context, postID int64) ([]*goBlog.Comment, error) {
	var models []CommentModel
	if err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("id asc").Find(&models).Error; err != nil {
		return nil, mapErr(err)
	}
	comments := make([]*goBlog.Comment, len(models))
	for i := range models {
		comments[i] = models[i].mapToEntity()
	}
	return comments, nil
}

func (s *Store) UpdateComment(ctx context.Context, id int64, text string) (*goBlog.Comment, error) {
	res := s.db.WithContext(ctx).Model(&CommentModel{}).Where("id = ?", id).Update("text", text)
	if err := rowsOrNotFound(res); err != nil {
		return nil, err
	}
	return s.GetComment(ctx, id)
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	return rowsOrNotFound(s.db.WithContext(ctx).Delete(&CommentModel{}, id))
}

func rowsOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return goBlog.ErrNotFound
	}
	return nil
}
