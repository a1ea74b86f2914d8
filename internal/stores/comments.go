package stores

import (
	"context"
	"strconv"
	"time"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/redis/go-redis/v9"
)

func (s *Store) CreateComment(ctx context.Context, input goBlog.NewCommentInput) (*goBlog.Comment, error) {
	id, err := s.nextID(ctx, "comment")
	if err != nil {
		return nil, err
	}
	c := &goBlog.Comment{
		ID:          id,
		PostID:      input.PostID,
		Creator:     input.Creator,
		CreatorName: input.CreatorName,
		Text:        input.Text,
		CreatedAt:   input.CreatedAt.UTC(),
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.commentKey(id), map[string]interface{}{
			fieldPost:        c.PostID,
			fieldCreator:     c.Creator,
			fieldCreatorName: c.CreatorName,
			fieldText:        c.Text,
			fieldCreated:     c.CreatedAt.UnixNano(),
		})
		pipe.RPush(ctx, s.postCommentsKey(c.PostID), id)
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return c, nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (*goBlog.Comment, error) {
	fields, err := s.redis.HGetAll(ctx, s.commentKey(id)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(fields) == 0 {
		return nil, goBlog.ErrNotFound
	}
	return decodeComment(id, fields)
}

// CommentsFor returns the post's comments oldest first. A post without
// comments, or one that no longer exists, yields an empty slice.
func (s *Store) CommentsFor(ctx context.Context, postID int64) ([]*goBlog.Comment, error) {
	members, err := s.redis.LRange(ctx, s.postCommentsKey(postID), 0, -1).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(members) == 0 {
		return []*goBlog.Comment{}, nil
	}

	ids := make([]int64, 0, len(members))
	cmds := make([]*redis.MapStringStringCmd, 0, len(members))
	_, err = s.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range members {
			id, err := strconv.ParseInt(m, 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, id)
			cmds = append(cmds, pipe.HGetAll(ctx, s.commentKey(id)))
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}

	comments := make([]*goBlog.Comment, 0, len(cmds))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		c, err := decodeComment(ids[i], fields)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

func (s *Store) UpdateComment(ctx context.Context, id int64, text string) (*goBlog.Comment, error) {
	ok, err := hsetIfExistsScript.Run(ctx, s.redis, []string{s.commentKey(id)}, fieldText, text).Int()
	if err != nil {
		return nil, unavailable(err)
	}
	if ok == 0 {
		return nil, goBlog.ErrNotFound
	}
	return s.GetComment(ctx, id)
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	raw, err := s.redis.HGet(ctx, s.commentKey(id), fieldPost).Result()
	if err != nil {
		return mapErr(err)
	}
	postID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return unavailable(err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.commentKey(id))
		pipe.LRem(ctx, s.postCommentsKey(postID), 0, id)
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func decodeComment(id int64, f map[string]string) (*goBlog.Comment, error) {
	postID, err := parseInt(f, fieldPost)
	if err != nil {
		return nil, err
	}
	creator, err := parseInt(f, fieldCreator)
	if err != nil {
		return nil, err
	}
	created, err := parseInt(f, fieldCreated)
	if err != nil {
		return nil, err
	}
	return &goBlog.Comment{
		ID:          id,
		PostID:      postID,
		Creator:     creator,
		CreatorName: f[fieldCreatorName],
		Text:        f[fieldText],
		CreatedAt:   time.Unix(0, created).UTC(),
	}, nil
}
