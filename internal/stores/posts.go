package stores

import (
	"context"
	"sort"
	"strconv"
	"time"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/redis/go-redis/v9"
)

const (
	fieldSubject     = "subject"
	fieldContent     = "content"
	fieldCreator     = "creator"
	fieldCreated     = "created"
	fieldModified    = "modified"
	fieldLikes       = "likes"
	fieldPost        = "post"
	fieldCreatorName = "creator_name"
	fieldText        = "text"
)

func (s *Store) CreatePost(ctx context.Context, input goBlog.NewPostInput) (*goBlog.Post, error) {
	id, err := s.nextID(ctx, "post")
	if err != nil {
		return nil, err
	}
	created := input.CreatedAt.UTC()
	p := &goBlog.Post{
		ID:           id,
		Subject:      input.Subject,
		Content:      input.Content,
		Creator:      input.Creator,
		CreatedAt:    created,
		LastModified: created,
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.postKey(id), map[string]interface{}{
			fieldSubject:  p.Subject,
			fieldContent:  p.Content,
			fieldCreator:  p.Creator,
			fieldCreated:  created.UnixNano(),
			fieldModified: created.UnixNano(),
			fieldLikes:    0,
		})
		pipe.ZAdd(ctx, s.postsKey(), redis.Z{Score: float64(created.UnixMicro()), Member: id})
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return p, nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (*goBlog.Post, error) {
	fields, err := s.redis.HGetAll(ctx, s.postKey(id)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(fields) == 0 {
		return nil, goBlog.ErrNotFound
	}
	return decodePost(id, fields)
}

// ListPosts returns posts newest first. Equal creation times fall back to
// descending id.
func (s *Store) ListPosts(ctx context.Context) ([]*goBlog.Post, error) {
	members, err := s.redis.ZRevRange(ctx, s.postsKey(), 0, -1).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(members) == 0 {
		return []*goBlog.Post{}, nil
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
			cmds = append(cmds, pipe.HGetAll(ctx, s.postKey(id)))
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}

	posts := make([]*goBlog.Post, 0, len(cmds))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Deleted between ZREVRANGE and HGETALL.
			continue
		}
		p, err := decodePost(ids[i], fields)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

func (s *Store) UpdatePost(ctx context.Context, id int64, subject, content string, modified time.Time) (*goBlog.Post, error) {
	ok, err := hsetIfExistsScript.Run(ctx, s.redis, []string{s.postKey(id)},
		fieldSubject, subject,
		fieldContent, content,
		fieldModified, modified.UTC().UnixNano(),
	).Int()
	if err != nil {
		return nil, unavailable(err)
	}
	if ok == 0 {
		return nil, goBlog.ErrNotFound
	}
	return s.GetPost(ctx, id)
}

// IncrementLikes adds one like atomically; concurrent likes are never lost.
func (s *Store) IncrementLikes(ctx context.Context, id int64, modified time.Time) (*goBlog.Post, error) {
	likes, err := incrementLikesScript.Run(ctx, s.redis, []string{s.postKey(id)}, modified.UTC().UnixNano()).Int64()
	if err != nil {
		return nil, unavailable(err)
	}
	if likes < 0 {
		return nil, goBlog.ErrNotFound
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes the post, its listing entry and its comment index. The
// comment records themselves are left in place.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	var del *redis.IntCmd
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.postKey(id))
		pipe.ZRem(ctx, s.postsKey(), id)
		pipe.Del(ctx, s.postCommentsKey(id))
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	if del.Val() == 0 {
		return goBlog.ErrNotFound
	}
	return nil
}

func decodePost(id int64, f map[string]string) (*goBlog.Post, error) {
	creator, err := parseInt(f, fieldCreator)
	if err != nil {
		return nil, err
	}
	created, err := parseInt(f, fieldCreated)
	if err != nil {
		return nil, err
	}
	modified, err := parseInt(f, fieldModified)
	if err != nil {
		return nil, err
	}
	likes, err := parseInt(f, fieldLikes)
	if err != nil {
		return nil, err
	}
	return &goBlog.Post{
		ID:           id,
		Subject:      f[fieldSubject],
		Content:      f[fieldContent],
		Creator:      creator,
		CreatedAt:    time.Unix(0, created).UTC(),
		LastModified: time.Unix(0, modified).UTC(),
		Likes:        likes,
	}, nil
}

func parseInt(f map[string]string, field string) (int64, error) {
	v, err := strconv.ParseInt(f[field], 10, 64)
	if err != nil {
		return 0, unavailable(err)
	}
	return v, nil
}
