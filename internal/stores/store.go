package stores

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goBlog "github.com/MrEthical07/goBlog"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "blog"

// Store keeps users, posts and comments in redis.
//
// Key layout, with p the prefix:
//
//	p:seq:{user,post,comment}   INCR id sequences
//	p:user:<id>                 versioned binary user record
//	p:uname:<username>          user id, set with SETNX for uniqueness
//	p:post:<id>                 HASH subject content creator created modified likes
//	p:posts                     ZSET post ids scored by creation time
//	p:comment:<id>              HASH post creator creator_name text created
//	p:post:<id>:comments        LIST comment ids in insertion order
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

var (
	_ goBlog.UserStore    = (*Store)(nil)
	_ goBlog.ContentStore = (*Store)(nil)
)

func New(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) seqKey(kind string) string {
	return s.prefix + ":seq:" + kind
}

func (s *Store) userKey(id int64) string {
	return s.prefix + ":user:" + strconv.FormatInt(id, 10)
}

func (s *Store) usernameKey(username string) string {
	return s.prefix + ":uname:" + username
}

func (s *Store) postKey(id int64) string {
	return s.prefix + ":post:" + strconv.FormatInt(id, 10)
}

func (s *Store) postsKey() string {
	return s.prefix + ":posts"
}

func (s *Store) commentKey(id int64) string {
	return s.prefix + ":comment:" + strconv.FormatInt(id, 10)
}

func (s *Store) postCommentsKey(postID int64) string {
	return s.postKey(postID) + ":comments"
}

func (s *Store) nextID(ctx context.Context, kind string) (int64, error) {
	id, err := s.redis.Incr(ctx, s.seqKey(kind)).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	return id, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", goBlog.ErrStoreUnavailable, err)
}

// mapErr turns redis.Nil into goBlog.ErrNotFound and wraps anything else.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return goBlog.ErrNotFound
	case errors.Is(err, goBlog.ErrNotFound), errors.Is(err, goBlog.ErrDuplicateUsername):
		return err
	default:
		return unavailable(err)
	}
}
