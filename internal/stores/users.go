package stores

import (
	"context"
	"errors"
	"strconv"
	"strings"

	goBlog "github.com/MrEthical07/goBlog"
)

func (s *Store) CreateUser(ctx context.Context, input goBlog.CreateUserInput) (*goBlog.User, error) {
	username := strings.ToLower(input.Username)

	id, err := s.nextID(ctx, "user")
	if err != nil {
		return nil, err
	}
	u := &goBlog.User{
		ID:           id,
		Username:     username,
		PasswordHash: input.PasswordHash,
		Email:        input.Email,
		CreatedAt:    input.CreatedAt.UTC(),
	}
	encoded, err := encodeUserRecord(u)
	if err != nil {
		return nil, err
	}

	ok, err := createUserScript.Run(ctx, s.redis,
		[]string{s.usernameKey(username), s.userKey(id)},
		id, encoded,
	).Int()
	if err != nil {
		return nil, unavailable(err)
	}
	if ok == 0 {
		return nil, goBlog.ErrDuplicateUsername
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*goBlog.User, error) {
	data, err := s.redis.Get(ctx, s.userKey(id)).Bytes()
	if err != nil {
		return nil, mapErr(err)
	}
	return decodeUserRecord(data)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*goBlog.User, error) {
	raw, err := s.redis.Get(ctx, s.usernameKey(strings.ToLower(username))).Result()
	if err != nil {
		return nil, mapErr(err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New("username index corrupt")
	}
	return s.GetUserByID(ctx, id)
}
