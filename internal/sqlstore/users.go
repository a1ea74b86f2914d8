package sqlstore

import (
	"context"
	"strings"

	goBlog "github.com/MrEthical07/goBlog"
)

func (s *Store) CreateUser(ctx context.Context, input goBlog.CreateUserInput) (*goBlog.User, error) {
	m := UserModel{
		Username:     strings.ToLower(input.Username),
		PasswordHash: input.PasswordHash,
		Email:        input.Email,
		CreatedAt:    input.CreatedAt.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return m.mapToEntity(), nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*goBlog.User, error) {
	var m UserModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return m.mapToEntity(), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*goBlog.User, error) {
	var m UserModel
	if err := s.db.WithContext(ctx).Where("username = ?", strings.ToLower(username)).First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return m.mapToEntity(), nil
}
