package account

import (
	"context"
	"errors"
	"strings"

	"edstudy/internal/model/user"
	"edstudy/internal/store"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository 会员列表存储
type UserRepository struct {
	users *store.Collection[user.User]
}

func NewUserRepository(users *store.Collection[user.User]) *UserRepository {
	return &UserRepository{users: users}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	return r.users.Load(ctx)
}

// FindByEmail 邮箱不区分大小写
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	list, err := r.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Email, email) {
			return &list[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// Create 邮箱唯一性在锁内检查
func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	return r.users.Update(ctx, func(list []user.User) ([]user.User, error) {
		for _, existing := range list {
			if strings.EqualFold(existing.Email, u.Email) {
				return nil, ErrEmailTaken
			}
		}
		return append(list, u), nil
	})
}

// Delete 只删除 id 完全匹配的一条
func (r *UserRepository) Delete(ctx context.Context, id int64) (user.User, error) {
	var removed user.User
	err := r.users.Update(ctx, func(list []user.User) ([]user.User, error) {
		for i, u := range list {
			if u.ID == id {
				removed = u
				return append(list[:i:i], list[i+1:]...), nil
			}
		}
		return nil, ErrUserNotFound
	})
	return removed, err
}

func (r *UserRepository) UpdateLevel(ctx context.Context, id int64, level user.Level) (user.User, error) {
	var updated user.User
	err := r.users.Update(ctx, func(list []user.User) ([]user.User, error) {
		for i := range list {
			if list[i].ID == id {
				list[i].Level = level
				updated = list[i]
				return list, nil
			}
		}
		return nil, ErrUserNotFound
	})
	return updated, err
}
