package testutils

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"edstudy/internal/database"
	"edstudy/internal/logger"
	"edstudy/internal/model/user"
	"edstudy/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var userSeq atomic.Int64

// DefaultPassword 测试用户的明文密码
const DefaultPassword = "password1"

// NewTestUser builds a user with a unique email and the default password.
func NewTestUser(opts ...UserOption) user.User {
	id := time.Now().UnixMilli() + userSeq.Add(1)
	hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)

	u := user.User{
		ID:           id,
		Name:         "테스트",
		Email:        fmt.Sprintf("test_%s@example.com", uuid.NewString()[:8]),
		Phone:        "010-1234-5678",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Level:        user.LevelSilver,
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

// CreateTestUser stores a new user in the users collection.
func CreateTestUser(t *testing.T, s *database.Stores, opts ...UserOption) user.User {
	t.Helper()

	u := NewTestUser(opts...)
	users := store.NewCollection[user.User](s.Durable, s.Locker, s.Keys.Users(), logger.Discard())
	err := users.Update(context.Background(), func(list []user.User) ([]user.User, error) {
		return append(list, u), nil
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// UserOption configures test user
type UserOption func(*user.User)

func WithName(name string) UserOption {
	return func(u *user.User) { u.Name = name }
}

func WithEmail(email string) UserOption {
	return func(u *user.User) { u.Email = email }
}

func WithPhone(phone string) UserOption {
	return func(u *user.User) { u.Phone = phone }
}

func WithLevel(level user.Level) UserOption {
	return func(u *user.User) { u.Level = level }
}

func WithProvider(provider string) UserOption {
	return func(u *user.User) {
		u.Provider = provider
		u.PasswordHash = ""
	}
}

func WithCreatedAt(ts time.Time) UserOption {
	return func(u *user.User) { u.CreatedAt = ts.UTC().Format(time.RFC3339) }
}
