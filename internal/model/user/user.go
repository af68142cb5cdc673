package user

import (
	"errors"
	"fmt"
	"regexp"
)

type Level string

const (
	LevelDiamond Level = "Diamond"
	LevelGold    Level = "Gold"
	LevelSilver  Level = "Silver"
)

// Levels 管理后台展示顺序
var Levels = []Level{LevelDiamond, LevelGold, LevelSilver}

func (l Level) Valid() bool {
	switch l {
	case LevelDiamond, LevelGold, LevelSilver:
		return true
	}
	return false
}

const ProviderGoogle = "google"

var EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User 会员
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"passwordHash,omitempty"`
	CreatedAt    string `json:"createdAt"`
	Provider     string `json:"provider,omitempty"`
	Level        Level  `json:"level,omitempty"`
}

func (u User) Validate() error {
	if u.ID <= 0 {
		return errors.New("user id must be positive")
	}
	if u.Name == "" {
		return errors.New("user name is empty")
	}
	if !EmailRegex.MatchString(u.Email) {
		return fmt.Errorf("user email %q is malformed", u.Email)
	}
	if u.Level != "" && !u.Level.Valid() {
		return fmt.Errorf("user level %q is unknown", u.Level)
	}
	return nil
}

// EffectiveLevel 未设置等级的旧记录按 Silver 处理
func (u User) EffectiveLevel() Level {
	if u.Level == "" {
		return LevelSilver
	}
	return u.Level
}

// Public 对外返回的用户信息，不含密码
type Public struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt"`
	Provider  string `json:"provider,omitempty"`
	Level     Level  `json:"level"`
}

func (u User) Public() Public {
	return Public{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		Provider:  u.Provider,
		Level:     u.EffectiveLevel(),
	}
}
