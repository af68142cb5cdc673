package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"edstudy/internal/model/user"
	"edstudy/internal/pkg"
	"edstudy/internal/store"

	"github.com/sirupsen/logrus"
)

var ErrNoSession = errors.New("session not found")

// Session 登录会话快照，不含密码
type Session struct {
	Token string `json:"token"`
	user.Public
}

// Resolver 会话读写，数据放在临时存储
//
// 每个邮箱另存一份 token 索引，删除会员时据此注销其全部会话。
type Resolver struct {
	backend store.Backend
	locker  store.Locker
	keys    store.Keys
	log     *logrus.Entry

	mu        sync.RWMutex
	listeners []func(token string)
}

func NewResolver(backend store.Backend, locker store.Locker, keys store.Keys, log *logrus.Entry) *Resolver {
	return &Resolver{backend: backend, locker: locker, keys: keys, log: log}
}

// OnDestroy 注册会话结束回调，登出与会员删除都会触发
func (r *Resolver) OnDestroy(fn func(token string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Resolver) notify(tokens ...string) {
	r.mu.RLock()
	listeners := slices.Clone(r.listeners)
	r.mu.RUnlock()

	for _, token := range tokens {
		for _, fn := range listeners {
			fn(token)
		}
	}
}

// Create 登录/注册成功后写入会话
func (r *Resolver) Create(ctx context.Context, u user.User) (*Session, error) {
	token, err := pkg.GenerateRandomToken()
	if err != nil {
		return nil, err
	}

	s := &Session{Token: token, Public: u.Public()}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := r.backend.Put(ctx, r.keys.Session(token), raw); err != nil {
		return nil, err
	}

	// 顺便清掉已过期的 token，索引不会无限增长
	err = r.updateIndex(ctx, u.Email, func(tokens []string) []string {
		live := tokens[:0]
		for _, t := range tokens {
			if _, err := r.backend.Get(ctx, r.keys.Session(t)); err == nil {
				live = append(live, t)
			}
		}
		return append(live, token)
	})
	if err != nil {
		_ = r.backend.Delete(ctx, r.keys.Session(token))
		return nil, err
	}

	r.log.WithField("email", u.Email).Info("session created")
	return s, nil
}

// Get 读取会话，不存在或内容损坏都返回 ErrNoSession
func (r *Resolver) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	raw, err := r.backend.Get(ctx, r.keys.Session(token))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil || s.Email == "" {
		r.log.WithError(err).Warn("dropping malformed session record")
		_ = r.backend.Delete(ctx, r.keys.Session(token))
		r.notify(token)
		return nil, ErrNoSession
	}
	s.Token = token
	return &s, nil
}

// IsAuthenticated 会话记录存在即视为已登录
func (r *Resolver) IsAuthenticated(ctx context.Context, token string) bool {
	s, err := r.Get(ctx, token)
	return err == nil && s != nil
}

// Destroy 登出
func (r *Resolver) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	s, err := r.Get(ctx, token)
	if err != nil && !errors.Is(err, ErrNoSession) {
		return err
	}
	if err := r.backend.Delete(ctx, r.keys.Session(token)); err != nil {
		return err
	}
	if s != nil {
		err := r.updateIndex(ctx, s.Email, func(tokens []string) []string {
			return slices.DeleteFunc(tokens, func(t string) bool { return t == token })
		})
		if err != nil {
			r.log.WithError(err).Warn("failed to update session index")
		}
	}
	r.notify(token)
	return nil
}

// DestroyUser 注销某个邮箱下的全部会话，返回被注销的 token
func (r *Resolver) DestroyUser(ctx context.Context, email string) ([]string, error) {
	var removed []string
	err := r.updateIndex(ctx, email, func(tokens []string) []string {
		for _, t := range tokens {
			if err := r.backend.Delete(ctx, r.keys.Session(t)); err == nil {
				removed = append(removed, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.notify(removed...)
	if len(removed) > 0 {
		r.log.WithFields(logrus.Fields{"email": email, "sessions": len(removed)}).Info("sessions revoked")
	}
	return removed, nil
}

// updateIndex 在锁内读-改-写邮箱的 token 索引，结果为空时删除索引
func (r *Resolver) updateIndex(ctx context.Context, email string, fn func([]string) []string) error {
	key := r.keys.SessionIndex(strings.ToLower(email))
	unlock, err := r.locker.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	var tokens []string
	raw, err := r.backend.Get(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return err
	default:
		if err := json.Unmarshal(raw, &tokens); err != nil {
			r.log.WithError(err).Warn("resetting malformed session index")
			tokens = nil
		}
	}

	tokens = fn(tokens)
	if len(tokens) == 0 {
		return r.backend.Delete(ctx, key)
	}
	raw, err = json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("encode session index: %w", err)
	}
	return r.backend.Put(ctx, key, raw)
}
