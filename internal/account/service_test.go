package account

import (
	"context"
	"sync"
	"testing"

	"edstudy/internal/logger"
	"edstudy/internal/model/user"
	"edstudy/internal/session"
	"edstudy/internal/store"
	"edstudy/internal/testutils"
	"edstudy/packages/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*AccountService, *UserRepository, *session.Resolver) {
	t.Helper()
	s := testutils.NewStores(t)
	users := store.NewCollection[user.User](s.Durable, s.Locker, s.Keys.Users(), logger.Discard())
	repo := NewUserRepository(users)
	resolver := session.NewResolver(s.Ephemeral, s.Locker, s.Keys, logger.Discard())
	return NewAccountService(repo, resolver, nil, logger.Discard()), repo, resolver
}

func TestAccountService_validateSignup(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name    string
		req     SignupRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "有效的注册请求",
			req:  SignupRequest{Name: "홍길동", Email: "hong@example.com", Phone: "010-1111-2222", Password: "pass1234"},
		},
		{
			name: "google 注册不需要密码",
			req:  SignupRequest{Name: "홍길동", Email: "hong@example.com", Provider: "google"},
		},
		{
			name:    "姓名为空",
			req:     SignupRequest{Email: "hong@example.com", Phone: "010", Password: "pass1234"},
			wantErr: true,
			errMsg:  "이름을 입력해주세요",
		},
		{
			name:    "邮箱格式不正确",
			req:     SignupRequest{Name: "a", Email: "hong", Phone: "010", Password: "pass1234"},
			wantErr: true,
			errMsg:  "이메일 형식이 올바르지 않습니다",
		},
		{
			name:    "密码为空",
			req:     SignupRequest{Name: "a", Email: "hong@example.com", Phone: "010"},
			wantErr: true,
			errMsg:  "비밀번호를 입력해주세요",
		},
		{
			name:    "未知的注册来源",
			req:     SignupRequest{Name: "a", Email: "hong@example.com", Provider: "kakao"},
			wantErr: true,
			errMsg:  "지원하지 않는 가입 경로입니다",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.validateSignup(tt.req)
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, tt.errMsg, err.Msg)
				assert.Equal(t, response.InvalidParameter, err.Code)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestAccountService_SignupAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo, resolver := newTestService(t)

	sess, bizErr := svc.Signup(ctx, SignupRequest{Name: "홍길동", Email: "hong@example.com", Phone: "010-1111-2222", Password: "pass1234"})
	require.Nil(t, bizErr)
	assert.True(t, resolver.IsAuthenticated(ctx, sess.Token))
	assert.Equal(t, user.LevelSilver, sess.Level)

	stored, err := repo.FindByEmail(ctx, "HONG@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pass1234", stored.PasswordHash)

	_, bizErr = svc.Signup(ctx, SignupRequest{Name: "other", Email: "hong@example.com", Phone: "010", Password: "pass1234"})
	require.NotNil(t, bizErr)
	assert.Equal(t, response.Conflict, bizErr.Code)

	login, bizErr := svc.Login(ctx, LoginRequest{Email: "hong@example.com", Password: "pass1234"})
	require.Nil(t, bizErr)
	assert.NotEqual(t, sess.Token, login.Token)

	_, bizErr = svc.Login(ctx, LoginRequest{Email: "hong@example.com", Password: "wrong"})
	require.NotNil(t, bizErr)
	assert.Equal(t, response.Unauthorized, bizErr.Code)

	require.Nil(t, svc.Logout(ctx, login.Token))
	assert.False(t, resolver.IsAuthenticated(ctx, login.Token))
}

func TestAccountService_GoogleSignupReusesAccount(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	req := SignupRequest{Name: "구글", Email: "g@example.com", Provider: "google"}
	_, bizErr := svc.Signup(ctx, req)
	require.Nil(t, bizErr)
	_, bizErr = svc.Signup(ctx, req)
	require.Nil(t, bizErr)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, bizErr = svc.Login(ctx, LoginRequest{Email: "g@example.com", Password: "anything"})
	assert.NotNil(t, bizErr)
}

func TestAccountService_ConcurrentSignupSameEmail(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Signup(ctx, SignupRequest{Name: "a", Email: "race@example.com", Phone: "010", Password: "pass1234"}); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	list, _ := repo.List(ctx)
	assert.Len(t, list, 1)
}

func TestUserRepository_DeleteExactID(t *testing.T) {
	ctx := context.Background()
	s := testutils.NewStores(t)
	a := testutils.CreateTestUser(t, s)
	b := testutils.CreateTestUser(t, s)
	c := testutils.CreateTestUser(t, s)

	repo := NewUserRepository(store.NewCollection[user.User](s.Durable, s.Locker, s.Keys.Users(), logger.Discard()))
	removed, err := repo.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, removed.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, c.ID, list[1].ID)

	_, err = repo.Delete(ctx, b.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
