package admin

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"slices"
	"strings"
	"time"

	"edstudy/internal/account"
	"edstudy/internal/model/user"
	"edstudy/internal/pkg"
	authsdk "edstudy/packages/auth-sdk"
	"edstudy/packages/response"

	"github.com/sirupsen/logrus"
)

// SessionRevoker 删除会员时吊销其全部登录会话
type SessionRevoker interface {
	DestroyUser(ctx context.Context, email string) ([]string, error)
}

type AdminService struct {
	users    *account.UserRepository
	sessions SessionRevoker
	creds    Credentials
	now      pkg.Clock
	loc      *time.Location
	log      *logrus.Entry
}

func NewAdminService(users *account.UserRepository, sessions SessionRevoker, creds Credentials, now pkg.Clock, log *logrus.Entry) *AdminService {
	if now == nil {
		now = time.Now
	}
	if creds.TokenTTL == 0 {
		creds.TokenTTL = 12
	}
	return &AdminService{users: users, sessions: sessions, creds: creds, now: now, loc: time.Local, log: log}
}

// Login 与配置的管理员账号比对后签发 JWT
func (s *AdminService) Login(req LoginRequest) (*LoginResponse, *response.BusinessError) {
	idOK := subtle.ConstantTimeCompare([]byte(req.ID), []byte(s.creds.ID)) == 1
	pwOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.creds.Password)) == 1
	if !idOK || !pwOK {
		s.log.WithField("id", req.ID).Warn("admin login rejected")
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage("관리자 정보가 일치하지 않습니다"),
		)
	}

	token, err := authsdk.GenerateToken(s.creds.ID, authsdk.RoleAdmin, s.creds.JWTSecret, time.Duration(s.creds.TokenTTL)*time.Hour)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorMessage("토큰 발급에 실패했습니다"),
			response.WithError(err),
		)
	}
	return &LoginResponse{AccessToken: token}, nil
}

// MatchesUser 姓名和邮箱忽略大小写，电话号码原样子串匹配
func MatchesUser(u user.User, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(strings.ToLower(u.Email), q) ||
		strings.Contains(u.Phone, query)
}

// Users 会员列表，最近注册的在前
func (s *AdminService) Users(ctx context.Context, query string) ([]user.Public, *response.BusinessError) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, loadFailed(err)
	}
	slices.SortStableFunc(list, func(a, b user.User) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})

	out := make([]user.Public, 0, len(list))
	for _, u := range list {
		if MatchesUser(u, query) {
			out = append(out, u.Public())
		}
	}
	return out, nil
}

func (s *AdminService) Stats(ctx context.Context) (*Stats, *response.BusinessError) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, loadFailed(err)
	}

	today := s.now().In(s.loc).Format("2006-01-02")
	stats := &Stats{
		TotalUsers: len(list),
		ByLevel:    make(map[user.Level]int, len(user.Levels)),
		ByProvider: make(map[string]int),
	}
	for _, l := range user.Levels {
		stats.ByLevel[l] = 0
	}
	for _, u := range list {
		stats.ByLevel[u.EffectiveLevel()]++
		channel := u.Provider
		if channel == "" {
			channel = "direct"
		}
		stats.ByProvider[channel]++
		if joinedDate(u.CreatedAt, s.loc) == today {
			stats.JoinedToday++
		}
	}
	return stats, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id int64) *response.BusinessError {
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return userMutationFailed(err, "회원 삭제에 실패했습니다")
	}
	s.log.WithFields(logrus.Fields{"user_id": id, "email": removed.Email}).Info("user deleted by admin")

	// 账号已删除，会话吊销失败只记录，残留会话随 TTL 过期
	if _, err := s.sessions.DestroyUser(ctx, removed.Email); err != nil {
		s.log.WithError(err).WithField("email", removed.Email).Error("revoke sessions of deleted user failed")
	}
	return nil
}

func (s *AdminService) UpdateLevel(ctx context.Context, id int64, level user.Level) (*user.Public, *response.BusinessError) {
	if !level.Valid() {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("등급은 Diamond, Gold, Silver 중 하나여야 합니다"),
		)
	}
	updated, err := s.users.UpdateLevel(ctx, id, level)
	if err != nil {
		return nil, userMutationFailed(err, "등급 변경에 실패했습니다")
	}
	s.log.WithFields(logrus.Fields{"user_id": id, "level": level}).Info("user level updated")
	p := updated.Public()
	return &p, nil
}

// ExportCSV 全部会员 CSV，没有会员时报错
func (s *AdminService) ExportCSV(ctx context.Context) ([]byte, string, *response.BusinessError) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, "", loadFailed(err)
	}
	if len(list) == 0 {
		return nil, "", response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage("내보낼 데이터가 없습니다"),
		)
	}

	var buf bytes.Buffer
	if err := WriteUsersCSV(&buf, list, s.loc); err != nil {
		return nil, "", response.NewBusinessError(
			response.WithErrorMessage("CSV 생성에 실패했습니다"),
			response.WithError(err),
		)
	}
	return buf.Bytes(), ExportFilename(s.now().In(s.loc)), nil
}

func loadFailed(err error) *response.BusinessError {
	return response.NewBusinessError(
		response.WithErrorMessage("회원 정보를 불러오지 못했습니다"),
		response.WithError(err),
	)
}

func userMutationFailed(err error, msg string) *response.BusinessError {
	if errors.Is(err, account.ErrUserNotFound) {
		return response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage("존재하지 않는 회원입니다"),
		)
	}
	return response.NewBusinessError(
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
