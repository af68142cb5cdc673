package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"edstudy/internal/model/user"
	"edstudy/internal/pkg"
	"edstudy/internal/session"
	"edstudy/packages/response"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	repo     *UserRepository
	sessions *session.Resolver
	ids      *pkg.MillisID
	now      pkg.Clock
	log      *logrus.Entry
}

func NewAccountService(repo *UserRepository, sessions *session.Resolver, now pkg.Clock, log *logrus.Entry) *AccountService {
	if now == nil {
		now = time.Now
	}
	return &AccountService{
		repo:     repo,
		sessions: sessions,
		ids:      pkg.NewMillisID(now),
		now:      now,
		log:      log,
	}
}

// Signup 注册后直接处于登录状态，已有 google 账号的 google 注册按登录处理
func (s *AccountService) Signup(ctx context.Context, req SignupRequest) (*session.Session, *response.BusinessError) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := s.validateSignup(req); err != nil {
		return nil, err
	}

	if req.Provider == user.ProviderGoogle {
		if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing.Provider == user.ProviderGoogle {
			return s.openSession(ctx, *existing)
		}
	}

	newUser := user.User{
		ID:        s.ids.Next(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
		Provider:  req.Provider,
		Level:     user.LevelSilver,
	}
	if req.Provider == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, response.NewBusinessError(
				response.WithErrorMessage("비밀번호 처리에 실패했습니다"),
				response.WithError(err),
			)
		}
		newUser.PasswordHash = string(hash)
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, response.NewBusinessError(
				response.WithErrorCode(response.Conflict),
				response.WithErrorMessage("이미 가입된 이메일입니다"),
			)
		}
		return nil, response.NewBusinessError(
			response.WithErrorMessage("회원가입에 실패했습니다"),
			response.WithError(err),
		)
	}

	s.log.WithFields(logrus.Fields{"user_id": newUser.ID, "provider": newUser.Provider}).Info("user signed up")
	return s.openSession(ctx, newUser)
}

// Login 邮箱密码登录
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*session.Session, *response.BusinessError) {
	invalid := response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage("이메일 또는 비밀번호가 일치하지 않습니다"),
	)
	if req.Email == "" || req.Password == "" {
		return nil, invalid
	}

	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorMessage("로그인에 실패했습니다"),
			response.WithError(err),
		)
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalid
	}

	return s.openSession(ctx, *u)
}

// Logout 删除会话
func (s *AccountService) Logout(ctx context.Context, token string) *response.BusinessError {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return response.NewBusinessError(
			response.WithErrorMessage("로그아웃에 실패했습니다"),
			response.WithError(err),
		)
	}
	return nil
}

func (s *AccountService) openSession(ctx context.Context, u user.User) (*session.Session, *response.BusinessError) {
	sess, err := s.sessions.Create(ctx, u)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorMessage("세션 생성에 실패했습니다"),
			response.WithError(err),
		)
	}
	return sess, nil
}

func (s *AccountService) validateSignup(req SignupRequest) *response.BusinessError {
	invalid := func(msg string) *response.BusinessError {
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage(msg),
		)
	}

	if req.Name == "" {
		return invalid("이름을 입력해주세요")
	}
	if req.Email == "" {
		return invalid("이메일을 입력해주세요")
	}
	if !user.EmailRegex.MatchString(req.Email) {
		return invalid("이메일 형식이 올바르지 않습니다")
	}
	if req.Provider != "" && req.Provider != user.ProviderGoogle {
		return invalid("지원하지 않는 가입 경로입니다")
	}
	if req.Provider == "" {
		if req.Phone == "" {
			return invalid("연락처를 입력해주세요")
		}
		if req.Password == "" {
			return invalid("비밀번호를 입력해주세요")
		}
		if len(req.Password) < 4 || len(req.Password) > 72 {
			return invalid("비밀번호는 4자 이상 72자 이하로 입력해주세요")
		}
	}
	return nil
}
