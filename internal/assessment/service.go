package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	assessmentModel "edstudy/internal/model/assessment"
	"edstudy/internal/scoring"
	"edstudy/internal/session"
	"edstudy/packages/response"

	"github.com/sirupsen/logrus"
)

// AssessmentService 按会话管理测评流程，历史记录持久化到存储
type AssessmentService struct {
	mu        sync.Mutex
	workflows map[string]*Workflow

	provider scoring.Provider
	history  *HistoryRepository
	sessions SessionChecker
	opts     WorkflowOptions
	log      *logrus.Entry
}

// SessionChecker 判断 token 对应的会话是否仍然有效
type SessionChecker interface {
	IsAuthenticated(ctx context.Context, token string) bool
}

func NewAssessmentService(provider scoring.Provider, history *HistoryRepository, sessions SessionChecker, opts WorkflowOptions, log *logrus.Entry) *AssessmentService {
	return &AssessmentService{
		workflows: make(map[string]*Workflow),
		provider:  provider,
		history:   history,
		sessions:  sessions,
		opts:      opts,
		log:       log,
	}
}

// workflow 取出或新建当前会话的流程
func (s *AssessmentService) workflow(sess *session.Session) *Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workflows[sess.Token]
	if !ok {
		w = NewWorkflow(sess.Email, s.provider, s.history, s.opts, s.log.WithField("email", sess.Email))
		s.workflows[sess.Token] = w
	}
	return w
}

func (s *AssessmentService) Provider() ProviderInfo {
	return ProviderInfo{Name: s.provider.Name(), Levels: assessmentModel.Levels}
}

func (s *AssessmentService) Snapshot(sess *session.Session) Snapshot {
	return s.workflow(sess).Snapshot()
}

func (s *AssessmentService) Start(sess *session.Session, mode Mode) (Snapshot, *response.BusinessError) {
	snap, err := s.workflow(sess).Start(mode)
	return snap, s.mapError(err)
}

func (s *AssessmentService) AppendChunk(sess *session.Session, chunk []byte) (Snapshot, *response.BusinessError) {
	snap, err := s.workflow(sess).AppendChunk(chunk)
	return snap, s.mapError(err)
}

func (s *AssessmentService) Stop(sess *session.Session, durationSec float64) (Snapshot, *response.BusinessError) {
	snap, err := s.workflow(sess).Stop(durationSec)
	return snap, s.mapError(err)
}

func (s *AssessmentService) Upload(sess *session.Session, filename, mimeType string, data []byte, durationSec float64) (Snapshot, *response.BusinessError) {
	snap, err := s.workflow(sess).Upload(filename, mimeType, data, durationSec)
	return snap, s.mapError(err)
}

func (s *AssessmentService) Analyze(sess *session.Session) (Snapshot, *response.BusinessError) {
	snap, err := s.workflow(sess).Analyze()
	return snap, s.mapError(err)
}

func (s *AssessmentService) Retry(sess *session.Session) (Snapshot, *response.BusinessError) {
	snap, err := s.workflow(sess).Retry()
	return snap, s.mapError(err)
}

func (s *AssessmentService) Restart(sess *session.Session) Snapshot {
	return s.workflow(sess).Restart()
}

// Abandon 离开测评页面，取消并丢弃流程
func (s *AssessmentService) Abandon(sess *session.Session) {
	s.AbandonToken(sess.Token)
}

// AbandonToken 会话结束（登出、会员删除）时释放流程和音频
func (s *AssessmentService) AbandonToken(token string) {
	s.mu.Lock()
	w, ok := s.workflows[token]
	delete(s.workflows, token)
	s.mu.Unlock()

	if ok {
		w.Restart()
	}
}

// Active 当前内存中的流程数
func (s *AssessmentService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workflows)
}

// Sweep 释放会话已失效（如 TTL 过期）的流程，返回释放数量
func (s *AssessmentService) Sweep(ctx context.Context) int {
	if s.sessions == nil {
		return 0
	}

	s.mu.Lock()
	tokens := make([]string, 0, len(s.workflows))
	for token := range s.workflows {
		tokens = append(tokens, token)
	}
	s.mu.Unlock()

	evicted := 0
	for _, token := range tokens {
		if ctx.Err() != nil {
			break
		}
		if !s.sessions.IsAuthenticated(ctx, token) {
			s.AbandonToken(token)
			evicted++
		}
	}
	if evicted > 0 {
		s.log.WithField("evicted", evicted).Info("released workflows of ended sessions")
	}
	return evicted
}

// Watch 定期 Sweep，直到 ctx 结束
func (s *AssessmentService) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *AssessmentService) History(ctx context.Context, sess *session.Session) ([]assessmentModel.AnalysisResult, *response.BusinessError) {
	list, err := s.history.List(ctx, sess.Email)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorMessage("테스트 기록을 불러오지 못했습니다"),
			response.WithError(err),
		)
	}
	return list, nil
}

func (s *AssessmentService) ClearHistory(ctx context.Context, sess *session.Session) *response.BusinessError {
	if err := s.history.Clear(ctx, sess.Email); err != nil {
		return response.NewBusinessError(
			response.WithErrorMessage("테스트 기록 삭제에 실패했습니다"),
			response.WithError(err),
		)
	}
	return nil
}

func (s *AssessmentService) mapError(err error) *response.BusinessError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrClipTooLarge):
		return response.NewBusinessError(
			response.WithErrorCode(response.TooLarge),
			response.WithErrorMessage(fmt.Sprintf("파일 크기는 %dMB 이하여야 합니다", s.opts.MaxClipBytes>>20)),
			response.WithError(err),
		)
	case errors.Is(err, ErrInvalidMode):
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("녹음 또는 업로드 방식을 선택해 주세요"),
			response.WithError(err),
		)
	case errors.Is(err, ErrEmptyClip):
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("분석할 음성이 없습니다"),
			response.WithError(err),
		)
	case errors.Is(err, ErrInvalidTransition):
		return response.NewBusinessError(
			response.WithErrorCode(response.InvalidState),
			response.WithErrorMessage("현재 단계에서는 처리할 수 없는 요청입니다"),
			response.WithError(err),
		)
	}
	return response.NewBusinessError(response.WithError(err))
}
