package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edstudy/config"
	"edstudy/internal/model/assessment"

	"github.com/sirupsen/logrus"
)

const (
	ModeAuto   = "auto"
	ModeRemote = "remote"
	ModeStub   = "stub"
)

var (
	ErrProviderUnavailable = errors.New("scoring provider unavailable")
	ErrMalformedResponse   = errors.New("scoring provider returned a malformed response")
)

// Clip 待测评的音频
type Clip struct {
	Filename    string
	MimeType    string
	Data        []byte
	DurationSec float64
}

// Provider 把一段音频评为 ED 等级
type Provider interface {
	Name() string
	Score(ctx context.Context, clip Clip) (assessment.AnalysisResult, error)
}

// NewProvider 根据配置选择评分实现
//
// remote 模式必须配置 api_key；auto 模式下有 key 才走远程。
func NewProvider(cfg config.ScoringConfig, log *logrus.Entry) (Provider, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeAuto
	}

	switch mode {
	case ModeRemote:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("scoring mode %q requires scoring.api_key", mode)
		}
		return NewRemoteProvider(cfg, log), nil
	case ModeStub:
		return NewStubProvider(cfg.StubDelay, log), nil
	case ModeAuto:
		if cfg.APIKey != "" {
			return NewRemoteProvider(cfg, log), nil
		}
		log.Warn("scoring api key not configured, using deterministic stub")
		return NewStubProvider(cfg.StubDelay, log), nil
	default:
		return nil, fmt.Errorf("unknown scoring mode %q", mode)
	}
}

// finalize 补全换算信息并校验
func finalize(r assessment.AnalysisResult, now time.Time) (assessment.AnalysisResult, error) {
	info, ok := assessment.LookupLevel(r.EDLevel)
	if !ok {
		return assessment.AnalysisResult{}, fmt.Errorf("%w: unknown level %q", ErrMalformedResponse, r.EDLevel)
	}
	if r.LevelDesc == "" {
		r.LevelDesc = info.Desc
	}
	if r.CEFR == "" {
		r.CEFR = info.CEFR
	}
	if r.TOEIC == "" {
		r.TOEIC = info.TOEIC
	}
	if r.IELTS == "" {
		r.IELTS = info.IELTS
	}
	r.Scores = r.Scores.Clamp()
	r.Timestamp = now.UTC().Format(time.RFC3339)

	if err := r.Validate(); err != nil {
		return assessment.AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return r, nil
}

// noEnglish 非英语或无声音频的固定结果
func noEnglish(language string) assessment.AnalysisResult {
	info := assessment.Levels[0]
	return assessment.AnalysisResult{
		EDLevel:          info.Name,
		LevelDesc:        info.Desc,
		CEFR:             "N/A",
		TOEIC:            info.TOEIC,
		IELTS:            info.IELTS,
		Reasoning:        "영어 발화가 감지되지 않아 Pre-Basic으로 판정했습니다.",
		DetectedLanguage: language,
	}
}
