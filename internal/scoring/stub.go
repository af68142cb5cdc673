package scoring

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"

	"edstudy/internal/model/assessment"

	"github.com/sirupsen/logrus"
)

// 按文件名关键字直接判为高级
var advancedKeywords = []string{"bbc", "cnn", "anchor", "news", "native", "ted"}

// 未提供时长时按约 16KB/s 估算
const bytesPerSecond = 16000

type band struct{ lo, hi int }

// StubProvider 无 API key 时的确定性评分
//
// 同一段音频（内容 + 文件名）总是得到同样的结果。
type StubProvider struct {
	delay time.Duration
	now   func() time.Time
	log   *logrus.Entry
}

func NewStubProvider(delay time.Duration, log *logrus.Entry) *StubProvider {
	return &StubProvider{delay: delay, now: time.Now, log: log}
}

func (p *StubProvider) Name() string { return ModeStub }

func (p *StubProvider) Score(ctx context.Context, clip Clip) (assessment.AnalysisResult, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return assessment.AnalysisResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	duration := clip.DurationSec
	if duration <= 0 {
		duration = float64(len(clip.Data)) / bytesPerSecond
	}

	rng := rand.New(rand.NewPCG(clipSeed(clip), uint64(len(clip.Data))))
	b := bandFor(clip.Filename, duration)
	idx := b.lo + rng.IntN(b.hi-b.lo+1)
	info := assessment.Levels[idx]

	base := 20 + idx*8
	jitter := func() int { return base + rng.IntN(13) - 6 }
	result := assessment.AnalysisResult{
		EDLevel:   info.Name,
		LevelDesc: info.Desc,
		CEFR:      info.CEFR,
		TOEIC:     info.TOEIC,
		IELTS:     info.IELTS,
		Scores: assessment.Scores{
			Pronunciation: jitter(),
			Fluency:       jitter(),
			Vocabulary:    jitter(),
			Grammar:       jitter(),
		},
		Reasoning: fmt.Sprintf("%.0f초 분량의 발화를 기준으로 산정한 모의 평가 결과입니다. "+
			"실제 AI 평가를 사용하려면 API 키를 설정해 주세요.", duration),
		DetectedLanguage: "English",
	}

	p.log.WithFields(logrus.Fields{"level": info.Name, "duration": duration}).Debug("stub score")
	return finalize(result, p.now())
}

func bandFor(filename string, duration float64) band {
	name := strings.ToLower(filename)
	for _, kw := range advancedKeywords {
		if strings.Contains(name, kw) {
			return band{7, 9}
		}
	}
	switch {
	case duration < 10:
		return band{0, 1}
	case duration < 30:
		return band{2, 3}
	case duration < 60:
		return band{4, 5}
	default:
		return band{6, 8}
	}
}

func clipSeed(clip Clip) uint64 {
	h := fnv.New64a()
	h.Write([]byte(clip.Filename))
	h.Write(clip.Data)
	return h.Sum64()
}
