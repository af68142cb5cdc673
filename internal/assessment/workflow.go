package assessment

import (
	"context"
	"errors"
	"sync"
	"time"

	assessmentModel "edstudy/internal/model/assessment"
	"edstudy/internal/pkg"
	"edstudy/internal/scoring"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type State string

const (
	StateIdle      State = "idle"
	StateCapturing State = "capturing"
	StateReady     State = "ready"
	StateScoring   State = "scoring"
	StateResult    State = "result"
	StateError     State = "error"
)

type Mode string

const (
	ModeRecord Mode = "record"
	ModeUpload Mode = "upload"
)

var (
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrInvalidMode       = errors.New("invalid capture mode")
	ErrClipTooLarge      = errors.New("clip exceeds size limit")
	ErrEmptyClip         = errors.New("clip is empty")
)

const (
	recordingFilename = "recording.webm"
	recordingMimeType = "audio/webm"

	analysisFailedMessage  = "오디오 분석 중 오류가 발생했습니다. 파일 형식을 확인하거나 다시 녹음해 주세요."
	analysisTimeoutMessage = "분석 시간이 초과되었습니다. 잠시 후 다시 시도해 주세요."
)

// 分析阶段提示，每 2 秒推进一档
var stageLabels = []string{
	"잠시만 기다려 주세요...",
	"음성 데이터의 특징점을 추출하는 중...",
	"언어 및 발화 내용을 식별하는 중...",
	"CEFR 기준에 따라 문법 및 어휘력을 평가하는 중...",
	"최종 레벨 및 리포트를 생성하는 중...",
}

const stageInterval = 2 * time.Second

type WorkflowOptions struct {
	MaxClipBytes int64
	Timeout      time.Duration
	Now          pkg.Clock
}

// Workflow 一次口语测评的状态机
//
// idle → capturing → ready → scoring → result，scoring 失败或超时进入 error。
type Workflow struct {
	mu sync.Mutex

	id    string
	owner string
	state State
	mode  Mode

	clip      scoring.Clip
	result    *assessmentModel.AnalysisResult
	errMsg    string
	startedAt time.Time

	// generation 每次分析或重置都会递增，过期的评分结果直接丢弃
	generation uint64
	cancel     context.CancelFunc

	provider scoring.Provider
	history  *HistoryRepository
	opts     WorkflowOptions
	log      *logrus.Entry
}

func NewWorkflow(owner string, provider scoring.Provider, history *HistoryRepository, opts WorkflowOptions, log *logrus.Entry) *Workflow {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	id := uuid.NewString()
	return &Workflow{
		id:       id,
		owner:    owner,
		state:    StateIdle,
		provider: provider,
		history:  history,
		opts:     opts,
		log:      log.WithField("workflow_id", id),
	}
}

func (w *Workflow) Start(mode Mode) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if mode != ModeRecord && mode != ModeUpload {
		return w.snapshotLocked(), ErrInvalidMode
	}
	if w.state != StateIdle {
		return w.snapshotLocked(), ErrInvalidTransition
	}
	w.mode = mode
	w.clip = scoring.Clip{}
	w.state = StateCapturing
	return w.snapshotLocked(), nil
}

// AppendChunk 录音分片，超出上限时拒绝且状态不变
func (w *Workflow) AppendChunk(chunk []byte) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateCapturing || w.mode != ModeRecord {
		return w.snapshotLocked(), ErrInvalidTransition
	}
	if w.tooLarge(int64(len(w.clip.Data) + len(chunk))) {
		return w.snapshotLocked(), ErrClipTooLarge
	}
	w.clip.Data = append(w.clip.Data, chunk...)
	return w.snapshotLocked(), nil
}

func (w *Workflow) Stop(durationSec float64) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateCapturing || w.mode != ModeRecord {
		return w.snapshotLocked(), ErrInvalidTransition
	}
	if len(w.clip.Data) == 0 {
		return w.snapshotLocked(), ErrEmptyClip
	}
	w.clip.Filename = recordingFilename
	w.clip.MimeType = recordingMimeType
	w.clip.DurationSec = durationSec
	w.state = StateReady
	return w.snapshotLocked(), nil
}

// Upload 上传文件后直接进入 ready
func (w *Workflow) Upload(filename, mimeType string, data []byte, durationSec float64) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle && w.state != StateCapturing {
		return w.snapshotLocked(), ErrInvalidTransition
	}
	if w.tooLarge(int64(len(data))) {
		return w.snapshotLocked(), ErrClipTooLarge
	}
	if len(data) == 0 {
		return w.snapshotLocked(), ErrEmptyClip
	}
	w.mode = ModeUpload
	w.clip = scoring.Clip{Filename: filename, MimeType: mimeType, Data: data, DurationSec: durationSec}
	w.state = StateReady
	return w.snapshotLocked(), nil
}

// Analyze 在后台 goroutine 中评分，超时后取消 provider 的 context
func (w *Workflow) Analyze() (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateReady {
		return w.snapshotLocked(), ErrInvalidTransition
	}

	w.generation++
	gen := w.generation

	ctx := context.Background()
	var cancel context.CancelFunc
	if w.opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, w.opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	w.cancel = cancel
	w.state = StateScoring
	w.errMsg = ""
	w.result = nil
	w.startedAt = w.opts.Now()

	go w.run(ctx, gen, w.clip)

	return w.snapshotLocked(), nil
}

type scoreOutcome struct {
	result assessmentModel.AnalysisResult
	err    error
}

// run 即使 provider 不理会 ctx，超时也会立刻转入 error
func (w *Workflow) run(ctx context.Context, gen uint64, clip scoring.Clip) {
	done := make(chan scoreOutcome, 1)
	go func() {
		result, err := w.provider.Score(ctx, clip)
		done <- scoreOutcome{result: result, err: err}
	}()

	var result assessmentModel.AnalysisResult
	var err error
	select {
	case out := <-done:
		result, err = out.result, out.err
	case <-ctx.Done():
		err = ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.generation {
		w.log.WithField("generation", gen).Debug("discarding stale analysis")
		return
	}
	w.cancelLocked()

	logEntry := w.log.WithFields(logrus.Fields{
		"provider": w.provider.Name(),
		"elapsed":  w.opts.Now().Sub(w.startedAt).String(),
	})
	if err != nil {
		w.state = StateError
		w.errMsg = analysisFailedMessage
		if errors.Is(err, context.DeadlineExceeded) {
			w.errMsg = analysisTimeoutMessage
		}
		logEntry.WithError(err).Warn("analysis failed")
		return
	}

	w.result = &result
	w.state = StateResult
	if w.history != nil {
		if err := w.history.Append(context.Background(), w.owner, result); err != nil {
			logEntry.WithError(err).Error("failed to save test history")
		}
	}
	logEntry.WithField("level", result.EDLevel).Info("analysis finished")
}

// Retry error 状态下保留音频回到 ready
func (w *Workflow) Retry() (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateError {
		return w.snapshotLocked(), ErrInvalidTransition
	}
	w.errMsg = ""
	w.state = StateReady
	return w.snapshotLocked(), nil
}

// Restart 任何状态都回到 idle，进行中的评分被取消
func (w *Workflow) Restart() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.resetLocked()
	return w.snapshotLocked()
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) resetLocked() {
	w.generation++
	w.cancelLocked()
	w.state = StateIdle
	w.mode = ""
	w.clip = scoring.Clip{}
	w.result = nil
	w.errMsg = ""
	w.startedAt = time.Time{}
}

func (w *Workflow) cancelLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *Workflow) tooLarge(size int64) bool {
	return w.opts.MaxClipBytes > 0 && size > w.opts.MaxClipBytes
}

func (w *Workflow) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:     w.id,
		State:  w.state,
		Mode:   w.mode,
		Result: w.result,
		Error:  w.errMsg,
	}
	if len(w.clip.Data) > 0 {
		s.Clip = &ClipInfo{
			Filename:    w.clip.Filename,
			MimeType:    w.clip.MimeType,
			Size:        len(w.clip.Data),
			DurationSec: w.clip.DurationSec,
		}
	}
	if w.state == StateScoring {
		elapsed := w.opts.Now().Sub(w.startedAt)
		stage := min(int(elapsed/stageInterval), len(stageLabels)-1)
		s.Progress = &Progress{
			Indeterminate: true,
			Stage:         stage,
			Label:         stageLabels[stage],
			ElapsedMs:     elapsed.Milliseconds(),
		}
	}
	return s
}
