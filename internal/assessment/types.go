package assessment

import assessmentModel "edstudy/internal/model/assessment"

// Snapshot 测评当前状态，前端轮询使用
type Snapshot struct {
	ID       string                          `json:"id"`
	State    State                           `json:"state"`
	Mode     Mode                            `json:"mode,omitempty"`
	Clip     *ClipInfo                       `json:"clip,omitempty"`
	Progress *Progress                       `json:"progress,omitempty"`
	Result   *assessmentModel.AnalysisResult `json:"result,omitempty"`
	Error    string                          `json:"error,omitempty"`
}

type ClipInfo struct {
	Filename    string  `json:"filename"`
	MimeType    string  `json:"mimeType"`
	Size        int     `json:"size"`
	DurationSec float64 `json:"durationSec"`
}

// Progress 分析耗时未知，只给阶段提示不给百分比
type Progress struct {
	Indeterminate bool   `json:"indeterminate"`
	Stage         int    `json:"stage"`
	Label         string `json:"label"`
	ElapsedMs     int64  `json:"elapsedMs"`
}

type StartRequest struct {
	Mode Mode `json:"mode" binding:"required"`
}

type StopRequest struct {
	DurationSec float64 `json:"durationSec"`
}

type ProviderInfo struct {
	Name   string                      `json:"name"`
	Levels []assessmentModel.LevelInfo `json:"levels"`
}
