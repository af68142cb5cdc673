package assessment

import (
	"io"
	"strconv"

	"edstudy/internal/dto"
	"edstudy/internal/session"
	"edstudy/packages/response"

	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	service  *AssessmentService
	maxBytes int64
}

func NewAssessmentHandler(service *AssessmentService, maxBytes int64) *AssessmentHandler {
	return &AssessmentHandler{service: service, maxBytes: maxBytes}
}

func (h *AssessmentHandler) Provider(c *gin.Context) {
	dto.SuccessResponse(c, h.service.Provider())
}

func (h *AssessmentHandler) Snapshot(c *gin.Context) {
	dto.SuccessResponse(c, h.service.Snapshot(session.FromContext(c)))
}

func (h *AssessmentHandler) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}
	reply(c)(h.service.Start(session.FromContext(c), req.Mode))
}

// Chunk POST /assessment/chunks，请求体为原始音频分片
func (h *AssessmentHandler) Chunk(c *gin.Context) {
	data, ok := h.readLimited(c, c.Request.Body)
	if !ok {
		return
	}
	reply(c)(h.service.AppendChunk(session.FromContext(c), data))
}

func (h *AssessmentHandler) Stop(c *gin.Context) {
	var req StopRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BindError(c, err)
			return
		}
	}
	reply(c)(h.service.Stop(session.FromContext(c), req.DurationSec))
}

// Upload multipart 字段 file，可选 duration（秒）
func (h *AssessmentHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("음성 파일을 선택해 주세요"),
			response.WithError(err),
		))
		return
	}

	var duration float64
	if raw := c.PostForm("duration"); raw != "" {
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.InvalidParameter),
				response.WithErrorMessage("재생 시간 형식이 올바르지 않습니다"),
				response.WithError(err),
			))
			return
		}
	}

	f, err := fh.Open()
	if err != nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorMessage("파일을 읽을 수 없습니다"),
			response.WithError(err),
		))
		return
	}
	defer f.Close()

	data, ok := h.readLimited(c, f)
	if !ok {
		return
	}
	reply(c)(h.service.Upload(session.FromContext(c), fh.Filename, fh.Header.Get("Content-Type"), data, duration))
}

func (h *AssessmentHandler) Analyze(c *gin.Context) {
	reply(c)(h.service.Analyze(session.FromContext(c)))
}

func (h *AssessmentHandler) Retry(c *gin.Context) {
	reply(c)(h.service.Retry(session.FromContext(c)))
}

func (h *AssessmentHandler) Restart(c *gin.Context) {
	dto.SuccessResponse(c, h.service.Restart(session.FromContext(c)))
}

func (h *AssessmentHandler) Abandon(c *gin.Context) {
	h.service.Abandon(session.FromContext(c))
	dto.SuccessResponse(c, nil)
}

func (h *AssessmentHandler) History(c *gin.Context) {
	list, bizErr := h.service.History(c.Request.Context(), session.FromContext(c))
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, list)
}

func (h *AssessmentHandler) ClearHistory(c *gin.Context) {
	if bizErr := h.service.ClearHistory(c.Request.Context(), session.FromContext(c)); bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, nil)
}

// readLimited 多读一个字节，超限交给状态机判断
func (h *AssessmentHandler) readLimited(c *gin.Context, r io.Reader) ([]byte, bool) {
	if h.maxBytes > 0 {
		r = io.LimitReader(r, h.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.ParseError),
			response.WithErrorMessage("음성 데이터를 읽을 수 없습니다"),
			response.WithError(err),
		))
		return nil, false
	}
	return data, true
}

func reply(c *gin.Context) func(Snapshot, *response.BusinessError) {
	return func(snap Snapshot, bizErr *response.BusinessError) {
		if bizErr != nil {
			dto.ErrorResponse(c, bizErr)
			return
		}
		dto.SuccessResponse(c, snap)
	}
}
