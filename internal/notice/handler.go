package notice

import (
	"strconv"

	"edstudy/internal/dto"
	"edstudy/packages/response"

	"github.com/gin-gonic/gin"
)

type NoticeHandler struct {
	service *NoticeService
}

func NewNoticeHandler(service *NoticeService) *NoticeHandler {
	return &NoticeHandler{service: service}
}

// List GET /notices?q=
func (h *NoticeHandler) List(c *gin.Context) {
	list, bizErr := h.service.List(c.Request.Context(), c.Query("q"))
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, list)
}

// Latest GET /notices/latest，没有公告时 data 为 null
func (h *NoticeHandler) Latest(c *gin.Context) {
	n, bizErr := h.service.Latest(c.Request.Context())
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, n)
}

func (h *NoticeHandler) Create(c *gin.Context) {
	var req CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}
	n, bizErr := h.service.Create(c.Request.Context(), req)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, n)
}

func (h *NoticeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("잘못된 공지 번호입니다"),
		))
		return
	}
	if bizErr := h.service.Delete(c.Request.Context(), id); bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, nil)
}
