package booking

import (
	"edstudy/internal/dto"
	"edstudy/internal/session"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service *BookingService
}

func NewBookingHandler(service *BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Slots GET /bookings/slots?date=YYYY-MM-DD
func (h *BookingHandler) Slots(c *gin.Context) {
	slots, bizErr := h.service.Slots(c.Request.Context(), c.Query("date"))
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, slots)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}
	b, bizErr := h.service.Create(c.Request.Context(), session.FromContext(c), req)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, b)
}

func (h *BookingHandler) Mine(c *gin.Context) {
	list, bizErr := h.service.Mine(c.Request.Context(), session.FromContext(c))
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, list)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	b, bizErr := h.service.Cancel(c.Request.Context(), session.FromContext(c), c.Param("id"))
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, b)
}

func (h *BookingHandler) All(c *gin.Context) {
	list, bizErr := h.service.All(c.Request.Context())
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, list)
}
