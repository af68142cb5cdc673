package admin

import (
	"strconv"

	"edstudy/internal/dto"
	"edstudy/internal/middleware"
	"edstudy/packages/response"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service      *AdminService
	secureCookie bool
}

func NewAdminHandler(service *AdminService, secureCookie bool) *AdminHandler {
	return &AdminHandler{service: service, secureCookie: secureCookie}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}
	result, bizErr := h.service.Login(req)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	c.SetCookie(middleware.AdminCookie, result.AccessToken, 0, "/", "", h.secureCookie, true)
	dto.SuccessResponse(c, result)
}

func (h *AdminHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.AdminCookie, "", -1, "/", "", h.secureCookie, true)
	dto.SuccessResponse(c, nil)
}

// Users GET /admin/users?q=
func (h *AdminHandler) Users(c *gin.Context) {
	list, bizErr := h.service.Users(c.Request.Context(), c.Query("q"))
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, list)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, bizErr := h.service.Stats(c.Request.Context())
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, stats)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if bizErr := h.service.DeleteUser(c.Request.Context(), id); bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, nil)
}

func (h *AdminHandler) UpdateLevel(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req UpdateLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}
	u, bizErr := h.service.UpdateLevel(c.Request.Context(), id, req.Level)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	dto.SuccessResponse(c, u)
}

// Export 下载会员列表 CSV
func (h *AdminHandler) Export(c *gin.Context) {
	data, filename, bizErr := h.service.ExportCSV(c.Request.Context())
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "text/csv; charset=utf-8", data)
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.InvalidParameter),
			response.WithErrorMessage("잘못된 회원 번호입니다"),
		))
		return 0, false
	}
	return id, true
}
