package account

import (
	"time"

	"edstudy/internal/dto"
	"edstudy/internal/session"
	authsdk "edstudy/packages/auth-sdk"
	"edstudy/packages/response"

	"github.com/gin-gonic/gin"
)

// CookieConfig 会话 cookie 设置
type CookieConfig struct {
	Name   string
	TTL    time.Duration // 0 表示浏览器会话 cookie
	Secure bool
}

type AccountHandler struct {
	service *AccountService
	cookie  CookieConfig
}

func NewAccountHandler(service *AccountService, cookie CookieConfig) *AccountHandler {
	return &AccountHandler{service: service, cookie: cookie}
}

func (h *AccountHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	sess, bizErr := h.service.Signup(c.Request.Context(), req)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	h.respondWithSession(c, sess)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BindError(c, err)
		return
	}

	sess, bizErr := h.service.Login(c.Request.Context(), req)
	if bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	h.respondWithSession(c, sess)
}

func (h *AccountHandler) Logout(c *gin.Context) {
	token, _ := authsdk.ExtractToken(c.Request, h.cookie.Name)
	if bizErr := h.service.Logout(c.Request.Context(), token); bizErr != nil {
		dto.ErrorResponse(c, bizErr)
		return
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	dto.SuccessResponse(c, nil)
}

// Me 查询登录状态
func (h *AccountHandler) Me(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil {
		dto.ErrorResponse(c, response.NewBusinessError(
			response.WithErrorCode(response.Unauthorized),
			response.WithErrorMessage("로그인이 필요한 서비스입니다"),
		))
		return
	}
	dto.SuccessResponse(c, sess.Public)
}

func (h *AccountHandler) respondWithSession(c *gin.Context, sess *session.Session) {
	c.SetCookie(h.cookie.Name, sess.Token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	dto.SuccessResponse(c, AuthResponse{Token: sess.Token, User: sess.Public})
}
