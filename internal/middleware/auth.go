package middleware

import (
	"errors"

	"edstudy/internal/dto"
	authsdk "edstudy/packages/auth-sdk"
	"edstudy/packages/response"

	"github.com/gin-gonic/gin"
)

const AdminCookie = "admin_token"

// AdminAuth 管理员 JWT 认证中间件
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := authsdk.ExtractToken(c.Request, AdminCookie)
		if err != nil {
			dto.AbortWithError(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage("관리자 로그인이 필요합니다"),
			))
			return
		}

		principal, err := authsdk.ParseToken(token, secret)
		if err != nil {
			msg := "관리자 인증이 유효하지 않습니다"
			if errors.Is(err, authsdk.ErrExpiredToken) {
				msg = "관리자 인증이 만료되었습니다"
			}
			dto.AbortWithError(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(msg),
			))
			return
		}
		if !principal.IsAdmin() {
			dto.AbortWithError(c, response.NewBusinessError(
				response.WithErrorCode(response.Forbidden),
				response.WithErrorMessage("권한이 없습니다"),
			))
			return
		}

		c.Set("admin_id", principal.ID)
		c.Next()
	}
}
