package session

import (
	"edstudy/internal/dto"
	authsdk "edstudy/packages/auth-sdk"
	"edstudy/packages/response"

	"github.com/gin-gonic/gin"
)

const contextKey = "session"

// RequireAuth 未登录时直接拒绝，后续 handler 不会执行
func (r *Resolver) RequireAuth(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := authsdk.ExtractToken(c.Request, cookieName)
		if err != nil {
			dto.AbortWithError(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage("로그인이 필요한 서비스입니다"),
			))
			return
		}

		s, err := r.Get(c.Request.Context(), token)
		if err != nil {
			dto.AbortWithError(c, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage("로그인이 필요한 서비스입니다"),
				response.WithError(err),
			))
			return
		}

		c.Set(contextKey, s)
		c.Next()
	}
}

// OptionalAuth 有会话则解析，无会话也放行
func (r *Resolver) OptionalAuth(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := authsdk.ExtractToken(c.Request, cookieName); err == nil {
			if s, err := r.Get(c.Request.Context(), token); err == nil {
				c.Set(contextKey, s)
			}
		}
		c.Next()
	}
}

// FromContext 取出当前会话，未登录返回 nil
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}
