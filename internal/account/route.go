package account

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *AccountHandler, optionalAuth gin.HandlerFunc) {
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/me", optionalAuth, h.Me)
}
