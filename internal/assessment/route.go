package assessment

import "github.com/gin-gonic/gin"

// RegisterRoutes 等级测评，除查询 provider 外都需要登录
func RegisterRoutes(r *gin.RouterGroup, h *AssessmentHandler, requireAuth gin.HandlerFunc) {
	r.GET("/provider", h.Provider)

	authed := r.Group("", requireAuth)
	authed.GET("", h.Snapshot)
	authed.DELETE("", h.Abandon)
	authed.POST("/start", h.Start)
	authed.POST("/chunks", h.Chunk)
	authed.POST("/stop", h.Stop)
	authed.POST("/upload", h.Upload)
	authed.POST("/analyze", h.Analyze)
	authed.POST("/retry", h.Retry)
	authed.POST("/restart", h.Restart)
	authed.GET("/history", h.History)
	authed.DELETE("/history", h.ClearHistory)
}
