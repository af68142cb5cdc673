package notice

import "github.com/gin-gonic/gin"

// RegisterRoutes 公开读取
func RegisterRoutes(r *gin.RouterGroup, h *NoticeHandler) {
	r.GET("", h.List)
	r.GET("/latest", h.Latest)
}

// RegisterAdminRoutes 管理员写入，调用方负责挂管理员中间件
func RegisterAdminRoutes(r *gin.RouterGroup, h *NoticeHandler) {
	r.POST("", h.Create)
	r.DELETE("/:id", h.Delete)
}
