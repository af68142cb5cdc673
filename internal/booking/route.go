package booking

import "github.com/gin-gonic/gin"

// RegisterRoutes 预约仅限会员
func RegisterRoutes(r *gin.RouterGroup, h *BookingHandler, requireAuth gin.HandlerFunc) {
	r.Use(requireAuth)
	r.GET("/slots", h.Slots)
	r.POST("", h.Create)
	r.GET("/mine", h.Mine)
	r.POST("/:id/cancel", h.Cancel)
}

func RegisterAdminRoutes(r *gin.RouterGroup, h *BookingHandler) {
	r.GET("", h.All)
}
