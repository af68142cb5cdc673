package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes login 公开，其余挂在 protected 组下
func RegisterRoutes(public *gin.RouterGroup, protected *gin.RouterGroup, h *AdminHandler) {
	public.POST("/login", h.Login)
	public.POST("/logout", h.Logout)

	protected.GET("/stats", h.Stats)
	protected.GET("/users", h.Users)
	protected.GET("/users/export", h.Export)
	protected.DELETE("/users/:id", h.DeleteUser)
	protected.PATCH("/users/:id/level", h.UpdateLevel)
}
