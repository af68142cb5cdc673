package route

import (
	"net/http"
	"time"

	"edstudy/internal/account"
	"edstudy/internal/admin"
	"edstudy/internal/assessment"
	"edstudy/internal/booking"
	"edstudy/internal/middleware"
	"edstudy/internal/notice"
	"edstudy/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps 路由需要的全部 handler 与中间件
type Deps struct {
	Sessions    *session.Resolver
	CookieName  string
	JWTSecret   string
	FrontendURL string

	Account    *account.AccountHandler
	Notice     *notice.NoticeHandler
	Booking    *booking.BookingHandler
	Assessment *assessment.AssessmentHandler
	Admin      *admin.AdminHandler

	// Assessments 后台定期释放失效会话的测评流程
	Assessments *assessment.AssessmentService

	// Healthy 为 nil 时 /healthz 总是返回 ok
	Healthy func() error
	Log     *logrus.Entry
}

func initRoute(r *gin.Engine, d Deps) {
	requireAuth := d.Sessions.RequireAuth(d.CookieName)
	optionalAuth := d.Sessions.OptionalAuth(d.CookieName)

	r.GET("/healthz", func(c *gin.Context) {
		if d.Healthy != nil {
			if err := d.Healthy(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		account.RegisterRoutes(apiV1.Group("/auth"), d.Account, optionalAuth)
		notice.RegisterRoutes(apiV1.Group("/notices"), d.Notice)
		booking.RegisterRoutes(apiV1.Group("/bookings"), d.Booking, requireAuth)
		assessment.RegisterRoutes(apiV1.Group("/assessment"), d.Assessment, requireAuth)

		adminGroup := apiV1.Group("/admin")
		protected := adminGroup.Group("", middleware.AdminAuth(d.JWTSecret))
		admin.RegisterRoutes(adminGroup, protected, d.Admin)
		notice.RegisterAdminRoutes(protected.Group("/notices"), d.Notice)
		booking.RegisterAdminRoutes(protected.Group("/bookings"), d.Booking)
	}
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))

	allowedOrigins := []string{"http://localhost:5173"}
	if d.FrontendURL != "" && d.FrontendURL != allowedOrigins[0] {
		allowedOrigins = append(allowedOrigins, d.FrontendURL)
	}

	// 会话依赖 cookie，需要允许凭据
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	initRoute(r, d)

	return r
}
