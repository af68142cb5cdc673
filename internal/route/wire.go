package route

import (
	"edstudy/config"
	"edstudy/internal/account"
	"edstudy/internal/admin"
	"edstudy/internal/assessment"
	"edstudy/internal/booking"
	"edstudy/internal/database"
	"edstudy/internal/logger"
	bookingModel "edstudy/internal/model/booking"
	noticeModel "edstudy/internal/model/notice"
	"edstudy/internal/model/user"
	"edstudy/internal/notice"
	"edstudy/internal/pkg"
	"edstudy/internal/scoring"
	"edstudy/internal/session"
	"edstudy/internal/store"

	"github.com/sirupsen/logrus"
)

// BuildDeps 组装仓储、服务和 handler
func BuildDeps(c *config.AppConfig, stores *database.Stores, provider scoring.Provider, notifier booking.Notifier, now pkg.Clock, log *logrus.Logger) Deps {
	entry := func(name string) *logrus.Entry { return logger.Component(log, name) }

	users := account.NewUserRepository(store.NewCollection[user.User](stores.Durable, stores.Locker, stores.Keys.Users(), entry("users")))
	notices := notice.NewNoticeRepository(store.NewCollection[noticeModel.Notice](stores.Durable, stores.Locker, stores.Keys.Notices(), entry("notices")))
	bookings := booking.NewBookingRepository(store.NewCollection[bookingModel.Booking](stores.Durable, stores.Locker, stores.Keys.Bookings(), entry("bookings")))
	history := assessment.NewHistoryRepository(stores.Durable, stores.Locker, stores.Keys, c.Assessment.HistoryLimit, entry("history"))

	sessions := session.NewResolver(stores.Ephemeral, stores.Locker, stores.Keys, entry("session"))

	accountService := account.NewAccountService(users, sessions, now, entry("account"))
	noticeService := notice.NewNoticeService(notices, now, entry("notice"))
	bookingService := booking.NewBookingService(bookings, notifier, now, entry("booking"))
	assessmentService := assessment.NewAssessmentService(provider, history, sessions, assessment.WorkflowOptions{
		MaxClipBytes: c.Assessment.MaxClipBytes,
		Timeout:      c.Assessment.AnalysisTimeout,
		Now:          now,
	}, entry("assessment"))
	// 会话结束即释放测评流程
	sessions.OnDestroy(assessmentService.AbandonToken)
	adminService := admin.NewAdminService(users, sessions, admin.Credentials{
		ID:        c.Admin.ID,
		Password:  c.Admin.Password,
		JWTSecret: c.JWT.Secret,
		TokenTTL:  c.JWT.ExpireTime,
	}, now, entry("admin"))

	secure := c.Session.CookieSecure != nil && *c.Session.CookieSecure

	return Deps{
		Sessions:    sessions,
		Assessments: assessmentService,
		CookieName:  c.Session.CookieName,
		JWTSecret:   c.JWT.Secret,
		FrontendURL: c.Server.FrontendURL,
		Account:     account.NewAccountHandler(accountService, account.CookieConfig{Name: c.Session.CookieName, TTL: c.Session.TTL, Secure: secure}),
		Notice:      notice.NewNoticeHandler(noticeService),
		Booking:     booking.NewBookingHandler(bookingService),
		Assessment:  assessment.NewAssessmentHandler(assessmentService, c.Assessment.MaxClipBytes),
		Admin:       admin.NewAdminHandler(adminService, secure),
		Log:         entry("http"),
	}
}
