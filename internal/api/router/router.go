package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-portal/backend/config"
	"campus-portal/backend/internal/api/handler"
	"campus-portal/backend/internal/api/middleware"
	"campus-portal/backend/pkg/jwt"
	"campus-portal/backend/pkg/kv"
	"campus-portal/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
//
// store 为 JWT 黑名单所用 KV 存储；rdb 仅用于限流，为 nil 时限流降级放行。
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	store kv.Store,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// Microsoft SSO
		sso := v1.Group("/sso")
		{
			sso.GET("/status", h.SSO.Status)
			sso.GET("/microsoft/authorize", h.SSO.Authorize)
			sso.GET("/callback", h.SSO.Callback)
		}

		// 公开只读数据（课表 / 公告 / 行事历支持 since 增量）
		v1.GET("/schedule", h.Schedule.GetSchedule)
		v1.GET("/schedule/export.ics", h.Export.ScheduleICS)
		v1.GET("/announcements", h.Announcement.List)
		v1.GET("/events", h.Event.List)

		// Web Push（订阅登录前也可发起，登录态下绑定账号）
		push := v1.Group("/push")
		{
			push.GET("/vapid-key", h.Push.VAPIDKey)
			push.POST("/subscribe", middleware.OptionalJWTAuth(jwtMgr), h.Push.Subscribe)
			push.POST("/unsubscribe", h.Push.Unsubscribe)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, store))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/verify", h.Auth.VerifyToken)

			// 个人资料
			authorized.GET("/me", h.Auth.GetProfile)
			authorized.PATCH("/me/profile", h.Auth.UpdateProfile)
			authorized.POST("/me/password", h.Auth.ChangePassword)

			// 成绩单
			authorized.GET("/me/transcripts", h.Transcript.GetTranscripts)
			authorized.GET("/me/transcripts/export", h.Export.TranscriptXLSX)

			// 考勤
			authorized.GET("/attendance", h.Attendance.GetAttendance)

			// 公告已读回执
			authorized.POST("/announcements/:id/read", h.Announcement.MarkAsRead)

			// 请假
			leave := authorized.Group("/leave-requests")
			{
				leave.GET("", h.Leave.ListMine)
				leave.POST("", h.Leave.Create)
				leave.POST("/:id/decision", middleware.RoleAuth("teacher", "admin"), h.Leave.Decide)
			}

			// 推送管理（仅教师 / 管理员）
			pushAdmin := authorized.Group("/push", middleware.RoleAuth("teacher", "admin"))
			{
				pushAdmin.POST("/send-all", h.Push.SendAll)
				pushAdmin.POST("/send-user", h.Push.SendUser)
				pushAdmin.GET("/stats", h.Push.Stats)
			}
		}
	}

	return r
}
