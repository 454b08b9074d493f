package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"staffhub/backend/config"
	"staffhub/backend/internal/api/handler"
	"staffhub/backend/internal/api/middleware"
	"staffhub/backend/pkg/jwt"
	"staffhub/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
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
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 考勤模块（打卡接口限流，压制人脸/白名单的暴力试探）
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/punch-in", middleware.RateLimit(rdb, 15, time.Minute), h.Attendance.PunchIn)
				attendance.POST("/punch-out", middleware.RateLimit(rdb, 15, time.Minute), h.Attendance.PunchOut)
				attendance.GET("/today", h.Attendance.Today)
				attendance.GET("/records", h.Attendance.History)
				attendance.GET("/admin/records", middleware.RoleAuth("admin"), h.Attendance.ListByDate)
			}

			// 人脸模块
			face := authorized.Group("/face")
			{
				face.POST("/enroll", h.Face.Enroll)
				face.GET("/status", h.Face.Status)
			}

			// 请假模块
			leaves := authorized.Group("/leaves")
			{
				leaves.POST("", h.Leave.Create)
				leaves.GET("/my", h.Leave.ListMine)
				leaves.GET("/balance", h.Leave.Balance)
				leaves.DELETE("/:id", h.Leave.Cancel)
				leaves.GET("", middleware.RoleAuth("admin"), h.Leave.List)
				leaves.PUT("/:id/approve", middleware.RoleAuth("admin"), h.Leave.Approve)
				leaves.PUT("/:id/reject", middleware.RoleAuth("admin"), h.Leave.Reject)
			}

			// 管理配置模块
			adminConfig := authorized.Group("/config", middleware.RoleAuth("admin"))
			{
				adminConfig.GET("/attendance", h.Config.GetAttendanceConfig)
				adminConfig.PUT("/attendance", h.Config.UpdateAttendanceConfig)
				adminConfig.GET("/allowed-ips", h.Config.ListAllowedIPs)
				adminConfig.POST("/allowed-ips", h.Config.CreateAllowedIP)
				adminConfig.PUT("/allowed-ips/:id", h.Config.UpdateAllowedIP)
				adminConfig.DELETE("/allowed-ips/:id", h.Config.DeleteAllowedIP)
				adminConfig.GET("/leave-types", h.Config.ListLeaveConfigs)
				adminConfig.PUT("/leave-types", h.Config.UpsertLeaveConfig)
				adminConfig.DELETE("/leave-types/:type", h.Config.DeleteLeaveConfig)
			}
		}
	}

	return r
}
