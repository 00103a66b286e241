package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldtrack/config"
	"fieldtrack/internal/api/handler"
	"fieldtrack/internal/api/middleware"
	"fieldtrack/internal/model"
	"fieldtrack/pkg/jwt"
	"fieldtrack/pkg/redis"
)

// Setup builds the gin engine with every route mounted under /api.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidators()

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	if cfg.Server.MaxBodyBytes > 0 {
		r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	}

	r.GET("/health", func(c *gin.Context) {
		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "ok"
			if err := rdb.Ping(c.Request.Context()); err != nil {
				redisStatus = "unreachable"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "redis": redisStatus})
	})

	adminOnly := middleware.RoleAuth(model.RoleAdmin)
	scanLimit := middleware.RateLimit(rdb, cfg.Attendance.ScanRateLimit, cfg.Attendance.ScanWindow(), logger)

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Auth.Login)

		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// attendance and time entries
			entries := authorized.Group("/time-entries")
			{
				entries.POST("/check-in", h.Attendance.CheckIn)
				entries.POST("/check-out", h.Attendance.CheckOut)
				entries.POST("/report", h.TimeEntry.Report)
				entries.GET("/daily", h.TimeEntry.Daily)
				entries.GET("/reports/:period", middleware.RoleAuth(model.RoleAdmin, model.RoleDRE), h.TimeEntry.ByPeriod)
				entries.GET("/project/:id", h.TimeEntry.ByProject)
				entries.GET("/calendar.ics", h.TimeEntry.Calendar)
				entries.GET("/day-status", h.TimeEntry.DayStatus)
				entries.POST("/close-day", adminOnly, h.TimeEntry.CloseDay)
				entries.POST("/open-day", adminOnly, h.TimeEntry.OpenDay)
				entries.POST("/send-reminder", adminOnly, h.TimeEntry.SendReminder)
			}

			attendance := authorized.Group("/attendance")
			{
				attendance.GET("/current-status", h.Attendance.CurrentStatus)
				attendance.GET("/recent", h.Attendance.Recent)
			}

			// projects
			projects := authorized.Group("/projects")
			{
				projects.GET("", h.Project.List)
				projects.POST("", adminOnly, h.Project.Create)
				projects.POST("/recalculate-progress", adminOnly, h.Project.RecalculateProgress)
				projects.GET("/:id", h.Project.Get)
				projects.DELETE("/:id", adminOnly, h.Project.Delete)
				projects.PUT("/:id/update-parts", middleware.RoleAuth(model.RoleAdmin, model.RoleTechnician), h.Project.UpdateParts)
				projects.POST("/:id/assignments", adminOnly, h.Project.Assign)
				projects.POST("/:id/complete", adminOnly, h.Project.Complete)
				projects.GET("/:id/report.xlsx",
					middleware.RoleAuth(model.RoleAdmin, model.RoleClient, model.RoleDRE), h.Export.ExportProjectReport)
			}

			// battery pipeline
			authorized.POST("/scanned-codes", scanLimit, h.Battery.CreateScannedCode)
			authorized.GET("/scanned-codes", h.Battery.ListScannedCodes)

			flows := authorized.Group("/panasonic-flow")
			{
				flows.POST("", scanLimit, h.Battery.CreateFlow)
				flows.GET("", h.Battery.ListFlows)
				flows.PUT("/categories", h.Battery.UpdateCategories)
			}

			checkpoints := authorized.Group("/panasonic-checkpoints")
			{
				checkpoints.POST("", scanLimit, h.Battery.CreateCheckpoint)
				checkpoints.GET("/project/:id", h.Battery.ListCheckpointsByProject)
				checkpoints.GET("/session/:id", h.Battery.GetSession)
			}

			authorized.POST("/quality-check", h.Battery.UpsertQualityCheck)
			quality := authorized.Group("/panasonic-quality-questions")
			{
				quality.GET("/project/:id", h.Battery.ListQualityChecksByProject)
				quality.GET("/session/:id", h.Battery.GetQualityCheck)
			}

			// notifications
			authorized.GET("/notifications", h.Notification.List)
			authorized.PUT("/notifications/:id/read", h.Notification.MarkRead)
		}
	}

	return r
}
