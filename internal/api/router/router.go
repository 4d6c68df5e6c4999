package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/config"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/api/handler"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/api/middleware"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/jwt"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/redis"
)

// 请求体上限：花名册导入文件不超过 8MB
const maxBodyBytes = 8 << 20

// Deps 路由依赖
type Deps struct {
	Config    *config.Config
	Handler   *handler.Handler
	Tabs      service.TabService
	JWT       *jwt.Manager
	Blacklist service.TokenBlacklist // 可为 nil
	Redis     *redis.Client          // 可为 nil，此时不限流
	Gatherer  prometheus.Gatherer    // 可为 nil，此时不暴露 /metrics
	Logger    *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(d Deps) *gin.Engine {
	r := gin.New()
	h := d.Handler

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.CORS(d.Config.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 打开标签页（无需令牌）
		v1.POST("/tabs",
			middleware.RateLimit(d.Redis, d.Config.Auth.OpenRateLimit, d.Config.Auth.OpenWindow),
			h.Tab.Open)

		// 需要标签页令牌的路由
		tabbed := v1.Group("")
		tabbed.Use(middleware.TabAuth(d.JWT, d.Tabs, d.Blacklist))
		{
			tabbed.DELETE("/tabs/current", h.Tab.Close)
			tabbed.GET("/state", h.Tab.State)
			tabbed.GET("/state/stream", h.Tab.Stream)

			// 认证模块
			tabbed.POST("/auth/login",
				middleware.RateLimit(d.Redis, d.Config.Auth.LoginRateLimit, d.Config.Auth.LoginWindow),
				h.Auth.Login)
			tabbed.POST("/auth/logout", h.Auth.Logout)
			tabbed.GET("/auth/me", h.Auth.Me)

			// 全局警报
			tabbed.GET("/alert", h.View.Alert)
			tabbed.POST("/alert/ignore", h.View.IgnoreAlert)

			// 只读视图
			views := tabbed.Group("/views")
			{
				views.GET("/availability", h.View.Availability)
				views.GET("/counts", h.View.Counts)
				views.GET("/progress/:officerId", h.View.Progress)
			}

			tabbed.GET("/officers", h.Officer.List)
			tabbed.GET("/officers/:id", h.Officer.Get)
			tabbed.GET("/fleet", h.Fleet.List)
		}

		// 需要登录的路由
		member := tabbed.Group("")
		member.Use(middleware.RequireLogin())
		{
			// 调度面板
			dispatch := member.Group("/dispatch")
			{
				dispatch.POST("/seats", h.Dispatch.AssignSeat)
				dispatch.POST("/header", h.Dispatch.AssignHeader)
				dispatch.DELETE("/header/:role", h.Dispatch.ClearHeader)
				dispatch.POST("/unassign", h.Dispatch.Unassign)
				dispatch.POST("/grid", h.Dispatch.AddToGrid)
				dispatch.DELETE("/grid/:id", h.Dispatch.RemoveFromGrid)
				dispatch.DELETE("/vehicles/:id/seats", h.Dispatch.ClearVehicle)
				dispatch.PUT("/vehicles/:id/status", h.Dispatch.SetStatus)
				dispatch.PUT("/vehicles/:id/funk", h.Dispatch.SetFunk)
				dispatch.PUT("/vehicles/:id/callsign", h.Dispatch.SetCallsign)
				dispatch.POST("/vehicles/:id/pin", h.Dispatch.TogglePin)
			}

			// 个人工作区
			member.POST("/workspace/clock-in", h.Workspace.ClockIn)
			member.POST("/workspace/clock-out", h.Workspace.ClockOut)
			mail := member.Group("/mail")
			{
				mail.GET("", h.Workspace.Inbox)
				mail.POST("", h.Workspace.SendMail)
				mail.POST("/:id/read", h.Workspace.MarkRead)
				mail.DELETE("/:id", h.Workspace.DeleteMail)
			}

			// 人事（界面级权限）
			hr := middleware.RoleAuth(model.RoleHR)
			officers := member.Group("/officers")
			{
				officers.POST("", hr, h.Officer.Create)
				officers.POST("/import", hr, h.Officer.Import)
				officers.PUT("/:id", hr, h.Officer.Update)
				officers.DELETE("/:id", hr, h.Officer.Terminate)
				officers.POST("/:id/sanctions", hr, h.Officer.AddSanction)
				officers.PUT("/:id/checklist", middleware.RoleAuth(model.RoleHR, model.RoleAusbilder), h.Workspace.SetChecklist)
			}
			member.POST("/trainings/:id/complete", middleware.RoleAuth(model.RoleAusbilder, model.RoleHR), h.Officer.CompleteTraining)

			// 车队
			fleetMgr := middleware.RoleAuth(model.RoleFuhrparkmanager)
			fleet := member.Group("/fleet")
			{
				fleet.POST("", fleetMgr, h.Fleet.Create)
				fleet.PUT("/:id", fleetMgr, h.Fleet.Update)
				fleet.DELETE("/:id", fleetMgr, h.Fleet.Delete)
			}

			// 导出
			export := member.Group("/export")
			{
				export.GET("/logs.xlsx", middleware.RoleAuth(model.RoleAdmin), h.Export.ExportLogs)
				export.GET("/roster.xlsx", hr, h.Export.ExportRoster)
				export.GET("/checkups.ics", h.Export.ExportCalendar)
			}
		}
	}

	return r
}
