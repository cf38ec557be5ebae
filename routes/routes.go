package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/config"
	_ "github.com/krishimitra/farmer-portal-backend/docs"
	"github.com/krishimitra/farmer-portal-backend/internal/application"
	"github.com/krishimitra/farmer-portal-backend/internal/assistant"
	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/auth"
	"github.com/krishimitra/farmer-portal-backend/internal/dashboard"
	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
	"github.com/krishimitra/farmer-portal-backend/internal/market"
	"github.com/krishimitra/farmer-portal-backend/internal/notification"
	"github.com/krishimitra/farmer-portal-backend/internal/reports"
	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
	"github.com/krishimitra/farmer-portal-backend/internal/voice"
	"github.com/krishimitra/farmer-portal-backend/internal/weather"
	"github.com/krishimitra/farmer-portal-backend/middleware"
)

// Deps carries everything the router needs. Redis may be nil.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Redis   *redis.Client
	AuthSvc auth.Service
	Farmers middleware.FarmerResolver

	Auth         *auth.Handler
	Farmer       *farmer.Handler
	Audit        *auditlog.Handler
	Scheme       *scheme.Handler
	Application  *application.Handler
	Notification *notification.Handler
	Dashboard    *dashboard.Handler
	Weather      *weather.Handler
	Market       *market.Handler
	Assistant    *assistant.Handler
	Voice        *voice.Handler
	Reports      *reports.Handler
}

// NewRouter builds the gin engine with the global middleware stack and all routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	if d.Config.IsDevelopment() {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.RequestID(d.Logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	Setup(r, d)
	return r
}

func Setup(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(middleware.RateLimiter(d.Config.RateLimitPerMinute, d.Redis, d.Logger))

	authn := middleware.AuthMiddleware(d.AuthSvc, d.Farmers)

	// ========== Auth ==========
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", d.Auth.Register)
		authGroup.POST("/login", d.Auth.Login)
		authGroup.POST("/refresh", authn, d.Auth.Refresh)
		authGroup.GET("/me", authn, d.Auth.Me)
	}

	protected := api.Group("")
	protected.Use(authn)

	// ========== Schemes ==========
	schemes := protected.Group("/schemes")
	{
		schemes.GET("", d.Scheme.ListSchemes)
		schemes.GET("/recommended", middleware.RequireFarmer(), d.Scheme.Recommended)
		schemes.GET("/:id", d.Scheme.GetScheme)
	}

	// Everything below acts on the caller's own farmer profile
	own := protected.Group("")
	own.Use(middleware.RequireFarmer())

	// ========== Farmer Profile ==========
	farmerGroup := own.Group("/farmer")
	{
		farmerGroup.GET("/profile", d.Farmer.GetProfile)
		farmerGroup.PUT("/profile", d.Farmer.UpdateProfile)
		farmerGroup.POST("/lands", d.Farmer.AddLand)
		farmerGroup.PUT("/lands/:id", d.Farmer.UpdateLand)
		farmerGroup.POST("/crops", d.Farmer.AddCrop)
		farmerGroup.PUT("/crops/:id", d.Farmer.UpdateCrop)
		farmerGroup.POST("/livestock", d.Farmer.AddLivestock)
		farmerGroup.PUT("/livestock/:id", d.Farmer.UpdateLivestock)
		farmerGroup.GET("/activity", d.Audit.GetActivity)
	}

	// ========== Bookmarks & Applications ==========
	own.GET("/bookmarks", d.Application.ListBookmarks)
	own.POST("/bookmarks", d.Application.AddBookmark)
	own.DELETE("/bookmarks/:schemeId", d.Application.RemoveBookmark)

	own.GET("/applications", d.Application.ListApplications)
	own.POST("/applications", d.Application.Submit)
	own.GET("/applications/:id", d.Application.GetApplication)

	// ========== Notifications ==========
	notifications := own.Group("/notifications")
	{
		notifications.GET("", d.Notification.List)
		notifications.GET("/unread-count", d.Notification.UnreadCount)
		notifications.GET("/stream", d.Notification.Stream)
		notifications.PUT("/read-all", d.Notification.MarkAllRead)
		notifications.PUT("/:id/read", d.Notification.MarkRead)
		notifications.POST("/devices", d.Notification.RegisterDevice)
	}

	// ========== Farm Utilities ==========
	own.GET("/dashboard/stats", d.Dashboard.GetStats)
	own.GET("/weather", d.Weather.GetWeather)
	own.GET("/market/prices", d.Market.GetPrices)
	own.GET("/farming/tips", d.Assistant.FarmingTips)
	protected.POST("/translate", d.Assistant.Translate)
	protected.POST("/voice/command", d.Voice.Command)

	// ========== Reports ==========
	reportGroup := own.Group("/reports")
	{
		reportGroup.GET("/applications", d.Reports.GetApplicationsReport)
		reportGroup.GET("/holdings", d.Reports.GetHoldingsReport)
	}

	// ========== Admin ==========
	admin := protected.Group("/admin")
	{
		admin.GET("/schemes", middleware.RBACMiddleware(auth.RoleAdmin), d.Scheme.ListAll)
		admin.POST("/schemes", middleware.RBACMiddleware(auth.RoleAdmin), d.Scheme.CreateScheme)
		admin.PUT("/schemes/:id", middleware.RBACMiddleware(auth.RoleAdmin), d.Scheme.UpdateScheme)
		admin.PATCH("/applications/:id/review", middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleAgent), d.Application.Review)
		admin.GET("/audit-logs", middleware.RBACMiddleware(auth.RoleAdmin), d.Audit.GetAuditLogs)
	}
}
