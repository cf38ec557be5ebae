package routes

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/krishimitra/farmer-portal-backend/config"
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
)

// Providers are the external integrations selected at startup. Nil fields
// fall back to the built-in mock or no-op implementation.
type Providers struct {
	Push                notification.Channel
	Events              application.Publisher
	Weather             weather.Provider
	Market              market.Provider
	Assistant           assistant.Provider
	AssistantConfigured bool
}

// App is the wired service graph.
type App struct {
	Deps         Deps
	Applications application.Service
}

// Wire builds repositories, services and handlers on top of db.
func Wire(db *gorm.DB, cfg *config.Config, rdb *redis.Client, p Providers, logger *zap.Logger) *App {
	if p.Weather == nil {
		p.Weather = weather.NewMockProvider()
	}
	if p.Market == nil {
		p.Market = market.NewMockProvider()
	}
	if p.Assistant == nil {
		p.Assistant = assistant.MockProvider{}
		p.AssistantConfigured = false
	}

	// ========== Audit Log ==========
	auditSvc := auditlog.NewService(auditlog.NewRepository(db), logger)

	// ========== Farmer & Auth ==========
	farmerSvc := farmer.NewService(farmer.NewRepository(db), auditSvc, logger)
	authSvc := auth.NewService(auth.NewRepository(db), farmerSvc, auditSvc, cfg, logger)

	// ========== Notifications ==========
	notificationSvc := notification.NewService(notification.NewRepository(db), p.Push, rdb, logger)

	// ========== Schemes & Applications ==========
	schemeRepo := scheme.NewRepository(db)
	applicationSvc := application.NewService(application.NewRepository(db), schemeRepo, notificationSvc, p.Events, auditSvc, logger)
	assistantSvc := assistant.NewService(p.Assistant, p.AssistantConfigured, farmerSvc, logger)

	policy := scheme.DefaultPolicy()
	if cfg.RecommendationThreshold > 0 {
		policy.Threshold = cfg.RecommendationThreshold
	}
	if cfg.RecommendationLimit > 0 {
		policy.Limit = cfg.RecommendationLimit
	}
	schemeSvc := scheme.NewService(schemeRepo, farmerSvc, applicationSvc, assistantSvc, auditSvc, policy, logger)

	// ========== Farm Utilities ==========
	dashboardSvc := dashboard.NewService(farmerSvc, applicationSvc)
	weatherSvc := weather.NewService(farmerSvc, weather.NewCachedProvider(p.Weather, rdb, logger), logger)
	marketSvc := market.NewService(farmerSvc, market.NewCachedProvider(p.Market, rdb, logger), logger)
	reportSvc := reports.NewReportService(applicationSvc, farmerSvc, reports.NewReportExporter(), auditSvc)

	return &App{
		Applications: applicationSvc,
		Deps: Deps{
			Config:  cfg,
			Logger:  logger,
			Redis:   rdb,
			AuthSvc: authSvc,
			Farmers: farmerSvc,

			Auth:         auth.NewHandler(authSvc),
			Farmer:       farmer.NewHandler(farmerSvc),
			Audit:        auditlog.NewHandler(auditSvc),
			Scheme:       scheme.NewHandler(schemeSvc),
			Application:  application.NewHandler(applicationSvc),
			Notification: notification.NewHandler(notificationSvc),
			Dashboard:    dashboard.NewHandler(dashboardSvc),
			Weather:      weather.NewHandler(weatherSvc),
			Market:       market.NewHandler(marketSvc),
			Assistant:    assistant.NewHandler(assistantSvc),
			Voice:        voice.NewHandler(),
			Reports:      reports.NewHandler(reportSvc),
		},
	}
}
