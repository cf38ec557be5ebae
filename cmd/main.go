package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/krishimitra/farmer-portal-backend/config"
	"github.com/krishimitra/farmer-portal-backend/database"
	"github.com/krishimitra/farmer-portal-backend/internal/application"
	"github.com/krishimitra/farmer-portal-backend/internal/assistant"
	"github.com/krishimitra/farmer-portal-backend/internal/market"
	"github.com/krishimitra/farmer-portal-backend/internal/notification"
	"github.com/krishimitra/farmer-portal-backend/internal/weather"
	"github.com/krishimitra/farmer-portal-backend/routes"
	"github.com/krishimitra/farmer-portal-backend/utils"
)

// @title Farmer Portal API
// @version 1.0
// @description Scheme discovery, applications and farm utilities for registered farmers.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "farmer-portal",
		Short:        "Farmer portal backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	var skipMigrate bool
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the review consumer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if skipMigrate {
				return runServeWith(cmd.Context(), false)
			}
			return runServe(cmd.Context())
		},
	}
	serve.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run AutoMigrate on startup")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate()
		},
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Load the scheme catalog and demo farmer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context())
		},
	}

	root.AddCommand(serve, migrate, seed)
	return root
}

// bootstrap loads the config and logger shared by every command.
func bootstrap() (*config.Config, *zap.Logger, func(), error) {
	cfg := config.Load()

	logger, err := utils.NewLogger(cfg.IsDevelopment())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, func() { _ = logger.Sync() }, nil
}

func runMigrate() error {
	cfg, logger, done, err := bootstrap()
	if err != nil {
		return err
	}
	defer done()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("❌ Database connection failed", zap.Error(err))
		return err
	}

	logger.Info("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		logger.Error("❌ DB AutoMigrate failed", zap.Error(err))
		return err
	}
	logger.Info("✅ Database migrations completed")
	return nil
}

func runSeed(ctx context.Context) error {
	cfg, logger, done, err := bootstrap()
	if err != nil {
		return err
	}
	defer done()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("❌ Database connection failed", zap.Error(err))
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	catalog, err := database.LoadCatalog()
	if err != nil {
		return err
	}
	if _, err := database.Seed(ctx, db, catalog, time.Now(), logger); err != nil {
		logger.Error("❌ Seeding failed", zap.Error(err))
		return err
	}
	return nil
}

func runServe(ctx context.Context) error {
	return runServeWith(ctx, true)
}

func runServeWith(parent context.Context, migrate bool) error {
	cfg, logger, done, err := bootstrap()
	if err != nil {
		return err
	}
	defer done()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("❌ Database connection failed", zap.Error(err))
		return err
	}
	if migrate {
		logger.Info("🔄 Running database migrations...")
		if err := database.Migrate(db); err != nil {
			logger.Error("❌ DB AutoMigrate failed", zap.Error(err))
			return err
		}
		logger.Info("✅ Database migrations completed")
	}

	// Init Redis
	rdb, err := utils.NewRedis(ctx, cfg)
	if err != nil {
		logger.Warn("⚠️ Redis unavailable, continuing without cache and stream", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
		logger.Info("✅ Redis connected", zap.String("addr", cfg.RedisAddr))
	}

	providers := selectProviders(ctx, cfg, logger)

	// Init Kafka
	writer := utils.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaApplicationTopic)
	if writer != nil {
		defer writer.Close()
		logger.Info("✅ Kafka producer ready", zap.String("topic", cfg.KafkaApplicationTopic))
	} else {
		logger.Info("⚠️ Kafka not configured (KAFKA_BROKERS missing), application events disabled")
	}
	providers.Events = application.NewPublisher(writer)

	app := routes.Wire(db, cfg, rdb, providers, logger)
	router := routes.NewRouter(app.Deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("🚀 Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if reader := utils.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaReviewTopic, cfg.KafkaGroupID); reader != nil {
		consumer := application.NewReviewConsumer(reader, app.Applications, logger)
		g.Go(func() error {
			return consumer.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("❌ Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("✅ Server stopped")
	return nil
}

// selectProviders picks real integrations when their credentials are present
// and leaves the rest nil so the mocks take over.
func selectProviders(ctx context.Context, cfg *config.Config, logger *zap.Logger) routes.Providers {
	var p routes.Providers

	// 🔥 Firebase push; a nil *FCMChannel must not become a non-nil Channel
	if ch := notification.NewFCMChannel(ctx, cfg.FCMCredentialsPath, logger); ch != nil {
		p.Push = ch
	}

	if cfg.WeatherAPIKey != "" {
		p.Weather = weather.NewOpenWeatherProvider(cfg.WeatherAPIKey)
		logger.Info("✅ OpenWeather provider enabled")
	} else {
		logger.Info("⚠️ Weather API key missing, using mock weather data")
	}

	if cfg.MarketPricesURL != "" {
		p.Market = market.NewMandiProvider(cfg.MarketPricesURL)
		logger.Info("✅ Mandi price provider enabled", zap.String("url", cfg.MarketPricesURL))
	} else {
		logger.Info("⚠️ MARKET_PRICES_URL missing, using generated market prices")
	}

	if cfg.GeminiAPIKey != "" {
		gp, err := assistant.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("⚠️ Gemini client init failed, AI features disabled", zap.Error(err))
		} else {
			p.Assistant = gp
			p.AssistantConfigured = true
			logger.Info("✅ Gemini assistant enabled", zap.String("model", cfg.GeminiModel))
		}
	} else {
		logger.Info("⚠️ GEMINI_API_KEY missing, translation disabled and default tips served")
	}

	return p
}
