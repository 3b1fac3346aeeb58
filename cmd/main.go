package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/myiephero/matchengine/config"
	"github.com/myiephero/matchengine/database"
	"github.com/myiephero/matchengine/logger"
	"github.com/myiephero/matchengine/matching"
	"github.com/myiephero/matchengine/metrics"
	"github.com/myiephero/matchengine/routes"
	"github.com/myiephero/matchengine/storage"
	"github.com/myiephero/matchengine/tagging"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	zl, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	// fails fast when the database is down, which is what we want at boot
	database.Connect(cfg)

	m := metrics.New()

	var provider tagging.Provider = tagging.Noop{}
	if cfg.GeminiAPIKey != "" {
		gen, err := tagging.NewGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			zl.Warn("gemini unavailable, tag extraction disabled", zap.Error(err))
		} else {
			provider = tagging.NewGemini(gen, cfg.TagTimeout, zl)
			zl.Info("tag extraction enabled", zap.String("model", cfg.GeminiModel))
		}
	} else {
		zl.Info("no GEMINI_API_KEY set, tag extraction disabled")
	}

	proposals := storage.NewProposalStore(database.DB)
	students := storage.NewStudentStore(database.DB)
	advocates := storage.NewAdvocateStore(database.DB)
	notifier := storage.NewNotificationDispatcher(database.DB, m, zl)

	scorer := matching.NewScorer(matching.DefaultWeights(), proposals, zl)
	engine := matching.NewEngine(proposals, students, advocates, scorer, provider, notifier, m, zl)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg, engine, m)

	addr := ":" + cfg.AppPort
	zl.Info("server listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
	if err := e.Start(addr); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
