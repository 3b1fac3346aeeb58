package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/myiephero/matchengine/config"
	"github.com/myiephero/matchengine/handlers"
	"github.com/myiephero/matchengine/matching"
	"github.com/myiephero/matchengine/metrics"
	"github.com/myiephero/matchengine/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config, engine *matching.Engine, m *metrics.Metrics) {
	mh := handlers.NewMatchHandler(engine)
	sh := handlers.NewSummaryHandler()

	// ===== Public =====
	e.GET("/health", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Matching =====
	match := e.Group("/match", authMW)
	match.GET("", mh.List)
	match.GET("/:id/events", mh.Events)
	match.POST("/propose", mh.Propose)
	match.POST("/:id/intro", mh.Intro)
	match.POST("/:id/accept", mh.Accept)
	match.POST("/:id/decline", mh.Decline)

	// ===== Admin =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole("admin"))
	admin.GET("/match/summary", sh.Summary)
}
