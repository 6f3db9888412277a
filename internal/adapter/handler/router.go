package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lecture-insight-team/lecture-insight/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	webhookHandler  *RecordingWebhookHandler
	analysisHandler *Analysis
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, webhookHandler *RecordingWebhookHandler, analysisHandler *Analysis) *Router {
	return &Router{
		cfg:             cfg,
		webhookHandler:  webhookHandler,
		analysisHandler: analysisHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupRecordingRoutes(v1)
	rt.setupAnalysisRoutes(v1)
}

// setupRecordingRoutes configures recording webhook intake
func (rt *Router) setupRecordingRoutes(g *echo.Group) {
	if rt.webhookHandler != nil {
		g.POST("/recordings", rt.webhookHandler.HandleRecordingReady)
	} else {
		g.POST("/recordings", rt.notImplemented)
	}
}

// setupAnalysisRoutes configures synchronous analysis and run status routes
func (rt *Router) setupAnalysisRoutes(g *echo.Group) {
	if rt.analysisHandler != nil {
		g.POST("/analyses", rt.analysisHandler.AnalyzeInline)
		g.GET("/runs/:id", rt.analysisHandler.GetRunStatus)
		g.GET("/runs/:id/report", rt.analysisHandler.GetRunReport)
	} else {
		g.POST("/analyses", rt.notImplemented)
		g.GET("/runs/:id", rt.notImplemented)
		g.GET("/runs/:id/report", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
