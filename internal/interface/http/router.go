package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wenliu/beebuddy/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server. Route
// paths are part of the UI contract and are served without a version prefix.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/health", handler.Health)
	router.GET("/puzzle", handler.Puzzle)
	router.GET("/active", handler.Active)
	router.GET("/stats/:puzzleId", handler.Stats)
	router.GET("/progress", handler.Progress)
	router.GET("/hints", handler.Hints)

	router.NoRoute(func(c *gin.Context) {
		routeNotFound(c)
	})

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
