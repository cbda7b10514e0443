// In file: cmd/weather-agent/server.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dileep-u-k/weather-agent/internal/agent"
	"github.com/dileep-u-k/weather-agent/internal/api"
	"github.com/dileep-u-k/weather-agent/internal/tools"
)

// QueryHandler exposes the agent over HTTP. The agent answers one query at a
// time, so Process calls are serialized.
type QueryHandler struct {
	mu       sync.Mutex
	agent    *agent.Agent
	registry *tools.Registry
}

func NewQueryHandler(a *agent.Agent, registry *tools.Registry) *QueryHandler {
	return &QueryHandler{agent: a, registry: registry}
}

// Routes builds the gin engine.
func (h *QueryHandler) Routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", h.HandleHealth)
	v1 := engine.Group("/api/v1")
	{
		v1.POST("/query", h.HandleQuery)
		v1.GET("/tools", h.HandleTools)
		v1.GET("/usage", h.HandleUsage)
	}
	return engine
}

func (h *QueryHandler) HandleQuery(c *gin.Context) {
	var req api.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	h.mu.Lock()
	res := h.agent.Process(c.Request.Context(), req.Query)
	h.mu.Unlock()

	c.JSON(http.StatusOK, api.QueryResponse{
		Response: res.Response,
		Intent:   string(res.Intent),
		City:     res.City,
		Outcome:  string(res.Outcome),
		State:    string(res.State),
	})
}

func (h *QueryHandler) HandleTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.registry.List()})
}

func (h *QueryHandler) HandleUsage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"session_id": h.agent.SessionID(),
		"llm":        h.agent.Ledger().Summary(true),
		"calls":      h.agent.Counts(),
	})
}

func (h *QueryHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": GetBuildInfo().Version})
}

// runServerWithGracefulShutdown serves until SIGINT/SIGTERM, then drains for up to 10s.
func runServerWithGracefulShutdown(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("👂 Weather agent is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info().Msg("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("👋 Server exited gracefully.")
	return nil
}
