// internal/server/server.go
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/user/contextrelay/internal/config"
	"github.com/user/contextrelay/internal/relay"
	"github.com/user/contextrelay/internal/types"
)

// Server routes inbound function calls to the provider clients. It holds no
// mutable state of its own; concurrent requests share nothing but the
// read-only configuration and clients.
type Server struct {
	cfg     *config.Config
	fetcher types.MessageFetcher
	writer  types.FileWriter
	relay   *relay.Relay
	engine  *gin.Engine
}

// New creates a Server over the given provider clients.
func New(cfg *config.Config, fetcher types.MessageFetcher, writer types.FileWriter) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:     cfg,
		fetcher: fetcher,
		writer:  writer,
		relay:   relay.New(fetcher, writer),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.GET("/health", s.handleHealth)

	functions := engine.Group("/functions", s.authMiddleware())
	functions.GET("", s.handleFunctions)
	functions.POST("/get_slack_messages", s.handleGetSlackMessages)
	functions.POST("/save_to_github", s.handleSaveToGithub)
	functions.POST("/slack_to_github_context", s.handleSlackToGithubContext)

	s.engine = engine
	return s
}

// Handler exposes the router, implementing http.Handler for the process
// entrypoint and for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
