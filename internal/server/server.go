// Package server exposes the HTTP surface: auth, profile and
// personalization management, the chat pipeline and operational
// endpoints.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"linguachat/internal/auth"
	"linguachat/internal/chat"
	"linguachat/internal/conversation"
	"linguachat/internal/graph"
	"linguachat/internal/metrics"
	"linguachat/internal/speech"
	"linguachat/internal/store"
	"linguachat/pkg/config"
	"linguachat/pkg/logger"
)

// Server holds all request-handling dependencies, constructed once at
// process start and passed by reference.
type Server struct {
	cfg      *config.Config
	users    *store.UserStore
	tokens   *auth.TokenManager
	manager  *conversation.Manager
	orch     *chat.Orchestrator
	speech   *speech.Synthesizer
	facts    *graph.Pipeline // nil when the graph store is not configured
	limiter  *RateLimiter
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// New wires a server from its dependencies
func New(
	cfg *config.Config,
	users *store.UserStore,
	tokens *auth.TokenManager,
	manager *conversation.Manager,
	orch *chat.Orchestrator,
	synth *speech.Synthesizer,
	facts *graph.Pipeline,
	gatherer prometheus.Gatherer,
) *Server {
	return &Server{
		cfg:      cfg,
		users:    users,
		tokens:   tokens,
		manager:  manager,
		orch:     orch,
		speech:   synth,
		facts:    facts,
		limiter:  NewRateLimiter(cfg.ChatRatePerMinute, cfg.ChatBurst),
		gatherer: gatherer,
		logger:   logger.Get().Named("http"),
	}
}

// Router builds the gin engine with all routes and middleware
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(requestLogger(s.logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Language Exchange API is running",
		})
	})

	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(s.gatherer)))
	}

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", s.handleSignup)
		authRoutes.POST("/login", s.handleLogin)
		authRoutes.GET("/profile", auth.Middleware(s.tokens), s.handleGetProfile)
		authRoutes.POST("/logout", auth.Middleware(s.tokens), s.handleLogout)
	}

	userRoutes := api.Group("/user", auth.Middleware(s.tokens))
	{
		userRoutes.PUT("/profile", s.handleUpdateProfile)
		userRoutes.PUT("/personalization", s.handleUpdatePersonalization)
		userRoutes.DELETE("/personalization", s.handleDeletePersonalization)
		userRoutes.GET("/graph-context", s.handleGraphContext)
		userRoutes.GET("/graph-stats", s.handleGraphStats)
	}

	chatRoutes := api.Group("/chat", auth.Middleware(s.tokens))
	{
		chatRoutes.POST("/message", s.limiter.Middleware(), s.handleMessage)
		chatRoutes.GET("/history", s.handleHistory)
		chatRoutes.POST("/new-session", s.handleNewSession)
		chatRoutes.POST("/regenerate-audio", s.handleRegenerateAudio)
	}

	return router
}
