package server

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/bugai/backend/internal/config"
	"github.com/emilythestrangee/bugai/backend/internal/database"
	"github.com/emilythestrangee/bugai/backend/internal/handlers"
	"github.com/emilythestrangee/bugai/backend/internal/logger"
	"github.com/emilythestrangee/bugai/backend/internal/metrics"
	"github.com/emilythestrangee/bugai/backend/internal/middleware"
	"github.com/emilythestrangee/bugai/backend/internal/services"
	"github.com/emilythestrangee/bugai/backend/internal/telemetry"
	"github.com/emilythestrangee/bugai/backend/internal/validation"
)

// Deps are the collaborators the HTTP server is built from. Metrics and
// Reporter are optional.
type Deps struct {
	Config   *config.Config
	DB       database.Service
	Services *services.Services
	Metrics  *metrics.Metrics
	Reporter *telemetry.Reporter
	Logger   *slog.Logger
}

type Server struct {
	cfg      *config.Config
	db       database.Service
	services *services.Services
	handler  *handlers.Handler
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a server instance and installs the custom binding rules
func New(deps Deps) (*Server, error) {
	if err := validation.RegisterGin(); err != nil {
		return nil, err
	}
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Server{
		cfg:      deps.Config,
		db:       deps.DB,
		services: deps.Services,
		handler:  handlers.NewHandler(deps.Services, deps.Reporter, log),
		metrics:  deps.Metrics,
		logger:   logger.Module(log, "server"),
	}, nil
}

// NewServer creates and configures a new HTTP server
func NewServer(deps Deps) (*http.Server, error) {
	s, err := New(deps)
	if err != nil {
		return nil, err
	}
	return s.HTTPServer(), nil
}

// HTTPServer wraps the router with the configured address and timeouts
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Server.Address(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  s.cfg.Server.IdleTimeout,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(s.logger))
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
	}

	r.Use(cors.New(s.corsConfig()))

	r.GET("/health", s.health)

	if s.metrics != nil && s.cfg.Metrics.Enabled {
		r.GET(s.cfg.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}

	h := s.handler
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(s.services.Users))
	{
		// Case routes
		api.POST("/cases", h.Case.CreateCase)
		api.GET("/cases", h.Case.GetCases)
		api.GET("/cases/statistics", h.Case.GetStatistics)
		api.GET("/cases/user/:userId", h.Case.GetUserCases)
		api.GET("/cases/:id", h.Case.GetCase)
		api.POST("/cases/:id/whip", h.Case.Whip)
		api.POST("/cases/:id/vote-angry", h.Case.VoteAngry)
		api.POST("/cases/:id/vote-learn", h.Case.VoteLearn)
		api.POST("/cases/:id/share", h.Case.Share)
		api.POST("/cases/:id/view", h.Case.View)

		// Comment and like routes (anonymous allowed)
		api.GET("/comments/case/:caseId", h.Comment.GetComments)
		api.POST("/comments", h.Comment.CreateComment)
		api.POST("/likes/toggle", h.Like.ToggleLike)

		// User routes
		api.POST("/users/register", h.Auth.Register)
		api.POST("/users/login", h.Auth.Login)
		api.GET("/users/me", middleware.AuthMiddleware(s.services.Users), h.Auth.GetMe)
		api.GET("/users/:id", h.User.GetUserProfile)
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	stats := s.db.Health(c.Request.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, stats)
}

// corsConfig allows credentials only for an explicit origin list
func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Session-Key"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	origins := s.cfg.Server.Cors.AllowedOrigins
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
