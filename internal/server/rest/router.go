package rest

import (
	"time"

	"github.com/dmitrijs2005/orbiter/internal/logging"
	"github.com/dmitrijs2005/orbiter/internal/server/auth"
	"github.com/dmitrijs2005/orbiter/internal/server/users"
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the collaborators of the HTTP API.
type RouterConfig struct {
	Users   *users.Service
	Codec   *auth.Codec
	Store   Pinger
	Logger  logging.Logger
	Metrics *Metrics
	// Prefix is prepended to the API routes, "" or "/segment".
	Prefix string
}

// NewRouter builds the gin engine serving the API:
//
//	POST {prefix}/auth/register
//	POST {prefix}/auth/login
//	GET  {prefix}/users/me        (bearer token)
//	GET  {prefix}/health
//	GET  {prefix}, /              endpoint index
//	GET  /metrics
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger.With("module", "http")

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	h := &handlers{
		users:   cfg.Users,
		store:   cfg.Store,
		logger:  logger,
		metrics: metrics,
		prefix:  cfg.Prefix,
		now:     time.Now,
	}
	gate := NewGate(cfg.Codec, cfg.Logger, metrics)

	r := gin.New()
	// ClientIP must come from the connection, not from X-Forwarded-For.
	_ = r.SetTrustedProxies(nil)
	// recovery sits innermost so the logger and metrics see the 500 it writes.
	r.Use(requestID(), requestLogger(logger), observe(metrics), recovery(logger))

	r.GET("/", h.index)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group(cfg.Prefix)
	if cfg.Prefix != "" {
		api.GET("", h.apiIndex)
	}
	api.GET("/health", h.health)
	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.GET("/users/me", gate.Protect(h.me))

	r.NoRoute(h.notFound)

	return r
}
