package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/orbiter/internal/buildinfo"
	"github.com/dmitrijs2005/orbiter/internal/common"
	"github.com/dmitrijs2005/orbiter/internal/logging"
	"github.com/dmitrijs2005/orbiter/internal/server/auth"
	"github.com/dmitrijs2005/orbiter/internal/server/users"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthPingTimeout = 2 * time.Second

type handlers struct {
	users   *users.Service
	store   Pinger
	logger  logging.Logger
	metrics *Metrics
	prefix  string
	now     func() time.Time
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "register", errors.Join(errInvalidBody, err))
		return
	}

	ctx := c.Request.Context()
	h.logger.Info(ctx, "Registration request", "username", req.Username, "email", common.RedactEmail(req.Email))

	user, err := h.users.Register(ctx, users.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(registrationOutcome(err)).Inc()
		h.respondError(c, "register", err)
		return
	}

	h.metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	h.logger.Info(ctx, "Registered", "user_id", user.ID, "username", user.Username)

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "login", errors.Join(errInvalidBody, err))
		return
	}

	ctx := c.Request.Context()

	token, user, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		h.respondError(c, "login", err)
		return
	}

	h.metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.logger.Info(ctx, "Logged in", "user_id", user.ID, "token", common.RedactToken())

	c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

func (h *handlers) me(c *gin.Context, id auth.Identity) {
	user, err := h.users.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		h.respondError(c, "me", err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *handlers) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	resp := healthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   buildinfo.Version(),
		Services:  map[string]string{"api": "up", "database": "up"},
	}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error(ctx, "health check: database unreachable", "error", err)
		resp.Status = "degraded"
		resp.Services["database"] = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}

func (h *handlers) endpoints() gin.H {
	return gin.H{
		"auth": gin.H{
			"register": h.prefix + "/auth/register",
			"login":    h.prefix + "/auth/login",
		},
		"users": gin.H{
			"me": h.prefix + "/users/me",
		},
		"system": gin.H{
			"health":  h.prefix + "/health",
			"metrics": "/metrics",
		},
	}
}

func (h *handlers) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":         "Orbiter API",
		"version":      buildinfo.Version(),
		"description":  "User registration and bearer token authentication",
		"health_check": h.prefix + "/health",
		"endpoints":    h.endpoints(),
	})
}

func (h *handlers) apiIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "available",
		"version":   buildinfo.Version(),
		"endpoints": h.endpoints(),
	})
}

func (h *handlers) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
}

func registrationOutcome(err error) string {
	var verr *users.ValidationError
	switch {
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, common.ErrDuplicateUser):
		return "duplicate"
	default:
		return "error"
	}
}

func loginOutcome(err error) string {
	if errors.Is(err, common.ErrInvalidCredentials) {
		return "invalid_credentials"
	}
	return "error"
}
