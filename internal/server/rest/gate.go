package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/orbiter/internal/common"
	"github.com/dmitrijs2005/orbiter/internal/logging"
	"github.com/dmitrijs2005/orbiter/internal/server/auth"
	"github.com/gin-gonic/gin"
)

// ProtectedHandler serves a route that requires a verified caller. The
// identity is passed in; there is no other way to look it up.
type ProtectedHandler func(c *gin.Context, id auth.Identity)

// Gate enforces bearer token authentication on protected routes. It holds
// no per-request state and caches nothing.
type Gate struct {
	codec   *auth.Codec
	logger  logging.Logger
	metrics *Metrics
}

func NewGate(codec *auth.Codec, logger logging.Logger, metrics *Metrics) *Gate {
	return &Gate{
		codec:   codec,
		logger:  logger.With("module", "auth_gate"),
		metrics: metrics,
	}
}

// Authenticate resolves an Authorization header value to an identity.
//
//	""                  -> auth.ErrMissingToken
//	no "Bearer " prefix -> auth.ErrBadScheme
//	"Bearer <token>"    -> the result of verifying <token>
func (g *Gate) Authenticate(header string) (auth.Identity, error) {
	if header == "" {
		return auth.Identity{}, auth.ErrMissingToken
	}

	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok {
		return auth.Identity{}, auth.ErrBadScheme
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return auth.Identity{}, err
	}

	return claims.Identity(), nil
}

// Protect wraps next so that it only runs for an authenticated request.
// Every rejection gets the same 401 body; the reason goes to the log and
// the auth rejection counter.
func (g *Gate) Protect(next ProtectedHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := g.Authenticate(c.GetHeader(common.AuthorizationHeader))
		if err != nil {
			reason := auth.Reason(err)

			g.logger.Warn(c.Request.Context(), "request rejected",
				"reason", reason,
				"error", err,
				"path", c.Request.URL.Path,
			)
			if g.metrics != nil {
				g.metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
			}

			c.Header("WWW-Authenticate", `Bearer realm="orbiter"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
			return
		}

		next(c, id)
	}
}
