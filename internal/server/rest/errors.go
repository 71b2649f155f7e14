package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/orbiter/internal/common"
	"github.com/dmitrijs2005/orbiter/internal/server/auth"
	"github.com/dmitrijs2005/orbiter/internal/server/users"
	"github.com/gin-gonic/gin"
)

const (
	msgInternal           = "internal server error"
	msgUnauthorized       = "unauthorized"
	msgInvalidCredentials = "invalid username or password"
	msgInvalidBody        = "invalid request body"
	msgValidation         = "validation failed"
	msgDuplicate          = "username already taken"
	msgNotFound           = "not found"
)

var errInvalidBody = errors.New(msgInvalidBody)

// renderError maps an error to the status and body the client sees. Only
// the category leaks; the cause stays in the server logs.
func renderError(err error) (int, gin.H) {
	var verr *users.ValidationError

	switch {
	case errors.Is(err, common.ErrorInternal):
		return http.StatusInternalServerError, gin.H{"error": msgInternal}

	case errors.As(err, &verr):
		return http.StatusBadRequest, gin.H{"error": msgValidation, "fields": verr.Fields}

	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, gin.H{"error": msgInvalidBody}

	case errors.Is(err, common.ErrDuplicateUser):
		return http.StatusConflict, gin.H{"error": msgDuplicate}

	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials}

	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorNotFound),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrBadScheme),
		errors.Is(err, auth.ErrMalformedToken),
		errors.Is(err, auth.ErrBadSignature),
		errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, gin.H{"error": msgUnauthorized}

	default:
		return http.StatusInternalServerError, gin.H{"error": msgInternal}
	}
}

// respondError logs err and writes the rendered response.
func (h *handlers) respondError(c *gin.Context, op string, err error) {
	status, body := renderError(err)

	ctx := c.Request.Context()
	if status >= http.StatusInternalServerError {
		h.logger.Error(ctx, op+" failed", "error", err)
	} else {
		h.logger.Info(ctx, op+" refused", "status", status, "error", err)
	}

	c.AbortWithStatusJSON(status, body)
}
