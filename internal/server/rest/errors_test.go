package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/orbiter/internal/common"
	"github.com/dmitrijs2005/orbiter/internal/server/auth"
	"github.com/dmitrijs2005/orbiter/internal/server/users"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRenderError(t *testing.T) {
	fields := map[string]string{"username": "must be at least 3 characters"}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   gin.H
	}{
		{"validation", &users.ValidationError{Fields: fields}, http.StatusBadRequest,
			gin.H{"error": "validation failed", "fields": fields}},
		{"bad body", errors.Join(errInvalidBody, errors.New("EOF")), http.StatusBadRequest,
			gin.H{"error": "invalid request body"}},
		{"duplicate", common.ErrDuplicateUser, http.StatusConflict,
			gin.H{"error": "username already taken"}},
		{"invalid credentials", common.ErrInvalidCredentials, http.StatusUnauthorized,
			gin.H{"error": "invalid username or password"}},
		{"unauthorized", common.ErrorUnauthorized, http.StatusUnauthorized, gin.H{"error": "unauthorized"}},
		{"subject gone", common.ErrorNotFound, http.StatusUnauthorized, gin.H{"error": "unauthorized"}},
		{"expired", fmt.Errorf("%w: detail", auth.ErrTokenExpired), http.StatusUnauthorized, gin.H{"error": "unauthorized"}},
		{"bad signature", auth.ErrBadSignature, http.StatusUnauthorized, gin.H{"error": "unauthorized"}},
		{"malformed", auth.ErrMalformedToken, http.StatusUnauthorized, gin.H{"error": "unauthorized"}},
		{"missing", auth.ErrMissingToken, http.StatusUnauthorized, gin.H{"error": "unauthorized"}},
		{"bad scheme", auth.ErrBadScheme, http.StatusUnauthorized, gin.H{"error": "unauthorized"}},
		{"internal wins over its cause", fmt.Errorf("%w: find user: %w", common.ErrorInternal, common.ErrorNotFound),
			http.StatusInternalServerError, gin.H{"error": "internal server error"}},
		{"unknown", errors.New("pq: password authentication failed for user \"orbiter\""),
			http.StatusInternalServerError, gin.H{"error": "internal server error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := renderError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
