// Package middleware provides the gin middleware chain: authentication
// context, request logging and Prometheus instrumentation.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SinghAman21/spendsplit/internal/auth"
	"github.com/SinghAman21/spendsplit/internal/models"
)

// userKey is the gin context key holding the authenticated user.
const userKey = "currentUser"

// CurrentUser returns the authenticated user from the request context, or
// nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// Authentication verifies a Bearer token if one is present and attaches the
// synced user to the request context.
//
// A missing token, or one whose issuer cannot be discovered, leaves the
// request anonymous; a present but invalid or expired token is rejected
// with 401. No route requires authentication, handlers only consume the
// context user when available.
func Authentication(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := verifier.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrIssuerUnknown) {
				c.Next()
				return
			}
			slog.Warn("Token rejected", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}
