package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/erpbridge/xml-erp-bridge/internal/auth"
	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
)

// IdentityKey is the gin context key holding the verified *domain.Identity
const IdentityKey = "identity"

// AuthMiddleware creates a middleware that verifies bearer tokens and applies the allow-list
func AuthMiddleware(verifier auth.Verifier, allowList *auth.AllowList, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abort(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			logger.WithError(err).WithField("path", c.Request.URL.Path).Warn("auth error")
			if errors.Is(err, auth.ErrNoEmailClaim) {
				abort(c, http.StatusUnauthorized, "Invalid token: no email claim")
				return
			}
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if !allowList.Allows(identity.Email) {
			abort(c, http.StatusForbidden, "Email not authorized")
			return
		}

		// Set identity in context for handlers to use
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity set by AuthMiddleware
func IdentityFrom(c *gin.Context) (*domain.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*domain.Identity)
	return identity, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, model.ErrorResponse{
		Success: false,
		Status:  http.StatusText(status),
		Error:   message,
	})
}
