package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"auth-service/internal/service"
)

const (
	contextUserKey  = "auth.user"
	contextTokenKey = "auth.token"

	requestIDHeader = "X-Request-ID"
)

// requireToken resolves the Authorization header against active session
// tokens and aborts with 403 when no valid session is presented.
func (h *Handler) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := tokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": service.ErrUnauthenticated.Error()})
			return
		}

		user, err := h.tokens.Resolve(c.Request.Context(), value)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				h.logger.WithField("path", c.Request.URL.Path).Warn("invalid session token")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "invalid token"})
				return
			}
			h.logger.WithError(err).Error("resolve session token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextTokenKey, value)
		c.Next()
	}
}

// tokenFromHeader parses "Authorization: Token <value>". The Bearer scheme
// is accepted as an equivalent.
func tokenFromHeader(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !(strings.EqualFold(parts[0], "Token") || strings.EqualFold(parts[0], "Bearer")) {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
