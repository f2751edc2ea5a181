// Package middleware holds gin middleware shared by the listener's routes.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roomtrack/backend/internal/auth"
	"github.com/roomtrack/backend/pkg/response"
)

// ContextOperatorEmail is the key for the operator email in gin context.
const ContextOperatorEmail = "operator_email"

// JWT returns a middleware that validates the bearer token and sets the
// operator claims in context.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextOperatorEmail, claims.Email)
		c.Next()
	}
}
