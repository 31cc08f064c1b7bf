package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
	"library-backend/pkg/jwt"
)

// AuthMiddleware validates the bearer token and stores
// userID and role into the gin context.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Invalid user ID in token")
			c.Abort()
			return
		}

		c.Set(shared.ContextUserID, userID)
		c.Set(shared.ContextRole, claims.Role)

		c.Next()
	}
}

// CurrentUser extracts the authenticated user id and role from the context.
// found = false means the auth middleware did not run.
func CurrentUser(c *gin.Context) (uuid.UUID, string, bool) {
	idVal, exists := c.Get(shared.ContextUserID)
	if !exists {
		return uuid.Nil, "", false
	}
	userID, ok := idVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}

	role := c.GetString(shared.ContextRole)
	return userID, role, true
}
