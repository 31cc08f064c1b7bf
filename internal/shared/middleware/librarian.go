package middleware

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
)

// LibrarianMiddleware checks that the authenticated user has the librarian role.
// Must run after AuthMiddleware.
func LibrarianMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(shared.ContextRole)
		if !exists {
			response.Forbidden(c, "Access denied: librarian role required")
			c.Abort()
			return
		}

		role, ok := roleVal.(string)
		if !ok || role != shared.RoleLibrarian {
			response.Forbidden(c, "Access denied: librarian role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
