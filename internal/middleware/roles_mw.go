package middleware

import (
	"task_manager/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware rejects tokens issued for another tier. Users and admins are
// separate principals, so a mismatch is an authentication failure.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			abortUnauthorized(c)
			return
		}

		role, ok := roleVal.(string)
		if !ok {
			abortUnauthorized(c)
			return
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				c.Next()
				return
			}
		}
		abortUnauthorized(c)
	}
}

// AdminMiddleware checks if the token belongs to an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// UserMiddleware checks if the token belongs to an end user
func UserMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleUser)
}
