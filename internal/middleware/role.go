package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole is a middleware that checks if the account has the required role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get account info from context (set by JWTAuth middleware)
		accountID, exists := c.Get(ContextAccountID)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not authenticated"})
			c.Abort()
			return
		}

		// Get role from JWT claims
		role, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account role not found in token"})
			c.Abort()
			return
		}

		accountRole, ok := role.(string)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid role format"})
			c.Abort()
			return
		}

		if accountRole != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{
				"error":         "Insufficient permissions",
				"required_role": requiredRole,
				"account_role":  accountRole,
				"account_id":    accountID,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
