package middleware

import "github.com/gin-gonic/gin"

// userIDKey holds the authenticated user's ID; businessIDKey holds the acting
// business scope. Both are supplied by the auth middleware from token claims
// and trusted downstream for audit fields and scoping.
const (
	userIDKey     = contextKey("userID")
	businessIDKey = contextKey("businessID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(userIDKey); v != nil {
		userID, ok := v.(string)
		return userID, ok
	}
	return "", false
}

// GetBusinessIDFromContext retrieves the acting business scope from the Gin context.
func GetBusinessIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(businessIDKey); v != nil {
		businessID, ok := v.(string)
		return businessID, ok
	}
	return "", false
}
