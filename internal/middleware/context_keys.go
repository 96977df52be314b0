package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// callerIDKey holds the authenticated caller's ID: a user ID for JWT auth, a
// service token identity for API token auth.
const callerIDKey = contextKey("callerID")

// tenantIDKey holds the tenant the caller is scoped to.
const tenantIDKey = contextKey("tenantID")

// GetCallerIDFromContext retrieves the authenticated caller ID from the Gin
// context. It returns the caller ID and a boolean indicating if it was found.
func GetCallerIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, callerIDKey)
}

// GetTenantIDFromContext retrieves the authenticated tenant ID from the Gin
// context. It returns the tenant ID and a boolean indicating if it was found.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, tenantIDKey)
}

func stringFromContext(c *gin.Context, key contextKey) (string, bool) {
	if val, exists := c.Get(string(key)); exists {
		s, ok := val.(string)
		return s, ok
	}
	// Check the request context as well; auth middleware stores values there.
	if val := c.Request.Context().Value(key); val != nil {
		s, ok := val.(string)
		return s, ok
	}
	return "", false
}

// withCaller stamps the caller identity into a standard context.
func withCaller(ctx context.Context, callerID, tenantID string) context.Context {
	ctx = context.WithValue(ctx, callerIDKey, callerID)
	return context.WithValue(ctx, tenantIDKey, tenantID)
}
