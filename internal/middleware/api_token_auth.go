package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
)

// ServiceTokenAuth authenticates machine callers presenting an x-api-key
// header. Requests without the header, or with one that fails validation,
// fall through to the JWT middleware.
func ServiceTokenAuth(tokenSvc portssvc.ServiceTokenSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" {
			c.Next() // No api key provided, let the bearer auth decide
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())

		token, err := tokenSvc.ValidateToken(c.Request.Context(), apiKey)
		if err != nil {
			logger.Warn("Service token rejected", slog.String("error", err.Error()))
			c.Next() // Fall through; bearer auth will reject if nothing else authenticates
			return
		}

		callerID := "svc:" + token.Name
		ctx := withCaller(c.Request.Context(), callerID, token.TenantID)
		enrichedLogger := logger.With(
			slog.String("caller_id", callerID),
			slog.String("tenant_id", token.TenantID),
		)
		c.Request = c.Request.WithContext(loggerIntoCtx(ctx, enrichedLogger))

		c.Set("authMethod", "api_token")
		c.Next()
	}
}
