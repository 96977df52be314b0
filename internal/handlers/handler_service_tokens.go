package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerforge/ledger_engine/internal/apperrors"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
	"github.com/ledgerforge/ledger_engine/internal/handlers/dto"
	"github.com/ledgerforge/ledger_engine/internal/middleware"
)

// APIErrorResponse represents a generic error response for API operations
// @Description Generic error response containing a message describing the error
// @Description This is used for all error responses in the API
type APIErrorResponse struct {
	// Message contains the error message
	Message string `json:"message" example:"An error occurred"`
}

// ServiceTokenResponse represents a service token in the API responses
// @Description Service token details returned in API responses
type ServiceTokenResponse struct {
	// ID is the unique identifier of the token
	ID string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Name is the caller-defined name for the token
	Name string `json:"name" example:"reconciliation-job"`
	// LastUsedAt is the timestamp when the token was last used (optional)
	LastUsedAt *string `json:"lastUsedAt,omitempty" example:"2023-01-01T12:00:00Z"`
	// ExpiresAt is the timestamp when the token will expire (optional)
	ExpiresAt *string `json:"expiresAt,omitempty" example:"2024-01-01T12:00:00Z"`
	// CreatedAt is the timestamp when the token was created
	CreatedAt string `json:"createdAt" example:"2023-01-01T12:00:00Z"`
}

// ListServiceTokensResponse represents a list of service tokens
// @Description A list of service tokens
type ListServiceTokensResponse []ServiceTokenResponse

// CreateServiceTokenRequest represents the request body for creating a new service token
// @Description Request body for creating a new service token
type CreateServiceTokenRequest struct {
	// Name is a caller-defined name for the token (3-100 characters)
	Name string `json:"name" binding:"required,min=3,max=100" example:"reconciliation-job"`
	// ExpiresIn is the duration in seconds after which the token will expire (optional)
	ExpiresIn *int64 `json:"expiresIn,omitempty" example:"2592000"` // 30 days in seconds
}

// CreateServiceTokenResponse represents the response when creating a new service token
// @Description Response returned when a new service token is created
type CreateServiceTokenResponse struct {
	// Token is the actual service token (only shown once at creation)
	Token string `json:"token" example:"lfk_abc123..."`
	// Details contains the token metadata
	Details ServiceTokenResponse `json:"details"`
}

// ServiceTokenHandler handles HTTP requests for service token operations
type ServiceTokenHandler struct {
	tokenSvc portssvc.ServiceTokenSvc
}

// NewServiceTokenHandler creates a new ServiceTokenHandler
func NewServiceTokenHandler(tokenSvc portssvc.ServiceTokenSvc) *ServiceTokenHandler {
	return &ServiceTokenHandler{
		tokenSvc: tokenSvc,
	}
}

// RegisterServiceTokenRoutes registers the service token routes
// @Summary Register service token routes
// @Description Registers all the service token related routes
// @Tags tokens
// @Router /service-tokens [post]
// @Router /service-tokens [get]
// @Router /service-tokens/{tokenID} [delete]
func RegisterServiceTokenRoutes(router *gin.RouterGroup, tokenSvc portssvc.ServiceTokenSvc) {
	handler := NewServiceTokenHandler(tokenSvc)

	tokensGroup := router.Group("/service-tokens")
	{
		tokensGroup.POST("", handler.CreateToken)
		tokensGroup.GET("", handler.ListTokens)
		tokensGroup.DELETE("/:tokenID", handler.RevokeToken)
	}
}

// CreateToken handles the creation of a new service token
// @Summary Create a new service token
// @Description Creates a new service token for the caller's tenant. The token will be shown only once upon creation.
// @Description The token can be used for machine authentication by including it in the x-api-key header.
// @Tags tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateServiceTokenRequest true "Token creation details"
// @Success 201 {object} CreateServiceTokenResponse
// @Failure 400 {object} APIErrorResponse
// @Failure 401 {object} APIErrorResponse
// @Failure 500 {object} APIErrorResponse
// @Router /service-tokens [post]
func (h *ServiceTokenHandler) CreateToken(c *gin.Context) {
	callerID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, APIErrorResponse{Message: "Unauthorized"})
		return
	}
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, APIErrorResponse{Message: "Unauthorized"})
		return
	}

	var req dto.CreateServiceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Message: "Invalid request body: " + err.Error()})
		return
	}

	var expiresIn *time.Duration
	if req.ExpiresIn != nil {
		d := time.Duration(*req.ExpiresIn) * time.Second
		expiresIn = &d
	}

	tokenStr, token, err := h.tokenSvc.CreateToken(c.Request.Context(), tenantID, callerID, req.Name, expiresIn)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, APIErrorResponse{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Message: "Failed to create token: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreateServiceTokenResponse(tokenStr, *token))
}

// ListTokens handles listing all service tokens for the caller's tenant
// @Summary List all service tokens
// @Description Lists all non-revoked service tokens for the caller's tenant. Only returns token metadata, not the actual token values.
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ListServiceTokensResponse
// @Failure 401 {object} APIErrorResponse
// @Failure 500 {object} APIErrorResponse
// @Router /service-tokens [get]
func (h *ServiceTokenHandler) ListTokens(c *gin.Context) {
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, APIErrorResponse{Message: "Unauthorized"})
		return
	}

	tokens, err := h.tokenSvc.ListTokens(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Message: "Failed to list tokens: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ToServiceTokenResponseList(tokens))
}

// RevokeToken handles revoking a specific service token
// @Summary Revoke a service token
// @Description Revokes a specific service token by ID. The token will be immediately invalidated.
// @Description Only tokens belonging to the caller's tenant can be revoked.
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Param tokenID path string true "Token ID (UUID format)" format(uuid)
// @Success 204 "Token revoked successfully"
// @Failure 400 {object} APIErrorResponse
// @Failure 401 {object} APIErrorResponse
// @Failure 404 {object} APIErrorResponse
// @Failure 500 {object} APIErrorResponse
// @Router /service-tokens/{tokenID} [delete]
func (h *ServiceTokenHandler) RevokeToken(c *gin.Context) {
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, APIErrorResponse{Message: "Unauthorized"})
		return
	}

	tokenID := c.Param("tokenID")
	if _, err := uuid.Parse(tokenID); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Message: "Invalid token ID"})
		return
	}

	err := h.tokenSvc.RevokeToken(c.Request.Context(), tenantID, tokenID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, APIErrorResponse{Message: "Token not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Message: "Failed to revoke token: " + err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
