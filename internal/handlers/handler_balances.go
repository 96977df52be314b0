package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
	"github.com/ledgerforge/ledger_engine/internal/dto"
	"github.com/ledgerforge/ledger_engine/internal/middleware"
)

// balanceHandler handles HTTP requests for period balance reports.
type balanceHandler struct {
	balanceService portssvc.BalanceSvc
}

// newBalanceHandler creates a new balanceHandler.
func newBalanceHandler(bs portssvc.BalanceSvc) *balanceHandler {
	return &balanceHandler{
		balanceService: bs,
	}
}

// registerBalanceRoutes registers the period balance report route.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc) {
	h := newBalanceHandler(balanceService)

	rg.GET("/balances", h.ledgerBalances)
}

// ledgerBalances godoc
// @Summary Period balance report
// @Description Aggregates every Posted entry between from and to (inclusive) into one row per account, ordered by account code. Draft and Voided entries never contribute.
// @Tags balances
// @Produce  json
// @Param   companyID query string false "Filter by company"
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerBalancesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute balances"
// @Security BearerAuth
// @Router /balances [get]
func (h *balanceHandler) ledgerBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		logger.Error("Caller ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		logger.Error("Tenant ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.LedgerBalancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for LedgerBalances", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if params.To.Before(params.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return
	}

	logger.Info("Received request for period balances",
		slog.String("from", params.From.Format("2006-01-02")),
		slog.String("to", params.To.Format("2006-01-02")))

	balances, err := h.balanceService.LedgerBalances(c.Request.Context(), tenantID, params.CompanyID, params.From, params.To, callerID)
	if err != nil {
		logger.Error("Failed to compute period balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balances"})
		return
	}

	logger.Info("Period balances computed", slog.Int("account_count", len(balances)))
	c.JSON(http.StatusOK, dto.ToLedgerBalancesResponse(balances, params.From, params.To))
}
