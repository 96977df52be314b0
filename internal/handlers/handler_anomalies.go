package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
	"github.com/ledgerforge/ledger_engine/internal/dto"
	"github.com/ledgerforge/ledger_engine/internal/middleware"
)

// anomalyHandler handles HTTP requests for the anomaly scan.
type anomalyHandler struct {
	anomalyService portssvc.AnomalySvc
}

// newAnomalyHandler creates a new anomalyHandler.
func newAnomalyHandler(as portssvc.AnomalySvc) *anomalyHandler {
	return &anomalyHandler{
		anomalyService: as,
	}
}

// registerAnomalyRoutes registers the anomaly scan route.
func registerAnomalyRoutes(rg *gin.RouterGroup, anomalyService portssvc.AnomalySvc) {
	h := newAnomalyHandler(anomalyService)

	rg.GET("/anomalies", h.listAnomalies)
}

// listAnomalies godoc
// @Summary Scan posted entries for anomalies
// @Description Scans Posted entries over the trailing window for unbalanced entries, unusually large amounts and likely duplicates. Findings are ordered by severity.
// @Tags anomalies
// @Produce  json
// @Param   companyID query string false "Filter by company"
// @Param   windowDays query int false "Trailing window in days; defaults to the configured window"
// @Success 200 {object} dto.ListAnomaliesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to scan for anomalies"
// @Security BearerAuth
// @Router /anomalies [get]
func (h *anomalyHandler) listAnomalies(c *gin.Context) {
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

	var params dto.ListAnomaliesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAnomalies", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if params.WindowDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "windowDays must not be negative"})
		return
	}

	logger.Info("Received request to scan for anomalies", slog.Int("window_days", params.WindowDays))

	reports, err := h.anomalyService.DetectAnomalies(c.Request.Context(), tenantID, params.CompanyID, params.WindowDays, callerID)
	if err != nil {
		logger.Error("Failed to scan for anomalies", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan for anomalies"})
		return
	}

	logger.Info("Anomaly scan finished", slog.Int("finding_count", len(reports)))
	c.JSON(http.StatusOK, dto.ToListAnomaliesResponse(reports, params.WindowDays))
}
