package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerforge/ledger_engine/internal/apperrors"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
	"github.com/ledgerforge/ledger_engine/internal/dto"
	"github.com/ledgerforge/ledger_engine/internal/middleware"
)

// entryHandler handles HTTP requests related to journal entries.
type entryHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newEntryHandler creates a new entryHandler.
func newEntryHandler(js portssvc.JournalSvcFacade) *entryHandler {
	return &entryHandler{
		journalService: js,
	}
}

// RegisterEntryRoutes registers routes related to journal entries.
func RegisterEntryRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newEntryHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/void", h.voidEntry)
	}
}

// respondEntryError maps journal service errors to HTTP responses. Validation
// failures carry the accumulated result so callers see every problem at once.
func respondEntryError(c *gin.Context, logger *slog.Logger, err error, op string) {
	var validationErr *apperrors.ValidationError
	var lifecycleErr *apperrors.LifecycleError
	switch {
	case errors.As(err, &validationErr):
		logger.Warn("Entry failed validation", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Entry failed validation",
			"validation": dto.ToValidationResultResponse(validationErr.Result),
		})
	case errors.As(err, &lifecycleErr):
		logger.Warn("Entry lifecycle conflict", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAccountResolution):
		logger.Warn("Account resolution failed", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Entry not found", slog.String("op", op))
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Invalid entry input", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Entry operation failed", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op + " entry"})
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Creates a new journal entry in Draft status. Lines may name accounts by ID or by free-form reference; references are resolved before validation. Unbalanced entries are auto-balanced when possible, and the validation outcome (warnings included) is returned alongside the entry.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.CreateEntryResponse
// @Failure 400 {object} map[string]string "Invalid input or failed validation"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create entry"
// @Security BearerAuth
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

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

	logger.Info("Received request to create entry", slog.Int("line_count", len(req.Lines)))

	entry, result, err := h.journalService.CreateEntry(c.Request.Context(), tenantID, req, callerID)
	if err != nil {
		respondEntryError(c, logger, err, "create")
		return
	}

	logger.Info("Entry created successfully",
		slog.String("entry_id", entry.EntryID),
		slog.Int("warning_count", len(result.Warnings)))
	c.JSON(http.StatusCreated, dto.CreateEntryResponse{
		Entry:      dto.ToEntryResponse(entry),
		Validation: dto.ToValidationResultResponse(result),
	})
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its lines.
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to get entry"
// @Security BearerAuth
// @Router /entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		logger.Error("Tenant ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), tenantID, entryID)
	if err != nil {
		respondEntryError(c, logger, err, "get")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a page of journal entries, newest first. Pass the returned nextToken to fetch the following page.
// @Tags entries
// @Produce  json
// @Param   companyID query string false "Filter by company"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		logger.Error("Tenant ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), tenantID, params)
	if err != nil {
		respondEntryError(c, logger, err, "list")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Re-validates a Draft entry and moves it to Posted. Posted entries are immutable.
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Entry failed validation"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not in Draft status"
// @Failure 500 {object} map[string]string "Failed to post entry"
// @Security BearerAuth
// @Router /entries/{entryID}/post [post]
func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

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

	logger = logger.With(slog.String("entry_id", entryID))
	logger.Info("Received request to post entry")

	entry, err := h.journalService.PostEntry(c.Request.Context(), tenantID, entryID, callerID)
	if err != nil {
		respondEntryError(c, logger, err, "post")
		return
	}

	logger.Info("Entry posted successfully")
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// voidEntry godoc
// @Summary Void a journal entry
// @Description Voids an entry by creating a posted reversal entry with debits and credits swapped, then marking the original Voided. The original's lines are never modified. Returns the reversal entry.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   void body dto.VoidEntryRequest true "Void reason"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already voided"
// @Failure 500 {object} map[string]string "Failed to void entry"
// @Security BearerAuth
// @Router /entries/{entryID}/void [post]
func (h *entryHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.VoidEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VoidEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

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

	logger = logger.With(slog.String("entry_id", entryID))
	logger.Info("Received request to void entry")

	reversal, err := h.journalService.VoidEntry(c.Request.Context(), tenantID, entryID, req, callerID)
	if err != nil {
		respondEntryError(c, logger, err, "void")
		return
	}

	logger.Info("Entry voided successfully", slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(reversal))
}
