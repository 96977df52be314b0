package dto

import (
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// AnomalyReportResponse represents one finding from the anomaly scan.
type AnomalyReportResponse struct {
	EntryID         string   `json:"entryID"`
	AnomalyType     string   `json:"anomalyType"`
	Severity        string   `json:"severity"`
	Description     string   `json:"description"`
	RelatedEntryIDs []string `json:"relatedEntryIDs,omitempty"`
}

// ListAnomaliesResponse wraps the anomaly scan results. WindowDays echoes the
// requested window and is omitted when the server default was used.
type ListAnomaliesResponse struct {
	WindowDays int                     `json:"windowDays,omitempty"`
	Anomalies  []AnomalyReportResponse `json:"anomalies"`
}

// ToAnomalyReportResponse converts a domain.AnomalyReport to its DTO.
func ToAnomalyReportResponse(report *domain.AnomalyReport) AnomalyReportResponse {
	return AnomalyReportResponse{
		EntryID:         report.EntryID,
		AnomalyType:     string(report.AnomalyType),
		Severity:        string(report.Severity),
		Description:     report.Description,
		RelatedEntryIDs: report.RelatedEntryIDs,
	}
}

// ToListAnomaliesResponse converts a slice of domain.AnomalyReport to the list DTO.
func ToListAnomaliesResponse(reports []domain.AnomalyReport, windowDays int) ListAnomaliesResponse {
	anomalies := make([]AnomalyReportResponse, len(reports))
	for i, report := range reports {
		anomalies[i] = ToAnomalyReportResponse(&report)
	}
	return ListAnomaliesResponse{WindowDays: windowDays, Anomalies: anomalies}
}

// ListAnomaliesParams are the query parameters accepted by the anomaly scan.
type ListAnomaliesParams struct {
	CompanyID  *string `form:"companyID"`
	WindowDays int     `form:"windowDays"`
}
