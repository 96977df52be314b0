package domain

// AnomalyType classifies a suspicious posted entry.
type AnomalyType string

const (
	AnomalyUnbalanced  AnomalyType = "UNBALANCED"
	AnomalyLargeAmount AnomalyType = "LARGE_AMOUNT"
	AnomalyDuplicate   AnomalyType = "DUPLICATE"
)

// AnomalySeverity ranks findings for triage. Reports are ordered critical
// first, then high, then medium.
type AnomalySeverity string

const (
	SeverityCritical AnomalySeverity = "CRITICAL"
	SeverityHigh     AnomalySeverity = "HIGH"
	SeverityMedium   AnomalySeverity = "MEDIUM"
)

// AnomalyReport is a single finding produced by the anomaly scan.
type AnomalyReport struct {
	EntryID         string          `json:"entryID"`
	AnomalyType     AnomalyType     `json:"anomalyType"`
	Severity        AnomalySeverity `json:"severity"`
	Description     string          `json:"description"`
	RelatedEntryIDs []string        `json:"relatedEntryIDs,omitempty"` // other members of a duplicate group
}
