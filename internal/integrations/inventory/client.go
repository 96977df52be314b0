// Package inventory notifies an external inventory system about ledger
// activity. The engine treats it as fire-and-forget: callers swallow errors
// at their side-effect boundary.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
)

const defaultTimeout = 10 * time.Second

// Client calls the inventory service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for the inventory service at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Ensure Client implements the portssvc.InventorySyncer interface
var _ portssvc.InventorySyncer = (*Client)(nil)

type purchaseLine struct {
	AccountID   string            `json:"accountID"`
	Debit       domain.Money      `json:"debit"`
	Credit      domain.Money      `json:"credit"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type purchaseEvent struct {
	EntryID   string         `json:"entryID"`
	TenantID  string         `json:"tenantID"`
	CompanyID *string        `json:"companyID,omitempty"`
	EntryDate time.Time      `json:"entryDate"`
	Reference string         `json:"reference,omitempty"`
	Memo      string         `json:"memo,omitempty"`
	Lines     []purchaseLine `json:"lines"`
}

type categoryScanEvent struct {
	EntryID    string   `json:"entryID"`
	TenantID   string   `json:"tenantID"`
	CompanyID  *string  `json:"companyID,omitempty"`
	Categories []string `json:"categories"`
}

// SyncPurchase reports a newly created purchase-like entry.
func (c *Client) SyncPurchase(ctx context.Context, entry domain.JournalEntry) error {
	event := purchaseEvent{
		EntryID:   entry.EntryID,
		TenantID:  entry.TenantID,
		CompanyID: entry.CompanyID,
		EntryDate: entry.EntryDate,
		Reference: entry.Reference,
		Memo:      entry.Memo,
		Lines:     make([]purchaseLine, len(entry.Lines)),
	}
	for i, line := range entry.Lines {
		event.Lines[i] = purchaseLine{
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
			Metadata:    line.Metadata,
		}
	}

	return c.post(ctx, "/v1/purchases", event)
}

// SyncCategoryScan asks the inventory system to rescan categories touched by
// a freshly posted entry. Categories come from line metadata.
func (c *Client) SyncCategoryScan(ctx context.Context, entry domain.JournalEntry) error {
	seen := make(map[string]struct{})
	categories := []string{}
	for _, line := range entry.Lines {
		category, ok := line.Metadata["category"]
		if !ok || category == "" {
			continue
		}
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}

	event := categoryScanEvent{
		EntryID:    entry.EntryID,
		TenantID:   entry.TenantID,
		CompanyID:  entry.CompanyID,
		Categories: categories,
	}

	return c.post(ctx, "/v1/category-scans", event)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode inventory payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build inventory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inventory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("inventory service returned status %d for %s", resp.StatusCode, path)
	}
	return nil
}
