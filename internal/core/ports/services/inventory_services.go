package services

import (
	"context"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
)

// InventorySyncer notifies an external inventory system about ledger activity.
// Calls are best-effort: the journal lifecycle swallows and logs failures at
// its side-effect boundary, so implementations should return plain errors and
// never panic.
type InventorySyncer interface {
	// SyncPurchase reports a newly created purchase-like entry.
	SyncPurchase(ctx context.Context, entry domain.JournalEntry) error

	// SyncCategoryScan asks the inventory system to rescan categories touched
	// by a freshly posted entry.
	SyncCategoryScan(ctx context.Context, entry domain.JournalEntry) error
}
