package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	"github.com/ledgerforge/ledger_engine/internal/models"
)

// ToModelEntry converts a domain JournalEntry to a model JournalEntry,
// serialising the source envelope. Lines are mapped separately.
func ToModelEntry(d domain.JournalEntry) (models.JournalEntry, error) {
	source, err := domain.EncodeEntrySource(d.Source)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("failed to map entry %s: %w", d.EntryID, err)
	}
	return models.JournalEntry{
		EntryID:          d.EntryID,
		TenantID:         d.TenantID,
		CompanyID:        d.CompanyID,
		EntryDate:        d.EntryDate,
		Reference:        d.Reference,
		Memo:             d.Memo,
		Status:           models.EntryStatus(d.Status),
		Source:           source,
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry.
// Lines are not attached here; readers load them per entry.
func ToDomainEntry(m models.JournalEntry) (domain.JournalEntry, error) {
	source, err := domain.DecodeEntrySource(m.Source)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("failed to map entry %s: %w", m.EntryID, err)
	}
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		TenantID:         m.TenantID,
		CompanyID:        m.CompanyID,
		EntryDate:        m.EntryDate,
		Reference:        m.Reference,
		Memo:             m.Memo,
		Status:           domain.EntryStatus(m.Status),
		Source:           source,
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainEntrySlice converts a slice of model JournalEntries to a slice of domain JournalEntries
func ToDomainEntrySlice(ms []models.JournalEntry) ([]domain.JournalEntry, error) {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		d, err := ToDomainEntry(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// ToModelLine converts a domain JournalLine to a model JournalLine
func ToModelLine(d domain.JournalLine) (models.JournalLine, error) {
	var metadata []byte
	if len(d.Metadata) > 0 {
		b, err := json.Marshal(d.Metadata)
		if err != nil {
			return models.JournalLine{}, fmt.Errorf("failed to map line %s metadata: %w", d.LineID, err)
		}
		metadata = b
	}
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Debit:       d.Debit.Decimal(),
		Credit:      d.Credit.Decimal(),
		Description: d.Description,
		Metadata:    metadata,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainLine converts a model JournalLine to a domain JournalLine
func ToDomainLine(m models.JournalLine) (domain.JournalLine, error) {
	var metadata map[string]string
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return domain.JournalLine{}, fmt.Errorf("failed to map line %s metadata: %w", m.LineID, err)
		}
	}
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       domain.MoneyFromDecimal(m.Debit),
		Credit:      domain.MoneyFromDecimal(m.Credit),
		Description: m.Description,
		Metadata:    metadata,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelLineSlice converts a slice of domain JournalLines to a slice of model JournalLines
func ToModelLineSlice(ds []domain.JournalLine) ([]models.JournalLine, error) {
	ms := make([]models.JournalLine, len(ds))
	for i, d := range ds {
		m, err := ToModelLine(d)
		if err != nil {
			return nil, err
		}
		ms[i] = m
	}
	return ms, nil
}

// ToDomainLineSlice converts a slice of model JournalLines to a slice of domain JournalLines
func ToDomainLineSlice(ms []models.JournalLine) ([]domain.JournalLine, error) {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		d, err := ToDomainLine(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
