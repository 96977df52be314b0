package domain_test

import (
	"testing"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntrySource_EncodeDecode(t *testing.T) {
	tests := []struct {
		name   string
		source domain.EntrySource
	}{
		{
			name:   "manual",
			source: domain.ManualSource{EnteredBy: "user-1"},
		},
		{
			name:   "ai generated",
			source: domain.AIGeneratedSource{Model: "ledger-parse-v2", Confidence: 0.93},
		},
		{
			name:   "bank reconciliation",
			source: domain.BankReconciliationSource{BankReference: "TXN-889", StatementID: "stmt-42"},
		},
		{
			name:   "void",
			source: domain.VoidSource{OriginalEntryID: "entry-7", Reason: "duplicate invoice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := domain.EncodeEntrySource(tt.source)
			require.NoError(t, err)

			back, err := domain.DecodeEntrySource(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.source, back)
			assert.Equal(t, tt.source.Kind(), back.Kind())
		})
	}
}

func TestEntrySource_DecodeRejectsUnknownKind(t *testing.T) {
	_, err := domain.DecodeEntrySource([]byte(`{"kind":"telepathy","data":{}}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entry source kind")
}

func TestEntrySource_EncodeRejectsNil(t *testing.T) {
	_, err := domain.EncodeEntrySource(nil)
	assert.Error(t, err)
}

func TestAccountTypeForCode(t *testing.T) {
	tests := []struct {
		code   string
		want   domain.AccountType
		wantOK bool
	}{
		{code: "1300", want: domain.Asset, wantOK: true},
		{code: "2000", want: domain.Liability, wantOK: true},
		{code: "3100", want: domain.Equity, wantOK: true},
		{code: "4000", want: domain.Revenue, wantOK: true},
		{code: "5000", want: domain.Expense, wantOK: true},
		{code: "9999", want: domain.Expense, wantOK: true},
		{code: "0100", wantOK: false},
		{code: "X100", wantOK: false},
		{code: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := domain.AccountTypeForCode(tt.code)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
