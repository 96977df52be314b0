package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SourceKind discriminates the provenance of a journal entry.
type SourceKind string

const (
	SourceManual             SourceKind = "manual"
	SourceAIGenerated        SourceKind = "ai_generated"
	SourceBankReconciliation SourceKind = "bank_reconciliation"
	SourceVoid               SourceKind = "void"
)

// EntrySource identifies how a journal entry came to exist. Each kind carries
// a fixed set of fields; unknown kinds are rejected at decode time.
type EntrySource interface {
	Kind() SourceKind
}

// ManualSource marks an entry keyed in by a person.
type ManualSource struct {
	EnteredBy string `json:"enteredBy"`
}

func (ManualSource) Kind() SourceKind { return SourceManual }

// AIGeneratedSource marks an entry drafted by a model from a document or
// free-text description.
type AIGeneratedSource struct {
	Model      string  `json:"model"`
	Confidence float64 `json:"confidence"`
}

func (AIGeneratedSource) Kind() SourceKind { return SourceAIGenerated }

// BankReconciliationSource marks an entry derived from a bank statement line.
type BankReconciliationSource struct {
	BankReference string `json:"bankReference"`
	StatementID   string `json:"statementID"`
}

func (BankReconciliationSource) Kind() SourceKind { return SourceBankReconciliation }

// VoidSource marks a reversal entry generated by voiding another entry.
type VoidSource struct {
	OriginalEntryID string `json:"originalEntryID"`
	Reason          string `json:"reason"`
}

func (VoidSource) Kind() SourceKind { return SourceVoid }

// sourceEnvelope is the persisted wire shape: {"kind":..., "data":{...}}.
type sourceEnvelope struct {
	Kind SourceKind      `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// EncodeEntrySource serialises s with its kind discriminator.
func EncodeEntrySource(s EntrySource) ([]byte, error) {
	if s == nil {
		return nil, errors.New("entry source is required")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode %s source: %w", s.Kind(), err)
	}
	return json.Marshal(sourceEnvelope{Kind: s.Kind(), Data: data})
}

// DecodeEntrySource parses a source envelope back into its concrete kind.
func DecodeEntrySource(raw []byte) (EntrySource, error) {
	var env sourceEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode entry source: %w", err)
	}
	switch env.Kind {
	case SourceManual:
		var s ManualSource
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return nil, fmt.Errorf("decode manual source: %w", err)
		}
		return s, nil
	case SourceAIGenerated:
		var s AIGeneratedSource
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return nil, fmt.Errorf("decode ai_generated source: %w", err)
		}
		return s, nil
	case SourceBankReconciliation:
		var s BankReconciliationSource
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return nil, fmt.Errorf("decode bank_reconciliation source: %w", err)
		}
		return s, nil
	case SourceVoid:
		var s VoidSource
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return nil, fmt.Errorf("decode void source: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown entry source kind %q", env.Kind)
	}
}
