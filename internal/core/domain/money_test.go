package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain amount", input: "120.50", want: "120.50"},
		{name: "integer amount", input: "99", want: "99.00"},
		{name: "rounds half up at construction", input: "10.005", want: "10.01"},
		{name: "rounds down below half", input: "10.004", want: "10.00"},
		{name: "negative amount", input: "-3.2", want: "-3.20"},
		{name: "rejects non-numeric", input: "ten dollars", wantErr: true},
		{name: "rejects empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NewMoneyFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewMoneyFromFloat64(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		want    string
		wantErr bool
	}{
		{name: "plain amount", input: 120.5, want: "120.50"},
		{name: "rejects NaN", input: math.NaN(), wantErr: true},
		{name: "rejects positive infinity", input: math.Inf(1), wantErr: true},
		{name: "rejects negative infinity", input: math.Inf(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NewMoneyFromFloat64(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := mustMoney(t, "100.10")
	b := mustMoney(t, "0.20")

	assert.Equal(t, "100.30", a.Add(b).String())
	assert.Equal(t, "99.90", a.Sub(b).String())
	assert.Equal(t, "-100.10", a.Neg().String())
	assert.Equal(t, "100.10", a.Neg().Abs().String())
	assert.True(t, a.GreaterThan(b))
	assert.True(t, b.LessThan(a))
	assert.Equal(t, 1, a.Cmp(b))
}

func TestMoney_ExactEquality(t *testing.T) {
	// 0.1 + 0.2 must equal 0.3 exactly; there is no epsilon tolerance.
	sum := mustMoney(t, "0.1").Add(mustMoney(t, "0.2"))
	assert.True(t, sum.Equal(mustMoney(t, "0.3")))
	assert.False(t, sum.Equal(mustMoney(t, "0.31")))
}

func TestMoney_ZeroValue(t *testing.T) {
	var m domain.Money
	assert.True(t, m.IsZero())
	assert.True(t, m.Equal(domain.ZeroMoney()))
	assert.Equal(t, "0.00", m.String())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := mustMoney(t, "1234.56")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"1234.56"`, string(data))

	var back domain.Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equal(back))

	// Bare numeric literals are accepted and quantized.
	require.NoError(t, json.Unmarshal([]byte(`19.999`), &back))
	assert.Equal(t, "20.00", back.String())

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &back))
}

func TestMoneyFromDecimal_Quantizes(t *testing.T) {
	m := domain.MoneyFromDecimal(decimal.RequireFromString("5.555"))
	assert.Equal(t, "5.56", m.String())
}

func mustMoney(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}
