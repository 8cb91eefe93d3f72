package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestEntryStatus(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		settled string
		want    Status
	}{
		{"unsettled receivable", "1000.00", "0", StatusPending},
		{"partially settled receivable", "1000.00", "600.00", StatusPartiallySettled},
		{"fully settled receivable", "1000.00", "1000.00", StatusSettled},
		{"unsettled payable", "-250.50", "0", StatusPending},
		{"partially settled payable", "-250.50", "-100.00", StatusPartiallySettled},
		{"fully settled payable", "-250.50", "-250.50", StatusSettled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entry{Amount: dec(tt.amount), SettledAmount: dec(tt.settled)}
			assert.Equal(t, tt.want, e.Status())
		})
	}
}

func TestEntryOutstanding(t *testing.T) {
	e := &Entry{Amount: dec("1000.00"), SettledAmount: dec("600.00")}
	assert.True(t, e.Outstanding().Equal(dec("400.00")))

	p := &Entry{Amount: dec("-250.50"), SettledAmount: dec("-250.50")}
	assert.True(t, p.Outstanding().IsZero())
}

func TestEntryValidateSettlement(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		settled string
		settle  string
		wantErr error
	}{
		{"first partial settlement", "1000.00", "0", "600.00", nil},
		{"exact remaining settlement", "1000.00", "600.00", "400.00", nil},
		{"over-settlement rejected", "1000.00", "600.00", "500.00", ErrOverSettlement},
		{"wrong polarity on receivable", "1000.00", "0", "-100.00", ErrInvalidPolarity},
		{"wrong polarity on payable", "-250.50", "0", "100.00", ErrInvalidPolarity},
		{"full settlement of payable", "-250.50", "0", "-250.50", nil},
		{"zero settlement rejected", "1000.00", "0", "0", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entry{Amount: dec(tt.amount), SettledAmount: dec(tt.settled)}
			err := e.ValidateSettlement(dec(tt.settle))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestEntryValidateSettledProjection(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		settled string
		wantErr error
	}{
		{"zero is always valid", "1000.00", "0", nil},
		{"within amount", "1000.00", "600.00", nil},
		{"exactly amount", "-250.50", "-250.50", nil},
		{"exceeds amount", "100.00", "1000.00", ErrOverSettlement},
		{"exceeds payable amount", "-100.00", "-1000.00", ErrOverSettlement},
		{"sign mismatch", "-100.00", "100.00", ErrInvalidPolarity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entry{Amount: dec(tt.amount)}
			err := e.ValidateSettledProjection(dec(tt.settled))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// Worked example from the ledger rules: 1000.00 receivable settled in two
// steps with one rejected over-settlement in between.
func TestEntrySettlementSequence(t *testing.T) {
	e := &Entry{Amount: dec("1000.00"), SettledAmount: decimal.Zero}

	require.NoError(t, e.ValidateSettlement(dec("600.00")))
	e.SettledAmount = e.ApplySettlement(dec("600.00"))
	assert.True(t, e.SettledAmount.Equal(dec("600.00")))
	assert.Equal(t, StatusPartiallySettled, e.Status())

	require.ErrorIs(t, e.ValidateSettlement(dec("500.00")), ErrOverSettlement)

	require.NoError(t, e.ValidateSettlement(dec("400.00")))
	e.SettledAmount = e.ApplySettlement(dec("400.00"))
	assert.True(t, e.SettledAmount.Equal(dec("1000.00")))
	assert.Equal(t, StatusSettled, e.Status())
}

func TestSettlementEventCompensation(t *testing.T) {
	ev := &SettlementEvent{ID: "ev-1", EntryID: "e-1", Amount: dec("600.00")}
	comp := ev.Compensation("ev-2", ev.AppliedAt)

	assert.Equal(t, "e-1", comp.EntryID)
	assert.True(t, comp.Amount.Equal(dec("-600.00")))
	assert.True(t, ev.Amount.Add(comp.Amount).IsZero())
}
