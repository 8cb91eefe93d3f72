package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/domain"
)

func TestEntryFromDomain(t *testing.T) {
	entry := &domain.Entry{
		ID:            "e-1",
		Description:   "Conta de luz",
		Category:      "Casa",
		DueDate:       time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.RequireFromString("-180.45"),
		SettledAmount: decimal.RequireFromString("-80.45"),
	}

	resp := EntryFromDomain(entry)

	if resp.DueDate != "2026-09-10" {
		t.Fatalf("expected formatted due date, got %s", resp.DueDate)
	}
	if resp.Status != "PARTIALLY_SETTLED" {
		t.Fatalf("expected derived status, got %s", resp.Status)
	}
	if !resp.Outstanding.Equal(decimal.RequireFromString("-100.00")) {
		t.Fatalf("expected derived outstanding, got %s", resp.Outstanding)
	}
}

func TestSummaryFromDomain(t *testing.T) {
	summary := domain.NewSummary()
	summary.Add(&domain.Entry{
		Amount:        decimal.RequireFromString("1000.00"),
		SettledAmount: decimal.Zero,
	})
	summary.Add(&domain.Entry{
		Amount:        decimal.RequireFromString("-250.50"),
		SettledAmount: decimal.RequireFromString("-250.50"),
	})

	resp := SummaryFromDomain(summary)

	if !resp.NetBalance.Equal(decimal.RequireFromString("749.50")) {
		t.Fatalf("unexpected net balance: %s", resp.NetBalance)
	}
	if resp.CountPending != 1 || resp.CountSettled != 1 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
}
