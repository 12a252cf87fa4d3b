package service

import (
	"context"
	"testing"
	"time"

	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)

	// one partially paid invoice, one untouched, one voided
	partial := env.convertedInvoice(t, issue2026, validity2026, mid2026)
	if _, err := env.invoices.RegisterPayment(context.Background(), &RegisterPaymentInput{
		UserID:    env.freelancer.ID,
		InvoiceID: partial.ID,
		Amount:    decimal.RequireFromString("500.00"),
		Method:    enum.PaymentMethodTransfer,
	}, mid2026); err != nil {
		t.Fatalf("setup payment: %v", err)
	}

	env.convertedInvoice(t, issue2026, validity2026, mid2026)

	voided := env.convertedInvoice(t, issue2026, validity2026, mid2026)
	if _, err := env.invoices.VoidInvoice(context.Background(), env.freelancer.ID, voided.ID, mid2026); err != nil {
		t.Fatalf("setup void: %v", err)
	}

	summary, err := env.dashboard.GetSummary(context.Background(), env.freelancer.ID, mid2026)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalInvoices != 3 {
		t.Errorf("total invoices = %d, want 3", summary.TotalInvoices)
	}
	// void invoices are excluded from the money totals
	if !summary.TotalGross.Equal(decimal.RequireFromString("2420.00")) {
		t.Errorf("total gross = %s, want 2420.00", summary.TotalGross)
	}
	if !summary.TotalPaid.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("total paid = %s, want 500.00", summary.TotalPaid)
	}
	if !summary.TotalOutstanding.Equal(decimal.RequireFromString("1920.00")) {
		t.Errorf("total outstanding = %s, want 1920.00", summary.TotalOutstanding)
	}
	if !summary.BilledThisYear.Equal(decimal.RequireFromString("2420.00")) {
		t.Errorf("billed this year = %s, want 2420.00", summary.BilledThisYear)
	}
	if len(summary.Outstanding) != 2 {
		t.Errorf("outstanding shortlist has %d invoices, want 2", len(summary.Outstanding))
	}

	if got := summary.ByStatus[enum.InvoiceStatusPartial].Count; got != 1 {
		t.Errorf("partial count = %d, want 1", got)
	}
	if got := summary.ByStatus[enum.InvoiceStatusPending].Count; got != 1 {
		t.Errorf("pending count = %d, want 1", got)
	}
	if got := summary.ByStatus[enum.InvoiceStatusVoid].Count; got != 1 {
		t.Errorf("void count = %d, want 1", got)
	}
}

func TestDashboardSweepsOverdueFirst(t *testing.T) {
	env := newTestEnv(t)
	env.convertedInvoice(t, issue2026, validity2026, mid2026)

	afterDue := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	summary, err := env.dashboard.GetSummary(context.Background(), env.freelancer.ID, afterDue)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got := summary.ByStatus[enum.InvoiceStatusOverdue].Count; got != 1 {
		t.Errorf("overdue count = %d, want 1", got)
	}
	if got := summary.ByStatus[enum.InvoiceStatusPending].Count; got != 0 {
		t.Errorf("pending count = %d, want 0", got)
	}
}

func TestDashboardRequiresFreelancer(t *testing.T) {
	env := newTestEnv(t)
	login := env.newUser(t, "acme-login", enum.AccountTypeClient)

	if _, err := env.dashboard.GetSummary(context.Background(), login.ID, mid2026); err != apperror.ErrForbidden {
		t.Errorf("client account: err = %v, want forbidden", err)
	}
}
