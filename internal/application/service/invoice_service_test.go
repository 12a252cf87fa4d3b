package service

import (
	"context"
	"testing"
	"time"

	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/pkg/apperror"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

func TestRegisterPaymentFlow(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.convertedInvoice(t, issue2026, validity2026, mid2026)

	// 500.00 leaves 710.00 outstanding
	inv, err := env.invoices.RegisterPayment(context.Background(), &RegisterPaymentInput{
		UserID:    env.freelancer.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("500.00"),
		Method:    enum.PaymentMethodTransfer,
		Note:      "first half",
	}, mid2026)
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if inv.Status != enum.InvoiceStatusPartial {
		t.Errorf("status = %s, want partial", inv.Status)
	}
	if got := inv.OutstandingBalance(); !got.Equal(decimal.RequireFromString("710.00")) {
		t.Errorf("outstanding = %s, want 710.00", got)
	}

	// overpayment is rejected without touching the ledger
	_, err = env.invoices.RegisterPayment(context.Background(), &RegisterPaymentInput{
		UserID:    env.freelancer.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("800.00"),
		Method:    enum.PaymentMethodTransfer,
	}, mid2026)
	if !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("overpayment: err = %v, want validation error", err)
	}
	if got := env.reloadInvoice(t, invoice.ID); len(got.Payments) != 1 {
		t.Errorf("ledger has %d entries after rejected payment, want 1", len(got.Payments))
	}

	// settling the rest marks the invoice paid
	inv, err = env.invoices.RegisterPayment(context.Background(), &RegisterPaymentInput{
		UserID:    env.freelancer.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("710.00"),
		Method:    enum.PaymentMethodCard,
	}, mid2026)
	if err != nil {
		t.Fatalf("final payment: %v", err)
	}
	if inv.Status != enum.InvoiceStatusPaid {
		t.Errorf("status = %s, want paid", inv.Status)
	}
	if got := inv.OutstandingBalance(); !got.IsZero() {
		t.Errorf("outstanding = %s, want 0", got)
	}
	if len(inv.Payments) != 2 {
		t.Errorf("ledger has %d entries, want 2", len(inv.Payments))
	}
}

func TestGetInvoiceReconcilesOverdue(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.convertedInvoice(t, issue2026, validity2026, mid2026)

	afterDue := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	got, err := env.invoices.GetInvoice(context.Background(), env.freelancer.ID, invoice.ID, afterDue)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != enum.InvoiceStatusOverdue {
		t.Errorf("status = %s, want overdue", got.Status)
	}
	if reloaded := env.reloadInvoice(t, invoice.ID); reloaded.Status != enum.InvoiceStatusOverdue {
		t.Errorf("persisted status = %s, want overdue", reloaded.Status)
	}

	// overdue is not sticky: paying the full balance settles the invoice
	inv, err := env.invoices.RegisterPayment(context.Background(), &RegisterPaymentInput{
		UserID:    env.freelancer.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("1210.00"),
		Method:    enum.PaymentMethodTransfer,
	}, afterDue)
	if err != nil {
		t.Fatalf("payment on overdue invoice: %v", err)
	}
	if inv.Status != enum.InvoiceStatusPaid {
		t.Errorf("status = %s, want paid", inv.Status)
	}
}

func TestListInvoicesSweepsOverdue(t *testing.T) {
	env := newTestEnv(t)
	env.convertedInvoice(t, issue2026, validity2026, mid2026)

	afterDue := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	result, err := env.invoices.ListInvoices(context.Background(), &ListInvoicesInput{
		UserID:     env.freelancer.ID,
		Pagination: pagination.DefaultPagination(),
	}, afterDue)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("got %d invoices, want 1", len(result.Items))
	}
	if result.Items[0].Status != enum.InvoiceStatusOverdue {
		t.Errorf("status = %s, want overdue", result.Items[0].Status)
	}

	// the outstanding view includes swept invoices
	result, err = env.invoices.ListInvoices(context.Background(), &ListInvoicesInput{
		UserID:           env.freelancer.ID,
		Pagination:       pagination.DefaultPagination(),
		PendingOrOverdue: true,
	}, afterDue)
	if err != nil {
		t.Fatalf("list outstanding: %v", err)
	}
	if len(result.Items) != 1 {
		t.Errorf("outstanding view has %d invoices, want 1", len(result.Items))
	}
}

func TestVoidInvoice(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.convertedInvoice(t, issue2026, validity2026, mid2026)

	// a partial payment does not block voiding
	if _, err := env.invoices.RegisterPayment(context.Background(), &RegisterPaymentInput{
		UserID:    env.freelancer.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("100.00"),
		Method:    enum.PaymentMethodCash,
	}, mid2026); err != nil {
		t.Fatalf("setup payment: %v", err)
	}

	inv, err := env.invoices.VoidInvoice(context.Background(), env.freelancer.ID, invoice.ID, mid2026)
	if err != nil {
		t.Fatalf("void: %v", err)
	}
	if inv.Status != enum.InvoiceStatusVoid {
		t.Errorf("status = %s, want void", inv.Status)
	}
	if len(inv.Payments) != 1 {
		t.Error("ledger was dropped on void")
	}

	// void is terminal
	if _, err := env.invoices.VoidInvoice(context.Background(), env.freelancer.ID, invoice.ID, mid2026); !apperror.IsKind(err, apperror.KindDomain) {
		t.Errorf("voiding twice: err = %v, want domain error", err)
	}
	if _, err := env.invoices.RegisterPayment(context.Background(), &RegisterPaymentInput{
		UserID:    env.freelancer.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(10),
		Method:    enum.PaymentMethodCash,
	}, mid2026); !apperror.IsKind(err, apperror.KindDomain) {
		t.Errorf("payment on void invoice: err = %v, want domain error", err)
	}
}

func TestVoidPaidInvoiceRefused(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.convertedInvoice(t, issue2026, validity2026, mid2026)

	if _, err := env.invoices.RegisterPayment(context.Background(), &RegisterPaymentInput{
		UserID:    env.freelancer.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("1210.00"),
		Method:    enum.PaymentMethodTransfer,
	}, mid2026); err != nil {
		t.Fatalf("setup payment: %v", err)
	}

	if _, err := env.invoices.VoidInvoice(context.Background(), env.freelancer.ID, invoice.ID, mid2026); !apperror.IsKind(err, apperror.KindDomain) {
		t.Errorf("voiding paid invoice: err = %v, want domain error", err)
	}
}

func TestInvoiceOwnership(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.convertedInvoice(t, issue2026, validity2026, mid2026)
	stranger := env.newUser(t, "stranger", enum.AccountTypeFreelancer)

	if _, err := env.invoices.GetInvoice(context.Background(), stranger.ID, invoice.ID, mid2026); err != apperror.ErrForbidden {
		t.Errorf("stranger get: err = %v, want forbidden", err)
	}
	if _, err := env.invoices.RegisterPayment(context.Background(), &RegisterPaymentInput{
		UserID:    stranger.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(10),
		Method:    enum.PaymentMethodCash,
	}, mid2026); err != apperror.ErrForbidden {
		t.Errorf("stranger payment: err = %v, want forbidden", err)
	}
	if _, err := env.invoices.VoidInvoice(context.Background(), stranger.ID, invoice.ID, mid2026); err != apperror.ErrForbidden {
		t.Errorf("stranger void: err = %v, want forbidden", err)
	}

	// the linked client login may read but not pay
	login := env.newUser(t, "acme-login", enum.AccountTypeClient)
	if err := env.db.Model(env.client).Update("client_user_id", login.ID).Error; err != nil {
		t.Fatalf("link client login: %v", err)
	}
	if _, err := env.invoices.GetInvoice(context.Background(), login.ID, invoice.ID, mid2026); err != nil {
		t.Errorf("client login get: err = %v, want nil", err)
	}
	if _, err := env.invoices.RegisterPayment(context.Background(), &RegisterPaymentInput{
		UserID:    login.ID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(10),
		Method:    enum.PaymentMethodCash,
	}, mid2026); err != apperror.ErrForbidden {
		t.Errorf("client login payment: err = %v, want forbidden", err)
	}
}
