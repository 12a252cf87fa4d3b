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

var (
	issue2026    = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	validity2026 = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mid2026      = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
)

func TestCreateBudgetAssignsYearScopedSerials(t *testing.T) {
	env := newTestEnv(t)

	first := env.newBudget(t, issue2026, validity2026)
	if first.Serial != "2026-001" {
		t.Errorf("first serial = %q, want 2026-001", first.Serial)
	}
	if first.Status != enum.BudgetStatusDraft {
		t.Errorf("status = %s, want draft", first.Status)
	}
	if !first.TaxPercentage.Equal(decimal.NewFromInt(21)) {
		t.Errorf("default tax = %s, want 21", first.TaxPercentage)
	}

	second := env.newBudget(t, issue2026, validity2026)
	if second.Serial != "2026-002" {
		t.Errorf("second serial = %q, want 2026-002", second.Serial)
	}

	// a different issue year opens its own sequence
	third := env.newBudget(t,
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC))
	if third.Serial != "2027-001" {
		t.Errorf("new year serial = %q, want 2027-001", third.Serial)
	}
}

func TestCreateBudgetRejectsForeignProject(t *testing.T) {
	env := newTestEnv(t)
	stranger := env.newUser(t, "intruder", enum.AccountTypeFreelancer)

	_, err := env.budgets.CreateBudget(context.Background(), &CreateBudgetInput{
		UserID:       stranger.ID,
		ProjectID:    env.project.ID,
		IssueDate:    issue2026,
		ValidityDate: validity2026,
		BaseAmount:   decimal.NewFromInt(100),
	})
	if err != apperror.ErrForbidden {
		t.Errorf("err = %v, want forbidden", err)
	}
}

func TestBudgetConversion(t *testing.T) {
	env := newTestEnv(t)
	budget := env.acceptedBudget(t, issue2026, validity2026, mid2026)

	invoice, err := env.budgets.ConvertToInvoice(context.Background(), env.freelancer.ID, budget.ID, mid2026)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if invoice.Serial != "2026-001" {
		t.Errorf("invoice serial = %q, want 2026-001", invoice.Serial)
	}
	if !invoice.GrossTotal().Equal(decimal.RequireFromString("1210.00")) {
		t.Errorf("gross = %s, want 1210.00", invoice.GrossTotal())
	}
	if !invoice.DueDate.Equal(validity2026) {
		t.Errorf("due date = %s, want %s", invoice.DueDate, validity2026)
	}
	if invoice.Status != enum.InvoiceStatusPending {
		t.Errorf("status = %s, want pending", invoice.Status)
	}

	// the budget flips to its converted marker state
	if got := env.reloadBudget(t, budget.ID); got.Status != enum.BudgetStatusSent {
		t.Errorf("budget status after conversion = %s, want sent", got.Status)
	}

	// 1:1: a second conversion is refused
	_, err = env.budgets.ConvertToInvoice(context.Background(), env.freelancer.ID, budget.ID, mid2026)
	if !apperror.IsKind(err, apperror.KindDomain) {
		t.Errorf("second conversion: err = %v, want domain error", err)
	}

	// a converted budget can no longer be edited
	_, err = env.budgets.UpdateBudget(context.Background(), &UpdateBudgetInput{
		UserID:       env.freelancer.ID,
		ID:           budget.ID,
		IssueDate:    issue2026,
		ValidityDate: validity2026,
		BaseAmount:   decimal.NewFromInt(2000),
	}, mid2026)
	if !apperror.IsKind(err, apperror.KindDomain) {
		t.Errorf("edit after conversion: err = %v, want domain error", err)
	}

	// nor deleted while its invoice exists
	err = env.budgets.DeleteBudget(context.Background(), env.freelancer.ID, budget.ID)
	if !apperror.IsKind(err, apperror.KindReferential) {
		t.Errorf("delete after conversion: err = %v, want referential error", err)
	}
}

func TestConversionSerialsDoNotCollide(t *testing.T) {
	env := newTestEnv(t)

	a := env.acceptedBudget(t, issue2026, validity2026, mid2026)
	b := env.acceptedBudget(t, issue2026, validity2026, mid2026)

	invA, err := env.budgets.ConvertToInvoice(context.Background(), env.freelancer.ID, a.ID, mid2026)
	if err != nil {
		t.Fatalf("convert a: %v", err)
	}
	invB, err := env.budgets.ConvertToInvoice(context.Background(), env.freelancer.ID, b.ID, mid2026)
	if err != nil {
		t.Fatalf("convert b: %v", err)
	}

	if invA.Serial == invB.Serial {
		t.Errorf("both invoices drew serial %q", invA.Serial)
	}
}

func TestConvertExpiredBudgetFails(t *testing.T) {
	env := newTestEnv(t)
	budget := env.newBudget(t,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	now := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)
	_, err := env.budgets.ConvertToInvoice(context.Background(), env.freelancer.ID, budget.ID, now)
	if !apperror.IsKind(err, apperror.KindDomain) {
		t.Fatalf("convert expired: err = %v, want domain error", err)
	}

	// the expiry pass already persisted the rejection
	if got := env.reloadBudget(t, budget.ID); got.Status != enum.BudgetStatusRejected {
		t.Errorf("budget status = %s, want rejected", got.Status)
	}
}

func TestGetBudgetReconcilesExpiry(t *testing.T) {
	env := newTestEnv(t)
	budget := env.newBudget(t, issue2026, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	got, err := env.budgets.GetBudget(context.Background(), env.freelancer.ID, budget.ID,
		time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != enum.BudgetStatusRejected {
		t.Errorf("status = %s, want rejected", got.Status)
	}
	// and it stuck
	if reloaded := env.reloadBudget(t, budget.ID); reloaded.Status != enum.BudgetStatusRejected {
		t.Errorf("persisted status = %s, want rejected", reloaded.Status)
	}
}

func TestListBudgetsSweepsExpired(t *testing.T) {
	env := newTestEnv(t)
	env.newBudget(t, issue2026, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	fresh := env.newBudget(t, issue2026, validity2026)

	result, err := env.budgets.ListBudgets(context.Background(), &ListBudgetsInput{
		UserID:     env.freelancer.ID,
		Pagination: pagination.DefaultPagination(),
	}, mid2026)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("got %d budgets, want 2", len(result.Items))
	}
	for _, b := range result.Items {
		want := enum.BudgetStatusRejected
		if b.ID == fresh.ID {
			want = enum.BudgetStatusDraft
		}
		if b.Status != want {
			t.Errorf("budget %s status = %s, want %s", b.Serial, b.Status, want)
		}
	}
}

func TestSendBudget(t *testing.T) {
	env := newTestEnv(t)
	budget := env.newBudget(t, issue2026, validity2026)

	sent, err := env.budgets.SendBudget(context.Background(), env.freelancer.ID, budget.ID, mid2026)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != enum.BudgetStatusSent {
		t.Errorf("status = %s, want sent", sent.Status)
	}

	// only drafts can be sent
	_, err = env.budgets.SendBudget(context.Background(), env.freelancer.ID, budget.ID, mid2026)
	if !apperror.IsKind(err, apperror.KindDomain) {
		t.Errorf("re-send: err = %v, want domain error", err)
	}
}

func TestUpdateBudgetLifecycleGuards(t *testing.T) {
	env := newTestEnv(t)
	budget := env.newBudget(t, issue2026, validity2026)

	updated, err := env.budgets.UpdateBudget(context.Background(), &UpdateBudgetInput{
		UserID:       env.freelancer.ID,
		ID:           budget.ID,
		IssueDate:    issue2026,
		ValidityDate: validity2026,
		BaseAmount:   decimal.RequireFromString("1500.50"),
	}, mid2026)
	if err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if !updated.BaseAmount.Equal(decimal.RequireFromString("1500.50")) {
		t.Errorf("base amount = %s, want 1500.50", updated.BaseAmount)
	}
	if updated.Serial != budget.Serial {
		t.Errorf("serial changed on update: %q -> %q", budget.Serial, updated.Serial)
	}

	// a rejected budget refuses edits
	stale := env.newBudget(t, issue2026, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	_, err = env.budgets.UpdateBudget(context.Background(), &UpdateBudgetInput{
		UserID:       env.freelancer.ID,
		ID:           stale.ID,
		IssueDate:    issue2026,
		ValidityDate: validity2026,
		BaseAmount:   decimal.NewFromInt(1),
	}, time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC))
	if !apperror.IsKind(err, apperror.KindDomain) {
		t.Errorf("edit rejected budget: err = %v, want domain error", err)
	}
}

func TestDeleteBudget(t *testing.T) {
	env := newTestEnv(t)
	budget := env.newBudget(t, issue2026, validity2026)

	if err := env.budgets.DeleteBudget(context.Background(), env.freelancer.ID, budget.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := env.budgets.GetBudget(context.Background(), env.freelancer.ID, budget.ID, mid2026)
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("get after delete: err = %v, want not found", err)
	}
}

func TestBudgetOwnership(t *testing.T) {
	env := newTestEnv(t)
	budget := env.newBudget(t, issue2026, validity2026)
	stranger := env.newUser(t, "stranger", enum.AccountTypeFreelancer)

	if _, err := env.budgets.GetBudget(context.Background(), stranger.ID, budget.ID, mid2026); err != apperror.ErrForbidden {
		t.Errorf("stranger get: err = %v, want forbidden", err)
	}
	if _, err := env.budgets.SendBudget(context.Background(), stranger.ID, budget.ID, mid2026); err != apperror.ErrForbidden {
		t.Errorf("stranger send: err = %v, want forbidden", err)
	}
	if err := env.budgets.DeleteBudget(context.Background(), stranger.ID, budget.ID); err != apperror.ErrForbidden {
		t.Errorf("stranger delete: err = %v, want forbidden", err)
	}
}

func TestLinkedClientCanReadBudget(t *testing.T) {
	env := newTestEnv(t)
	budget := env.newBudget(t, issue2026, validity2026)

	login := env.newUser(t, "acme-login", enum.AccountTypeClient)
	if err := env.db.Model(env.client).Update("client_user_id", login.ID).Error; err != nil {
		t.Fatalf("link client login: %v", err)
	}

	got, err := env.budgets.GetBudget(context.Background(), login.ID, budget.ID, mid2026)
	if err != nil {
		t.Fatalf("client login get: %v", err)
	}
	if got.ID != budget.ID {
		t.Errorf("got budget %s, want %s", got.ID, budget.ID)
	}

	// read access does not extend to writes
	if _, err := env.budgets.SendBudget(context.Background(), login.ID, budget.ID, mid2026); err != apperror.ErrForbidden {
		t.Errorf("client login send: err = %v, want forbidden", err)
	}
}
