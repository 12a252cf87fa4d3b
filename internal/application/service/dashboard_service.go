package service

import (
	"context"
	"time"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/internal/domain/repository"
	"github.com/freelio/freelio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardService aggregates the freelancer's billing position.
type DashboardService struct {
	invoiceRepo repository.InvoiceRepository
	userRepo    repository.UserRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(invoiceRepo repository.InvoiceRepository, userRepo repository.UserRepository) *DashboardService {
	return &DashboardService{invoiceRepo: invoiceRepo, userRepo: userRepo}
}

// StatusSummary aggregates the invoices in one state.
type StatusSummary struct {
	Count       int             `json:"count"`
	Gross       decimal.Decimal `json:"gross"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// DashboardSummary is the per-freelancer billing overview.
type DashboardSummary struct {
	ByStatus         map[enum.InvoiceStatus]StatusSummary `json:"by_status"`
	TotalInvoices    int                                  `json:"total_invoices"`
	TotalGross       decimal.Decimal                      `json:"total_gross"`
	TotalPaid        decimal.Decimal                      `json:"total_paid"`
	TotalOutstanding decimal.Decimal                      `json:"total_outstanding"`
	// BilledThisYear sums the gross of non-void invoices issued in the
	// current calendar year.
	BilledThisYear decimal.Decimal  `json:"billed_this_year"`
	Outstanding    []entity.Invoice `json:"outstanding_invoices"`
}

// GetSummary builds the dashboard for the given freelancer. Overdue state is
// swept first so the figures reflect reconciled invoices. Void invoices keep
// their ledger but contribute nothing to the totals.
func (s *DashboardService) GetSummary(ctx context.Context, userID uuid.UUID, now time.Time) (*DashboardSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	if !user.IsFreelancer() {
		return nil, apperror.ErrForbidden
	}

	if err := s.invoiceRepo.SweepOverdue(ctx, userID, now); err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.AllForOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		ByStatus:         make(map[enum.InvoiceStatus]StatusSummary),
		TotalGross:       decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
		BilledThisYear:   decimal.Zero,
		Outstanding:      []entity.Invoice{},
	}

	year := now.Year()
	for i := range invoices {
		inv := &invoices[i]
		gross := inv.GrossTotal()
		paid := inv.TotalPaid()

		bucket := summary.ByStatus[inv.Status]
		bucket.Count++
		bucket.Gross = bucket.Gross.Add(gross)
		bucket.Paid = bucket.Paid.Add(paid)
		summary.ByStatus[inv.Status] = bucket

		summary.TotalInvoices++
		if inv.Status == enum.InvoiceStatusVoid {
			continue
		}

		outstanding := inv.OutstandingBalance()
		bucket = summary.ByStatus[inv.Status]
		bucket.Outstanding = bucket.Outstanding.Add(outstanding)
		summary.ByStatus[inv.Status] = bucket

		summary.TotalGross = summary.TotalGross.Add(gross)
		summary.TotalPaid = summary.TotalPaid.Add(paid)
		summary.TotalOutstanding = summary.TotalOutstanding.Add(outstanding)

		if inv.IssueDate.Year() == year {
			summary.BilledThisYear = summary.BilledThisYear.Add(gross)
		}
		if inv.Status == enum.InvoiceStatusPending || inv.Status == enum.InvoiceStatusPartial || inv.Status == enum.InvoiceStatusOverdue {
			summary.Outstanding = append(summary.Outstanding, *inv)
		}
	}

	return summary, nil
}
