package service

import (
	"context"
	"errors"
	"time"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/internal/domain/repository"
	"github.com/freelio/freelio-api/pkg/apperror"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice reads, payment registration and voiding.
// Invoices are only ever created through BudgetService.ConvertToInvoice.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	tx          repository.TxManager
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, tx repository.TxManager) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo, tx: tx}
}

// GetInvoice retrieves an invoice, reconciling its overdue state first so
// the caller never sees a stale status.
func (s *InvoiceService) GetInvoice(ctx context.Context, userID, id uuid.UUID, now time.Time) (*entity.Invoice, error) {
	invoice, err := s.loadReconciled(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if !invoice.ViewableBy(userID) {
		return nil, apperror.ErrForbidden
	}
	return invoice, nil
}

// ListInvoicesInput represents the input for listing invoices
type ListInvoicesInput struct {
	UserID           uuid.UUID
	Pagination       *pagination.PaginationParams
	Search           string
	Status           *enum.InvoiceStatus
	PendingOrOverdue bool
	Year             *int
}

// ListInvoices lists the owner's invoices. Unpaid invoices past their due
// date are swept to overdue first so the listing reflects reconciled state.
func (s *InvoiceService) ListInvoices(ctx context.Context, input *ListInvoicesInput, now time.Time) (*pagination.PaginatedResult[entity.Invoice], error) {
	if err := s.invoiceRepo.SweepOverdue(ctx, input.UserID, now); err != nil {
		return nil, err
	}

	params := &repository.InvoiceFilterParams{
		Pagination:       input.Pagination,
		Search:           input.Search,
		Status:           input.Status,
		PendingOrOverdue: input.PendingOrOverdue,
		Year:             input.Year,
	}
	invoices, total, err := s.invoiceRepo.List(ctx, input.UserID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// RegisterPaymentInput represents the input for registering a payment
type RegisterPaymentInput struct {
	UserID    uuid.UUID
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Method    enum.PaymentMethod
	Note      string
}

// RegisterPayment appends a payment to the invoice ledger and recomputes
// its status, as one atomic unit. Lost-update races between concurrent
// registrations are resolved by the optimistic version: the loser reloads
// the fresh ledger and revalidates against it.
func (s *InvoiceService) RegisterPayment(ctx context.Context, input *RegisterPaymentInput, now time.Time) (*entity.Invoice, error) {
	err := s.mutateWithRetry(ctx, input.InvoiceID, input.UserID, now, func(invoice *entity.Invoice) error {
		return invoice.RegisterPayment(input.Amount, input.Method, input.Note, now)
	})
	if err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, input.InvoiceID)
}

// VoidInvoice cancels an invoice that is not paid yet. The payment ledger
// of a partially paid invoice is kept.
func (s *InvoiceService) VoidInvoice(ctx context.Context, userID, id uuid.UUID, now time.Time) (*entity.Invoice, error) {
	err := s.mutateWithRetry(ctx, id, userID, now, func(invoice *entity.Invoice) error {
		return invoice.Void()
	})
	if err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, id)
}

// mutateWithRetry loads the invoice inside a transaction, runs the overdue
// pass, applies mutate and persists under the optimistic version, retrying
// the whole unit when a concurrent writer won the version race. Validation
// therefore always runs against the same snapshot that the write targets.
func (s *InvoiceService) mutateWithRetry(ctx context.Context, id, userID uuid.UUID, now time.Time, mutate func(*entity.Invoice) error) error {
	var err error
	for attempt := 0; attempt < serialAttempts; attempt++ {
		err = s.tx.Do(ctx, func(ctx context.Context) error {
			invoice, err := s.invoiceRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if invoice == nil {
				return apperror.NewNotFoundError("Invoice")
			}
			if invoice.OwnerID() != userID {
				return apperror.ErrForbidden
			}

			invoice.ReconcileOverdue(now)
			if err := mutate(invoice); err != nil {
				return err
			}
			return s.invoiceRepo.Update(ctx, invoice)
		})
		if !errors.Is(err, repository.ErrVersionConflict) {
			return err
		}
	}
	return err
}

// loadReconciled fetches an invoice and applies the overdue pass before the
// caller acts on its status. A reconciliation that loses the version race
// reloads the row written by the concurrent writer.
func (s *InvoiceService) loadReconciled(ctx context.Context, id uuid.UUID, now time.Time) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if invoice.ReconcileOverdue(now) {
		err := s.invoiceRepo.Update(ctx, invoice)
		if errors.Is(err, repository.ErrVersionConflict) {
			return s.loadReconciled(ctx, id, now)
		}
		if err != nil {
			return nil, err
		}
	}
	return invoice, nil
}
