package service

import (
	"context"
	"time"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/internal/domain/repository"
	"github.com/freelio/freelio-api/pkg/apperror"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService handles the budget lifecycle: creation, edits, the expiry
// reconciliation pass and the conversion into an invoice.
type BudgetService struct {
	budgetRepo  repository.BudgetRepository
	invoiceRepo repository.InvoiceRepository
	projectRepo repository.ProjectRepository
	tx          repository.TxManager
}

// NewBudgetService creates a new budget service
func NewBudgetService(
	budgetRepo repository.BudgetRepository,
	invoiceRepo repository.InvoiceRepository,
	projectRepo repository.ProjectRepository,
	tx repository.TxManager,
) *BudgetService {
	return &BudgetService{
		budgetRepo:  budgetRepo,
		invoiceRepo: invoiceRepo,
		projectRepo: projectRepo,
		tx:          tx,
	}
}

// CreateBudgetInput represents the input for creating a budget
type CreateBudgetInput struct {
	UserID        uuid.UUID
	ProjectID     uuid.UUID
	IssueDate     time.Time
	ValidityDate  time.Time
	BaseAmount    decimal.Decimal
	TaxPercentage *decimal.Decimal
	Notes         *string
}

// CreateBudget creates a new draft budget. The serial number is drawn from
// the owner's count of budgets in the issue year, inside a transaction, and
// redrawn on collision.
func (s *BudgetService) CreateBudget(ctx context.Context, input *CreateBudgetInput) (*entity.Budget, error) {
	project, err := s.projectRepo.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NewNotFoundError("Project")
	}
	if project.OwnerID() != input.UserID {
		return nil, apperror.ErrForbidden
	}

	tax := entity.DefaultTaxPercentage
	if input.TaxPercentage != nil {
		tax = *input.TaxPercentage
	}

	budget := &entity.Budget{
		UserID:        input.UserID,
		ProjectID:     input.ProjectID,
		IssueDate:     input.IssueDate,
		ValidityDate:  input.ValidityDate,
		Status:        enum.BudgetStatusDraft,
		BaseAmount:    input.BaseAmount.Round(2),
		TaxPercentage: tax,
		Notes:         input.Notes,
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	year := input.IssueDate.Year()
	err = withSerialRetry(func() error {
		return s.tx.Do(ctx, func(ctx context.Context) error {
			count, err := s.budgetRepo.CountByYear(ctx, input.UserID, year)
			if err != nil {
				return err
			}
			budget.Serial = entity.FormatSerial(year, int(count)+1)
			return s.budgetRepo.Create(ctx, budget)
		})
	})
	if err != nil {
		return nil, err
	}

	return s.budgetRepo.GetByID(ctx, budget.ID)
}

// GetBudget retrieves a budget, reconciling its expiry state first so the
// caller never sees a stale status.
func (s *BudgetService) GetBudget(ctx context.Context, userID, id uuid.UUID, now time.Time) (*entity.Budget, error) {
	budget, err := s.loadReconciled(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if !budget.ViewableBy(userID) {
		return nil, apperror.ErrForbidden
	}
	return budget, nil
}

// ListBudgetsInput represents the input for listing budgets
type ListBudgetsInput struct {
	UserID     uuid.UUID
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.BudgetStatus
	ProjectID  *uuid.UUID
	Year       *int
}

// ListBudgets lists the owner's budgets. Stale draft/sent budgets are
// swept to rejected first so the listing reflects reconciled state.
func (s *BudgetService) ListBudgets(ctx context.Context, input *ListBudgetsInput, now time.Time) (*pagination.PaginatedResult[entity.Budget], error) {
	if err := s.budgetRepo.SweepExpired(ctx, input.UserID, now); err != nil {
		return nil, err
	}

	params := &repository.BudgetFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		ProjectID:  input.ProjectID,
		Year:       input.Year,
	}
	budgets, total, err := s.budgetRepo.List(ctx, input.UserID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(budgets, pag), nil
}

// UpdateBudgetInput represents the input for updating a budget
type UpdateBudgetInput struct {
	UserID        uuid.UUID
	ID            uuid.UUID
	IssueDate     time.Time
	ValidityDate  time.Time
	BaseAmount    decimal.Decimal
	TaxPercentage *decimal.Decimal
	Notes         *string
}

// UpdateBudget edits a budget that is still in its mutable lifecycle:
// rejected and already-converted budgets reject edits.
func (s *BudgetService) UpdateBudget(ctx context.Context, input *UpdateBudgetInput, now time.Time) (*entity.Budget, error) {
	budget, err := s.loadReconciled(ctx, input.ID, now)
	if err != nil {
		return nil, err
	}
	if budget.OwnerID() != input.UserID {
		return nil, apperror.ErrForbidden
	}

	converted, err := s.invoiceRepo.ExistsForBudget(ctx, budget.ID)
	if err != nil {
		return nil, err
	}
	if converted {
		return nil, apperror.NewDomainError("a budget that was converted into an invoice cannot be edited")
	}
	if err := budget.EnsureEditable(); err != nil {
		return nil, err
	}

	budget.IssueDate = input.IssueDate
	budget.ValidityDate = input.ValidityDate
	budget.BaseAmount = input.BaseAmount.Round(2)
	if input.TaxPercentage != nil {
		budget.TaxPercentage = *input.TaxPercentage
	}
	budget.Notes = input.Notes
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Update(ctx, budget); err != nil {
		return nil, err
	}
	return s.budgetRepo.GetByID(ctx, budget.ID)
}

// SendBudget marks a draft budget as sent to the client.
func (s *BudgetService) SendBudget(ctx context.Context, userID, id uuid.UUID, now time.Time) (*entity.Budget, error) {
	budget, err := s.loadReconciled(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if budget.OwnerID() != userID {
		return nil, apperror.ErrForbidden
	}
	if budget.Status != enum.BudgetStatusDraft {
		return nil, apperror.NewDomainError("only draft budgets can be sent")
	}

	budget.Status = enum.BudgetStatusSent
	if err := s.budgetRepo.Update(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// AcceptBudget marks a budget as accepted while its validity window is
// still open.
func (s *BudgetService) AcceptBudget(ctx context.Context, userID, id uuid.UUID, now time.Time) (*entity.Budget, error) {
	budget, err := s.loadReconciled(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if budget.OwnerID() != userID {
		return nil, apperror.ErrForbidden
	}

	converted, err := s.invoiceRepo.ExistsForBudget(ctx, budget.ID)
	if err != nil {
		return nil, err
	}
	if converted {
		return nil, apperror.NewDomainError("the budget has already been converted into an invoice")
	}
	if err := budget.Accept(now); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Update(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes a budget that has not been converted. A budget
// referenced by an invoice is protected.
func (s *BudgetService) DeleteBudget(ctx context.Context, userID, id uuid.UUID) error {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if budget == nil {
		return apperror.NewNotFoundError("Budget")
	}
	if budget.OwnerID() != userID {
		return apperror.ErrForbidden
	}

	converted, err := s.invoiceRepo.ExistsForBudget(ctx, id)
	if err != nil {
		return err
	}
	if converted {
		return apperror.NewReferentialError("Budget", "an invoice")
	}

	return s.budgetRepo.Delete(ctx, id)
}

// ConvertToInvoice turns an accepted, unexpired budget into its invoice.
// The invoice insert and the budget's converted marker are committed in one
// transaction; the invoice serial is drawn inside it and redrawn on
// collision.
func (s *BudgetService) ConvertToInvoice(ctx context.Context, userID, id uuid.UUID, now time.Time) (*entity.Invoice, error) {
	// Run the expiry pass outside the transaction so an auto-rejection
	// survives even when the conversion itself is then refused.
	if _, err := s.loadReconciled(ctx, id, now); err != nil {
		return nil, err
	}

	var invoiceID uuid.UUID

	err := withSerialRetry(func() error {
		return s.tx.Do(ctx, func(ctx context.Context) error {
			budget, err := s.budgetRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if budget == nil {
				return apperror.NewNotFoundError("Budget")
			}
			if budget.OwnerID() != userID {
				return apperror.ErrForbidden
			}

			if budget.ReconcileExpiry(now) {
				if err := s.budgetRepo.Update(ctx, budget); err != nil {
					return err
				}
			}
			if err := budget.EnsureConvertible(now); err != nil {
				return err
			}

			converted, err := s.invoiceRepo.ExistsForBudget(ctx, budget.ID)
			if err != nil {
				return err
			}
			if converted {
				return apperror.NewDomainError("the budget has already been converted into an invoice")
			}

			invoice := budget.ToInvoice(now)
			count, err := s.invoiceRepo.CountByYear(ctx, userID, now.Year())
			if err != nil {
				return err
			}
			invoice.Serial = entity.FormatSerial(now.Year(), int(count)+1)

			if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
				return err
			}

			// The original design reuses "sent" as the converted marker;
			// the existing-invoice guard above keeps the overload safe.
			budget.Status = enum.BudgetStatusSent
			if err := s.budgetRepo.Update(ctx, budget); err != nil {
				return err
			}

			invoiceID = invoice.ID
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

// loadReconciled fetches a budget and applies the expiry pass before the
// caller acts on its status. A reconciliation that loses the version race
// reloads the row written by the concurrent writer.
func (s *BudgetService) loadReconciled(ctx context.Context, id uuid.UUID, now time.Time) (*entity.Budget, error) {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, apperror.NewNotFoundError("Budget")
	}

	if budget.ReconcileExpiry(now) {
		err := s.budgetRepo.Update(ctx, budget)
		if err == repository.ErrVersionConflict {
			return s.loadReconciled(ctx, id, now)
		}
		if err != nil {
			return nil, err
		}
	}
	return budget, nil
}
