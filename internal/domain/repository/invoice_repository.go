package repository

import (
	"context"
	"time"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceFilterParams holds filtering options for listing invoices
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	// PendingOrOverdue selects the combined "still owed" view.
	PendingOrOverdue bool
	Year             *int
}

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// Update persists the invoice guarded by its optimistic version; it
	// returns ErrVersionConflict when the stored version moved on.
	Update(ctx context.Context, invoice *entity.Invoice) error
	List(ctx context.Context, userID uuid.UUID, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// AllForOwner loads every invoice of the owner for aggregation.
	AllForOwner(ctx context.Context, userID uuid.UUID) ([]entity.Invoice, error)
	// CountByYear counts the owner's invoices whose serial belongs to the
	// given calendar year; it feeds serial assignment.
	CountByYear(ctx context.Context, userID uuid.UUID, year int) (int64, error)
	// ExistsForBudget reports whether the budget has already been
	// converted; it backs both the 1:1 invariant and referential
	// protection of budgets.
	ExistsForBudget(ctx context.Context, budgetID uuid.UUID) (bool, error)
	// SweepOverdue bulk-marks the owner's unpaid invoices whose due date
	// lies before now as overdue. Run before list reads.
	SweepOverdue(ctx context.Context, userID uuid.UUID, now time.Time) error
}
