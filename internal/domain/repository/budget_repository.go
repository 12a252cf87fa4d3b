package repository

import (
	"context"
	"errors"
	"time"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/google/uuid"
)

// ErrVersionConflict is returned by versioned updates when the row was
// modified concurrently since it was loaded. Callers reload and retry.
var ErrVersionConflict = errors.New("record was modified concurrently")

// BudgetFilterParams holds filtering options for listing budgets
type BudgetFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.BudgetStatus
	ProjectID  *uuid.UUID
	Year       *int
}

// BudgetRepository defines the interface for budget data access
type BudgetRepository interface {
	Create(ctx context.Context, budget *entity.Budget) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error)
	// Update persists the budget guarded by its optimistic version; it
	// returns ErrVersionConflict when the stored version moved on.
	Update(ctx context.Context, budget *entity.Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *BudgetFilterParams) ([]entity.Budget, int64, error)
	// CountByYear counts the owner's budgets whose serial belongs to the
	// given calendar year; it feeds serial assignment.
	CountByYear(ctx context.Context, userID uuid.UUID, year int) (int64, error)
	// SweepExpired bulk-rejects the owner's stale draft/sent budgets whose
	// validity date lies before now. Run before list reads.
	SweepExpired(ctx context.Context, userID uuid.UUID, now time.Time) error
}
