package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/enum"
	domainRepo "github.com/freelio/freelio-api/internal/domain/repository"
	"github.com/freelio/freelio-api/internal/infrastructure/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) domainRepo.BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	return database.Conn(ctx, r.db).Create(budget).Error
}

func (r *budgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	var budget entity.Budget
	err := database.Conn(ctx, r.db).
		Preload("Project").
		Preload("Project.Client").
		First(&budget, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// Update writes the mutable budget fields guarded by the optimistic
// version. Zero rows affected means a concurrent writer got there first.
func (r *budgetRepository) Update(ctx context.Context, budget *entity.Budget) error {
	res := database.Conn(ctx, r.db).Model(&entity.Budget{}).
		Where("id = ? AND version = ?", budget.ID, budget.Version).
		Updates(map[string]interface{}{
			"project_id":     budget.ProjectID,
			"issue_date":     budget.IssueDate,
			"validity_date":  budget.ValidityDate,
			"status":         budget.Status,
			"base_amount":    budget.BaseAmount,
			"tax_percentage": budget.TaxPercentage,
			"notes":          budget.Notes,
			"version":        budget.Version + 1,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrVersionConflict
	}
	budget.Version++
	return nil
}

func (r *budgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Delete(&entity.Budget{}, "id = ?", id).Error
}

func (r *budgetRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.BudgetFilterParams) ([]entity.Budget, int64, error) {
	var budgets []entity.Budget
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Budget{}).Where("user_id = ?", userID)

	if params.Search != "" {
		query = query.Where("serial ILIKE ?", "%"+params.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ProjectID != nil {
		query = query.Where("project_id = ?", *params.ProjectID)
	}
	if params.Year != nil {
		query = query.Where("serial LIKE ?", fmt.Sprintf("%d-%%", *params.Year))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Project").
		Preload("Project.Client").
		Order("serial DESC").
		Find(&budgets).Error

	return budgets, total, err
}

func (r *budgetRepository) CountByYear(ctx context.Context, userID uuid.UUID, year int) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Budget{}).
		Where("user_id = ? AND serial LIKE ?", userID, fmt.Sprintf("%d-%%", year)).
		Count(&count).Error
	return count, err
}

// SweepExpired is the bulk form of Budget.ReconcileExpiry, applied before
// list reads so stale rows self-heal without loading each one.
func (r *budgetRepository) SweepExpired(ctx context.Context, userID uuid.UUID, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return database.Conn(ctx, r.db).Model(&entity.Budget{}).
		Where("user_id = ? AND status IN ? AND validity_date < ?",
			userID,
			[]enum.BudgetStatus{enum.BudgetStatusDraft, enum.BudgetStatusSent},
			today).
		Updates(map[string]interface{}{
			"status":     enum.BudgetStatusRejected,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		}).Error
}
