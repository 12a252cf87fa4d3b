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

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return database.Conn(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := database.Conn(ctx, r.db).
		Preload("Budget").
		Preload("Budget.Project").
		Preload("Budget.Project.Client").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Update writes the mutable invoice fields (status and ledger) guarded by
// the optimistic version, so the ledger append and the status transition
// land as one atomic unit. Serial, dates and amounts are immutable after
// conversion and deliberately left out.
func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	res := database.Conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version).
		Updates(map[string]interface{}{
			"status":     invoice.Status,
			"payments":   invoice.Payments,
			"version":    invoice.Version + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrVersionConflict
	}
	invoice.Version++
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Invoice{}).Where("user_id = ?", userID)

	if params.Search != "" {
		query = query.Where("serial ILIKE ?", "%"+params.Search+"%")
	}
	if params.PendingOrOverdue {
		query = query.Where("status IN ?", []enum.InvoiceStatus{
			enum.InvoiceStatusPending, enum.InvoiceStatusOverdue,
		})
	} else if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Year != nil {
		query = query.Where("serial LIKE ?", fmt.Sprintf("%d-%%", *params.Year))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Budget").
		Preload("Budget.Project").
		Preload("Budget.Project.Client").
		Order("serial DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) AllForOwner(ctx context.Context, userID uuid.UUID) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := database.Conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("serial ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) CountByYear(ctx context.Context, userID uuid.UUID, year int) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("user_id = ? AND serial LIKE ?", userID, fmt.Sprintf("%d-%%", year)).
		Count(&count).Error
	return count, err
}

func (r *invoiceRepository) ExistsForBudget(ctx context.Context, budgetID uuid.UUID) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("budget_id = ?", budgetID).
		Count(&count).Error
	return count > 0, err
}

// SweepOverdue is the bulk form of Invoice.ReconcileOverdue, applied before
// list reads so stale rows self-heal without loading each one.
func (r *invoiceRepository) SweepOverdue(ctx context.Context, userID uuid.UUID, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return database.Conn(ctx, r.db).Model(&entity.Invoice{}).
		Where("user_id = ? AND status IN ? AND due_date < ?",
			userID,
			[]enum.InvoiceStatus{enum.InvoiceStatusPending, enum.InvoiceStatusPartial},
			today).
		Updates(map[string]interface{}{
			"status":     enum.InvoiceStatusOverdue,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		}).Error
}
