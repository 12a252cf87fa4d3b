package entity

import (
	"fmt"
	"time"

	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a quote for a project, with a validity window. Once accepted it
// can be converted into exactly one invoice; the serial number is assigned
// once per owner and calendar year and never changes afterwards.
//
// UserID duplicates the owning freelancer from the project chain so the
// serial scope and ownership checks do not require a join.
type Budget struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_budgets_owner_serial,priority:1" json:"user_id"`
	ProjectID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"project_id"`
	Serial        string            `gorm:"size:20;not null;uniqueIndex:idx_budgets_owner_serial,priority:2" json:"serial"`
	IssueDate     time.Time         `gorm:"type:date;not null" json:"issue_date"`
	ValidityDate  time.Time         `gorm:"type:date;not null" json:"validity_date"`
	Status        enum.BudgetStatus `gorm:"size:20;default:draft" json:"status"`
	BaseAmount    decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"base_amount"`
	TaxPercentage decimal.Decimal   `gorm:"type:decimal(5,2);not null" json:"tax_percentage"`
	Notes         *string           `gorm:"type:text" json:"notes,omitempty"`
	Version       int               `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// DefaultTaxPercentage is the tax rate applied when none is supplied.
var DefaultTaxPercentage = decimal.NewFromInt(21)

// BeforeCreate generates a UUID before creating a new budget
func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Budget model
func (Budget) TableName() string {
	return "budgets"
}

// OwnerID returns the ID of the owning freelancer.
func (b *Budget) OwnerID() uuid.UUID {
	return b.UserID
}

// ViewableBy reports whether the given user may read this budget: the
// owning freelancer or the client login linked through the project chain.
// Requires Project.Client to be loaded.
func (b *Budget) ViewableBy(userID uuid.UUID) bool {
	if b.UserID == userID {
		return true
	}
	return b.Project.Client.ClientUserID != nil && *b.Project.Client.ClientUserID == userID
}

// Validate checks the field-level invariants of the budget.
func (b *Budget) Validate() error {
	if b.ValidityDate.Before(b.IssueDate) {
		return apperror.NewValidationError("validity_date", "validity date cannot be before the issue date")
	}
	if b.BaseAmount.Sign() < 0 {
		return apperror.NewValidationError("base_amount", "base amount cannot be negative")
	}
	if b.TaxPercentage.Sign() < 0 {
		return apperror.NewValidationError("tax_percentage", "tax percentage cannot be negative")
	}
	if b.Status != "" && !b.Status.Valid() {
		return apperror.NewValidationError("status", "unknown budget status")
	}
	return nil
}

// GrossTotal returns base amount plus tax, rounded half-up to two decimals.
func (b *Budget) GrossTotal() decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(b.TaxPercentage.Div(decimal.NewFromInt(100)))
	return b.BaseAmount.Mul(factor).Round(2)
}

// Expired reports whether the validity window has elapsed at the given time.
func (b *Budget) Expired(now time.Time) bool {
	return b.ValidityDate.Before(dateOnly(now))
}

// ReconcileExpiry forces the budget to rejected when the validity window has
// elapsed while it was still waiting for a decision. Accepted and rejected
// budgets are never touched. Returns true when the status changed, so the
// caller knows the row needs persisting. Idempotent.
func (b *Budget) ReconcileExpiry(now time.Time) bool {
	if b.Status.Expirable() && b.Expired(now) {
		b.Status = enum.BudgetStatusRejected
		return true
	}
	return false
}

// EnsureEditable rejects edits to budgets that already left the mutable part
// of the lifecycle. The converted check is the caller's job, since it needs
// the invoice table.
func (b *Budget) EnsureEditable() error {
	if b.Status == enum.BudgetStatusRejected {
		return apperror.NewDomainError("a rejected budget cannot be edited")
	}
	return nil
}

// EnsureConvertible checks the conversion preconditions: only an accepted,
// unexpired budget may become an invoice.
func (b *Budget) EnsureConvertible(now time.Time) error {
	if b.Status != enum.BudgetStatusAccepted {
		return apperror.NewDomainError("only accepted budgets can be converted into an invoice")
	}
	if b.Expired(now) {
		return apperror.NewDomainError("the budget has expired and can no longer be converted")
	}
	return nil
}

// Accept marks the budget as accepted. Rejected budgets stay rejected and
// a converted budget must not be re-accepted (guarded by the caller).
func (b *Budget) Accept(now time.Time) error {
	if b.Status == enum.BudgetStatusRejected {
		return apperror.NewDomainError("a rejected budget cannot be accepted")
	}
	if b.Expired(now) {
		return apperror.NewDomainError("the budget validity window has elapsed")
	}
	b.Status = enum.BudgetStatusAccepted
	return nil
}

// ToInvoice builds the invoice produced by converting this budget: issue
// date is the conversion time, due date the budget's validity date, and the
// financial terms are copied verbatim. The caller persists both sides in one
// transaction.
func (b *Budget) ToInvoice(now time.Time) *Invoice {
	return &Invoice{
		UserID:        b.UserID,
		BudgetID:      b.ID,
		IssueDate:     dateOnly(now),
		DueDate:       b.ValidityDate,
		Status:        enum.InvoiceStatusPending,
		BaseAmount:    b.BaseAmount,
		TaxPercentage: b.TaxPercentage,
		Notes:         b.Notes,
		Payments:      PaymentList{},
	}
}

// FormatSerial renders the year-scoped serial number, e.g. "2026-001".
func FormatSerial(year, counter int) string {
	return fmt.Sprintf("%d-%03d", year, counter)
}
