package entity

import (
	"time"

	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a billing document generated from exactly one accepted budget.
// It is never created directly: Budget.ToInvoice is the single creation
// path. The financial terms are copied from the budget at conversion time,
// the payment ledger accrues against them.
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoices_owner_serial,priority:1" json:"user_id"`
	BudgetID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"budget_id"`
	Serial        string             `gorm:"size:20;not null;uniqueIndex:idx_invoices_owner_serial,priority:2" json:"serial"`
	IssueDate     time.Time          `gorm:"type:date;not null" json:"issue_date"`
	DueDate       time.Time          `gorm:"type:date;not null" json:"due_date"`
	Status        enum.InvoiceStatus `gorm:"size:20;default:pending" json:"status"`
	BaseAmount    decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"base_amount"`
	TaxPercentage decimal.Decimal    `gorm:"type:decimal(5,2);not null" json:"tax_percentage"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`
	Payments      PaymentList        `gorm:"type:jsonb" json:"payments"`
	Version       int                `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Budget Budget `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// OwnerID returns the ID of the owning freelancer.
func (i *Invoice) OwnerID() uuid.UUID {
	return i.UserID
}

// ViewableBy reports whether the given user may read this invoice: the
// owning freelancer or the client login linked through the budget chain.
// Requires Budget.Project.Client to be loaded.
func (i *Invoice) ViewableBy(userID uuid.UUID) bool {
	if i.UserID == userID {
		return true
	}
	client := i.Budget.Project.Client
	return client.ClientUserID != nil && *client.ClientUserID == userID
}

// GrossTotal returns base amount plus tax, rounded half-up to two decimals.
func (i *Invoice) GrossTotal() decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(i.TaxPercentage.Div(decimal.NewFromInt(100)))
	return i.BaseAmount.Mul(factor).Round(2)
}

// TotalPaid returns the sum of all payments in the ledger.
func (i *Invoice) TotalPaid() decimal.Decimal {
	return i.Payments.Total()
}

// OutstandingBalance returns gross total minus total paid, at two decimals.
func (i *Invoice) OutstandingBalance() decimal.Decimal {
	return i.GrossTotal().Sub(i.TotalPaid()).Round(2)
}

// ReconcileOverdue forces the invoice to overdue once the due date has
// elapsed while it is still unpaid. Paid and void invoices are never
// touched. Returns true when the status changed. Idempotent; must run
// before payments or void actions read the status.
func (i *Invoice) ReconcileOverdue(now time.Time) bool {
	if i.Status.Overduable() && i.Status != enum.InvoiceStatusOverdue && i.DueDate.Before(dateOnly(now)) {
		i.Status = enum.InvoiceStatusOverdue
		return true
	}
	return false
}

// RegisterPayment appends a payment to the ledger and recomputes the
// invoice status. The amount must be positive and must not exceed the
// outstanding balance at the moment of registration; overdue invoices can
// still be paid, void and paid ones cannot.
func (i *Invoice) RegisterPayment(amount decimal.Decimal, method enum.PaymentMethod, note string, now time.Time) error {
	switch i.Status {
	case enum.InvoiceStatusVoid:
		return apperror.NewDomainError("cannot register a payment on a void invoice")
	case enum.InvoiceStatusPaid:
		return apperror.NewDomainError("the invoice is already fully paid")
	}
	if !method.Valid() {
		return apperror.NewValidationError("method", "unknown payment method")
	}
	amount = amount.Round(2)
	if amount.Sign() <= 0 {
		return apperror.NewValidationError("amount", "payment amount must be greater than zero")
	}
	outstanding := i.OutstandingBalance()
	if amount.GreaterThan(outstanding) {
		return apperror.NewValidationError("amount", "payment amount exceeds the outstanding balance ("+outstanding.StringFixed(2)+")")
	}

	i.Payments = append(i.Payments, Payment{
		Date:   now,
		Amount: amount,
		Method: method,
		Note:   note,
	})

	if i.TotalPaid().GreaterThanOrEqual(i.GrossTotal()) {
		i.Status = enum.InvoiceStatusPaid
	} else {
		i.Status = enum.InvoiceStatusPartial
	}
	return nil
}

// Void cancels the invoice. Paid invoices cannot be voided and a void
// invoice stays void; partial payments do not block voiding, the ledger is
// kept for later reversal accounting.
func (i *Invoice) Void() error {
	switch i.Status {
	case enum.InvoiceStatusPaid:
		return apperror.NewDomainError("a paid invoice cannot be voided")
	case enum.InvoiceStatusVoid:
		return apperror.NewDomainError("the invoice is already void")
	}
	i.Status = enum.InvoiceStatusVoid
	return nil
}
