package entity

import (
	"time"

	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an authenticated account. Freelancer accounts own clients,
// projects, budgets and invoices; client accounts only get read access to
// records linked to them through a Client row.
type User struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Username    string           `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string           `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password    string           `gorm:"size:255;not null" json:"-"`
	AccountType enum.AccountType `gorm:"size:20;not null" json:"account_type"`
	TaxID       *string          `gorm:"size:20" json:"tax_id,omitempty"`
	FiscalName  *string          `gorm:"size:200" json:"fiscal_name,omitempty"`
	Active      bool             `gorm:"default:true" json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsFreelancer reports whether the account belongs to a freelancer.
func (u *User) IsFreelancer() bool {
	return u.AccountType == enum.AccountTypeFreelancer
}
