package entity

import (
	"time"

	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project groups the budgets a freelancer produces for one client.
type Project struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientID    uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_projects_client_name,priority:1" json:"client_id"`
	Name        string             `gorm:"size:100;not null;uniqueIndex:idx_projects_client_name,priority:2" json:"name"`
	Description string             `gorm:"type:text" json:"description"`
	Status      enum.ProjectStatus `gorm:"size:20;default:active" json:"status"`
	StartDate   time.Time          `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time         `gorm:"type:date" json:"end_date,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// Relationships
	Owner  User   `gorm:"foreignKey:UserID" json:"-"`
	Client Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// BeforeCreate generates a UUID before creating a new project
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// OwnerID returns the ID of the owning freelancer.
func (p *Project) OwnerID() uuid.UUID {
	return p.UserID
}

// Validate checks the date window of the project.
func (p *Project) Validate() error {
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return apperror.NewValidationError("end_date", "end date cannot be before the start date")
	}
	if !p.Status.Valid() {
		return apperror.NewValidationError("status", "unknown project status")
	}
	return nil
}
