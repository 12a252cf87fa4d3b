package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer of a freelancer. It can optionally be linked to a
// client login account, which then gets read access to the documents that
// hang off this record.
type Client struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_clients_owner_email,priority:1" json:"user_id"`
	ClientUserID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"client_user_id,omitempty"`
	Name         string     `gorm:"size:200;not null" json:"name"`
	Email        string     `gorm:"size:255;not null;uniqueIndex:idx_clients_owner_email,priority:2" json:"email"`
	Phone        *string    `gorm:"size:20" json:"phone,omitempty"`
	Address      *string    `gorm:"type:text" json:"address,omitempty"`
	Active       bool       `gorm:"default:true" json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationships
	Owner      User  `gorm:"foreignKey:UserID" json:"-"`
	ClientUser *User `gorm:"foreignKey:ClientUserID" json:"client_user,omitempty"`
}

// BeforeCreate generates a UUID before creating a new client
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// OwnerID returns the ID of the owning freelancer.
func (c *Client) OwnerID() uuid.UUID {
	return c.UserID
}

// ViewableBy reports whether the given user may read this record: the
// owning freelancer or the linked client login.
func (c *Client) ViewableBy(userID uuid.UUID) bool {
	if c.UserID == userID {
		return true
	}
	return c.ClientUserID != nil && *c.ClientUserID == userID
}
