package repository

import (
	"context"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/google/uuid"
)

// ClientFilterParams holds filtering options for listing clients
type ClientFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Active     *bool
}

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *ClientFilterParams) ([]entity.Client, int64, error)
	// HasProjects reports whether any project still references the client,
	// which blocks deletion.
	HasProjects(ctx context.Context, clientID uuid.UUID) (bool, error)
}
