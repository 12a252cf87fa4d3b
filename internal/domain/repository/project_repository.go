package repository

import (
	"context"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProjectFilterParams holds filtering options for listing projects
type ProjectFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ProjectStatus
	ClientID   *uuid.UUID
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *ProjectFilterParams) ([]entity.Project, int64, error)
	// HasBudgets reports whether any budget still references the project,
	// which blocks deletion.
	HasBudgets(ctx context.Context, projectID uuid.UUID) (bool, error)
}
