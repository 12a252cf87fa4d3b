package service

import (
	"context"
	"errors"
	"time"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/internal/domain/repository"
	"github.com/freelio/freelio-api/pkg/apperror"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectService handles projects, the grouping level between clients and
// budgets.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	clientRepo  repository.ClientRepository
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo repository.ProjectRepository, clientRepo repository.ClientRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, clientRepo: clientRepo}
}

// CreateProjectInput represents the input for creating a project
type CreateProjectInput struct {
	UserID      uuid.UUID
	ClientID    uuid.UUID
	Name        string
	Description string
	Status      *enum.ProjectStatus
	StartDate   time.Time
	EndDate     *time.Time
}

// CreateProject creates a new project under one of the owner's clients. The
// (client, name) pair is unique.
func (s *ProjectService) CreateProject(ctx context.Context, input *CreateProjectInput) (*entity.Project, error) {
	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	if client.OwnerID() != input.UserID {
		return nil, apperror.ErrForbidden
	}

	status := enum.ProjectStatusActive
	if input.Status != nil {
		status = *input.Status
	}

	project := &entity.Project{
		UserID:      input.UserID,
		ClientID:    input.ClientID,
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflictError("A project with this name already exists for the client")
		}
		return nil, err
	}
	return s.projectRepo.GetByID(ctx, project.ID)
}

// GetProject retrieves a project visible to the given user: the owner or
// the client login linked to the project's client.
func (s *ProjectService) GetProject(ctx context.Context, userID, id uuid.UUID) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NewNotFoundError("Project")
	}
	if project.OwnerID() != userID && !project.Client.ViewableBy(userID) {
		return nil, apperror.ErrForbidden
	}
	return project, nil
}

// ListProjectsInput represents the input for listing projects
type ListProjectsInput struct {
	UserID     uuid.UUID
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ProjectStatus
	ClientID   *uuid.UUID
}

// ListProjects lists the owner's projects.
func (s *ProjectService) ListProjects(ctx context.Context, input *ListProjectsInput) (*pagination.PaginatedResult[entity.Project], error) {
	params := &repository.ProjectFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		ClientID:   input.ClientID,
	}
	projects, total, err := s.projectRepo.List(ctx, input.UserID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(projects, pag), nil
}

// UpdateProjectInput represents the input for updating a project
type UpdateProjectInput struct {
	UserID      uuid.UUID
	ID          uuid.UUID
	Name        string
	Description *string
	Status      *enum.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
	ClearEnd    bool
}

// UpdateProject updates a project owned by the given user.
func (s *ProjectService) UpdateProject(ctx context.Context, input *UpdateProjectInput) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NewNotFoundError("Project")
	}
	if project.OwnerID() != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != "" {
		project.Name = input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	if input.ClearEnd {
		project.EndDate = nil
	} else if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflictError("A project with this name already exists for the client")
		}
		return nil, err
	}
	return s.projectRepo.GetByID(ctx, project.ID)
}

// DeleteProject removes a project that has no budgets. A project referenced
// by budgets is protected.
func (s *ProjectService) DeleteProject(ctx context.Context, userID, id uuid.UUID) error {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NewNotFoundError("Project")
	}
	if project.OwnerID() != userID {
		return apperror.ErrForbidden
	}

	inUse, err := s.projectRepo.HasBudgets(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperror.NewReferentialError("Project", "a budget")
	}

	return s.projectRepo.Delete(ctx, id)
}
