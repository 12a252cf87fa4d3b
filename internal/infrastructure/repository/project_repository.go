package repository

import (
	"context"
	"errors"

	"github.com/freelio/freelio-api/internal/domain/entity"
	domainRepo "github.com/freelio/freelio-api/internal/domain/repository"
	"github.com/freelio/freelio-api/internal/infrastructure/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) domainRepo.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	return database.Conn(ctx, r.db).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	var project entity.Project
	err := database.Conn(ctx, r.db).
		Preload("Client").
		First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *entity.Project) error {
	return database.Conn(ctx, r.db).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Delete(&entity.Project{}, "id = ?", id).Error
}

func (r *projectRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.ProjectFilterParams) ([]entity.Project, int64, error) {
	var projects []entity.Project
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Project{}).Where("user_id = ?", userID)

	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Client").
		Order("created_at DESC").
		Find(&projects).Error

	return projects, total, err
}

func (r *projectRepository) HasBudgets(ctx context.Context, projectID uuid.UUID) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Budget{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count > 0, err
}
