package service

import (
	"context"
	"errors"

	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/repository"
	"github.com/freelio/freelio-api/pkg/apperror"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientService handles the freelancer's customer records.
type ClientService struct {
	clientRepo repository.ClientRepository
	userRepo   repository.UserRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, userRepo repository.UserRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo, userRepo: userRepo}
}

// CreateClientInput represents the input for creating a client
type CreateClientInput struct {
	UserID  uuid.UUID
	Name    string
	Email   string
	Phone   *string
	Address *string
	// ClientUserEmail optionally links an existing client login account.
	ClientUserEmail *string
}

// CreateClient creates a new client record. The (owner, email) pair is
// unique per freelancer.
func (s *ClientService) CreateClient(ctx context.Context, input *CreateClientInput) (*entity.Client, error) {
	client := &entity.Client{
		UserID:  input.UserID,
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		Active:  true,
	}

	if input.ClientUserEmail != nil {
		clientUserID, err := s.resolveClientUser(ctx, *input.ClientUserEmail)
		if err != nil {
			return nil, err
		}
		client.ClientUserID = clientUserID
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflictError("A client with this email already exists")
		}
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client visible to the given user.
func (s *ClientService) GetClient(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	if !client.ViewableBy(userID) {
		return nil, apperror.ErrForbidden
	}
	return client, nil
}

// ListClientsInput represents the input for listing clients
type ListClientsInput struct {
	UserID     uuid.UUID
	Pagination *pagination.PaginationParams
	Search     string
	Active     *bool
}

// ListClients lists the owner's clients.
func (s *ClientService) ListClients(ctx context.Context, input *ListClientsInput) (*pagination.PaginatedResult[entity.Client], error) {
	params := &repository.ClientFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Active:     input.Active,
	}
	clients, total, err := s.clientRepo.List(ctx, input.UserID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(clients, pag), nil
}

// UpdateClientInput represents the input for updating a client
type UpdateClientInput struct {
	UserID          uuid.UUID
	ID              uuid.UUID
	Name            string
	Email           string
	Phone           *string
	Address         *string
	Active          *bool
	ClientUserEmail *string
}

// UpdateClient updates a client owned by the given user.
func (s *ClientService) UpdateClient(ctx context.Context, input *UpdateClientInput) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	if client.OwnerID() != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != "" {
		client.Name = input.Name
	}
	if input.Email != "" {
		client.Email = input.Email
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Address != nil {
		client.Address = input.Address
	}
	if input.Active != nil {
		client.Active = *input.Active
	}
	if input.ClientUserEmail != nil {
		clientUserID, err := s.resolveClientUser(ctx, *input.ClientUserEmail)
		if err != nil {
			return nil, err
		}
		client.ClientUserID = clientUserID
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflictError("A client with this email already exists")
		}
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client that has no projects. A client referenced
// by projects is protected.
func (s *ClientService) DeleteClient(ctx context.Context, userID, id uuid.UUID) error {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return apperror.NewNotFoundError("Client")
	}
	if client.OwnerID() != userID {
		return apperror.ErrForbidden
	}

	inUse, err := s.clientRepo.HasProjects(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperror.NewReferentialError("Client", "a project")
	}

	return s.clientRepo.Delete(ctx, id)
}

// resolveClientUser resolves the login account to link, or unlinks when the
// email is empty. Only client-type accounts can be linked.
func (s *ClientService) resolveClientUser(ctx context.Context, email string) (*uuid.UUID, error) {
	if email == "" {
		return nil, nil
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("Client account")
	}
	if user.IsFreelancer() {
		return nil, apperror.NewValidationError("client_user_email", "only client accounts can be linked")
	}
	return &user.ID, nil
}
