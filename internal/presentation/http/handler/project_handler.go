package handler

import (
	"time"

	"github.com/freelio/freelio-api/internal/application/service"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/internal/presentation/http/dto/response"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	projectService *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProjectRequest represents the create project request body
type CreateProjectRequest struct {
	ClientID    string  `json:"client_id" binding:"required"`
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Description string  `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=active paused finished"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     *string `json:"end_date"`
}

// UpdateProjectRequest represents the update project request body
type UpdateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=active paused finished"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	ClearEnd    bool    `json:"clear_end"`
}

// List handles listing projects
// @Summary List Projects
// @Description Get all projects with pagination and filtering
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search term"
// @Param status query string false "Status filter"
// @Param client_id query string false "Client filter"
// @Success 200 {object} response.APIResponse
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, perPage := parsePageParams(c)

	var status *enum.ProjectStatus
	if s := c.Query("status"); s != "" {
		st := enum.ProjectStatus(s)
		status = &st
	}

	var clientID *uuid.UUID
	if cid := c.Query("client_id"); cid != "" {
		parsed, err := uuid.Parse(cid)
		if err != nil {
			response.BadRequest(c, "Invalid client ID")
			return
		}
		clientID = &parsed
	}

	result, err := h.projectService.ListProjects(c.Request.Context(), &service.ListProjectsInput{
		UserID: *userID,
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:   c.Query("search"),
		Status:   status,
		ClientID: clientID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Projects retrieved successfully", result)
}

// Get handles getting a single project
// @Summary Get Project
// @Description Get a project by ID
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} response.APIResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project retrieved successfully", project)
}

// Create handles creating a project
// @Summary Create Project
// @Description Create a new project under one of the owner's clients
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateProjectRequest true "Project data"
// @Success 201 {object} response.APIResponse
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start date format. Use YYYY-MM-DD")
		return
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date format. Use YYYY-MM-DD")
			return
		}
		endDate = &parsed
	}

	var status *enum.ProjectStatus
	if req.Status != nil {
		st := enum.ProjectStatus(*req.Status)
		status = &st
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), &service.CreateProjectInput{
		UserID:      *userID,
		ClientID:    clientID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Project created successfully", project)
}

// Update handles updating a project
// @Summary Update Project
// @Description Update an existing project
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body UpdateProjectRequest true "Project data"
// @Success 200 {object} response.APIResponse
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var startDate *time.Time
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date format. Use YYYY-MM-DD")
			return
		}
		startDate = &parsed
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date format. Use YYYY-MM-DD")
			return
		}
		endDate = &parsed
	}

	var status *enum.ProjectStatus
	if req.Status != nil {
		st := enum.ProjectStatus(*req.Status)
		status = &st
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), &service.UpdateProjectInput{
		UserID:      *userID,
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		StartDate:   startDate,
		EndDate:     endDate,
		ClearEnd:    req.ClearEnd,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project updated successfully", project)
}

// Delete handles deleting a project
// @Summary Delete Project
// @Description Delete a project that has no budgets
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param id path string true "Project ID"
// @Success 204
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
