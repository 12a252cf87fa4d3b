package handler

import (
	"time"

	"github.com/freelio/freelio-api/internal/application/service"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/freelio/freelio-api/internal/presentation/http/dto/response"
	"github.com/freelio/freelio-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	ProjectID     string           `json:"project_id" binding:"required"`
	IssueDate     string           `json:"issue_date" binding:"required"`
	ValidityDate  string           `json:"validity_date" binding:"required"`
	BaseAmount    decimal.Decimal  `json:"base_amount" binding:"required"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	Notes         *string          `json:"notes"`
}

// UpdateBudgetRequest represents the update budget request body
type UpdateBudgetRequest struct {
	IssueDate     string           `json:"issue_date" binding:"required"`
	ValidityDate  string           `json:"validity_date" binding:"required"`
	BaseAmount    decimal.Decimal  `json:"base_amount" binding:"required"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	Notes         *string          `json:"notes"`
}

// List handles listing budgets
// @Summary List Budgets
// @Description Get all budgets with pagination and filtering
// @Tags budgets
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search term"
// @Param status query string false "Status filter"
// @Param project_id query string false "Project filter"
// @Param year query int false "Serial year filter"
// @Success 200 {object} response.APIResponse
// @Router /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, perPage := parsePageParams(c)

	var status *enum.BudgetStatus
	if s := c.Query("status"); s != "" {
		st := enum.BudgetStatus(s)
		status = &st
	}

	var projectID *uuid.UUID
	if pid := c.Query("project_id"); pid != "" {
		parsed, err := uuid.Parse(pid)
		if err != nil {
			response.BadRequest(c, "Invalid project ID")
			return
		}
		projectID = &parsed
	}

	var year *int
	if y := c.Query("year"); y != "" {
		parsed, err := parsePositiveInt(y)
		if err != nil {
			response.BadRequest(c, "Invalid year")
			return
		}
		year = &parsed
	}

	result, err := h.budgetService.ListBudgets(c.Request.Context(), &service.ListBudgetsInput{
		UserID: *userID,
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		Status:    status,
		ProjectID: projectID,
		Year:      year,
	}, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Budgets retrieved successfully", result)
}

// Get handles getting a single budget
// @Summary Get Budget
// @Description Get a budget by ID
// @Tags budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} response.APIResponse
// @Router /budgets/{id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid budget ID")
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), *userID, id, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget retrieved successfully", budget)
}

// Create handles creating a budget
// @Summary Create Budget
// @Description Create a new draft budget with a year-scoped serial number
// @Tags budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateBudgetRequest true "Budget data"
// @Success 201 {object} response.APIResponse
// @Router /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		response.BadRequest(c, "Invalid issue date format. Use YYYY-MM-DD")
		return
	}
	validityDate, err := parseDate(req.ValidityDate)
	if err != nil {
		response.BadRequest(c, "Invalid validity date format. Use YYYY-MM-DD")
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), &service.CreateBudgetInput{
		UserID:        *userID,
		ProjectID:     projectID,
		IssueDate:     issueDate,
		ValidityDate:  validityDate,
		BaseAmount:    req.BaseAmount,
		TaxPercentage: req.TaxPercentage,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Budget created successfully", budget)
}

// Update handles updating a budget
// @Summary Update Budget
// @Description Update a budget that has not been rejected or converted
// @Tags budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body UpdateBudgetRequest true "Budget data"
// @Success 200 {object} response.APIResponse
// @Router /budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid budget ID")
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		response.BadRequest(c, "Invalid issue date format. Use YYYY-MM-DD")
		return
	}
	validityDate, err := parseDate(req.ValidityDate)
	if err != nil {
		response.BadRequest(c, "Invalid validity date format. Use YYYY-MM-DD")
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), &service.UpdateBudgetInput{
		UserID:        *userID,
		ID:            id,
		IssueDate:     issueDate,
		ValidityDate:  validityDate,
		BaseAmount:    req.BaseAmount,
		TaxPercentage: req.TaxPercentage,
		Notes:         req.Notes,
	}, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget updated successfully", budget)
}

// Send handles marking a budget as sent
// @Summary Send Budget
// @Description Mark a draft budget as sent to the client
// @Tags budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} response.APIResponse
// @Router /budgets/{id}/send [post]
func (h *BudgetHandler) Send(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid budget ID")
		return
	}

	budget, err := h.budgetService.SendBudget(c.Request.Context(), *userID, id, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget sent successfully", budget)
}

// Accept handles marking a budget as accepted
// @Summary Accept Budget
// @Description Mark a budget as accepted while its validity window is open
// @Tags budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} response.APIResponse
// @Router /budgets/{id}/accept [post]
func (h *BudgetHandler) Accept(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid budget ID")
		return
	}

	budget, err := h.budgetService.AcceptBudget(c.Request.Context(), *userID, id, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Budget accepted successfully", budget)
}

// Convert handles converting a budget into an invoice
// @Summary Convert Budget
// @Description Convert an accepted, unexpired budget into its invoice
// @Tags budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 201 {object} response.APIResponse
// @Router /budgets/{id}/convert [post]
func (h *BudgetHandler) Convert(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid budget ID")
		return
	}

	invoice, err := h.budgetService.ConvertToInvoice(c.Request.Context(), *userID, id, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Budget converted successfully", invoice)
}

// Delete handles deleting a budget
// @Summary Delete Budget
// @Description Delete a budget that has not been converted into an invoice
// @Tags budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 204
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid budget ID")
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
