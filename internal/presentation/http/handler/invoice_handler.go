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

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterPaymentRequest represents the register payment request body
type RegisterPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required,oneof=transfer card cash mobile"`
	Note   string          `json:"note"`
}

// List handles listing invoices
// @Summary List Invoices
// @Description Get all invoices with pagination and filtering
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search term"
// @Param status query string false "Status filter"
// @Param outstanding query bool false "Only pending or overdue invoices"
// @Param year query int false "Serial year filter"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, perPage := parsePageParams(c)

	var status *enum.InvoiceStatus
	if s := c.Query("status"); s != "" {
		st := enum.InvoiceStatus(s)
		status = &st
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

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), &service.ListInvoicesInput{
		UserID: *userID,
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:           c.Query("search"),
		Status:           status,
		PendingOrOverdue: c.Query("outstanding") == "true",
		Year:             year,
	}, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles getting a single invoice
// @Summary Get Invoice
// @Description Get an invoice by ID
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), *userID, id, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// RegisterPayment handles registering a payment against an invoice
// @Summary Register Payment
// @Description Append a payment to the invoice ledger
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body RegisterPaymentRequest true "Payment data"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id}/payments [post]
func (h *InvoiceHandler) RegisterPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.RegisterPayment(c.Request.Context(), &service.RegisterPaymentInput{
		UserID:    *userID,
		InvoiceID: id,
		Amount:    req.Amount,
		Method:    enum.PaymentMethod(req.Method),
		Note:      req.Note,
	}, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment registered successfully", invoice)
}

// Void handles voiding an invoice
// @Summary Void Invoice
// @Description Cancel an invoice that is not fully paid
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), *userID, id, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice voided successfully", invoice)
}
