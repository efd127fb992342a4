package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"forms-service/internal/models"
)

// SalesInvoiceService is the transition surface the handler exposes over
// HTTP.
type SalesInvoiceService interface {
	FindOne(ctx context.Context, tenantID string, id uuid.UUID) (*models.SalesInvoice, error)
	Approve(ctx context.Context, tenantID string, approverID, id uuid.UUID, reason string) (*models.SalesInvoice, error)
	Reject(ctx context.Context, tenantID string, approverID, id uuid.UUID, reason string) (*models.SalesInvoice, error)
	DeleteFormRequest(ctx context.Context, tenantID string, requesterID, id, requestCancellationTo uuid.UUID, reason string) (*models.SalesInvoice, error)
	DeleteFormApprove(ctx context.Context, tenantID string, approverID, id uuid.UUID) (*models.SalesInvoice, error)
	DeleteFormReject(ctx context.Context, tenantID string, approverID, id uuid.UUID, reason string) (*models.SalesInvoice, error)
}

// SalesInvoiceHandler handles HTTP requests for sales invoice forms
type SalesInvoiceHandler struct {
	service SalesInvoiceService
}

// NewSalesInvoiceHandler creates a new SalesInvoiceHandler
func NewSalesInvoiceHandler(service SalesInvoiceService) *SalesInvoiceHandler {
	return &SalesInvoiceHandler{service: service}
}

// GetOne retrieves a sales invoice with its form and upstream reference
// @Summary Get sales invoice
// @Tags Sales Invoices
// @Produce json
// @Param id path string true "Sales Invoice ID"
// @Success 200 {object} models.SalesInvoice
// @Router /api/v1/sales-invoices/{id} [get]
func (h *SalesInvoiceHandler) GetOne(c *gin.Context) {
	tenantID, id, ok := requestScope(c)
	if !ok {
		return
	}

	invoice, err := h.service.FindOne(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

// Approve approves a pending sales invoice
// @Summary Approve sales invoice
// @Tags Sales Invoices
// @Accept json
// @Produce json
// @Param id path string true "Sales Invoice ID"
// @Param request body ReasonRequest false "Approval reason"
// @Success 200 {object} models.SalesInvoice
// @Router /api/v1/sales-invoices/{id}/approve [post]
func (h *SalesInvoiceHandler) Approve(c *gin.Context) {
	tenantID, id, ok := requestScope(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req ReasonRequest
	_ = c.ShouldBindJSON(&req)

	invoice, err := h.service.Approve(c.Request.Context(), tenantID, userID, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

// Reject rejects a pending sales invoice
// @Summary Reject sales invoice
// @Tags Sales Invoices
// @Accept json
// @Produce json
// @Param id path string true "Sales Invoice ID"
// @Param request body ReasonRequest false "Rejection reason"
// @Success 200 {object} models.SalesInvoice
// @Router /api/v1/sales-invoices/{id}/reject [post]
func (h *SalesInvoiceHandler) Reject(c *gin.Context) {
	tenantID, id, ok := requestScope(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req ReasonRequest
	_ = c.ShouldBindJSON(&req)

	invoice, err := h.service.Reject(c.Request.Context(), tenantID, userID, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

// RequestCancellation asks the selected approver to confirm deletion
// @Summary Request sales invoice cancellation
// @Tags Sales Invoices
// @Accept json
// @Produce json
// @Param id path string true "Sales Invoice ID"
// @Param request body CancellationRequestInput true "Cancellation routing"
// @Success 200 {object} models.SalesInvoice
// @Router /api/v1/sales-invoices/{id}/cancellation-request [post]
func (h *SalesInvoiceHandler) RequestCancellation(c *gin.Context) {
	tenantID, id, ok := requestScope(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req CancellationRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.service.DeleteFormRequest(c.Request.Context(), tenantID, userID, id, req.RequestCancellationTo, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

// ApproveCancellation approves a pending cancellation and deletes the record
// @Summary Approve sales invoice cancellation
// @Tags Sales Invoices
// @Produce json
// @Param id path string true "Sales Invoice ID"
// @Success 200 {object} models.SalesInvoice
// @Router /api/v1/sales-invoices/{id}/cancellation-approve [post]
func (h *SalesInvoiceHandler) ApproveCancellation(c *gin.Context) {
	tenantID, id, ok := requestScope(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	invoice, err := h.service.DeleteFormApprove(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

// RejectCancellation rejects a pending cancellation
// @Summary Reject sales invoice cancellation
// @Tags Sales Invoices
// @Accept json
// @Produce json
// @Param id path string true "Sales Invoice ID"
// @Param request body ReasonRequest false "Rejection reason"
// @Success 200 {object} models.SalesInvoice
// @Router /api/v1/sales-invoices/{id}/cancellation-reject [post]
func (h *SalesInvoiceHandler) RejectCancellation(c *gin.Context) {
	tenantID, id, ok := requestScope(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req ReasonRequest
	_ = c.ShouldBindJSON(&req)

	invoice, err := h.service.DeleteFormReject(c.Request.Context(), tenantID, userID, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoice})
}
