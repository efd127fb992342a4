package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"forms-service/internal/apierror"
	"forms-service/internal/models"
)

// StockCorrectionService is the transition surface the handler exposes over
// HTTP.
type StockCorrectionService interface {
	FindOne(ctx context.Context, tenantID string, id uuid.UUID) (*models.StockCorrection, error)
	Approve(ctx context.Context, tenantID string, approverID, id uuid.UUID, reason string) (*models.StockCorrection, error)
	Reject(ctx context.Context, tenantID string, approverID, id uuid.UUID, reason string) (*models.StockCorrection, error)
	DeleteFormRequest(ctx context.Context, tenantID string, requesterID, id, requestCancellationTo uuid.UUID, reason string) (*models.StockCorrection, error)
	DeleteFormApprove(ctx context.Context, tenantID string, approverID, id uuid.UUID) (*models.StockCorrection, error)
	DeleteFormReject(ctx context.Context, tenantID string, approverID, id uuid.UUID, reason string) (*models.StockCorrection, error)
}

// StockCorrectionHandler handles HTTP requests for stock correction forms
type StockCorrectionHandler struct {
	service StockCorrectionService
}

// NewStockCorrectionHandler creates a new StockCorrectionHandler
func NewStockCorrectionHandler(service StockCorrectionService) *StockCorrectionHandler {
	return &StockCorrectionHandler{service: service}
}

// ReasonRequest carries the free-text reason of a decision
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// CancellationRequestInput routes a cancellation request to an approver
type CancellationRequestInput struct {
	RequestCancellationTo uuid.UUID `json:"requestCancellationTo" binding:"required"`
	Reason                string    `json:"reason"`
}

// GetOne retrieves a stock correction with its form
// @Summary Get stock correction
// @Tags Stock Corrections
// @Produce json
// @Param id path string true "Stock Correction ID"
// @Success 200 {object} models.StockCorrection
// @Router /api/v1/stock-corrections/{id} [get]
func (h *StockCorrectionHandler) GetOne(c *gin.Context) {
	tenantID, id, ok := requestScope(c)
	if !ok {
		return
	}

	sc, err := h.service.FindOne(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sc})
}

// Approve approves a pending stock correction
// @Summary Approve stock correction
// @Tags Stock Corrections
// @Accept json
// @Produce json
// @Param id path string true "Stock Correction ID"
// @Param request body ReasonRequest false "Approval reason"
// @Success 200 {object} models.StockCorrection
// @Router /api/v1/stock-corrections/{id}/approve [post]
func (h *StockCorrectionHandler) Approve(c *gin.Context) {
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

	sc, err := h.service.Approve(c.Request.Context(), tenantID, userID, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sc})
}

// Reject rejects a pending stock correction
// @Summary Reject stock correction
// @Tags Stock Corrections
// @Accept json
// @Produce json
// @Param id path string true "Stock Correction ID"
// @Param request body ReasonRequest false "Rejection reason"
// @Success 200 {object} models.StockCorrection
// @Router /api/v1/stock-corrections/{id}/reject [post]
func (h *StockCorrectionHandler) Reject(c *gin.Context) {
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

	sc, err := h.service.Reject(c.Request.Context(), tenantID, userID, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sc})
}

// RequestCancellation asks the selected approver to confirm deletion
// @Summary Request stock correction cancellation
// @Tags Stock Corrections
// @Accept json
// @Produce json
// @Param id path string true "Stock Correction ID"
// @Param request body CancellationRequestInput true "Cancellation routing"
// @Success 200 {object} models.StockCorrection
// @Router /api/v1/stock-corrections/{id}/cancellation-request [post]
func (h *StockCorrectionHandler) RequestCancellation(c *gin.Context) {
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

	sc, err := h.service.DeleteFormRequest(c.Request.Context(), tenantID, userID, id, req.RequestCancellationTo, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sc})
}

// ApproveCancellation approves a pending cancellation and deletes the record
// @Summary Approve stock correction cancellation
// @Tags Stock Corrections
// @Produce json
// @Param id path string true "Stock Correction ID"
// @Success 200 {object} models.StockCorrection
// @Router /api/v1/stock-corrections/{id}/cancellation-approve [post]
func (h *StockCorrectionHandler) ApproveCancellation(c *gin.Context) {
	tenantID, id, ok := requestScope(c)
	if !ok {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	sc, err := h.service.DeleteFormApprove(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sc})
}

// RejectCancellation rejects a pending cancellation
// @Summary Reject stock correction cancellation
// @Tags Stock Corrections
// @Accept json
// @Produce json
// @Param id path string true "Stock Correction ID"
// @Param request body ReasonRequest false "Rejection reason"
// @Success 200 {object} models.StockCorrection
// @Router /api/v1/stock-corrections/{id}/cancellation-reject [post]
func (h *StockCorrectionHandler) RejectCancellation(c *gin.Context) {
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

	sc, err := h.service.DeleteFormReject(c.Request.Context(), tenantID, userID, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sc})
}

// --- shared handler helpers ---

func requestScope(c *gin.Context) (string, uuid.UUID, bool) {
	tenantID := c.GetString("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return "", uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return "", uuid.Nil, false
	}
	return tenantID, id, true
}

func actorID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return uuid.Nil, false
	}
	return userID, true
}

func respondError(c *gin.Context, err error) {
	c.JSON(apierror.StatusOf(err), gin.H{"error": err.Error()})
}
