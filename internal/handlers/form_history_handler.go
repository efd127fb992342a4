package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"forms-service/internal/models"
	"forms-service/internal/repository"
)

var formableTypes = map[string]string{
	"stock-corrections": models.FormableTypeStockCorrection,
	"sales-invoices":    models.FormableTypeSalesInvoice,
}

// FormHistoryHandler serves the audit trail of a form
type FormHistoryHandler struct {
	repo repository.FormsRepositoryInterface
}

// NewFormHistoryHandler creates a new FormHistoryHandler
func NewFormHistoryHandler(repo repository.FormsRepositoryInterface) *FormHistoryHandler {
	return &FormHistoryHandler{repo: repo}
}

// GetHistory retrieves the audit trail of the form wrapping an aggregate
// @Summary Get form history
// @Tags Forms
// @Produce json
// @Param kind path string true "Aggregate kind" Enums(stock-corrections, sales-invoices)
// @Param id path string true "Aggregate ID"
// @Success 200 {array} models.FormAuditLog
// @Router /api/v1/forms/{kind}/{id}/history [get]
func (h *FormHistoryHandler) GetHistory(c *gin.Context) {
	formableType, ok := formableTypes[c.Param("kind")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown form kind"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	form, err := h.repo.GetFormByFormable(c.Request.Context(), formableType, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Form is not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	logs, err := h.repo.GetFormHistory(c.Request.Context(), form.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
