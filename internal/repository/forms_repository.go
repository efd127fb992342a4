package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"forms-service/internal/models"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict - record was modified by another request")
)

// FormsRepositoryInterface is the persistence contract for the transition
// engine. Every use-case handler runs against it, either directly or through
// the transactional handle passed to WithTransaction.
type FormsRepositoryInterface interface {
	WithTransaction(ctx context.Context, fn func(txRepo FormsRepositoryInterface) error) error

	GetUserWithRoles(ctx context.Context, id uuid.UUID) (*models.User, error)

	GetStockCorrectionByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.StockCorrection, error)
	DeleteStockCorrection(ctx context.Context, sc *models.StockCorrection) error

	GetSalesInvoiceByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.SalesInvoice, error)
	DeleteSalesInvoice(ctx context.Context, invoice *models.SalesInvoice) error

	GetFormByFormable(ctx context.Context, formableType string, formableID uuid.UUID) (*models.Form, error)
	GetFormForUpdate(ctx context.Context, formableType string, formableID uuid.UUID) (*models.Form, error)
	UpdateForm(ctx context.Context, form *models.Form, updates map[string]interface{}) error
	FindUndoneReferencedForms(ctx context.Context) ([]models.Form, error)

	GetSettingJournal(ctx context.Context, tenantID, feature, name string) (*models.SettingJournal, error)
	CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error
	VoidJournalEntriesByForm(ctx context.Context, formID uuid.UUID) error

	CreateInventoryMovements(ctx context.Context, movements []models.InventoryMovement) error
	GetInventoryMovementsByForm(ctx context.Context, formID uuid.UUID) ([]models.InventoryMovement, error)

	CreateFormAuditLog(ctx context.Context, log *models.FormAuditLog) error
	GetFormHistory(ctx context.Context, formID uuid.UUID) ([]models.FormAuditLog, error)
}

// FormsRepository handles database operations for forms and their aggregates
type FormsRepository struct {
	db *gorm.DB
}

var _ FormsRepositoryInterface = (*FormsRepository)(nil)

// NewFormsRepository creates a new FormsRepository
func NewFormsRepository(db *gorm.DB) *FormsRepository {
	return &FormsRepository{db: db}
}

// WithTransaction runs fn inside a database transaction. The callback
// receives a repository bound to the transaction; any error rolls everything
// back so no partial form/aggregate mutation is visible.
func (r *FormsRepository) WithTransaction(ctx context.Context, fn func(txRepo FormsRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewFormsRepository(tx))
	})
}

// --- User Methods ---

// GetUserWithRoles retrieves a user with their role set preloaded
func (r *FormsRepository) GetUserWithRoles(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// --- Stock Correction Methods ---

// GetStockCorrectionByID retrieves a stock correction with its lines,
// warehouse and form (routing users resolved)
func (r *FormsRepository) GetStockCorrectionByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.StockCorrection, error) {
	var sc models.StockCorrection
	err := r.db.WithContext(ctx).
		Preload("Items.Item").
		Preload("Warehouse").
		Preload("Form").
		Preload("Form.RequestApprovalToUser").
		Preload("Form.RequestCancellationToUser").
		Preload("Form.CreatedByUser").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}

// DeleteStockCorrection hard-deletes the aggregate, its lines and its form
func (r *FormsRepository) DeleteStockCorrection(ctx context.Context, sc *models.StockCorrection) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("stock_correction_id = ?", sc.ID).
		Delete(&models.StockCorrectionItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("formable_type = ? AND formable_id = ?", models.FormableTypeStockCorrection, sc.ID).
		Delete(&models.Form{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.StockCorrection{}, "id = ?", sc.ID).Error
}

// --- Sales Invoice Methods ---

// GetSalesInvoiceByID retrieves a sales invoice with its lines (nested
// allocations), customer and form (routing users resolved)
func (r *FormsRepository) GetSalesInvoiceByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.SalesInvoice, error) {
	var invoice models.SalesInvoice
	err := r.db.WithContext(ctx).
		Preload("Items.Item").
		Preload("Items.Allocation").
		Preload("Customer").
		Preload("Form").
		Preload("Form.RequestApprovalToUser").
		Preload("Form.RequestCancellationToUser").
		Preload("Form.CreatedByUser").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// DeleteSalesInvoice hard-deletes the aggregate, its lines and its form
func (r *FormsRepository) DeleteSalesInvoice(ctx context.Context, invoice *models.SalesInvoice) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("sales_invoice_id = ?", invoice.ID).
		Delete(&models.SalesInvoiceItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("formable_type = ? AND formable_id = ?", models.FormableTypeSalesInvoice, invoice.ID).
		Delete(&models.Form{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.SalesInvoice{}, "id = ?", invoice.ID).Error
}

// --- Form Methods ---

// GetFormByFormable retrieves the form wrapping an aggregate
func (r *FormsRepository) GetFormByFormable(ctx context.Context, formableType string, formableID uuid.UUID) (*models.Form, error) {
	var form models.Form
	err := r.db.WithContext(ctx).
		Where("formable_type = ? AND formable_id = ?", formableType, formableID).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// GetFormForUpdate retrieves the form with a row-level lock. Concurrent
// transitions on the same form serialize here for the duration of the
// transaction.
func (r *FormsRepository) GetFormForUpdate(ctx context.Context, formableType string, formableID uuid.UUID) (*models.Form, error) {
	var form models.Form
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("formable_type = ? AND formable_id = ?", formableType, formableID).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// UpdateForm applies updates to a form with optimistic locking. The in-memory
// form is refreshed on success.
func (r *FormsRepository) UpdateForm(ctx context.Context, form *models.Form, updates map[string]interface{}) error {
	oldVersion := form.Version

	updates["version"] = oldVersion + 1
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(form).
		Where("id = ? AND version = ?", form.ID, oldVersion).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	form.Version = oldVersion + 1
	return nil
}

// FindUndoneReferencedForms finds forms whose aggregate has been referenced
// by a sales invoice downstream but whose done flag is still false
func (r *FormsRepository) FindUndoneReferencedForms(ctx context.Context) ([]models.Form, error) {
	var forms []models.Form
	err := r.db.WithContext(ctx).
		Joins("JOIN sales_invoices si ON si.referenceable_type = forms.formable_type AND si.referenceable_id = forms.formable_id").
		Where("forms.done = false").
		Find(&forms).Error
	return forms, err
}

// --- Journal Methods ---

// GetSettingJournal retrieves the account mapping for a feature and journal
// line name
func (r *FormsRepository) GetSettingJournal(ctx context.Context, tenantID, feature, name string) (*models.SettingJournal, error) {
	var setting models.SettingJournal
	err := r.db.WithContext(ctx).
		Preload("ChartOfAccount").
		Where("tenant_id = ? AND feature = ? AND name = ?", tenantID, feature, name).
		First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// CreateJournalEntry creates a journal entry with its lines
func (r *FormsRepository) CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// VoidJournalEntriesByForm marks all posted entries of a form as VOID
func (r *FormsRepository) VoidJournalEntriesByForm(ctx context.Context, formID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.JournalEntry{}).
		Where("form_id = ? AND status = ?", formID, models.JournalStatusPosted).
		Updates(map[string]interface{}{
			"status":     models.JournalStatusVoid,
			"updated_at": time.Now(),
		}).Error
}

// --- Inventory Methods ---

// CreateInventoryMovements appends movement rows to the quantity ledger
func (r *FormsRepository) CreateInventoryMovements(ctx context.Context, movements []models.InventoryMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&movements).Error
}

// GetInventoryMovementsByForm retrieves the movements a form's approval applied
func (r *FormsRepository) GetInventoryMovementsByForm(ctx context.Context, formID uuid.UUID) ([]models.InventoryMovement, error) {
	var movements []models.InventoryMovement
	err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Find(&movements).Error
	return movements, err
}

// --- Audit Methods ---

// CreateFormAuditLog creates an audit log entry
func (r *FormsRepository) CreateFormAuditLog(ctx context.Context, log *models.FormAuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// GetFormHistory retrieves audit history for a form
func (r *FormsRepository) GetFormHistory(ctx context.Context, formID uuid.UUID) ([]models.FormAuditLog, error) {
	var logs []models.FormAuditLog
	err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
