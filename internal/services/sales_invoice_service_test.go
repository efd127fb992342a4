package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"forms-service/internal/apierror"
	"forms-service/internal/models"
	"forms-service/internal/repository"
)

func newTestSalesInvoice(approverID uuid.UUID) *models.SalesInvoice {
	invoiceID := uuid.New()
	return &models.SalesInvoice{
		ID:         invoiceID,
		TenantID:   testTenant,
		CustomerID: uuid.New(),
		DueDate:    time.Now().AddDate(0, 1, 0),
		Amount:     decimal.NewFromInt(1500),
		Form: &models.Form{
			ID:                 uuid.New(),
			TenantID:           testTenant,
			Number:             "SI2024001",
			Date:               time.Now(),
			CreatedBy:          uuid.New(),
			UpdatedBy:          uuid.New(),
			RequestApprovalTo:  approverID,
			ApprovalStatus:     models.ApprovalStatusApproved,
			CancellationStatus: models.CancellationStatusUnset,
			FormableType:       models.FormableTypeSalesInvoice,
			Version:            1,
		},
	}
}

func withInvoicePendingCancellation(invoice *models.SalesInvoice, approverID uuid.UUID) *models.SalesInvoice {
	invoice.Form.RequestCancellationTo = &approverID
	invoice.Form.CancellationStatus = models.CancellationStatusPending
	return invoice
}

func newSalesInvoiceService(repo *MockFormsRepository) *SalesInvoiceService {
	return NewSalesInvoiceService(repo, NewSideEffectDispatcher(), nil, nil)
}

// --- FindOne ---

func TestSalesInvoiceFindOne_NotFound(t *testing.T) {
	mockRepo := new(MockFormsRepository)
	service := newSalesInvoiceService(mockRepo)

	id := uuid.New()
	mockRepo.On("GetSalesInvoiceByID", mock.Anything, testTenant, id).Return(nil, repository.ErrNotFound)

	_, err := service.FindOne(context.Background(), testTenant, id)

	assert.Error(t, err)
	assert.Equal(t, "Sales invoice is not exist", err.Error())
	assert.Equal(t, 404, apierror.StatusOf(err))
}

func TestSalesInvoiceFindOne_ResolvesReference(t *testing.T) {
	mockRepo := new(MockFormsRepository)
	service := newSalesInvoiceService(mockRepo)

	approver := newTestUser()
	invoice := newTestSalesInvoice(approver.ID)

	upstreamID := uuid.New()
	invoice.ReferenceableType = models.FormableTypeStockCorrection
	invoice.ReferenceableID = &upstreamID

	upstreamForm := &models.Form{
		ID:           uuid.New(),
		TenantID:     testTenant,
		Number:       "SC2024007",
		FormableType: models.FormableTypeStockCorrection,
		FormableID:   upstreamID,
	}

	mockRepo.On("GetSalesInvoiceByID", mock.Anything, testTenant, invoice.ID).Return(invoice, nil)
	mockRepo.On("GetFormByFormable", mock.Anything, models.FormableTypeStockCorrection, upstreamID).Return(upstreamForm, nil)

	got, err := service.FindOne(context.Background(), testTenant, invoice.ID)

	assert.NoError(t, err)
	assert.NotNil(t, got.Referenceable)
	assert.Equal(t, models.FormableTypeStockCorrection, got.Referenceable.FormableType)
	assert.Equal(t, upstreamID, got.Referenceable.FormableID)
	assert.Equal(t, "SC2024007", got.Referenceable.Form.Number)
}

func TestSalesInvoiceFindOne_MissingReferenceTolerated(t *testing.T) {
	mockRepo := new(MockFormsRepository)
	service := newSalesInvoiceService(mockRepo)

	approver := newTestUser()
	invoice := newTestSalesInvoice(approver.ID)

	upstreamID := uuid.New()
	invoice.ReferenceableType = models.FormableTypeStockCorrection
	invoice.ReferenceableID = &upstreamID

	mockRepo.On("GetSalesInvoiceByID", mock.Anything, testTenant, invoice.ID).Return(invoice, nil)
	mockRepo.On("GetFormByFormable", mock.Anything, models.FormableTypeStockCorrection, upstreamID).Return(nil, repository.ErrNotFound)

	got, err := service.FindOne(context.Background(), testTenant, invoice.ID)

	assert.NoError(t, err)
	assert.Nil(t, got.Referenceable)
}

// --- Approve ---

func TestSalesInvoiceApprove_PostsBalancedJournal(t *testing.T) {
	mockRepo := new(MockFormsRepository)
	service := newSalesInvoiceService(mockRepo)

	approver := newTestUser()
	invoice := newTestSalesInvoice(approver.ID)
	invoice.Form.ApprovalStatus = models.ApprovalStatusPending

	receivableAccount := uuid.New()
	incomeAccount := uuid.New()
	receivable := &models.SettingJournal{
		ID: uuid.New(), TenantID: testTenant,
		Feature: FeatureSalesInvoice, Name: JournalNameAccountReceivable,
		ChartOfAccountID: receivableAccount,
	}
	income := &models.SettingJournal{
		ID: uuid.New(), TenantID: testTenant,
		Feature: FeatureSalesInvoice, Name: JournalNameSalesIncome,
		ChartOfAccountID: incomeAccount,
	}

	mockRepo.On("GetUserWithRoles", mock.Anything, approver.ID).Return(approver, nil)
	mockRepo.On("GetSalesInvoiceByID", mock.Anything, testTenant, invoice.ID).Return(invoice, nil)
	mockRepo.On("GetFormForUpdate", mock.Anything, models.FormableTypeSalesInvoice, invoice.ID).Return(invoice.Form, nil)
	mockRepo.On("UpdateForm", mock.Anything, invoice.Form, mock.Anything).Return(nil)
	mockRepo.On("GetSettingJournal", mock.Anything, testTenant, FeatureSalesInvoice, JournalNameAccountReceivable).Return(receivable, nil)
	mockRepo.On("GetSettingJournal", mock.Anything, testTenant, FeatureSalesInvoice, JournalNameSalesIncome).Return(income, nil)
	mockRepo.On("CreateJournalEntry", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("CreateFormAuditLog", mock.Anything, mock.Anything).Return(nil)

	got, err := service.Approve(context.Background(), testTenant, approver.ID, invoice.ID, "ok")

	assert.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, got.Form.ApprovalStatus)

	mockRepo.AssertCalled(t, "CreateJournalEntry", mock.Anything, mock.MatchedBy(func(entry *models.JournalEntry) bool {
		if len(entry.Lines) != 2 {
			return false
		}
		debitLine, creditLine := entry.Lines[0], entry.Lines[1]
		return debitLine.ChartOfAccountID == receivableAccount &&
			debitLine.Debit.Equal(invoice.Amount) &&
			creditLine.ChartOfAccountID == incomeAccount &&
			creditLine.Credit.Equal(invoice.Amount)
	}))
	mockRepo.AssertNotCalled(t, "CreateInventoryMovements", mock.Anything, mock.Anything)
}

func TestSalesInvoiceApprove_MissingReceivableMapping(t *testing.T) {
	mockRepo := new(MockFormsRepository)
	service := newSalesInvoiceService(mockRepo)

	approver := newTestUser()
	invoice := newTestSalesInvoice(approver.ID)
	invoice.Form.ApprovalStatus = models.ApprovalStatusPending

	mockRepo.On("GetUserWithRoles", mock.Anything, approver.ID).Return(approver, nil)
	mockRepo.On("GetSalesInvoiceByID", mock.Anything, testTenant, invoice.ID).Return(invoice, nil)
	mockRepo.On("GetFormForUpdate", mock.Anything, models.FormableTypeSalesInvoice, invoice.ID).Return(invoice.Form, nil)
	mockRepo.On("UpdateForm", mock.Anything, invoice.Form, mock.Anything).Return(nil)
	mockRepo.On("GetSettingJournal", mock.Anything, testTenant, FeatureSalesInvoice, JournalNameAccountReceivable).Return(nil, repository.ErrNotFound)

	_, err := service.Approve(context.Background(), testTenant, approver.ID, invoice.ID, "")

	assert.Error(t, err)
	assert.Equal(t, "Journal account receivable account mapping for feature sales invoice is missing", err.Error())
	assert.Equal(t, 500, apierror.StatusOf(err))
	mockRepo.AssertNotCalled(t, "CreateJournalEntry", mock.Anything, mock.Anything)
}

// --- DeleteFormApprove ---

func TestSalesInvoiceDeleteFormApprove_VoidsJournalAndDeletes(t *testing.T) {
	mockRepo := new(MockFormsRepository)
	service := newSalesInvoiceService(mockRepo)

	approver := newTestUser()
	invoice := withInvoicePendingCancellation(newTestSalesInvoice(approver.ID), approver.ID)

	mockRepo.On("GetUserWithRoles", mock.Anything, approver.ID).Return(approver, nil)
	mockRepo.On("GetSalesInvoiceByID", mock.Anything, testTenant, invoice.ID).Return(invoice, nil)
	mockRepo.On("GetFormForUpdate", mock.Anything, models.FormableTypeSalesInvoice, invoice.ID).Return(invoice.Form, nil)
	mockRepo.On("UpdateForm", mock.Anything, invoice.Form, mock.Anything).Return(nil)
	mockRepo.On("VoidJournalEntriesByForm", mock.Anything, invoice.Form.ID).Return(nil)
	mockRepo.On("CreateFormAuditLog", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("DeleteSalesInvoice", mock.Anything, invoice).Return(nil)

	got, err := service.DeleteFormApprove(context.Background(), testTenant, approver.ID, invoice.ID)

	assert.NoError(t, err)
	assert.Equal(t, models.CancellationStatusApproved, got.Form.CancellationStatus)
	mockRepo.AssertCalled(t, "VoidJournalEntriesByForm", mock.Anything, invoice.Form.ID)
	mockRepo.AssertCalled(t, "DeleteSalesInvoice", mock.Anything, invoice)
	// Invoices never touch the quantity ledger
	mockRepo.AssertNotCalled(t, "GetInventoryMovementsByForm", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "CreateInventoryMovements", mock.Anything, mock.Anything)
}

func TestSalesInvoiceDeleteFormApprove_WrongApprover(t *testing.T) {
	mockRepo := new(MockFormsRepository)
	service := newSalesInvoiceService(mockRepo)

	selectedApprover := uuid.New()
	other := newTestUser()
	invoice := withInvoicePendingCancellation(newTestSalesInvoice(selectedApprover), selectedApprover)

	mockRepo.On("GetUserWithRoles", mock.Anything, other.ID).Return(other, nil)
	mockRepo.On("GetSalesInvoiceByID", mock.Anything, testTenant, invoice.ID).Return(invoice, nil)

	_, err := service.DeleteFormApprove(context.Background(), testTenant, other.ID, invoice.ID)

	assert.Error(t, err)
	assert.Equal(t, "Forbidden - You are not selected approver", err.Error())
	assert.Equal(t, 403, apierror.StatusOf(err))
	mockRepo.AssertNotCalled(t, "DeleteSalesInvoice", mock.Anything, mock.Anything)
}

func TestSalesInvoiceDeleteFormApprove_DoneBlocksDeletion(t *testing.T) {
	mockRepo := new(MockFormsRepository)
	service := newSalesInvoiceService(mockRepo)

	approver := newTestUser()
	invoice := withInvoicePendingCancellation(newTestSalesInvoice(approver.ID), approver.ID)
	invoice.Form.Done = true

	mockRepo.On("GetUserWithRoles", mock.Anything, approver.ID).Return(approver, nil)
	mockRepo.On("GetSalesInvoiceByID", mock.Anything, testTenant, invoice.ID).Return(invoice, nil)

	_, err := service.DeleteFormApprove(context.Background(), testTenant, approver.ID, invoice.ID)

	assert.Error(t, err)
	assert.Equal(t, "Can not delete already referenced sales invoice", err.Error())
	assert.Equal(t, 422, apierror.StatusOf(err))
}

// --- DeleteFormRequest / DeleteFormReject ---

func TestSalesInvoiceDeleteFormRequest_AlreadyRequested(t *testing.T) {
	mockRepo := new(MockFormsRepository)
	service := newSalesInvoiceService(mockRepo)

	approver := newTestUser()
	invoice := withInvoicePendingCancellation(newTestSalesInvoice(approver.ID), approver.ID)

	mockRepo.On("GetSalesInvoiceByID", mock.Anything, testTenant, invoice.ID).Return(invoice, nil)

	_, err := service.DeleteFormRequest(context.Background(), testTenant, uuid.New(), invoice.ID, approver.ID, "")

	assert.Error(t, err)
	assert.Equal(t, "Sales invoice is already requested to be delete", err.Error())
}

func TestSalesInvoiceDeleteFormReject_Success(t *testing.T) {
	mockRepo := new(MockFormsRepository)
	service := newSalesInvoiceService(mockRepo)

	approver := newTestUser()
	invoice := withInvoicePendingCancellation(newTestSalesInvoice(approver.ID), approver.ID)

	mockRepo.On("GetUserWithRoles", mock.Anything, approver.ID).Return(approver, nil)
	mockRepo.On("GetSalesInvoiceByID", mock.Anything, testTenant, invoice.ID).Return(invoice, nil)
	mockRepo.On("GetFormForUpdate", mock.Anything, models.FormableTypeSalesInvoice, invoice.ID).Return(invoice.Form, nil)
	mockRepo.On("UpdateForm", mock.Anything, invoice.Form, mock.Anything).Return(nil)
	mockRepo.On("CreateFormAuditLog", mock.Anything, mock.Anything).Return(nil)

	got, err := service.DeleteFormReject(context.Background(), testTenant, approver.ID, invoice.ID, "keep")

	assert.NoError(t, err)
	assert.Equal(t, models.CancellationStatusRejected, got.Form.CancellationStatus)
	mockRepo.AssertNotCalled(t, "DeleteSalesInvoice", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "VoidJournalEntriesByForm", mock.Anything, mock.Anything)
}
