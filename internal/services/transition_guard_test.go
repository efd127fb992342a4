package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"forms-service/internal/apierror"
	"forms-service/internal/models"
)

func pendingCancellationForm(approverID uuid.UUID) *models.Form {
	return &models.Form{
		ID:                    uuid.New(),
		RequestApprovalTo:     uuid.New(),
		ApprovalStatus:        models.ApprovalStatusApproved,
		RequestCancellationTo: &approverID,
		CancellationStatus:    models.CancellationStatusPending,
	}
}

func TestGuardCancellationApprove_ChecksStateBeforeAuthorization(t *testing.T) {
	// Nothing was ever requested, so no routing field is set; any plain actor
	// must get the state error, not the approver error
	form := &models.Form{
		ID:                 uuid.New(),
		RequestApprovalTo:  uuid.New(),
		ApprovalStatus:     models.ApprovalStatusApproved,
		CancellationStatus: models.CancellationStatusUnset,
		Done:               true,
	}

	err := guardCancellationApprove(models.Actor{ID: uuid.New()}, form, labelStockCorrection)

	assert.Error(t, err)
	assert.Equal(t, "Stock correction is not requested to be delete", err.Error())
	assert.Equal(t, 422, apierror.StatusOf(err))
}

func TestGuardCancellationApprove_PendingBeforeDone(t *testing.T) {
	approverID := uuid.New()
	form := pendingCancellationForm(approverID)
	form.CancellationStatus = models.CancellationStatusRejected
	form.Done = true

	err := guardCancellationApprove(models.Actor{ID: approverID}, form, labelSalesInvoice)

	assert.Error(t, err)
	assert.Equal(t, "Sales invoice is not requested to be delete", err.Error())
}

func TestGuardCancellationApprove_AuthorizationBeforeDone(t *testing.T) {
	approverID := uuid.New()
	form := pendingCancellationForm(approverID)
	form.Done = true

	err := guardCancellationApprove(models.Actor{ID: uuid.New()}, form, labelStockCorrection)

	assert.Error(t, err)
	assert.Equal(t, "Forbidden - You are not selected approver", err.Error())
	assert.Equal(t, 403, apierror.StatusOf(err))
}

func TestGuardCancellationApprove_DoneLast(t *testing.T) {
	approverID := uuid.New()
	form := pendingCancellationForm(approverID)
	form.Done = true

	err := guardCancellationApprove(models.Actor{ID: approverID}, form, labelStockCorrection)

	assert.Error(t, err)
	assert.Equal(t, "Can not delete already referenced stock correction", err.Error())
}

func TestGuardCancellationApprove_Passes(t *testing.T) {
	approverID := uuid.New()
	form := pendingCancellationForm(approverID)

	assert.NoError(t, guardCancellationApprove(models.Actor{ID: approverID}, form, labelStockCorrection))
}

func TestGuardCancellationApprove_SuperAdminPasses(t *testing.T) {
	form := pendingCancellationForm(uuid.New())

	err := guardCancellationApprove(models.Actor{ID: uuid.New(), IsSuperAdmin: true}, form, labelStockCorrection)

	assert.NoError(t, err)
}

func TestGuardCancellationReject_UnsetIsStateErrorForAnyActor(t *testing.T) {
	form := &models.Form{
		RequestApprovalTo:  uuid.New(),
		CancellationStatus: models.CancellationStatusUnset,
	}

	err := guardCancellationReject(models.Actor{ID: uuid.New()}, form, labelSalesInvoice)

	assert.Error(t, err)
	assert.Equal(t, "Sales invoice is not requested to be delete", err.Error())
	assert.Equal(t, 422, apierror.StatusOf(err))
}

func TestGuardCancellationReject_IgnoresDone(t *testing.T) {
	approverID := uuid.New()
	form := pendingCancellationForm(approverID)
	form.Done = true

	assert.NoError(t, guardCancellationReject(models.Actor{ID: approverID}, form, labelStockCorrection))
}

func TestGuardCancellationRequest_RejectedStaysRequested(t *testing.T) {
	approverID := uuid.New()
	form := pendingCancellationForm(approverID)
	form.CancellationStatus = models.CancellationStatusRejected

	err := guardCancellationRequest(form, labelStockCorrection)

	// A resolved request still counts as requested; re-requesting is not allowed
	assert.Error(t, err)
	assert.Equal(t, "Stock correction is already requested to be delete", err.Error())
}

func TestGuardCancellationRequest_UnsetPasses(t *testing.T) {
	form := &models.Form{CancellationStatus: models.CancellationStatusUnset}

	assert.NoError(t, guardCancellationRequest(form, labelStockCorrection))
}

func TestGuardApprove_NotPending(t *testing.T) {
	approverID := uuid.New()
	form := &models.Form{
		RequestApprovalTo:  approverID,
		ApprovalStatus:     models.ApprovalStatusApproved,
		CancellationStatus: models.CancellationStatusUnset,
	}

	err := guardApprove(models.Actor{ID: approverID}, form, labelSalesInvoice)

	assert.Error(t, err)
	assert.Equal(t, "Sales invoice is not requested to be approved", err.Error())
	assert.Equal(t, 422, apierror.StatusOf(err))
}

func TestGuardApprove_Passes(t *testing.T) {
	approverID := uuid.New()
	form := &models.Form{
		RequestApprovalTo:  approverID,
		ApprovalStatus:     models.ApprovalStatusPending,
		CancellationStatus: models.CancellationStatusUnset,
	}

	assert.NoError(t, guardApprove(models.Actor{ID: approverID}, form, labelSalesInvoice))
	assert.NoError(t, guardReject(models.Actor{ID: approverID}, form, labelSalesInvoice))
}
