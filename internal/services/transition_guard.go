package services

import (
	"forms-service/internal/apierror"
	"forms-service/internal/authz"
	"forms-service/internal/models"
)

// aggregateLabel carries the wording used in user-facing guard messages.
// The strings are part of the API surface; consumers match on exact text.
type aggregateLabel struct {
	Title string // "Stock correction"
	Lower string // "stock correction"
}

var (
	labelStockCorrection = aggregateLabel{Title: "Stock correction", Lower: "stock correction"}
	labelSalesInvoice    = aggregateLabel{Title: "Sales invoice", Lower: "sales invoice"}
)

const forbiddenApproverMessage = "Forbidden - You are not selected approver"

func errNotExist(label aggregateLabel) *apierror.Error {
	return apierror.NewNotFound(label.Title + " is not exist")
}

// guardCancellationApprove checks the pending -> approved cancellation
// transition. Checks run in order: pending state, authorization, done flag.
// The pending check comes first: while no cancellation is requested the
// routing field is empty and there is no approver to be wrong about.
func guardCancellationApprove(actor models.Actor, form *models.Form, label aggregateLabel) error {
	if !form.CancellationPending() {
		// Coarse on purpose: never requested and already resolved read the same.
		return apierror.NewUnprocessable(label.Title + " is not requested to be delete")
	}
	if !authz.Resolve(actor, form, authz.RouteCancellation) {
		return apierror.NewForbidden(forbiddenApproverMessage)
	}
	if form.Done {
		return apierror.NewUnprocessable("Can not delete already referenced " + label.Lower)
	}
	return nil
}

// guardCancellationReject checks the pending -> rejected cancellation
// transition. Rejection keeps the aggregate, so the done flag does not apply.
func guardCancellationReject(actor models.Actor, form *models.Form, label aggregateLabel) error {
	if !form.CancellationPending() {
		return apierror.NewUnprocessable(label.Title + " is not requested to be delete")
	}
	if !authz.Resolve(actor, form, authz.RouteCancellation) {
		return apierror.NewForbidden(forbiddenApproverMessage)
	}
	return nil
}

// guardCancellationRequest allows a cancellation request only while none has
// ever been made.
func guardCancellationRequest(form *models.Form, label aggregateLabel) error {
	if form.CancellationRequested() {
		return apierror.NewUnprocessable(label.Title + " is already requested to be delete")
	}
	return nil
}

// guardApprove checks the pending -> approved transition of the ordinary
// approval sub-flow.
func guardApprove(actor models.Actor, form *models.Form, label aggregateLabel) error {
	if !authz.Resolve(actor, form, authz.RouteApproval) {
		return apierror.NewForbidden(forbiddenApproverMessage)
	}
	if !form.ApprovalPending() {
		return apierror.NewUnprocessable(label.Title + " is not requested to be approved")
	}
	return nil
}

// guardReject checks the pending -> rejected transition of the ordinary
// approval sub-flow.
func guardReject(actor models.Actor, form *models.Form, label aggregateLabel) error {
	if !authz.Resolve(actor, form, authz.RouteApproval) {
		return apierror.NewForbidden(forbiddenApproverMessage)
	}
	if !form.ApprovalPending() {
		return apierror.NewUnprocessable(label.Title + " is not requested to be approved")
	}
	return nil
}
