// Package authz decides whether an actor may resolve a pending request on a
// form. It is pure decision logic with no side effects and must run before
// any state mutation.
package authz

import (
	"forms-service/internal/models"
)

// RoutingField selects which of the form's routing fields applies to a
// transition.
type RoutingField int

const (
	// RouteApproval gates ordinary approve/reject transitions.
	RouteApproval RoutingField = iota
	// RouteCancellation gates cancellation approve/reject transitions.
	RouteCancellation
)

// Resolve returns true iff the actor is the user designated in the form's
// routing field, or holds the super-admin capability.
func Resolve(actor models.Actor, form *models.Form, field RoutingField) bool {
	if actor.IsSuperAdmin {
		return true
	}

	switch field {
	case RouteApproval:
		return actor.ID == form.RequestApprovalTo
	case RouteCancellation:
		return form.RequestCancellationTo != nil && actor.ID == *form.RequestCancellationTo
	default:
		return false
	}
}
