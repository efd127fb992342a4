package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCancellationStatusHelpers(t *testing.T) {
	form := &Form{CancellationStatus: CancellationStatusUnset}
	assert.False(t, form.CancellationRequested())
	assert.False(t, form.CancellationPending())

	form.CancellationStatus = CancellationStatusPending
	assert.True(t, form.CancellationRequested())
	assert.True(t, form.CancellationPending())

	// A resolved request is no longer pending but has still been requested
	form.CancellationStatus = CancellationStatusRejected
	assert.True(t, form.CancellationRequested())
	assert.False(t, form.CancellationPending())

	form.CancellationStatus = CancellationStatusApproved
	assert.True(t, form.CancellationRequested())
	assert.False(t, form.CancellationPending())
}

func TestStatusWireCodes(t *testing.T) {
	// Numeric codes are consumed by API clients and must not shift
	assert.Equal(t, CancellationStatus(-1), CancellationStatusUnset)
	assert.Equal(t, CancellationStatus(0), CancellationStatusPending)
	assert.Equal(t, CancellationStatus(1), CancellationStatusApproved)
	assert.Equal(t, CancellationStatus(2), CancellationStatusRejected)

	assert.Equal(t, ApprovalStatus(0), ApprovalStatusPending)
	assert.Equal(t, ApprovalStatus(1), ApprovalStatusApproved)
	assert.Equal(t, ApprovalStatus(2), ApprovalStatusRejected)
}

func TestUserAsActor(t *testing.T) {
	user := &User{Name: "Admin"}
	user.Roles = []Role{{Name: "manager"}}
	assert.False(t, user.AsActor().IsSuperAdmin)

	user.Roles = append(user.Roles, Role{Name: RoleSuperAdmin})
	actor := user.AsActor()
	assert.True(t, actor.IsSuperAdmin)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, "Admin", actor.Name)
}
