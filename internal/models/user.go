package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleSuperAdmin satisfies any approver check irrespective of the form's routing fields.
const RoleSuperAdmin = "super admin"

// User represents a tenant user with zero or more roles.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID  string    `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// Role names a capability set; only its name matters to the transition engine.
type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	GuardName string    `gorm:"type:varchar(50);default:'api'" json:"guardName"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for Role
func (Role) TableName() string {
	return "roles"
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Actor is a user resolved for a single transition. The super-admin capability
// is computed once here so guards work on a plain boolean instead of joining
// role records ad hoc.
type Actor struct {
	ID           uuid.UUID
	Name         string
	IsSuperAdmin bool
}

// AsActor resolves the user's capability set into an Actor.
func (u *User) AsActor() Actor {
	return Actor{
		ID:           u.ID,
		Name:         u.Name,
		IsSuperAdmin: u.HasRole(RoleSuperAdmin),
	}
}
