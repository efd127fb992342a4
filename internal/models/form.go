package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ApprovalStatus tracks the ordinary approval sub-flow of a form.
// Unset is an explicit variant so "never requested" and "rejected" stay distinguishable.
type ApprovalStatus int16

const (
	ApprovalStatusUnset    ApprovalStatus = -1
	ApprovalStatusPending  ApprovalStatus = 0
	ApprovalStatusApproved ApprovalStatus = 1
	ApprovalStatusRejected ApprovalStatus = 2
)

// CancellationStatus tracks the cancellation sub-flow of a form.
// The numeric codes (pending=0, approved=1, rejected=2) are part of the API surface.
type CancellationStatus int16

const (
	CancellationStatusUnset    CancellationStatus = -1
	CancellationStatusPending  CancellationStatus = 0
	CancellationStatusApproved CancellationStatus = 1
	CancellationStatusRejected CancellationStatus = 2
)

// FormableType constants enumerate the aggregate kinds a form can wrap.
const (
	FormableTypeStockCorrection = "StockCorrection"
	FormableTypeSalesInvoice    = "SalesInvoice"
)

// Form is the generic envelope carrying approval/cancellation routing and
// status for exactly one business transaction aggregate.
type Form struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID string     `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	BranchID *uuid.UUID `gorm:"type:uuid" json:"branchId,omitempty"`
	Number   string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"number"`
	Date     time.Time  `gorm:"not null" json:"date"`
	Notes    string     `gorm:"type:text" json:"notes,omitempty"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"createdBy"`
	UpdatedBy uuid.UUID `gorm:"type:uuid;not null" json:"updatedBy"`

	// Approval routing
	RequestApprovalTo uuid.UUID      `gorm:"type:uuid;not null;index" json:"requestApprovalTo"`
	ApprovalStatus    ApprovalStatus `gorm:"type:smallint;not null;default:0" json:"approvalStatus"`
	ApprovalBy        *uuid.UUID     `gorm:"type:uuid" json:"approvalBy,omitempty"`
	ApprovalAt        *time.Time     `json:"approvalAt,omitempty"`
	ApprovalReason    string         `gorm:"type:text" json:"approvalReason,omitempty"`

	// Cancellation routing; RequestCancellationTo is set only once a deletion is requested
	RequestCancellationTo     *uuid.UUID         `gorm:"type:uuid;index" json:"requestCancellationTo,omitempty"`
	RequestCancellationReason string             `gorm:"type:text" json:"requestCancellationReason,omitempty"`
	CancellationStatus        CancellationStatus `gorm:"type:smallint;not null;default:-1" json:"cancellationStatus"`
	CancellationApprovalBy    *uuid.UUID         `gorm:"type:uuid" json:"cancellationApprovalBy,omitempty"`
	CancellationApprovalAt    *time.Time         `json:"cancellationApprovalAt,omitempty"`
	CancellationRejectReason  string             `gorm:"type:text" json:"cancellationRejectReason,omitempty"`

	// Done flips to true once the transaction has been referenced downstream,
	// which makes its cancellation permanently un-approvable.
	Done bool `gorm:"not null;default:false" json:"done"`

	// Polymorphic link to exactly one transaction aggregate
	FormableType string    `gorm:"type:varchar(50);not null;uniqueIndex:ux_forms_formable" json:"formableType"`
	FormableID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_forms_formable" json:"formableId"`

	Version int `gorm:"not null;default:1" json:"version"` // Optimistic locking

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	RequestApprovalToUser     *User `gorm:"foreignKey:RequestApprovalTo" json:"requestApprovalToUser,omitempty"`
	RequestCancellationToUser *User `gorm:"foreignKey:RequestCancellationTo" json:"requestCancellationToUser,omitempty"`
	CreatedByUser             *User `gorm:"foreignKey:CreatedBy" json:"createdByUser,omitempty"`
}

// TableName returns the table name for Form
func (Form) TableName() string {
	return "forms"
}

// CancellationPending reports whether a cancellation request is awaiting resolution.
func (f *Form) CancellationPending() bool {
	return f.CancellationStatus == CancellationStatusPending
}

// CancellationRequested reports whether a cancellation has ever been requested.
func (f *Form) CancellationRequested() bool {
	return f.CancellationStatus != CancellationStatusUnset
}

// ApprovalPending reports whether the ordinary approval is awaiting resolution.
func (f *Form) ApprovalPending() bool {
	return f.ApprovalStatus == ApprovalStatusPending
}

// FormAuditLog records one transition on a form.
type FormAuditLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FormID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"formId"`
	TenantID  string         `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	EventType string         `gorm:"type:varchar(50);not null;index" json:"eventType"`
	ActorID   *uuid.UUID     `gorm:"type:uuid" json:"actorId,omitempty"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for FormAuditLog
func (FormAuditLog) TableName() string {
	return "form_audit_log"
}

// AuditEventType constants
const (
	AuditEventApproved              = "approved"
	AuditEventRejected              = "rejected"
	AuditEventCancellationRequested = "cancellation_requested"
	AuditEventCancellationApproved  = "cancellation_approved"
	AuditEventCancellationRejected  = "cancellation_rejected"
	AuditEventMarkedDone            = "marked_done"
)
