package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesInvoice bills a customer for delivered goods. It owns exactly one Form
// and may have been created in reference to another form-able document.
type SalesInvoice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID   string          `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index" json:"customerId"`
	DueDate    time.Time       `gorm:"not null" json:"dueDate"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"amount"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`

	// Back-link to the document this invoice was created in reference to
	ReferenceableType string     `gorm:"type:varchar(50)" json:"referenceableType,omitempty"`
	ReferenceableID   *uuid.UUID `gorm:"type:uuid" json:"referenceableId,omitempty"`

	Customer *Customer          `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SalesInvoiceItem `gorm:"foreignKey:SalesInvoiceID" json:"items,omitempty"`
	Form     *Form              `gorm:"polymorphic:Formable" json:"form,omitempty"`

	// Referenceable is resolved at read time and never persisted.
	Referenceable *Referenceable `gorm:"-" json:"referenceable,omitempty"`
}

// TableName returns the table name for SalesInvoice
func (SalesInvoice) TableName() string {
	return "sales_invoices"
}

// SalesInvoiceItem is a billed line with an optional reporting allocation.
type SalesInvoiceItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SalesInvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"salesInvoiceId"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"itemId"`
	Quantity       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Price          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	AllocationID   *uuid.UUID      `gorm:"type:uuid" json:"allocationId,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"createdAt"`

	Item       *Item       `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Allocation *Allocation `gorm:"foreignKey:AllocationID" json:"allocation,omitempty"`
}

// TableName returns the table name for SalesInvoiceItem
func (SalesInvoiceItem) TableName() string {
	return "sales_invoice_items"
}

// Referenceable is the resolved view of a generic back-link: the form of the
// document another document was created in reference to.
type Referenceable struct {
	FormableType string    `json:"formableType"`
	FormableID   uuid.UUID `json:"formableId"`
	Form         *Form     `json:"form,omitempty"`
}
