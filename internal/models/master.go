package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Branch is a tenant branch office.
type Branch struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID  string    `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for Branch
func (Branch) TableName() string {
	return "branches"
}

// Warehouse stores inventory for a branch.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID  string    `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index" json:"branchId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Branch *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

// TableName returns the table name for Warehouse
func (Warehouse) TableName() string {
	return "warehouses"
}

// Item is a stock-keeping unit. Its chart of account receives the inventory
// side of journal postings triggered by quantity corrections.
type Item struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID         string          `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	Name             string          `gorm:"type:varchar(255);not null" json:"name"`
	ChartOfAccountID *uuid.UUID      `gorm:"type:uuid" json:"chartOfAccountId,omitempty"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"unitCost"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`

	ChartOfAccount *ChartOfAccount `gorm:"foreignKey:ChartOfAccountID" json:"chartOfAccount,omitempty"`
}

// TableName returns the table name for Item
func (Item) TableName() string {
	return "items"
}

// Customer is the related party on sales documents.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID  string    `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// Allocation tags an invoice line with a reporting dimension.
type Allocation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID  string    `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for Allocation
func (Allocation) TableName() string {
	return "allocations"
}
