package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChartOfAccountType groups accounts (asset, expense, ...).
type ChartOfAccountType struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name    string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Alias   string    `gorm:"type:varchar(255)" json:"alias,omitempty"`
	IsDebit bool      `gorm:"not null;default:false" json:"isDebit"`
}

// TableName returns the table name for ChartOfAccountType
func (ChartOfAccountType) TableName() string {
	return "chart_of_account_types"
}

// ChartOfAccount is a ledger account.
type ChartOfAccount struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_chart_of_accounts_name" json:"tenantId"`
	TypeID   uuid.UUID `gorm:"type:uuid;not null" json:"typeId"`
	Position string    `gorm:"type:varchar(10);not null" json:"position"` // DEBIT or CREDIT
	Name     string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_chart_of_accounts_name" json:"name"`
	Alias    string    `gorm:"type:varchar(255)" json:"alias,omitempty"`

	Type *ChartOfAccountType `gorm:"foreignKey:TypeID" json:"type,omitempty"`
}

// TableName returns the table name for ChartOfAccount
func (ChartOfAccount) TableName() string {
	return "chart_of_accounts"
}

// SettingJournal maps a transaction feature and journal line name to the
// ledger account postings must hit. A missing mapping is a configuration
// error: postings fail loudly instead of being skipped.
type SettingJournal struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID         string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_setting_journals_feature_name" json:"tenantId"`
	Feature          string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_setting_journals_feature_name" json:"feature"`
	Name             string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_setting_journals_feature_name" json:"name"`
	Description      string    `gorm:"type:text" json:"description,omitempty"`
	ChartOfAccountID uuid.UUID `gorm:"type:uuid;not null" json:"chartOfAccountId"`

	ChartOfAccount *ChartOfAccount `gorm:"foreignKey:ChartOfAccountID" json:"chartOfAccount,omitempty"`
}

// TableName returns the table name for SettingJournal
func (SettingJournal) TableName() string {
	return "setting_journals"
}

// JournalStatus constants
const (
	JournalStatusPosted = "POSTED"
	JournalStatusVoid   = "VOID"
)

// JournalEntry is a balanced posting bound to the form whose transition
// produced it.
type JournalEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID  string    `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	FormID    uuid.UUID `gorm:"type:uuid;not null;index" json:"formId"`
	Date      time.Time `gorm:"not null" json:"date"`
	Memo      string    `gorm:"type:text" json:"memo,omitempty"`
	Status    string    `gorm:"type:varchar(20);not null;default:'POSTED'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Lines []JournalLine `gorm:"foreignKey:JournalEntryID" json:"lines,omitempty"`
}

// TableName returns the table name for JournalEntry
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// JournalLine stores the debit or credit amount for one account.
type JournalLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	JournalEntryID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"journalEntryId"`
	ChartOfAccountID uuid.UUID       `gorm:"type:uuid;not null" json:"chartOfAccountId"`
	Debit            decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"debit"`
	Credit           decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"credit"`
}

// TableName returns the table name for JournalLine
func (JournalLine) TableName() string {
	return "journal_lines"
}

// InventoryMovement is an append-only quantity ledger row tied to the form
// whose transition applied it.
type InventoryMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    string          `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index" json:"warehouseId"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"itemId"`
	FormID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"formId"`
	QtyDelta    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qtyDelta"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for InventoryMovement
func (InventoryMovement) TableName() string {
	return "inventory_movements"
}
