package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockCorrection adjusts warehouse quantities for one or more items.
// It owns exactly one Form and is mutated only through approval/cancellation
// use-case handlers.
type StockCorrection struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    string    `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;index" json:"warehouseId"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Warehouse *Warehouse            `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Items     []StockCorrectionItem `gorm:"foreignKey:StockCorrectionID" json:"items,omitempty"`
	Form      *Form                 `gorm:"polymorphic:Formable" json:"form,omitempty"`
}

// TableName returns the table name for StockCorrection
func (StockCorrection) TableName() string {
	return "stock_corrections"
}

// StockCorrectionItem is a signed quantity delta for a single item.
type StockCorrectionItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StockCorrectionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"stockCorrectionId"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"itemId"`
	Quantity          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"unitCost"`
	Notes             string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"createdAt"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// TableName returns the table name for StockCorrectionItem
func (StockCorrectionItem) TableName() string {
	return "stock_correction_items"
}

// TotalValue sums quantity * unit cost over all lines.
func (sc *StockCorrection) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range sc.Items {
		total = total.Add(item.Quantity.Mul(item.UnitCost))
	}
	return total
}
