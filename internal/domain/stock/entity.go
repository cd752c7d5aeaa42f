// internal/domain/stock/entity.go
package stock

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType classifies a ledger row
type TransactionType string

const (
	TypeManualAddition    TransactionType = "manual_addition"
	TypeManualDeduction   TransactionType = "manual_deduction"
	TypePOReceive         TransactionType = "po_receive"
	TypeOrderSale         TransactionType = "order_sale"
	TypeOrderCancelWaste  TransactionType = "order_cancel_waste"
	TypeOrderCancelReturn TransactionType = "order_cancel_return"
	TypeTransferIn        TransactionType = "transfer_in"
	TypeTransferOut       TransactionType = "transfer_out"
	TypeProductionConsume TransactionType = "production_consume"
	TypeProductionYield   TransactionType = "production_yield"
	TypeCountAdjustment   TransactionType = "inventory_count_adjustment"
)

// DeductionReason qualifies manual deductions
type DeductionReason string

const (
	ReasonExpired DeductionReason = "expired"
	ReasonDamaged DeductionReason = "damaged"
	ReasonSpoiled DeductionReason = "spoiled"
	ReasonOthers  DeductionReason = "others"
)

// Level classifies a stock row against its thresholds
type Level string

const (
	LevelOut         Level = "out"
	LevelLow         Level = "low"
	LevelHealthy     Level = "healthy"
	LevelOverstocked Level = "overstocked"
)

// InventoryStock holds the per-branch quantity of an item
type InventoryStock struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	BusinessID  uint            `gorm:"not null;index" json:"business_id"`
	BranchID    uint            `gorm:"not null;index:idx_stock_branch_item,unique" json:"branch_id"`
	ItemID      uint            `gorm:"not null;index:idx_stock_branch_item,unique" json:"item_id"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	MinQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"min_quantity"`
	MaxQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"max_quantity"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Computed on read, never stored
	Level Level `gorm:"-" json:"level"`
}

// InventoryTransaction is an immutable ledger row; rows are only ever
// appended, never updated or deleted.
type InventoryTransaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	BusinessID      uint            `gorm:"not null;index" json:"business_id"`
	BranchID        uint            `gorm:"not null;index" json:"branch_id"`
	ItemID          uint            `gorm:"not null;index" json:"item_id"`
	TransactionType TransactionType `gorm:"not null;index" json:"transaction_type"`
	DeductionReason DeductionReason `gorm:"size:20" json:"deduction_reason,omitempty"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	QuantityBefore  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity_before"`
	QuantityAfter   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity_after"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(20,8);default:0" json:"unit_cost"`
	ReferenceType   string          `gorm:"size:50" json:"reference_type"`
	ReferenceID     uint            `json:"reference_id"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedBy       uint            `gorm:"index" json:"created_by"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

// TableName overrides
func (InventoryStock) TableName() string       { return "inventory_stocks" }
func (InventoryTransaction) TableName() string { return "inventory_transactions" }

// IsAddition reports whether the transaction type increases stock
func (t TransactionType) IsAddition() bool {
	switch t {
	case TypeManualAddition, TypePOReceive, TypeOrderCancelReturn, TypeTransferIn, TypeProductionYield:
		return true
	}
	return false
}

// IsDeduction reports whether the transaction type decreases stock
func (t TransactionType) IsDeduction() bool {
	switch t {
	case TypeManualDeduction, TypeOrderSale, TypeOrderCancelWaste, TypeTransferOut, TypeProductionConsume:
		return true
	}
	return false
}

// Valid reports whether the transaction type is part of the vocabulary
func (t TransactionType) Valid() bool {
	return t.IsAddition() || t.IsDeduction() || t == TypeCountAdjustment
}

// ValidDeductionReason reports whether the reason is part of the vocabulary
func ValidDeductionReason(r DeductionReason) bool {
	switch r {
	case ReasonExpired, ReasonDamaged, ReasonSpoiled, ReasonOthers:
		return true
	}
	return false
}

// AfterFind computes the level classification
func (s *InventoryStock) AfterFind(tx *gorm.DB) error {
	s.Level = s.Classify()
	return nil
}

// Classify buckets the stock row by its thresholds: out when nothing is
// left, low at or under the minimum, overstocked at or over a set maximum.
func (s *InventoryStock) Classify() Level {
	if s.Quantity.LessThanOrEqual(decimal.Zero) {
		return LevelOut
	}
	if s.MinQuantity.GreaterThan(decimal.Zero) && s.Quantity.LessThanOrEqual(s.MinQuantity) {
		return LevelLow
	}
	if s.MaxQuantity.GreaterThan(decimal.Zero) && s.Quantity.GreaterThanOrEqual(s.MaxQuantity) {
		return LevelOverstocked
	}
	return LevelHealthy
}
