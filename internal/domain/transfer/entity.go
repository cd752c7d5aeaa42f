// internal/domain/transfer/entity.go
package transfer

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status represents transfer status
type Status string

const (
	StatusPending   Status = "pending"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// InventoryTransfer moves stock between branches. Stock leaves the source at
// creation so in-transit quantity cannot be spent twice.
type InventoryTransfer struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	TransferNumber string         `gorm:"uniqueIndex;not null" json:"transfer_number"`
	FromBusinessID uint           `gorm:"not null;index" json:"from_business_id"`
	FromBranchID   uint           `gorm:"not null;index" json:"from_branch_id"`
	ToBusinessID   uint           `gorm:"not null;index" json:"to_business_id"`
	ToBranchID     uint           `gorm:"not null;index" json:"to_branch_id"`
	TransferDate   time.Time      `gorm:"not null" json:"transfer_date"`
	Status         Status         `gorm:"not null;default:'pending';index" json:"status"`
	Notes          string         `json:"notes"`
	CreatedBy      uint           `json:"created_by"`
	ReceivedBy     *uint          `json:"received_by"`
	ReceivedAt     *time.Time     `json:"received_at"`
	CancelledBy    *uint          `json:"cancelled_by"`
	CancelledAt    *time.Time     `json:"cancelled_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Items []TransferItem `gorm:"foreignKey:TransferID" json:"items,omitempty"`
}

// TableName overrides the table name
func (InventoryTransfer) TableName() string {
	return "inventory_transfers"
}

// TransferItem is one line of a transfer
type TransferItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	TransferID uint            `gorm:"not null;index" json:"transfer_id"`
	ItemID     uint            `gorm:"not null" json:"item_id"`
	ItemName   string          `json:"item_name"`
	ItemUnit   string          `json:"item_unit"`
	Quantity   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName overrides the table name
func (TransferItem) TableName() string {
	return "inventory_transfer_items"
}
