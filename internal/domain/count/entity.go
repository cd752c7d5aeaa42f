// internal/domain/count/entity.go
package count

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status represents count session status
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Type represents count scope
type Type string

const (
	TypeFull    Type = "full"
	TypePartial Type = "partial"
)

// InventoryCount is one counting session. The sheet snapshots expected
// quantities at generation time.
type InventoryCount struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BusinessID  uint           `gorm:"not null;index" json:"business_id"`
	BranchID    uint           `gorm:"not null;index" json:"branch_id"`
	CountNumber string         `gorm:"uniqueIndex;not null" json:"count_number"`
	CountType   Type           `gorm:"not null;default:'full'" json:"count_type"`
	CountDate   time.Time      `gorm:"not null" json:"count_date"`
	Status      Status         `gorm:"not null;default:'draft';index" json:"status"`
	Notes       string         `json:"notes"`
	CreatedBy   uint           `json:"created_by"`
	CompletedBy *uint          `json:"completed_by"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Lines []CountLine `gorm:"foreignKey:CountID" json:"lines,omitempty"`
}

// TableName overrides the table name
func (InventoryCount) TableName() string {
	return "inventory_counts"
}

// CountLine is one item on a count sheet
type CountLine struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	CountID          uint             `gorm:"not null;index" json:"count_id"`
	ItemID           uint             `gorm:"not null" json:"item_id"`
	ItemName         string           `json:"item_name"`
	ItemUnit         string           `json:"item_unit"`
	ExpectedQuantity decimal.Decimal  `gorm:"type:decimal(20,4);not null" json:"expected_quantity"`
	CountedQuantity  *decimal.Decimal `gorm:"type:decimal(20,4)" json:"counted_quantity"`
	Variance         decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"variance"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// TableName overrides the table name
func (CountLine) TableName() string {
	return "inventory_count_lines"
}

// Counted reports whether the line has been recorded
func (l *CountLine) Counted() bool {
	return l.CountedQuantity != nil
}
