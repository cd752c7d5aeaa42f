// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemType represents the kind of catalog item
type ItemType string

const (
	ItemTypeRaw      ItemType = "raw"
	ItemTypeFinished ItemType = "finished"
)

// ItemStatus represents the status of a catalog item
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

// ProductionStatus represents the status of a production run
type ProductionStatus string

const (
	ProductionStatusCompleted ProductionStatus = "completed"
)

// Category groups catalog items
type Category struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	BusinessID uint           `gorm:"not null;index" json:"business_id"`
	Name       string         `gorm:"not null;size:255" json:"name"`
	NameAr     string         `gorm:"size:255" json:"name_ar"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Item represents a catalog item. Raw items and composite (recipe) items
// share this table; composite items additionally carry components and a
// per-batch yield.
type Item struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	BusinessID    uint             `gorm:"not null;index" json:"business_id"`
	CategoryID    *uint            `gorm:"index" json:"category_id"`
	Name          string           `gorm:"not null;size:255" json:"name"`
	NameAr        string           `gorm:"size:255" json:"name_ar"`
	ItemType      ItemType         `gorm:"not null;default:'raw'" json:"item_type"`
	Unit          string           `gorm:"not null;size:20" json:"unit"`
	StorageUnit   string           `gorm:"size:20" json:"storage_unit"`
	SKU           string           `gorm:"size:100;index:idx_items_business_sku,unique" json:"sku"`
	CostPerUnit   decimal.Decimal  `gorm:"type:decimal(20,8);default:0" json:"cost_per_unit"`
	DefaultPrice  decimal.Decimal  `gorm:"type:decimal(20,8);default:0" json:"default_price"`
	BusinessPrice *decimal.Decimal `gorm:"type:decimal(20,8)" json:"business_price"`
	IsComposite   bool             `gorm:"default:false;index" json:"is_composite"`
	BatchQuantity decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"batch_quantity"`
	BatchUnit     string           `gorm:"size:20" json:"batch_unit"`
	Status        ItemStatus       `gorm:"not null;default:'active'" json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`

	// Computed on read, never stored
	EffectivePrice decimal.Decimal `gorm:"-" json:"effective_price"`

	// Relationships
	Category   *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Components []ItemComponent `gorm:"foreignKey:CompositeItemID" json:"components,omitempty"`
}

// ItemComponent is one ingredient line of a composite item's recipe,
// consumed per production batch.
type ItemComponent struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CompositeItemID uint            `gorm:"not null;index" json:"composite_item_id"`
	ComponentItemID uint            `gorm:"not null;index" json:"component_item_id"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	ComponentItem *Item `gorm:"foreignKey:ComponentItemID" json:"component_item,omitempty"`
}

// Production represents one production run of a composite item
type Production struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	BusinessID      uint             `gorm:"not null;index" json:"business_id"`
	BranchID        uint             `gorm:"not null;index" json:"branch_id"`
	CompositeItemID uint             `gorm:"not null;index" json:"composite_item_id"`
	BatchCount      int              `gorm:"not null" json:"batch_count"`
	TotalYield      decimal.Decimal  `gorm:"type:decimal(20,4);not null" json:"total_yield"`
	YieldUnit       string           `gorm:"size:20" json:"yield_unit"`
	ProductionDate  time.Time        `gorm:"not null;index" json:"production_date"`
	Status          ProductionStatus `gorm:"not null;default:'completed'" json:"status"`
	Notes           string           `gorm:"type:text" json:"notes"`
	CreatedBy       uint             `gorm:"index" json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Relationships
	CompositeItem *Item `gorm:"foreignKey:CompositeItemID" json:"composite_item,omitempty"`
}

// TableName overrides
func (Category) TableName() string      { return "categories" }
func (Item) TableName() string          { return "items" }
func (ItemComponent) TableName() string { return "item_components" }
func (Production) TableName() string    { return "productions" }

// AfterFind computes the effective price: the business-specific override
// when present, otherwise the default price.
func (i *Item) AfterFind(tx *gorm.DB) error {
	i.EffectivePrice = i.ComputeEffectivePrice()
	return nil
}

// ComputeEffectivePrice resolves the price override chain
func (i *Item) ComputeEffectivePrice() decimal.Decimal {
	if i.BusinessPrice != nil {
		return *i.BusinessPrice
	}
	return i.DefaultPrice
}

// YieldFor returns the total yield produced by the given number of batches
func (i *Item) YieldFor(batchCount int) decimal.Decimal {
	return i.BatchQuantity.Mul(decimal.NewFromInt(int64(batchCount)))
}

// IsActive reports whether the item is usable on new documents
func (i *Item) IsActive() bool {
	return i.Status == ItemStatusActive
}
