// internal/domain/purchase/entity.go
package purchase

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sylo-hq/sylo-backend/internal/domain/vendor"
	"gorm.io/gorm"
)

// Status represents purchase order status
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusOrdered   Status = "ordered"
	StatusPartial   Status = "partial"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// statusTransitions defines valid status changes
var statusTransitions = map[Status][]Status{
	StatusDraft:     {StatusPending, StatusCancelled},
	StatusPending:   {StatusApproved, StatusCancelled},
	StatusApproved:  {StatusOrdered, StatusCancelled},
	StatusOrdered:   {StatusPartial, StatusReceived, StatusCancelled},
	StatusPartial:   {StatusReceived},
	StatusReceived:  {},
	StatusCancelled: {},
}

// NormalizeStatus maps the legacy "delivered" spelling onto the canonical
// terminal status.
func NormalizeStatus(s Status) Status {
	if s == "delivered" {
		return StatusReceived
	}
	return s
}

// CanTransitionTo checks if a status change is allowed
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Receivable reports whether goods may be received against the order
func (s Status) Receivable() bool {
	return s == StatusApproved || s == StatusOrdered || s == StatusPartial
}

// Editable reports whether order details may still change
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusPending
}

// VarianceReason explains a short-received line
type VarianceReason string

const (
	VarianceMissing  VarianceReason = "missing"
	VarianceCanceled VarianceReason = "canceled"
	VarianceRejected VarianceReason = "rejected"
)

// ValidVarianceReason checks a shortage reason
func ValidVarianceReason(r VarianceReason) bool {
	switch r {
	case VarianceMissing, VarianceCanceled, VarianceRejected:
		return true
	}
	return false
}

// PurchaseOrder represents a purchase order
type PurchaseOrder struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	BusinessID   uint            `gorm:"not null;index" json:"business_id"`
	BranchID     uint            `gorm:"not null;index" json:"branch_id"`
	OrderNumber  string          `gorm:"uniqueIndex;not null" json:"order_number"`
	VendorID     uint            `gorm:"not null;index" json:"vendor_id"`
	Vendor       *vendor.Vendor  `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	OrderDate    time.Time       `gorm:"not null" json:"order_date"`
	ExpectedDate *time.Time      `json:"expected_date"`
	Status       Status          `gorm:"not null;default:'draft';index" json:"status"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(20,8);default:0" json:"subtotal"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(20,8);default:0" json:"tax_amount"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,8);default:0" json:"total_amount"`
	Notes        string          `json:"notes"`
	CreatedBy    uint            `json:"created_by"`
	ReceivedAt   *time.Time      `json:"received_at"`
	ReceivedBy   *uint           `json:"received_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items,omitempty"`
}

// TableName overrides the table name
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItem represents a line on a purchase order. Costs stay zero
// until receiving, when the invoice fixes them.
type PurchaseOrderItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	PurchaseOrderID  uint            `gorm:"not null;index" json:"purchase_order_id"`
	ItemID           uint            `gorm:"not null;index" json:"item_id"`
	ItemName         string          `json:"item_name"`
	ItemUnit         string          `json:"item_unit"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(20,8);default:0" json:"unit_cost"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(20,8);default:0" json:"total_cost"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"received_quantity"`
	VarianceReason   VarianceReason  `json:"variance_reason,omitempty"`
	VarianceNote     string          `json:"variance_note,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// Activity is one append-only purchase order audit row
type Activity struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PurchaseOrderID uint      `gorm:"not null;index" json:"purchase_order_id"`
	Action          string    `gorm:"not null" json:"action"`
	OldStatus       Status    `json:"old_status,omitempty"`
	NewStatus       Status    `json:"new_status,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Changes         string    `gorm:"type:text" json:"changes,omitempty"`
	UserID          uint      `json:"user_id"`
	UserName        string    `gorm:"-" json:"user_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Activity) TableName() string {
	return "purchase_order_activities"
}

// Template is a saved purchase order shape for quick re-ordering
type Template struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	BusinessID uint           `gorm:"not null;index" json:"business_id"`
	Name       string         `gorm:"not null" json:"name"`
	NameAr     string         `gorm:"size:255" json:"name_ar"`
	VendorID   uint           `gorm:"not null" json:"vendor_id"`
	Vendor     *vendor.Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Notes      string         `json:"notes"`
	CreatedBy  uint           `json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Items []TemplateItem `gorm:"foreignKey:TemplateID" json:"items,omitempty"`
}

// TableName overrides the table name
func (Template) TableName() string {
	return "purchase_order_templates"
}

// TemplateItem is one line of a saved template
type TemplateItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	TemplateID uint            `gorm:"not null;index" json:"template_id"`
	ItemID     uint            `gorm:"not null" json:"item_id"`
	Quantity   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
}

// TableName overrides the table name
func (TemplateItem) TableName() string {
	return "purchase_order_template_items"
}
