// internal/domain/purchase/service.go
package purchase

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/catalog"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"github.com/sylo-hq/sylo-backend/internal/domain/upload"
	"github.com/sylo-hq/sylo-backend/internal/domain/vendor"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a purchase order does not exist in the business
var ErrNotFound = errors.New("purchase order not found")

// Service handles purchase order business logic
type Service struct {
	db      *gorm.DB
	config  *config.Config
	stock   *stock.Service
	uploads *upload.Service
}

// NewService creates a new purchase order service
func NewService(db *gorm.DB, cfg *config.Config, stockService *stock.Service, uploadService *upload.Service) *Service {
	return &Service{
		db:      db,
		config:  cfg,
		stock:   stockService,
		uploads: uploadService,
	}
}

// OrderLineInput is one requested line; price is fixed at receiving, not here
type OrderLineInput struct {
	ItemID   uint            `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateOrderRequest represents purchase order creation data
type CreateOrderRequest struct {
	VendorID     uint             `json:"vendor_id" binding:"required"`
	ExpectedDate *time.Time       `json:"expected_date"`
	Notes        string           `json:"notes"`
	Items        []OrderLineInput `json:"items" binding:"required,min=1"`
}

// UpdateOrderRequest represents purchase order update data
type UpdateOrderRequest struct {
	VendorID     *uint            `json:"vendor_id"`
	ExpectedDate *time.Time       `json:"expected_date"`
	Notes        *string          `json:"notes"`
	TaxAmount    *decimal.Decimal `json:"tax_amount"`
	Items        []OrderLineInput `json:"items"`
}

// StatusRequest represents a status change
type StatusRequest struct {
	Status Status `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ListRequest represents purchase order list query parameters
type ListRequest struct {
	Status   Status `form:"status"`
	VendorID uint   `form:"vendor_id"`
}

// GetOrders lists the purchase orders of a branch
func (s *Service) GetOrders(businessID, branchID uint, req *ListRequest) ([]PurchaseOrder, error) {
	query := s.db.Preload("Vendor").Preload("Items").
		Where("business_id = ? AND branch_id = ?", businessID, branchID)

	if req.Status != "" {
		query = query.Where("status = ?", NormalizeStatus(req.Status))
	}
	if req.VendorID > 0 {
		query = query.Where("vendor_id = ?", req.VendorID)
	}

	var orders []PurchaseOrder
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve purchase orders: %w", err)
	}
	return orders, nil
}

// GetOrder retrieves a single purchase order with its lines
func (s *Service) GetOrder(businessID, orderID uint) (*PurchaseOrder, error) {
	var order PurchaseOrder
	err := s.db.Preload("Vendor").Preload("Items").
		Where("business_id = ? AND id = ?", businessID, orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve purchase order: %w", err)
	}
	return &order, nil
}

// CreateOrder creates a draft purchase order with quantity-only lines
func (s *Service) CreateOrder(businessID, branchID, userID uint, req *CreateOrderRequest) (*PurchaseOrder, error) {
	var v vendor.Vendor
	err := s.db.Where("business_id = ? AND id = ?", businessID, req.VendorID).
		Where("branch_id IS NULL OR branch_id = ?", branchID).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vendor not found")
		}
		return nil, fmt.Errorf("failed to load vendor: %w", err)
	}
	if !v.IsActive() {
		return nil, fmt.Errorf("vendor is not active")
	}

	lines, err := s.buildLines(businessID, req.Items)
	if err != nil {
		return nil, err
	}

	order := &PurchaseOrder{
		BusinessID:   businessID,
		BranchID:     branchID,
		VendorID:     req.VendorID,
		OrderDate:    time.Now(),
		ExpectedDate: req.ExpectedDate,
		Status:       StatusDraft,
		Subtotal:     decimal.Zero,
		TaxAmount:    decimal.Zero,
		TotalAmount:  decimal.Zero,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		order.OrderNumber, err = s.generateOrderNumber(tx)
		if err != nil {
			return err
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}
		for i := range lines {
			lines[i].PurchaseOrderID = order.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return fmt.Errorf("failed to create order line: %w", err)
			}
		}
		return s.logActivity(tx, order.ID, userID, "created", "", StatusDraft, "", nil)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(businessID, order.ID)
}

// UpdateOrder edits an order's details. Only draft and pending orders are
// editable.
func (s *Service) UpdateOrder(businessID, orderID, userID uint, req *UpdateOrderRequest) (*PurchaseOrder, error) {
	order, err := s.GetOrder(businessID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Editable() {
		return nil, fmt.Errorf("purchase order in status '%s' cannot be edited", order.Status)
	}

	updates := map[string]interface{}{}
	changed := map[string]interface{}{}
	if req.VendorID != nil && *req.VendorID != order.VendorID {
		var v vendor.Vendor
		if err := s.db.Where("business_id = ? AND id = ?", businessID, *req.VendorID).First(&v).Error; err != nil {
			return nil, fmt.Errorf("vendor not found")
		}
		updates["vendor_id"] = *req.VendorID
		changed["vendor_id"] = *req.VendorID
	}
	if req.ExpectedDate != nil {
		updates["expected_date"] = *req.ExpectedDate
		changed["expected_date"] = req.ExpectedDate.Format("2006-01-02")
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
		changed["notes"] = *req.Notes
	}
	if req.TaxAmount != nil {
		if req.TaxAmount.IsNegative() {
			return nil, fmt.Errorf("tax_amount cannot be negative")
		}
		updates["tax_amount"] = *req.TaxAmount
		changed["tax_amount"] = req.TaxAmount.String()
	}

	var lines []PurchaseOrderItem
	if req.Items != nil {
		if len(req.Items) == 0 {
			return nil, fmt.Errorf("purchase orders require at least one line")
		}
		lines, err = s.buildLines(businessID, req.Items)
		if err != nil {
			return nil, err
		}
		changed["items"] = len(req.Items)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(order).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update purchase order: %w", err)
			}
		}
		if lines != nil {
			if err := tx.Where("purchase_order_id = ?", order.ID).Delete(&PurchaseOrderItem{}).Error; err != nil {
				return fmt.Errorf("failed to clear order lines: %w", err)
			}
			for i := range lines {
				lines[i].PurchaseOrderID = order.ID
				if err := tx.Create(&lines[i]).Error; err != nil {
					return fmt.Errorf("failed to create order line: %w", err)
				}
			}
		}
		if len(changed) == 0 {
			return nil
		}
		return s.logActivity(tx, order.ID, userID, "updated", "", "", "", changed)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(businessID, orderID)
}

// UpdateStatus moves an order through its lifecycle. The legacy "delivered"
// status is accepted and normalized to "received".
func (s *Service) UpdateStatus(businessID, orderID, userID uint, req *StatusRequest) (*PurchaseOrder, error) {
	order, err := s.GetOrder(businessID, orderID)
	if err != nil {
		return nil, err
	}

	target := NormalizeStatus(req.Status)
	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("cannot change status from '%s' to '%s'", order.Status, target)
	}
	if target == StatusReceived || target == StatusPartial {
		return nil, fmt.Errorf("status '%s' is set by receiving, not directly", target)
	}

	action := "status_changed"
	notes := req.Reason
	if target == StatusCancelled {
		action = "cancelled"
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Update("status", target).Error; err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		return s.logActivity(tx, order.ID, userID, action, order.Status, target, notes, nil)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(businessID, orderID)
}

// GetActivity returns the append-only audit trail of an order
func (s *Service) GetActivity(businessID, orderID uint) ([]Activity, error) {
	if _, err := s.GetOrder(businessID, orderID); err != nil {
		return nil, err
	}

	var activities []Activity
	err := s.db.Model(&Activity{}).
		Select("purchase_order_activities.*, COALESCE(business_users.full_name, '') AS user_name").
		Joins("LEFT JOIN business_users ON business_users.id = purchase_order_activities.user_id").
		Where("purchase_order_activities.purchase_order_id = ?", orderID).
		Order("purchase_order_activities.created_at DESC").
		Scan(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve activity: %w", err)
	}
	return activities, nil
}

// buildLines validates requested lines and snapshots item name/unit
func (s *Service) buildLines(businessID uint, inputs []OrderLineInput) ([]PurchaseOrderItem, error) {
	seen := map[uint]bool{}
	lines := make([]PurchaseOrderItem, 0, len(inputs))
	for _, in := range inputs {
		if seen[in.ItemID] {
			return nil, fmt.Errorf("duplicate item %d on order", in.ItemID)
		}
		seen[in.ItemID] = true
		if in.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("line quantities must be positive")
		}

		var item catalog.Item
		if err := s.db.Where("business_id = ? AND id = ?", businessID, in.ItemID).First(&item).Error; err != nil {
			return nil, fmt.Errorf("item %d not found", in.ItemID)
		}
		if !item.IsActive() {
			return nil, fmt.Errorf("item '%s' is not active", item.Name)
		}

		lines = append(lines, PurchaseOrderItem{
			ItemID:           in.ItemID,
			ItemName:         item.Name,
			ItemUnit:         item.Unit,
			Quantity:         in.Quantity,
			UnitCost:         decimal.Zero,
			TotalCost:        decimal.Zero,
			ReceivedQuantity: decimal.Zero,
		})
	}
	return lines, nil
}

// generateOrderNumber creates a unique order number like PO-20260115-00001
func (s *Service) generateOrderNumber(tx *gorm.DB) (string, error) {
	today := time.Now().Format("20060102")

	var count int64
	err := tx.Model(&PurchaseOrder{}).Unscoped().
		Where("order_number LIKE ?", fmt.Sprintf("PO-%s-%%", today)).
		Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}

	return fmt.Sprintf("PO-%s-%05d", today, count+1), nil
}

func (s *Service) logActivity(tx *gorm.DB, orderID, userID uint, action string, oldStatus, newStatus Status, notes string, changes map[string]interface{}) error {
	row := &Activity{
		PurchaseOrderID: orderID,
		Action:          action,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
		Notes:           notes,
		UserID:          userID,
	}
	if len(changes) > 0 {
		if encoded, err := json.Marshal(changes); err == nil {
			row.Changes = string(encoded)
		}
	}
	if err := tx.Create(row).Error; err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}
