// internal/domain/purchase/receive.go
package purchase

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sylo-hq/sylo-backend/internal/domain/catalog"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiveLineInput is the receiving data of one order line
type ReceiveLineInput struct {
	OrderItemID      uint            `json:"order_item_id" binding:"required"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	VarianceReason   VarianceReason  `json:"variance_reason"`
	VarianceNote     string          `json:"variance_note"`
}

// ReceiveRequest represents the receiving payload. Partial asks to leave the
// order open for a later receive instead of closing it.
type ReceiveRequest struct {
	Lines   []ReceiveLineInput `json:"lines" binding:"required,min=1"`
	Partial bool               `json:"partial"`
	Notes   string             `json:"notes"`
}

// ReceiveOrder posts goods receipt against an order. Costs are fixed here
// from the invoice: unit cost is derived from each line's invoiced total,
// item costs are updated to it, and stock is increased with po_receive
// ledger rows. The invoice image is mandatory.
func (s *Service) ReceiveOrder(businessID, branchID, userID, orderID uint, req *ReceiveRequest, invoice *multipart.FileHeader) (*PurchaseOrder, error) {
	if invoice == nil {
		return nil, fmt.Errorf("invoice image is required")
	}

	order, err := s.GetOrder(businessID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Receivable() {
		return nil, fmt.Errorf("purchase order in status '%s' cannot be received", order.Status)
	}
	if order.BranchID != branchID {
		return nil, fmt.Errorf("purchase order belongs to another branch")
	}

	byID := map[uint]*PurchaseOrderItem{}
	for i := range order.Items {
		byID[order.Items[i].ID] = &order.Items[i]
	}

	received, outstanding, err := validateReceiveLines(req, byID)
	if err != nil {
		return nil, err
	}
	hasGoods := false
	for _, rl := range received {
		if rl.ReceivedQuantity.GreaterThan(decimal.Zero) {
			hasGoods = true
			break
		}
	}
	if !hasGoods {
		return nil, fmt.Errorf("at least one line must have a received quantity")
	}
	if req.Partial && outstanding == 0 {
		return nil, fmt.Errorf("partial receiving requires at least one fully outstanding line")
	}

	target := StatusReceived
	if req.Partial {
		target = StatusPartial
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the order header for the whole receive so a concurrent receive
		// of the same order serializes here, then recheck the status the
		// winner may have moved.
		var current PurchaseOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", order.ID).First(&current).Error; err != nil {
			return fmt.Errorf("failed to lock purchase order: %w", err)
		}
		if !current.Status.Receivable() {
			return fmt.Errorf("purchase order in status '%s' cannot be received", current.Status)
		}

		// Reload lines under the lock; received quantities may have moved
		// since the pre-transaction snapshot.
		var freshLines []PurchaseOrderItem
		if err := tx.Where("purchase_order_id = ?", order.ID).Find(&freshLines).Error; err != nil {
			return fmt.Errorf("failed to reload order lines: %w", err)
		}
		byID = make(map[uint]*PurchaseOrderItem, len(freshLines))
		for i := range freshLines {
			byID[freshLines[i].ID] = &freshLines[i]
		}

		for _, rl := range received {
			line := byID[rl.OrderItemID]

			if rl.ReceivedQuantity.IsZero() {
				// Fully short line: record the variance, nothing to stock.
				varianceUpdates := map[string]interface{}{
					"variance_reason": rl.VarianceReason,
					"variance_note":   rl.VarianceNote,
				}
				if err := tx.Model(line).Updates(varianceUpdates).Error; err != nil {
					return fmt.Errorf("failed to update order line: %w", err)
				}
				continue
			}

			unitCost := rl.TotalCost.Div(rl.ReceivedQuantity)

			lineUpdates := map[string]interface{}{
				"received_quantity": line.ReceivedQuantity.Add(rl.ReceivedQuantity),
				"unit_cost":         unitCost,
				"total_cost":        line.TotalCost.Add(rl.TotalCost),
				"variance_reason":   rl.VarianceReason,
				"variance_note":     rl.VarianceNote,
			}
			if err := tx.Model(line).Updates(lineUpdates).Error; err != nil {
				return fmt.Errorf("failed to update order line: %w", err)
			}

			if err := tx.Model(&catalog.Item{}).
				Where("business_id = ? AND id = ?", businessID, line.ItemID).
				Update("cost_per_unit", unitCost).Error; err != nil {
				return fmt.Errorf("failed to update item cost: %w", err)
			}

			_, err := s.stock.ApplyMovement(tx, &stock.MovementInput{
				BusinessID:    businessID,
				BranchID:      branchID,
				ItemID:        line.ItemID,
				Type:          stock.TypePOReceive,
				Quantity:      rl.ReceivedQuantity,
				UnitCost:      unitCost,
				ReferenceType: "purchase_order",
				ReferenceID:   order.ID,
				Notes:         order.OrderNumber,
				CreatedBy:     userID,
			})
			if err != nil {
				return err
			}
		}

		subtotal := decimal.Zero
		var lines []PurchaseOrderItem
		if err := tx.Where("purchase_order_id = ?", order.ID).Find(&lines).Error; err != nil {
			return fmt.Errorf("failed to reload order lines: %w", err)
		}
		for _, line := range lines {
			subtotal = subtotal.Add(line.TotalCost)
		}

		orderUpdates := map[string]interface{}{
			"status":       target,
			"subtotal":     subtotal,
			"total_amount": subtotal.Add(order.TaxAmount),
		}
		if target == StatusReceived {
			orderUpdates["received_at"] = now
			orderUpdates["received_by"] = userID
		}
		if err := tx.Model(order).Updates(orderUpdates).Error; err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}

		if _, err := s.uploads.SaveInvoiceImage(tx, businessID, userID, invoice, "purchase_order", order.ID); err != nil {
			return err
		}

		action := "received"
		if target == StatusPartial {
			action = "partially_received"
		}
		return s.logActivity(tx, order.ID, userID, action, order.Status, target, req.Notes, nil)
	})
	if err != nil {
		return nil, err
	}

	s.stock.InvalidateStats(businessID, branchID)
	return s.GetOrder(businessID, orderID)
}

// validateReceiveLines checks quantities, costs, and variance fields. It
// returns the lines carrying goods and the count of fully outstanding lines.
func validateReceiveLines(req *ReceiveRequest, byID map[uint]*PurchaseOrderItem) ([]ReceiveLineInput, int, error) {
	seen := map[uint]bool{}
	var received []ReceiveLineInput
	outstanding := 0

	for _, rl := range req.Lines {
		line, ok := byID[rl.OrderItemID]
		if !ok {
			return nil, 0, fmt.Errorf("order line %d not found", rl.OrderItemID)
		}
		if seen[rl.OrderItemID] {
			return nil, 0, fmt.Errorf("duplicate order line %d", rl.OrderItemID)
		}
		seen[rl.OrderItemID] = true

		if rl.ReceivedQuantity.IsNegative() {
			return nil, 0, fmt.Errorf("received_quantity cannot be negative")
		}
		if rl.ReceivedQuantity.IsZero() {
			if !req.Partial {
				if !ValidVarianceReason(rl.VarianceReason) {
					return nil, 0, fmt.Errorf("line %d: variance_reason is required when receiving less than ordered", rl.OrderItemID)
				}
				received = append(received, rl)
				continue
			}
			outstanding++
			continue
		}

		if !rl.TotalCost.GreaterThan(decimal.Zero) {
			return nil, 0, fmt.Errorf("line %d: total_cost must be greater than zero", rl.OrderItemID)
		}

		remaining := line.Quantity.Sub(line.ReceivedQuantity)
		if rl.ReceivedQuantity.LessThan(remaining) && !ValidVarianceReason(rl.VarianceReason) && !req.Partial {
			return nil, 0, fmt.Errorf("line %d: variance_reason is required when receiving less than ordered", rl.OrderItemID)
		}
		if rl.ReceivedQuantity.GreaterThan(remaining) && rl.VarianceNote == "" {
			return nil, 0, fmt.Errorf("line %d: variance_note is required when receiving more than ordered", rl.OrderItemID)
		}

		received = append(received, rl)
	}

	// Order lines absent from the payload count as outstanding.
	for id, line := range byID {
		if !seen[id] && line.ReceivedQuantity.LessThan(line.Quantity) {
			outstanding++
		}
	}

	return received, outstanding, nil
}
