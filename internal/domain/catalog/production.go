// internal/domain/catalog/production.go
package catalog

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"gorm.io/gorm"
)

// ProduceRequest represents a production run request
type ProduceRequest struct {
	BatchCount int `json:"batch_count" binding:"required,min=1"`
}

// ProductionRun is one production with item details for listings
type ProductionRun struct {
	ID             uint            `json:"id"`
	ItemID         uint            `json:"item_id"`
	ItemName       string          `json:"item_name"`
	ItemNameAr     string          `json:"item_name_ar"`
	BatchCount     int             `json:"batch_count"`
	TotalYield     decimal.Decimal `json:"total_yield"`
	YieldUnit      string          `json:"yield_unit"`
	ProductionDate time.Time       `json:"production_date"`
	CreatedByName  string          `json:"created_by_name"`
}

// ProductionStats aggregates production runs for a period
type ProductionStats struct {
	Period       string          `json:"period"`
	TotalRuns    int64           `json:"total_runs"`
	TotalBatches int64           `json:"total_batches"`
	TotalYield   decimal.Decimal `json:"total_yield"`
	Runs         []ProductionRun `json:"runs"`
}

// Produce executes a production run for a composite item. Component stock
// is consumed and the composite yield is added in a single transaction.
func (s *Service) Produce(businessID, branchID, userID, itemID uint, req *ProduceRequest) (*Production, error) {
	item, err := s.GetItem(businessID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsComposite {
		return nil, fmt.Errorf("item is not a composite item")
	}
	if !item.IsActive() {
		return nil, fmt.Errorf("item is not active")
	}
	if len(item.Components) == 0 {
		return nil, fmt.Errorf("composite item has no components")
	}
	if req.BatchCount < 1 {
		return nil, fmt.Errorf("batch_count must be at least 1")
	}

	batchCount := decimal.NewFromInt(int64(req.BatchCount))
	totalYield := item.YieldFor(req.BatchCount)

	// Check sufficiency up front so the caller gets every shortage at once
	// instead of failing on the first consumed component.
	var shortages []string
	for _, comp := range item.Components {
		required := comp.Quantity.Mul(batchCount)
		available, err := s.stock.GetItemQuantity(businessID, branchID, comp.ComponentItemID)
		if err != nil {
			return nil, err
		}
		if available.LessThan(required) {
			shortages = append(shortages, fmt.Sprintf("%s: need %s, have %s",
				comp.ComponentItem.Name, required.String(), available.String()))
		}
	}
	if len(shortages) > 0 {
		return nil, fmt.Errorf("%w: %v", stock.ErrInsufficientStock, shortages)
	}

	production := &Production{
		BusinessID:      businessID,
		BranchID:        branchID,
		CompositeItemID: itemID,
		BatchCount:      req.BatchCount,
		TotalYield:      totalYield,
		YieldUnit:       item.BatchUnit,
		ProductionDate:  time.Now(),
		Status:          ProductionStatusCompleted,
		CreatedBy:       userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(production).Error; err != nil {
			return fmt.Errorf("failed to record production: %w", err)
		}

		for _, comp := range item.Components {
			_, err := s.stock.ApplyMovement(tx, &stock.MovementInput{
				BusinessID:    businessID,
				BranchID:      branchID,
				ItemID:        comp.ComponentItemID,
				Type:          stock.TypeProductionConsume,
				Quantity:      comp.Quantity.Mul(batchCount),
				ReferenceType: "production",
				ReferenceID:   production.ID,
				CreatedBy:     userID,
			})
			if err != nil {
				return err
			}
		}

		_, err := s.stock.ApplyMovement(tx, &stock.MovementInput{
			BusinessID:    businessID,
			BranchID:      branchID,
			ItemID:        itemID,
			Type:          stock.TypeProductionYield,
			Quantity:      totalYield,
			ReferenceType: "production",
			ReferenceID:   production.ID,
			CreatedBy:     userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.stock.InvalidateStats(businessID, branchID)
	return production, nil
}

// GetProductionStats aggregates production runs for today or the current week
func (s *Service) GetProductionStats(businessID, branchID uint, period string) (*ProductionStats, error) {
	if period != "today" && period != "week" {
		period = "today"
	}

	now := time.Now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if period == "week" {
		since = since.AddDate(0, 0, -int(since.Weekday()))
	}

	var runs []ProductionRun
	err := s.db.Model(&Production{}).
		Select(`productions.id, productions.composite_item_id AS item_id,
			items.name AS item_name, items.name_ar AS item_name_ar,
			productions.batch_count, productions.total_yield,
			productions.yield_unit, productions.production_date,
			COALESCE(business_users.full_name, '') AS created_by_name`).
		Joins("JOIN items ON items.id = productions.composite_item_id").
		Joins("LEFT JOIN business_users ON business_users.id = productions.created_by").
		Where("productions.business_id = ? AND productions.branch_id = ?", businessID, branchID).
		Where("productions.production_date >= ?", since).
		Order("productions.production_date DESC").
		Scan(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve production runs: %w", err)
	}

	stats := &ProductionStats{
		Period:     period,
		TotalYield: decimal.Zero,
		Runs:       runs,
	}
	for _, run := range runs {
		stats.TotalRuns++
		stats.TotalBatches += int64(run.BatchCount)
		stats.TotalYield = stats.TotalYield.Add(run.TotalYield)
	}
	return stats, nil
}
