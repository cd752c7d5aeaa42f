// internal/domain/count/service.go
package count

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/catalog"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a count session is not visible to the branch
var ErrNotFound = errors.New("count not found")

// Service handles inventory count sessions
type Service struct {
	db     *gorm.DB
	config *config.Config
	stock  *stock.Service
}

// NewService creates a new count service
func NewService(db *gorm.DB, cfg *config.Config, stockService *stock.Service) *Service {
	return &Service{
		db:     db,
		config: cfg,
		stock:  stockService,
	}
}

// CreateCountRequest represents count session creation data. Partial counts
// name the items to count, full counts take the whole branch sheet.
type CreateCountRequest struct {
	CountType Type   `json:"count_type"`
	ItemIDs   []uint `json:"item_ids"`
	Notes     string `json:"notes"`
}

// RecordLinesRequest carries counted quantities for sheet lines
type RecordLinesRequest struct {
	Lines []RecordLineInput `json:"lines" binding:"required,min=1"`
}

// RecordLineInput is one counted line
type RecordLineInput struct {
	LineID          uint            `json:"line_id" binding:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
}

// GetCounts lists the count sessions of a branch
func (s *Service) GetCounts(businessID, branchID uint, status Status) ([]InventoryCount, error) {
	query := s.db.Where("business_id = ? AND branch_id = ?", businessID, branchID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var counts []InventoryCount
	if err := query.Order("created_at DESC").Find(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve counts: %w", err)
	}
	return counts, nil
}

// GetCount retrieves a count session with its sheet
func (s *Service) GetCount(businessID, branchID, countID uint) (*InventoryCount, error) {
	var c InventoryCount
	err := s.db.Preload("Lines").
		Where("business_id = ? AND branch_id = ? AND id = ?", businessID, branchID, countID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve count: %w", err)
	}
	return &c, nil
}

// CreateCount opens a draft session and generates its sheet, snapshotting
// expected quantities from current branch stock.
func (s *Service) CreateCount(businessID, branchID, userID uint, req *CreateCountRequest) (*InventoryCount, error) {
	countType := req.CountType
	if countType == "" {
		countType = TypeFull
	}
	if countType != TypeFull && countType != TypePartial {
		return nil, fmt.Errorf("invalid count_type: %s", countType)
	}
	if countType == TypePartial && len(req.ItemIDs) == 0 {
		return nil, fmt.Errorf("partial counts require item_ids")
	}

	lines, err := s.generateSheet(businessID, branchID, countType, req.ItemIDs)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no items to count in this branch")
	}

	c := &InventoryCount{
		BusinessID: businessID,
		BranchID:   branchID,
		CountType:  countType,
		CountDate:  time.Now(),
		Status:     StatusDraft,
		Notes:      req.Notes,
		CreatedBy:  userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		c.CountNumber, err = s.generateCountNumber(tx)
		if err != nil {
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("failed to create count: %w", err)
		}
		for i := range lines {
			lines[i].CountID = c.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return fmt.Errorf("failed to create count line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCount(businessID, branchID, c.ID)
}

// StartCount moves a draft session into counting
func (s *Service) StartCount(businessID, branchID, countID uint) (*InventoryCount, error) {
	c, err := s.GetCount(businessID, branchID, countID)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusDraft {
		return nil, fmt.Errorf("count in status '%s' cannot be started", c.Status)
	}
	if err := s.db.Model(c).Update("status", StatusInProgress).Error; err != nil {
		return nil, fmt.Errorf("failed to start count: %w", err)
	}
	return s.GetCount(businessID, branchID, countID)
}

// RecordLines stores counted quantities on an in-progress sheet
func (s *Service) RecordLines(businessID, branchID, countID uint, req *RecordLinesRequest) (*InventoryCount, error) {
	c, err := s.GetCount(businessID, branchID, countID)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusInProgress {
		return nil, fmt.Errorf("count in status '%s' cannot record lines", c.Status)
	}

	byID := map[uint]*CountLine{}
	for i := range c.Lines {
		byID[c.Lines[i].ID] = &c.Lines[i]
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, in := range req.Lines {
			line, ok := byID[in.LineID]
			if !ok {
				return fmt.Errorf("count line %d not found", in.LineID)
			}
			if in.CountedQuantity.IsNegative() {
				return fmt.Errorf("counted_quantity cannot be negative")
			}
			counted := in.CountedQuantity
			updates := map[string]interface{}{
				"counted_quantity": counted,
				"variance":         counted.Sub(line.ExpectedQuantity),
			}
			if err := tx.Model(line).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to record line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCount(businessID, branchID, countID)
}

// CompleteCount closes the session. Every line must be counted; each line
// whose counted quantity differs from live stock posts a count adjustment
// that lands the stock exactly on the counted figure.
func (s *Service) CompleteCount(businessID, branchID, userID, countID uint) (*InventoryCount, error) {
	c, err := s.GetCount(businessID, branchID, countID)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusInProgress {
		return nil, fmt.Errorf("count in status '%s' cannot be completed", c.Status)
	}
	for _, line := range c.Lines {
		if !line.Counted() {
			return nil, fmt.Errorf("line for item '%s' has not been counted", line.ItemName)
		}
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range c.Lines {
			counted := *line.CountedQuantity

			live, err := s.stock.GetItemQuantity(businessID, branchID, line.ItemID)
			if err != nil {
				return err
			}
			diff := counted.Sub(live)
			if diff.IsZero() {
				continue
			}

			_, err = s.stock.ApplyMovement(tx, &stock.MovementInput{
				BusinessID:    businessID,
				BranchID:      branchID,
				ItemID:        line.ItemID,
				Type:          stock.TypeCountAdjustment,
				Quantity:      diff.Abs(),
				CountAddition: diff.IsPositive(),
				ReferenceType: "inventory_count",
				ReferenceID:   c.ID,
				Notes:         c.CountNumber,
				CreatedBy:     userID,
			})
			if err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"status":       StatusCompleted,
			"completed_by": userID,
			"completed_at": now,
		}
		if err := tx.Model(c).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to complete count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stock.InvalidateStats(businessID, branchID)
	return s.GetCount(businessID, branchID, countID)
}

// CancelCount abandons a draft or in-progress session
func (s *Service) CancelCount(businessID, branchID, countID uint) (*InventoryCount, error) {
	c, err := s.GetCount(businessID, branchID, countID)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusDraft && c.Status != StatusInProgress {
		return nil, fmt.Errorf("count in status '%s' cannot be cancelled", c.Status)
	}
	if err := s.db.Model(c).Update("status", StatusCancelled).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel count: %w", err)
	}
	return s.GetCount(businessID, branchID, countID)
}

// generateSheet builds count lines from branch stock. Partial sheets cover
// the requested items only, with zero expected when never stocked.
func (s *Service) generateSheet(businessID, branchID uint, countType Type, itemIDs []uint) ([]CountLine, error) {
	if countType == TypeFull {
		rows, err := s.stock.GetStock(businessID, branchID, "", false)
		if err != nil {
			return nil, err
		}
		lines := make([]CountLine, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, CountLine{
				ItemID:           row.ItemID,
				ItemName:         row.ItemName,
				ItemUnit:         row.ItemUnit,
				ExpectedQuantity: row.Quantity,
			})
		}
		return lines, nil
	}

	seen := map[uint]bool{}
	lines := make([]CountLine, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		if seen[itemID] {
			continue
		}
		seen[itemID] = true

		var item catalog.Item
		if err := s.db.Where("business_id = ? AND id = ?", businessID, itemID).First(&item).Error; err != nil {
			return nil, fmt.Errorf("item %d not found", itemID)
		}
		expected, err := s.stock.GetItemQuantity(businessID, branchID, itemID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, CountLine{
			ItemID:           itemID,
			ItemName:         item.Name,
			ItemUnit:         item.Unit,
			ExpectedQuantity: expected,
		})
	}
	return lines, nil
}

// generateCountNumber creates a unique number like CNT-20260115-00001
func (s *Service) generateCountNumber(tx *gorm.DB) (string, error) {
	today := time.Now().Format("20060102")

	var count int64
	err := tx.Model(&InventoryCount{}).Unscoped().
		Where("count_number LIKE ?", fmt.Sprintf("CNT-%s-%%", today)).
		Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("failed to generate count number: %w", err)
	}

	return fmt.Sprintf("CNT-%s-%05d", today, count+1), nil
}
