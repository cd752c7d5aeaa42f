// internal/domain/stock/service.go
package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned when a deduction would drive a stock row negative
var ErrInsufficientStock = errors.New("insufficient stock")

// Service handles stock levels and the transaction ledger
type Service struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client
}

// NewService creates a new stock service
func NewService(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *Service {
	return &Service{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
}

// MovementInput describes one stock mutation. Quantity is always positive;
// the direction comes from the transaction type (count adjustments carry an
// explicit direction since the type alone is ambiguous).
type MovementInput struct {
	BusinessID      uint
	BranchID        uint
	ItemID          uint
	Type            TransactionType
	DeductionReason DeductionReason
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	ReferenceType   string
	ReferenceID     uint
	Notes           string
	CreatedBy       uint
	CountAddition   bool // direction for TypeCountAdjustment only
}

// AdjustRequest represents a manual stock adjustment
type AdjustRequest struct {
	Type            TransactionType `json:"type" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	DeductionReason DeductionReason `json:"deduction_reason"`
	Notes           string          `json:"notes"`
}

// LimitsRequest represents a min/max threshold update
type LimitsRequest struct {
	MinQuantity decimal.Decimal `json:"min_quantity"`
	MaxQuantity decimal.Decimal `json:"max_quantity"`
}

// StockRow is a stock list row joined with its item
type StockRow struct {
	InventoryStock
	ItemName     string `json:"item_name"`
	ItemNameAr   string `json:"item_name_ar"`
	ItemSKU      string `json:"item_sku"`
	ItemUnit     string `json:"item_unit"`
	CategoryName string `json:"category_name"`
}

// Stats is the server-aggregated stock summary
type Stats struct {
	Total       int64 `json:"total"`
	Healthy     int64 `json:"healthy"`
	Low         int64 `json:"low"`
	Out         int64 `json:"out_of_stock"`
	Overstocked int64 `json:"overstocked"`
}

// ApplyMovement mutates one stock row and appends the matching ledger row,
// all inside the caller's transaction. The stock row is locked for the
// duration so before/after quantities are exact under concurrency.
func (s *Service) ApplyMovement(tx *gorm.DB, in *MovementInput) (*InventoryTransaction, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("invalid transaction type: %s", in.Type)
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if in.Type == TypeManualDeduction && !ValidDeductionReason(in.DeductionReason) {
		return nil, fmt.Errorf("deduction_reason is required and must be one of expired, damaged, spoiled, others")
	}

	row, err := s.lockOrCreateStock(tx, in.BusinessID, in.BranchID, in.ItemID)
	if err != nil {
		return nil, err
	}

	addition := in.Type.IsAddition()
	if in.Type == TypeCountAdjustment {
		addition = in.CountAddition
	}

	before := row.Quantity
	var after decimal.Decimal
	if addition {
		after = before.Add(in.Quantity)
	} else {
		after = before.Sub(in.Quantity)
		if after.IsNegative() {
			return nil, fmt.Errorf("%w: available %s, requested %s", ErrInsufficientStock, before.String(), in.Quantity.String())
		}
	}

	if err := tx.Model(row).Update("quantity", after).Error; err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	transaction := &InventoryTransaction{
		BusinessID:      in.BusinessID,
		BranchID:        in.BranchID,
		ItemID:          in.ItemID,
		TransactionType: in.Type,
		DeductionReason: in.DeductionReason,
		Quantity:        in.Quantity,
		QuantityBefore:  before,
		QuantityAfter:   after,
		UnitCost:        in.UnitCost,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		Notes:           in.Notes,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       time.Now().UTC(),
	}

	if err := tx.Create(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return transaction, nil
}

// Adjust performs a manual addition or deduction as its own transaction
func (s *Service) Adjust(businessID, branchID, itemID, userID uint, req *AdjustRequest) (*InventoryTransaction, error) {
	if req.Type != TypeManualAddition && req.Type != TypeManualDeduction {
		return nil, fmt.Errorf("adjustment type must be manual_addition or manual_deduction")
	}

	var transaction *InventoryTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		transaction, err = s.ApplyMovement(tx, &MovementInput{
			BusinessID:      businessID,
			BranchID:        branchID,
			ItemID:          itemID,
			Type:            req.Type,
			DeductionReason: req.DeductionReason,
			Quantity:        req.Quantity,
			Notes:           req.Notes,
			CreatedBy:       userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(businessID, branchID)
	return transaction, nil
}

// GetStock lists stock rows of a branch joined with their items
func (s *Service) GetStock(businessID, branchID uint, search string, lowOnly bool) ([]StockRow, error) {
	query := s.db.Model(&InventoryStock{}).
		Select("inventory_stocks.*, items.name AS item_name, items.name_ar AS item_name_ar, items.sku AS item_sku, items.unit AS item_unit, categories.name AS category_name").
		Joins("JOIN items ON items.id = inventory_stocks.item_id").
		Joins("LEFT JOIN categories ON categories.id = items.category_id").
		Where("inventory_stocks.business_id = ? AND inventory_stocks.branch_id = ?", businessID, branchID).
		Where("items.deleted_at IS NULL")

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("items.name ILIKE ? OR items.name_ar ILIKE ? OR items.sku ILIKE ? OR categories.name ILIKE ?",
			pattern, pattern, pattern, pattern)
	}

	if lowOnly {
		query = query.Where("inventory_stocks.quantity <= 0 OR (inventory_stocks.min_quantity > 0 AND inventory_stocks.quantity <= inventory_stocks.min_quantity)")
	}

	var rows []StockRow
	if err := query.Order("items.name ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock: %w", err)
	}

	// Scan bypasses gorm hooks, classify explicitly
	for i := range rows {
		rows[i].Level = rows[i].Classify()
	}

	return rows, nil
}

// GetItemStock returns the stock row of one item in one branch
func (s *Service) GetItemStock(businessID, branchID, itemID uint) (*InventoryStock, error) {
	var row InventoryStock
	err := s.db.Where("business_id = ? AND branch_id = ? AND item_id = ?", businessID, branchID, itemID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no stock record for item %d in branch %d", itemID, branchID)
		}
		return nil, fmt.Errorf("failed to retrieve stock: %w", err)
	}
	return &row, nil
}

// GetItemQuantity returns the current quantity of an item in a branch,
// zero when the item has never been stocked there.
func (s *Service) GetItemQuantity(businessID, branchID, itemID uint) (decimal.Decimal, error) {
	var row InventoryStock
	err := s.db.Where("business_id = ? AND branch_id = ? AND item_id = ?", businessID, branchID, itemID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load stock record: %w", err)
	}
	return row.Quantity, nil
}

// GetStats returns the aggregated per-branch stock summary, cached briefly
// in Redis so repeated dashboard loads stay consistent and cheap.
func (s *Service) GetStats(ctx context.Context, businessID, branchID uint) (*Stats, error) {
	cacheKey := s.statsKey(businessID, branchID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	var stats Stats
	err := s.db.Model(&InventoryStock{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE quantity <= 0) AS out,
			COUNT(*) FILTER (WHERE quantity > 0 AND min_quantity > 0 AND quantity <= min_quantity) AS low,
			COUNT(*) FILTER (WHERE quantity > 0 AND max_quantity > 0 AND quantity >= max_quantity AND (min_quantity <= 0 OR quantity > min_quantity)) AS overstocked`).
		Where("business_id = ? AND branch_id = ?", businessID, branchID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stock stats: %w", err)
	}
	stats.Healthy = stats.Total - stats.Out - stats.Low - stats.Overstocked

	if s.redis != nil {
		if encoded, err := json.Marshal(&stats); err == nil {
			s.redis.Set(ctx, cacheKey, encoded, s.config.Redis.StatsTTL)
		}
	}

	return &stats, nil
}

// UpdateLimits sets the min/max thresholds of a stock row. When both are
// set the maximum must exceed the minimum.
func (s *Service) UpdateLimits(businessID, branchID, itemID uint, req *LimitsRequest) (*InventoryStock, error) {
	if req.MinQuantity.IsNegative() || req.MaxQuantity.IsNegative() {
		return nil, fmt.Errorf("limits cannot be negative")
	}
	if req.MaxQuantity.GreaterThan(decimal.Zero) && !req.MaxQuantity.GreaterThan(req.MinQuantity) {
		return nil, fmt.Errorf("max_quantity must be greater than min_quantity")
	}

	row, err := s.lockOrCreateStock(s.db, businessID, branchID, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"min_quantity": req.MinQuantity,
		"max_quantity": req.MaxQuantity,
	}
	if err := s.db.Model(row).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update limits: %w", err)
	}

	s.invalidateStats(businessID, branchID)
	return s.GetItemStock(businessID, branchID, itemID)
}

// lockOrCreateStock loads a stock row with a row lock, creating a zero row
// first when the item has never been stocked in the branch.
func (s *Service) lockOrCreateStock(tx *gorm.DB, businessID, branchID, itemID uint) (*InventoryStock, error) {
	var row InventoryStock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ? AND branch_id = ? AND item_id = ?", businessID, branchID, itemID).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = InventoryStock{
			BusinessID: businessID,
			BranchID:   branchID,
			ItemID:     itemID,
			Quantity:   decimal.Zero,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to create stock record: %w", err)
		}
		return &row, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stock record: %w", err)
	}

	return &row, nil
}

// InvalidateStats drops the cached stats of a branch after external writers
// (receiving, transfers, production) mutate its stock.
func (s *Service) InvalidateStats(businessID, branchID uint) {
	s.invalidateStats(businessID, branchID)
}

func (s *Service) invalidateStats(businessID, branchID uint) {
	if s.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.redis.Del(ctx, s.statsKey(businessID, branchID), s.timelineStatsKey(businessID, branchID))
}

func (s *Service) statsKey(businessID, branchID uint) string {
	return fmt.Sprintf("stock_stats:%d:%d", businessID, branchID)
}

func (s *Service) timelineStatsKey(businessID, branchID uint) string {
	return fmt.Sprintf("timeline_stats:%d:%d", businessID, branchID)
}
