// internal/domain/stock/timeline.go
package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TimelineRequest represents timeline query parameters
type TimelineRequest struct {
	TransactionType TransactionType `form:"transaction_type"`
	DeductionReason DeductionReason `form:"deduction_reason"`
	Page            int             `form:"page,default=1"`
	Limit           int             `form:"limit,default=20"`
}

// TimelineRow is a ledger row joined with its item and actor
type TimelineRow struct {
	InventoryTransaction
	ItemName   string `json:"item_name"`
	ItemNameAr string `json:"item_name_ar"`
	ItemUnit   string `json:"item_unit"`
	Username   string `json:"username"`
}

// TimelineResponse represents a timeline page
type TimelineResponse struct {
	Transactions []TimelineRow `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// TimelineStats is the server-aggregated activity summary
type TimelineStats struct {
	Today           int64 `json:"today"`
	Week            int64 `json:"week"`
	TodayAdditions  int64 `json:"today_additions"`
	TodayDeductions int64 `json:"today_deductions"`
	WeekAdditions   int64 `json:"week_additions"`
	WeekDeductions  int64 `json:"week_deductions"`
}

// GetTimeline lists ledger rows of a branch, newest first
func (s *Service) GetTimeline(businessID, branchID uint, req *TimelineRequest) (*TimelineResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.timelineQuery(businessID, branchID)

	if req.TransactionType != "" {
		if !req.TransactionType.Valid() {
			return nil, fmt.Errorf("invalid transaction type: %s", req.TransactionType)
		}
		query = query.Where("inventory_transactions.transaction_type = ?", req.TransactionType)
	}
	if req.DeductionReason != "" {
		if !ValidDeductionReason(req.DeductionReason) {
			return nil, fmt.Errorf("invalid deduction reason: %s", req.DeductionReason)
		}
		query = query.Where("inventory_transactions.deduction_reason = ?", req.DeductionReason)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	var rows []TimelineRow
	offset := (req.Page - 1) * req.Limit
	err := query.
		Order("inventory_transactions.created_at DESC, inventory_transactions.id DESC").
		Offset(offset).Limit(req.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve timeline: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &TimelineResponse{
		Transactions: rows,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetItemTimeline lists ledger rows of one item in a branch
func (s *Service) GetItemTimeline(businessID, branchID, itemID uint, limit int) ([]TimelineRow, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var rows []TimelineRow
	err := s.timelineQuery(businessID, branchID).
		Where("inventory_transactions.item_id = ?", itemID).
		Order("inventory_transactions.created_at DESC, inventory_transactions.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve item timeline: %w", err)
	}
	return rows, nil
}

// GetTimelineStats returns the aggregated activity summary, cached briefly
func (s *Service) GetTimelineStats(ctx context.Context, businessID, branchID uint) (*TimelineStats, error) {
	cacheKey := s.timelineStatsKey(businessID, branchID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats TimelineStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	now := time.Now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := todayStart.AddDate(0, 0, -int(todayStart.Weekday()))

	var stats TimelineStats
	err := s.db.Model(&InventoryTransaction{}).
		Select(`COUNT(*) FILTER (WHERE created_at >= ?) AS today,
			COUNT(*) FILTER (WHERE created_at >= ?) AS week,
			COUNT(*) FILTER (WHERE created_at >= ? AND quantity_after > quantity_before) AS today_additions,
			COUNT(*) FILTER (WHERE created_at >= ? AND quantity_after < quantity_before) AS today_deductions,
			COUNT(*) FILTER (WHERE created_at >= ? AND quantity_after > quantity_before) AS week_additions,
			COUNT(*) FILTER (WHERE created_at >= ? AND quantity_after < quantity_before) AS week_deductions`,
			todayStart, weekStart, todayStart, todayStart, weekStart, weekStart).
		Where("business_id = ? AND branch_id = ?", businessID, branchID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate timeline stats: %w", err)
	}

	if s.redis != nil {
		if encoded, err := json.Marshal(&stats); err == nil {
			s.redis.Set(ctx, cacheKey, encoded, s.config.Redis.StatsTTL)
		}
	}

	return &stats, nil
}

func (s *Service) timelineQuery(businessID, branchID uint) *gorm.DB {
	return s.db.Model(&InventoryTransaction{}).
		Select("inventory_transactions.*, items.name AS item_name, items.name_ar AS item_name_ar, items.unit AS item_unit, business_users.username AS username").
		Joins("JOIN items ON items.id = inventory_transactions.item_id").
		Joins("LEFT JOIN business_users ON business_users.id = inventory_transactions.created_by").
		Where("inventory_transactions.business_id = ? AND inventory_transactions.branch_id = ?", businessID, branchID)
}
