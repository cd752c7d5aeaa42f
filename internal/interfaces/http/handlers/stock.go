// internal/interfaces/http/handlers/stock.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"github.com/sylo-hq/sylo-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// StockHandler handles stock level and timeline endpoints
type StockHandler struct {
	stockService *stock.Service
	config       *config.Config
}

// NewStockHandler creates a new stock handler
func NewStockHandler(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *StockHandler {
	return &StockHandler{
		stockService: stock.NewService(db, cfg, redisClient),
		config:       cfg,
	}
}

// GetStock handles GET /stock
func (h *StockHandler) GetStock(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	lowOnly := c.Query("low_stock") == "true"
	rows, err := h.stockService.GetStock(businessID, branchID, c.Query("search"), lowOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stock",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock retrieved successfully",
		"data":    rows,
	})
}

// GetStats handles GET /stock/stats
func (h *StockHandler) GetStats(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	stats, err := h.stockService.GetStats(c.Request.Context(), businessID, branchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stock stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock stats retrieved successfully",
		"data":    stats,
	})
}

// UpdateLimits handles PATCH /stock/:itemId/limits
func (h *StockHandler) UpdateLimits(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	var req stock.LimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	row, err := h.stockService.UpdateLimits(businessID, branchID, uint(itemID), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock limits updated successfully",
		"data":    row,
	})
}

// Adjust handles POST /stock/:itemId/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	var req stock.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	transaction, err := h.stockService.Adjust(businessID, branchID, uint(itemID), userID, &req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, stock.ErrInsufficientStock) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock adjusted successfully",
		"data":    transaction,
	})
}

// GetTimeline handles GET /inventory/timeline
func (h *StockHandler) GetTimeline(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	var req stock.TimelineRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	timeline, err := h.stockService.GetTimeline(businessID, branchID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve timeline",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Timeline retrieved successfully",
		"data":    timeline,
	})
}

// GetTimelineStats handles GET /inventory/timeline/stats
func (h *StockHandler) GetTimelineStats(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	stats, err := h.stockService.GetTimelineStats(c.Request.Context(), businessID, branchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve timeline stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Timeline stats retrieved successfully",
		"data":    stats,
	})
}

// GetItemTimeline handles GET /inventory/timeline/item/:itemId
func (h *StockHandler) GetItemTimeline(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := h.stockService.GetItemTimeline(businessID, branchID, uint(itemID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve item timeline",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item timeline retrieved successfully",
		"data":    rows,
	})
}
