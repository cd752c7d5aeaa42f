// internal/interfaces/http/handlers/counts.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/count"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"github.com/sylo-hq/sylo-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CountHandler handles inventory count endpoints
type CountHandler struct {
	countService *count.Service
	config       *config.Config
}

// NewCountHandler creates a new count handler
func NewCountHandler(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *CountHandler {
	stockService := stock.NewService(db, cfg, redisClient)
	return &CountHandler{
		countService: count.NewService(db, cfg, stockService),
		config:       cfg,
	}
}

func countStatus(err error) int {
	switch {
	case errors.Is(err, count.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, stock.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// GetCounts handles GET /inventory/counts
func (h *CountHandler) GetCounts(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	counts, err := h.countService.GetCounts(businessID, branchID, count.Status(c.Query("status")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve counts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Counts retrieved successfully",
		"data":    counts,
	})
}

// GetCount handles GET /inventory/counts/:id
func (h *CountHandler) GetCount(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	countID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid count ID",
		})
		return
	}

	session, err := h.countService.GetCount(businessID, branchID, uint(countID))
	if err != nil {
		c.JSON(countStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Count retrieved successfully",
		"data":    session,
	})
}

// CreateCount handles POST /inventory/counts
func (h *CountHandler) CreateCount(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req count.CreateCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.countService.CreateCount(businessID, branchID, userID, &req)
	if err != nil {
		c.JSON(countStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Count created successfully",
		"data":    session,
	})
}

// StartCount handles POST /inventory/counts/:id/start
func (h *CountHandler) StartCount(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	countID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid count ID",
		})
		return
	}

	session, err := h.countService.StartCount(businessID, branchID, uint(countID))
	if err != nil {
		c.JSON(countStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Count started successfully",
		"data":    session,
	})
}

// RecordLines handles PATCH /inventory/counts/:id/lines
func (h *CountHandler) RecordLines(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	countID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid count ID",
		})
		return
	}

	var req count.RecordLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.countService.RecordLines(businessID, branchID, uint(countID), &req)
	if err != nil {
		c.JSON(countStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Count lines recorded successfully",
		"data":    session,
	})
}

// CompleteCount handles POST /inventory/counts/:id/complete
func (h *CountHandler) CompleteCount(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	countID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid count ID",
		})
		return
	}

	session, err := h.countService.CompleteCount(businessID, branchID, userID, uint(countID))
	if err != nil {
		c.JSON(countStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Count completed successfully",
		"data":    session,
	})
}

// CancelCount handles POST /inventory/counts/:id/cancel
func (h *CountHandler) CancelCount(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	countID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid count ID",
		})
		return
	}

	session, err := h.countService.CancelCount(businessID, branchID, uint(countID))
	if err != nil {
		c.JSON(countStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Count cancelled successfully",
		"data":    session,
	})
}
