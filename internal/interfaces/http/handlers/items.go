// internal/interfaces/http/handlers/items.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/catalog"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"github.com/sylo-hq/sylo-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// ItemHandler handles catalog and production endpoints
type ItemHandler struct {
	catalogService *catalog.Service
	config         *config.Config
}

// NewItemHandler creates a new item handler
func NewItemHandler(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ItemHandler {
	stockService := stock.NewService(db, cfg, redisClient)
	return &ItemHandler{
		catalogService: catalog.NewService(db, cfg, stockService),
		config:         cfg,
	}
}

// GetItems handles GET /items
func (h *ItemHandler) GetItems(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	var req catalog.ItemListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	items, err := h.catalogService.GetItems(businessID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Items retrieved successfully",
		"data":    items,
	})
}

// GetItem handles GET /items/:id
func (h *ItemHandler) GetItem(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	item, err := h.catalogService.GetItem(businessID, uint(itemID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item retrieved successfully",
		"data":    item,
	})
}

// CreateItem handles POST /items
func (h *ItemHandler) CreateItem(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	var req catalog.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.catalogService.CreateItem(businessID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item created successfully",
		"data":    item,
	})
}

// UpdateItem handles PATCH /items/:id
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	var req catalog.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.catalogService.UpdateItem(businessID, uint(itemID), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item updated successfully",
		"data":    item,
	})
}

// DeleteItem handles DELETE /items/:id
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	if err := h.catalogService.DeleteItem(businessID, uint(itemID)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item deleted successfully",
	})
}

// GetCategories handles GET /categories
func (h *ItemHandler) GetCategories(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	categories, err := h.catalogService.GetCategories(businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// CreateCategoryRequest represents category creation data
type CreateCategoryRequest struct {
	Name   string `json:"name" binding:"required"`
	NameAr string `json:"name_ar"`
}

// CreateCategory handles POST /categories
func (h *ItemHandler) CreateCategory(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	category, err := h.catalogService.CreateCategory(businessID, req.Name, req.NameAr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Category created successfully",
		"data":    category,
	})
}

// GetCompositeItems handles GET /inventory/composite-items
func (h *ItemHandler) GetCompositeItems(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	items, err := h.catalogService.GetCompositeItems(businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve composite items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Composite items retrieved successfully",
		"data":    items,
	})
}

// GetCompositeItem handles GET /inventory/composite-items/:id
func (h *ItemHandler) GetCompositeItem(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	item, err := h.catalogService.GetItem(businessID, uint(itemID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}
	if !item.IsComposite {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "item is not a composite item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Composite item retrieved successfully",
		"data":    item,
	})
}

// Produce handles POST /inventory/composite-items/:id/produce
func (h *ItemHandler) Produce(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	var req catalog.ProduceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	production, err := h.catalogService.Produce(businessID, branchID, userID, uint(itemID), &req)
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
		"message": "Production completed successfully",
		"data":    production,
	})
}

// GetProductionStats handles GET /inventory/production
func (h *ItemHandler) GetProductionStats(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	stats, err := h.catalogService.GetProductionStats(businessID, branchID, c.Query("period"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve production stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Production stats retrieved successfully",
		"data":    stats,
	})
}
