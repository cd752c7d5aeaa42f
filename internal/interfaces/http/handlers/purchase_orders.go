// internal/interfaces/http/handlers/purchase_orders.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/purchase"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"github.com/sylo-hq/sylo-backend/internal/domain/upload"
	"github.com/sylo-hq/sylo-backend/internal/interfaces/http/middleware"
	"github.com/sylo-hq/sylo-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	purchaseService *purchase.Service
	pdfService      *pdf.Service
	config          *config.Config
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *PurchaseOrderHandler {
	stockService := stock.NewService(db, cfg, redisClient)
	uploadService := upload.NewService(db, cfg)
	return &PurchaseOrderHandler{
		purchaseService: purchase.NewService(db, cfg, stockService, uploadService),
		pdfService:      pdf.NewService(cfg),
		config:          cfg,
	}
}

func purchaseStatus(err error) int {
	switch {
	case errors.Is(err, purchase.ErrNotFound), errors.Is(err, purchase.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, stock.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// GetOrders handles GET /purchase-orders
func (h *PurchaseOrderHandler) GetOrders(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	var req purchase.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	orders, err := h.purchaseService.GetOrders(businessID, branchID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve purchase orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase orders retrieved successfully",
		"data":    orders,
	})
}

// GetOrder handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetOrder(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchase order ID",
		})
		return
	}

	order, err := h.purchaseService.GetOrder(businessID, uint(orderID))
	if err != nil {
		c.JSON(purchaseStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order retrieved successfully",
		"data":    order,
	})
}

// CreateOrder handles POST /purchase-orders
func (h *PurchaseOrderHandler) CreateOrder(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req purchase.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.purchaseService.CreateOrder(businessID, branchID, userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Purchase order created successfully",
		"data":    order,
	})
}

// UpdateOrder handles PATCH /purchase-orders/:id
func (h *PurchaseOrderHandler) UpdateOrder(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchase order ID",
		})
		return
	}

	var req purchase.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.purchaseService.UpdateOrder(businessID, uint(orderID), userID, &req)
	if err != nil {
		c.JSON(purchaseStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order updated successfully",
		"data":    order,
	})
}

// UpdateStatus handles PATCH /purchase-orders/:id/status
func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchase order ID",
		})
		return
	}

	var req purchase.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.purchaseService.UpdateStatus(businessID, uint(orderID), userID, &req)
	if err != nil {
		c.JSON(purchaseStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated successfully",
		"data":    order,
	})
}

// ReceiveOrder handles POST /purchase-orders/:id/receive. The request is
// multipart: an invoice_image file plus a data field holding the receiving
// payload as JSON.
func (h *PurchaseOrderHandler) ReceiveOrder(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchase order ID",
		})
		return
	}

	invoice, err := c.FormFile("invoice_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invoice_image file is required",
		})
		return
	}

	payload := c.PostForm("data")
	if payload == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "data field is required",
		})
		return
	}

	var req purchase.ReceiveRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid receiving data",
			"details": err.Error(),
		})
		return
	}
	if len(req.Lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "at least one line is required",
		})
		return
	}

	order, err := h.purchaseService.ReceiveOrder(businessID, branchID, userID, uint(orderID), &req, invoice)
	if err != nil {
		c.JSON(purchaseStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order received successfully",
		"data":    order,
	})
}

// GetActivity handles GET /purchase-orders/:id/activity
func (h *PurchaseOrderHandler) GetActivity(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchase order ID",
		})
		return
	}

	activities, err := h.purchaseService.GetActivity(businessID, uint(orderID))
	if err != nil {
		c.JSON(purchaseStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Activity retrieved successfully",
		"data":    activities,
	})
}

// GetOrderPDF handles GET /purchase-orders/:id/pdf
func (h *PurchaseOrderHandler) GetOrderPDF(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchase order ID",
		})
		return
	}

	order, err := h.purchaseService.GetOrder(businessID, uint(orderID))
	if err != nil {
		c.JSON(purchaseStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	doc, err := h.pdfService.GeneratePurchaseOrder(order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate PDF",
		})
		return
	}

	filename := fmt.Sprintf("%s.pdf", order.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", doc.Bytes())
}
