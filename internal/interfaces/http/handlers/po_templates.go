// internal/interfaces/http/handlers/po_templates.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sylo-hq/sylo-backend/internal/domain/purchase"
	"github.com/sylo-hq/sylo-backend/internal/interfaces/http/middleware"
)

// GetTemplates handles GET /po-templates
func (h *PurchaseOrderHandler) GetTemplates(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	templates, err := h.purchaseService.GetTemplates(businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve templates",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Templates retrieved successfully",
		"data":    templates,
	})
}

// GetTemplate handles GET /po-templates/:id
func (h *PurchaseOrderHandler) GetTemplate(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	templateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid template ID",
		})
		return
	}

	template, err := h.purchaseService.GetTemplate(businessID, uint(templateID))
	if err != nil {
		c.JSON(purchaseStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Template retrieved successfully",
		"data":    template,
	})
}

// CreateTemplate handles POST /po-templates
func (h *PurchaseOrderHandler) CreateTemplate(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req purchase.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	template, err := h.purchaseService.CreateTemplate(businessID, userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Template created successfully",
		"data":    template,
	})
}

// UpdateTemplate handles PATCH /po-templates/:id
func (h *PurchaseOrderHandler) UpdateTemplate(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	templateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid template ID",
		})
		return
	}

	var req purchase.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	template, err := h.purchaseService.UpdateTemplate(businessID, uint(templateID), &req)
	if err != nil {
		c.JSON(purchaseStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Template updated successfully",
		"data":    template,
	})
}

// DeleteTemplate handles DELETE /po-templates/:id
func (h *PurchaseOrderHandler) DeleteTemplate(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	templateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid template ID",
		})
		return
	}

	if err := h.purchaseService.DeleteTemplate(businessID, uint(templateID)); err != nil {
		c.JSON(purchaseStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Template deleted successfully",
	})
}

// TemplateFromOrderRequest names a template built from an existing order
type TemplateFromOrderRequest struct {
	Name string `json:"name"`
}

// CreateTemplateFromOrder handles POST /po-templates/from-order/:orderId
func (h *PurchaseOrderHandler) CreateTemplateFromOrder(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchase order ID",
		})
		return
	}

	var req TemplateFromOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	template, err := h.purchaseService.CreateTemplateFromOrder(businessID, userID, uint(orderID), req.Name)
	if err != nil {
		c.JSON(purchaseStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Template created successfully",
		"data":    template,
	})
}
