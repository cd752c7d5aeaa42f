// internal/interfaces/http/handlers/vendors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/vendor"
	"github.com/sylo-hq/sylo-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// VendorHandler handles vendor endpoints
type VendorHandler struct {
	vendorService *vendor.Service
	config        *config.Config
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(db *gorm.DB, cfg *config.Config) *VendorHandler {
	return &VendorHandler{
		vendorService: vendor.NewService(db, cfg),
		config:        cfg,
	}
}

// GetVendors handles GET /vendors
func (h *VendorHandler) GetVendors(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	var req vendor.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	vendors, err := h.vendorService.GetVendors(businessID, branchID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve vendors",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vendors retrieved successfully",
		"data":    vendors,
	})
}

// GetVendor handles GET /vendors/:id
func (h *VendorHandler) GetVendor(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	vendorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid vendor ID",
		})
		return
	}

	v, err := h.vendorService.GetVendor(businessID, uint(vendorID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vendor retrieved successfully",
		"data":    v,
	})
}

// CreateVendor handles POST /vendors
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	var req vendor.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	v, err := h.vendorService.CreateVendor(businessID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vendor created successfully",
		"data":    v,
	})
}

// UpdateVendor handles PATCH /vendors/:id
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	vendorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid vendor ID",
		})
		return
	}

	var req vendor.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	v, err := h.vendorService.UpdateVendor(businessID, uint(vendorID), &req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, vendor.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vendor updated successfully",
		"data":    v,
	})
}

// DeleteVendor handles DELETE /vendors/:id
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	vendorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid vendor ID",
		})
		return
	}

	if err := h.vendorService.DeleteVendor(businessID, uint(vendorID)); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, vendor.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vendor deleted successfully",
	})
}
