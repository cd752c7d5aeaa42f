// internal/interfaces/http/handlers/transfers.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"github.com/sylo-hq/sylo-backend/internal/domain/transfer"
	"github.com/sylo-hq/sylo-backend/internal/domain/user"
	"github.com/sylo-hq/sylo-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// TransferHandler handles inter-branch transfer endpoints
type TransferHandler struct {
	transferService *transfer.Service
	userService     *user.Service
	config          *config.Config
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *TransferHandler {
	stockService := stock.NewService(db, cfg, redisClient)
	userService := user.NewService(db, cfg)
	return &TransferHandler{
		transferService: transfer.NewService(db, cfg, stockService, userService),
		userService:     userService,
		config:          cfg,
	}
}

func transferStatus(err error) int {
	switch {
	case errors.Is(err, transfer.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, transfer.ErrWrongBranch), errors.Is(err, transfer.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, stock.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// GetTransfers handles GET /transfers
func (h *TransferHandler) GetTransfers(c *gin.Context) {
	branchID, _ := middleware.GetBranchIDFromContext(c)

	transfers, err := h.transferService.GetTransfers(branchID, transfer.Status(c.Query("status")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve transfers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfers retrieved successfully",
		"data":    transfers,
	})
}

// GetTransfer handles GET /transfers/:id
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	branchID, _ := middleware.GetBranchIDFromContext(c)

	transferID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid transfer ID",
		})
		return
	}

	t, err := h.transferService.GetTransfer(branchID, uint(transferID))
	if err != nil {
		c.JSON(transferStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfer retrieved successfully",
		"data":    t,
	})
}

// GetDestinations handles GET /transfers/destinations
func (h *TransferHandler) GetDestinations(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)

	actor, err := h.userService.GetUser(businessID, userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	destinations, err := h.transferService.GetDestinations(actor, branchID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve destinations",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Destinations retrieved successfully",
		"data":    destinations,
	})
}

// CreateTransfer handles POST /transfers
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)
	branchID, _ := middleware.GetBranchIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req transfer.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	t, err := h.transferService.CreateTransfer(businessID, branchID, userID, &req)
	if err != nil {
		c.JSON(transferStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Transfer created successfully",
		"data":    t,
	})
}

// ReceiveTransfer handles POST /transfers/:id/receive
func (h *TransferHandler) ReceiveTransfer(c *gin.Context) {
	branchID, _ := middleware.GetBranchIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	transferID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid transfer ID",
		})
		return
	}

	t, err := h.transferService.ReceiveTransfer(branchID, userID, uint(transferID))
	if err != nil {
		c.JSON(transferStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfer received successfully",
		"data":    t,
	})
}

// CancelTransfer handles POST /transfers/:id/cancel
func (h *TransferHandler) CancelTransfer(c *gin.Context) {
	branchID, _ := middleware.GetBranchIDFromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	transferID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid transfer ID",
		})
		return
	}

	t, err := h.transferService.CancelTransfer(branchID, userID, uint(transferID))
	if err != nil {
		c.JSON(transferStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfer cancelled successfully",
		"data":    t,
	})
}
