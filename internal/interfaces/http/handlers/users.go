// internal/interfaces/http/handlers/users.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/user"
	"github.com/sylo-hq/sylo-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *user.Service
	config      *config.Config
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: user.NewService(db, cfg),
		config:      cfg,
	}
}

// userStatus maps user service errors to HTTP status codes
func userStatus(err error) int {
	switch {
	case errors.Is(err, user.ErrForbidden), errors.Is(err, user.ErrOwnerImmutable):
		return http.StatusForbidden
	case errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrUserLimitReached):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (h *UserHandler) actor(c *gin.Context) (*user.BusinessUser, bool) {
	userID, _ := middleware.GetUserIDFromContext(c)
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	actor, err := h.userService.GetUser(businessID, userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return nil, false
	}
	return actor, true
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	businessID, _ := middleware.GetBusinessIDFromContext(c)

	users, err := h.userService.ListUsers(businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Users retrieved successfully",
		"data":    users,
	})
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, defaultPassword, err := h.userService.CreateUser(actor, &req)
	if err != nil {
		c.JSON(userStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"data": gin.H{
			"user":             created,
			"default_password": defaultPassword,
		},
	})
}

// UpdateUser handles PATCH /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.userService.UpdateUser(actor, uint(userID), &req)
	if err != nil {
		c.JSON(userStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"data":    updated,
	})
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	if err := h.userService.DeleteUser(actor, uint(userID)); err != nil {
		c.JSON(userStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// ResetPassword handles POST /users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	defaultPassword, err := h.userService.ResetPassword(actor, uint(userID))
	if err != nil {
		c.JSON(userStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successfully",
		"data": gin.H{
			"default_password": defaultPassword,
		},
	})
}

// GetOwnerBusinesses handles GET /owners/businesses-by-username. It backs
// workspace discovery on the login screen, so it is reachable without a
// token and only surfaces business names for owner usernames.
func (h *UserHandler) GetOwnerBusinesses(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "username is required",
		})
		return
	}

	businesses, err := h.userService.BusinessesByOwner(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve businesses",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Businesses retrieved successfully",
		"data":    businesses,
	})
}

// GetBranches handles GET /businesses/:id/branches
func (h *UserHandler) GetBranches(c *gin.Context) {
	businessID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid business ID",
		})
		return
	}

	actorBusinessID, _ := middleware.GetBusinessIDFromContext(c)
	if uint(businessID) != actorBusinessID {
		// Owners may browse branches of their other businesses.
		actor, ok := h.actor(c)
		if !ok {
			return
		}
		if !actor.IsOwner() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}
		owned, err := h.userService.BusinessesByOwner(actor.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve businesses",
			})
			return
		}
		allowed := false
		for _, b := range owned {
			if b.ID == uint(businessID) {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}
	}

	branches, err := h.userService.GetBranches(uint(businessID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve branches",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Branches retrieved successfully",
		"data":    branches,
	})
}
