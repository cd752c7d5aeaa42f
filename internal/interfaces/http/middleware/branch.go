// internal/interfaces/http/middleware/branch.go
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sylo-hq/sylo-backend/internal/domain/user"
	"gorm.io/gorm"
)

// BranchMiddleware resolves the X-Branch-Id header into a validated branch
// context. Branch-scoped routes refuse to guess a branch.
func BranchMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-Branch-Id")
		if header == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "X-Branch-Id header required",
			})
			c.Abort()
			return
		}

		branchID, err := strconv.ParseUint(header, 10, 32)
		if err != nil || branchID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid X-Branch-Id header",
			})
			c.Abort()
			return
		}

		businessID, ok := GetBusinessIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var branch user.Branch
		if err := db.Where("business_id = ? AND id = ?", businessID, uint(branchID)).First(&branch).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Branch does not belong to this business",
			})
			c.Abort()
			return
		}

		c.Set("branch_id", branch.ID)
		c.Next()
	}
}

// GetBranchIDFromContext extracts the active branch ID from gin context
func GetBranchIDFromContext(c *gin.Context) (uint, bool) {
	branchID, exists := c.Get("branch_id")
	if !exists {
		return 0, false
	}
	return branchID.(uint), true
}
