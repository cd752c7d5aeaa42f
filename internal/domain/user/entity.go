// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role represents a business user role
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RolePOS      Role = "pos"
)

// Status represents a business user status
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Business represents a workspace an owner can switch between
type Business struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	NameAr    string         `gorm:"size:255" json:"name_ar"`
	OwnerID   uint           `gorm:"index" json:"owner_id"`
	MaxUsers  int            `gorm:"default:0" json:"max_users"` // 0 = use configured default
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Branches []Branch `gorm:"foreignKey:BusinessID" json:"branches,omitempty"`
}

// Branch represents a physical location belonging to a business
type Branch struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	BusinessID uint           `gorm:"not null;index" json:"business_id"`
	Name       string         `gorm:"not null;size:255" json:"name"`
	NameAr     string         `gorm:"size:255" json:"name_ar"`
	Code       string         `gorm:"size:20" json:"code"`
	IsMain     bool           `gorm:"default:false" json:"is_main"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// BusinessUser represents a member of a business
type BusinessUser struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BusinessID  uint           `gorm:"not null;index;uniqueIndex:idx_business_username" json:"business_id"`
	Username    string         `gorm:"not null;size:100;uniqueIndex:idx_business_username" json:"username"`
	Password    string         `gorm:"not null;size:255" json:"-"`
	Role        Role           `gorm:"not null;default:'employee'" json:"role"`
	Status      Status         `gorm:"not null;default:'active'" json:"status"`
	FullName    string         `gorm:"size:255" json:"full_name"`
	Email       string         `gorm:"size:255" json:"email"`
	Phone       string         `gorm:"size:20" json:"phone"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Business) TableName() string     { return "businesses" }
func (Branch) TableName() string       { return "branches" }
func (BusinessUser) TableName() string { return "business_users" }

// BeforeCreate hook to normalize the username
func (u *BusinessUser) BeforeCreate(tx *gorm.DB) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	return nil
}

// IsOwner reports whether the user holds the owner role
func (u *BusinessUser) IsOwner() bool {
	return u.Role == RoleOwner
}

// CanManageUsers reports whether the user may create or modify other users
func (u *BusinessUser) CanManageUsers() bool {
	return u.Role == RoleOwner || u.Role == RoleManager
}

// IsActive reports whether the user may authenticate
func (u *BusinessUser) IsActive() bool {
	return u.Status == StatusActive
}

// ValidRole reports whether the given role is part of the vocabulary
func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee, RolePOS:
		return true
	}
	return false
}

// ValidStatus reports whether the given status is part of the vocabulary
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}
