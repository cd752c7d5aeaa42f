// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Sentinel errors the HTTP layer maps to status codes
var (
	ErrForbidden        = errors.New("forbidden")
	ErrOwnerImmutable   = errors.New("owner account role, status and existence cannot be changed")
	ErrUserLimitReached = errors.New("user limit for this business has been reached")
	ErrNotFound         = errors.New("user not found")
)

// Service handles business user logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	passwords *auth.PasswordManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		passwords: auth.NewPasswordManager(cfg),
	}
}

// LoginRequest represents login credentials
type LoginRequest struct {
	BusinessID uint   `json:"business_id"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// CreateUserRequest represents user creation data
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// UpdateUserRequest represents user update data
type UpdateUserRequest struct {
	Role     *Role   `json:"role"`
	Status   *Status `json:"status"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

// Authenticate verifies credentials and returns the matching user.
// When BusinessID is zero the username must be unambiguous across businesses.
func (s *Service) Authenticate(req *LoginRequest) (*BusinessUser, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	query := s.db.Where("username = ?", username)
	if req.BusinessID > 0 {
		query = query.Where("business_id = ?", req.BusinessID)
	}

	var users []BusinessUser
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("invalid username or password")
	}
	if len(users) > 1 {
		return nil, fmt.Errorf("username exists in multiple businesses, business_id is required")
	}

	u := users[0]
	if !u.IsActive() {
		return nil, fmt.Errorf("account is %s", u.Status)
	}

	if err := s.passwords.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	now := time.Now().UTC()
	s.db.Model(&u).Update("last_login_at", &now)
	u.LastLoginAt = &now

	return &u, nil
}

// GetUser retrieves a user scoped to a business
func (s *Service) GetUser(businessID, userID uint) (*BusinessUser, error) {
	var u BusinessUser
	if err := s.db.Where("business_id = ? AND id = ?", businessID, userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

// ListUsers retrieves all users of a business
func (s *Service) ListUsers(businessID uint) ([]BusinessUser, error) {
	var users []BusinessUser
	if err := s.db.Where("business_id = ?", businessID).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return users, nil
}

// CreateUser creates a new business user with the configured default password.
// The clear-text default password is returned once so the caller can surface it.
func (s *Service) CreateUser(actor *BusinessUser, req *CreateUserRequest) (*BusinessUser, string, error) {
	if !actor.CanManageUsers() {
		return nil, "", ErrForbidden
	}

	if req.Role == RoleOwner {
		return nil, "", fmt.Errorf("a business has exactly one owner")
	}
	if !ValidRole(req.Role) {
		return nil, "", fmt.Errorf("invalid role: %s", req.Role)
	}

	maxUsers, err := s.userLimit(actor.BusinessID)
	if err != nil {
		return nil, "", err
	}

	var count int64
	if err := s.db.Model(&BusinessUser{}).Where("business_id = ?", actor.BusinessID).Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("failed to count users: %w", err)
	}
	if count >= int64(maxUsers) {
		return nil, "", ErrUserLimitReached
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	var existing BusinessUser
	if err := s.db.Where("business_id = ? AND username = ?", actor.BusinessID, username).First(&existing).Error; err == nil {
		return nil, "", fmt.Errorf("username '%s' is already taken", username)
	}

	defaultPassword := s.passwords.DefaultPassword()
	hash, err := s.passwords.HashPassword(defaultPassword)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash default password: %w", err)
	}

	u := &BusinessUser{
		BusinessID: actor.BusinessID,
		Username:   username,
		Password:   hash,
		Role:       req.Role,
		Status:     StatusActive,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
	}

	if err := s.db.Create(u).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	return u, defaultPassword, nil
}

// UpdateUser updates a business user, enforcing owner immutability
func (s *Service) UpdateUser(actor *BusinessUser, userID uint, req *UpdateUserRequest) (*BusinessUser, error) {
	target, err := s.GetUser(actor.BusinessID, userID)
	if err != nil {
		return nil, err
	}

	selfEdit := actor.ID == target.ID
	if !actor.CanManageUsers() && !selfEdit {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}

	if req.Role != nil {
		if target.IsOwner() {
			return nil, ErrOwnerImmutable
		}
		if !ValidRole(*req.Role) || *req.Role == RoleOwner {
			return nil, fmt.Errorf("invalid role: %s", *req.Role)
		}
		updates["role"] = *req.Role
	}
	if req.Status != nil {
		if target.IsOwner() {
			return nil, ErrOwnerImmutable
		}
		if !ValidStatus(*req.Status) {
			return nil, fmt.Errorf("invalid status: %s", *req.Status)
		}
		updates["status"] = *req.Status
	}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) == 0 {
		return target, nil
	}

	if err := s.db.Model(target).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.GetUser(actor.BusinessID, userID)
}

// deleteGuard checks whether the actor may delete the target. The owner is
// immutable regardless of who asks.
func deleteGuard(actor, target *BusinessUser) error {
	if target.IsOwner() {
		return ErrOwnerImmutable
	}
	if !actor.CanManageUsers() {
		return ErrForbidden
	}
	if actor.ID == target.ID {
		return fmt.Errorf("cannot delete your own account")
	}
	return nil
}

// DeleteUser removes a business user. The owner can never be deleted.
func (s *Service) DeleteUser(actor *BusinessUser, userID uint) error {
	target, err := s.GetUser(actor.BusinessID, userID)
	if err != nil {
		return err
	}

	if err := deleteGuard(actor, target); err != nil {
		return err
	}

	if err := s.db.Delete(target).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ResetPassword resets a user's password back to the configured default
func (s *Service) ResetPassword(actor *BusinessUser, userID uint) (string, error) {
	target, err := s.GetUser(actor.BusinessID, userID)
	if err != nil {
		return "", err
	}

	if !actor.CanManageUsers() && actor.ID != target.ID {
		return "", ErrForbidden
	}

	defaultPassword := s.passwords.DefaultPassword()
	hash, err := s.passwords.HashPassword(defaultPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash default password: %w", err)
	}

	if err := s.db.Model(target).Update("password", hash).Error; err != nil {
		return "", fmt.Errorf("failed to reset password: %w", err)
	}

	return defaultPassword, nil
}

// ChangePassword sets a new password after verifying the current one
func (s *Service) ChangePassword(userID uint, current, next string) error {
	var u BusinessUser
	if err := s.db.First(&u, userID).Error; err != nil {
		return ErrNotFound
	}

	if err := s.passwords.VerifyPassword(current, u.Password); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	hash, err := s.passwords.HashPassword(next)
	if err != nil {
		return err
	}

	if err := s.db.Model(&u).Update("password", hash).Error; err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// GetBusiness retrieves a business with its branches
func (s *Service) GetBusiness(businessID uint) (*Business, error) {
	var b Business
	if err := s.db.Preload("Branches").First(&b, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("business not found")
		}
		return nil, fmt.Errorf("failed to retrieve business: %w", err)
	}
	return &b, nil
}

// BusinessesByOwner lists all businesses an owner can switch between
func (s *Service) BusinessesByOwner(ownerUsername string) ([]Business, error) {
	username := strings.ToLower(strings.TrimSpace(ownerUsername))

	var businesses []Business
	err := s.db.
		Joins("JOIN business_users ON business_users.business_id = businesses.id").
		Where("business_users.username = ? AND business_users.role = ? AND business_users.deleted_at IS NULL", username, RoleOwner).
		Find(&businesses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve businesses: %w", err)
	}
	return businesses, nil
}

// GetBranches lists the branches of a business
func (s *Service) GetBranches(businessID uint) ([]Branch, error) {
	var branches []Branch
	if err := s.db.Where("business_id = ?", businessID).Order("is_main DESC, name ASC").Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve branches: %w", err)
	}
	return branches, nil
}

// GetBranch retrieves a single branch scoped to a business
func (s *Service) GetBranch(businessID, branchID uint) (*Branch, error) {
	var branch Branch
	if err := s.db.Where("business_id = ? AND id = ?", businessID, branchID).First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("branch not found")
		}
		return nil, fmt.Errorf("failed to retrieve branch: %w", err)
	}
	return &branch, nil
}

func (s *Service) userLimit(businessID uint) (int, error) {
	var b Business
	if err := s.db.First(&b, businessID).Error; err != nil {
		return 0, fmt.Errorf("business not found")
	}
	if b.MaxUsers > 0 {
		return b.MaxUsers, nil
	}
	return s.config.Users.MaxPerBusiness, nil
}
