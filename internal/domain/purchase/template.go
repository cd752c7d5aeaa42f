// internal/domain/purchase/template.go
package purchase

import (
	"errors"
	"fmt"

	"github.com/sylo-hq/sylo-backend/internal/domain/vendor"
	"gorm.io/gorm"
)

// ErrTemplateNotFound is returned when a template does not exist in the business
var ErrTemplateNotFound = errors.New("template not found")

// TemplateRequest represents template creation and update data
type TemplateRequest struct {
	Name     string           `json:"name" binding:"required"`
	NameAr   string           `json:"name_ar"`
	VendorID uint             `json:"vendor_id" binding:"required"`
	Notes    string           `json:"notes"`
	Items    []OrderLineInput `json:"items" binding:"required,min=1"`
}

// GetTemplates lists the saved templates of a business
func (s *Service) GetTemplates(businessID uint) ([]Template, error) {
	var templates []Template
	err := s.db.Preload("Vendor").Preload("Items").
		Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve templates: %w", err)
	}
	return templates, nil
}

// GetTemplate retrieves a single template with its lines
func (s *Service) GetTemplate(businessID, templateID uint) (*Template, error) {
	var t Template
	err := s.db.Preload("Vendor").Preload("Items").
		Where("business_id = ? AND id = ?", businessID, templateID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to retrieve template: %w", err)
	}
	return &t, nil
}

// CreateTemplate saves a reusable order shape
func (s *Service) CreateTemplate(businessID, userID uint, req *TemplateRequest) (*Template, error) {
	var v vendor.Vendor
	if err := s.db.Where("business_id = ? AND id = ?", businessID, req.VendorID).First(&v).Error; err != nil {
		return nil, fmt.Errorf("vendor not found")
	}

	lines, err := s.buildLines(businessID, req.Items)
	if err != nil {
		return nil, err
	}

	t := &Template{
		BusinessID: businessID,
		Name:       req.Name,
		NameAr:     req.NameAr,
		VendorID:   req.VendorID,
		Notes:      req.Notes,
		CreatedBy:  userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		for _, line := range lines {
			row := TemplateItem{
				TemplateID: t.ID,
				ItemID:     line.ItemID,
				Quantity:   line.Quantity,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create template line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTemplate(businessID, t.ID)
}

// UpdateTemplate replaces a template's details and lines
func (s *Service) UpdateTemplate(businessID, templateID uint, req *TemplateRequest) (*Template, error) {
	t, err := s.GetTemplate(businessID, templateID)
	if err != nil {
		return nil, err
	}

	lines, err := s.buildLines(businessID, req.Items)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":      req.Name,
			"name_ar":   req.NameAr,
			"vendor_id": req.VendorID,
			"notes":     req.Notes,
		}
		if err := tx.Model(t).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update template: %w", err)
		}
		if err := tx.Where("template_id = ?", t.ID).Delete(&TemplateItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear template lines: %w", err)
		}
		for _, line := range lines {
			row := TemplateItem{
				TemplateID: t.ID,
				ItemID:     line.ItemID,
				Quantity:   line.Quantity,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create template line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTemplate(businessID, templateID)
}

// DeleteTemplate soft-deletes a template
func (s *Service) DeleteTemplate(businessID, templateID uint) error {
	t, err := s.GetTemplate(businessID, templateID)
	if err != nil {
		return err
	}
	if err := s.db.Select("Items").Delete(t).Error; err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// CreateTemplateFromOrder saves an existing order's vendor and lines as a
// template for quick re-ordering.
func (s *Service) CreateTemplateFromOrder(businessID, userID, orderID uint, name string) (*Template, error) {
	order, err := s.GetOrder(businessID, orderID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = fmt.Sprintf("From %s", order.OrderNumber)
	}

	req := &TemplateRequest{
		Name:     name,
		VendorID: order.VendorID,
		Notes:    order.Notes,
	}
	for _, line := range order.Items {
		req.Items = append(req.Items, OrderLineInput{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("purchase order has no lines")
	}

	return s.CreateTemplate(businessID, userID, req)
}
