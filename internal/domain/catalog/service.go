// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	stock  *stock.Service
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config, stockService *stock.Service) *Service {
	return &Service{
		db:     db,
		config: cfg,
		stock:  stockService,
	}
}

// ComponentInput is one recipe line on a composite item
type ComponentInput struct {
	ComponentItemID uint            `json:"component_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateItemRequest represents item creation data
type CreateItemRequest struct {
	CategoryID    *uint            `json:"category_id"`
	Name          string           `json:"name" binding:"required"`
	NameAr        string           `json:"name_ar"`
	ItemType      ItemType         `json:"item_type"`
	Unit          string           `json:"unit" binding:"required"`
	StorageUnit   string           `json:"storage_unit"`
	SKU           string           `json:"sku"`
	CostPerUnit   decimal.Decimal  `json:"cost_per_unit"`
	DefaultPrice  decimal.Decimal  `json:"default_price"`
	BusinessPrice *decimal.Decimal `json:"business_price"`
	IsComposite   bool             `json:"is_composite"`
	BatchQuantity decimal.Decimal  `json:"batch_quantity"`
	BatchUnit     string           `json:"batch_unit"`
	Components    []ComponentInput `json:"components"`
}

// UpdateItemRequest represents item update data
type UpdateItemRequest struct {
	CategoryID         *uint            `json:"category_id"`
	Name               *string          `json:"name"`
	NameAr             *string          `json:"name_ar"`
	Unit               *string          `json:"unit"`
	StorageUnit        *string          `json:"storage_unit"`
	SKU                *string          `json:"sku"`
	CostPerUnit        *decimal.Decimal `json:"cost_per_unit"`
	DefaultPrice       *decimal.Decimal `json:"default_price"`
	BusinessPrice      *decimal.Decimal `json:"business_price"`
	ClearBusinessPrice bool             `json:"clear_business_price"`
	BatchQuantity      *decimal.Decimal `json:"batch_quantity"`
	BatchUnit          *string          `json:"batch_unit"`
	Status             *ItemStatus      `json:"status"`
	Components         []ComponentInput `json:"components"`
}

// ItemListRequest represents item list query parameters
type ItemListRequest struct {
	CategoryID uint       `form:"category_id"`
	ItemType   ItemType   `form:"item_type"`
	Status     ItemStatus `form:"status"`
	Search     string     `form:"search"`
}

// GetItems lists non-composite items of a business
func (s *Service) GetItems(businessID uint, req *ItemListRequest) ([]Item, error) {
	query := s.db.Preload("Category").
		Where("business_id = ? AND is_composite = ?", businessID, false)

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.ItemType != "" {
		query = query.Where("item_type = ?", req.ItemType)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		query = query.Where("name ILIKE ? OR name_ar ILIKE ? OR sku ILIKE ?", pattern, pattern, pattern)
	}

	var items []Item
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve items: %w", err)
	}
	return items, nil
}

// GetItem retrieves a single item, with components when composite
func (s *Service) GetItem(businessID, itemID uint) (*Item, error) {
	var item Item
	err := s.db.Preload("Category").
		Preload("Components.ComponentItem").
		Where("business_id = ? AND id = ?", businessID, itemID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item not found")
		}
		return nil, fmt.Errorf("failed to retrieve item: %w", err)
	}
	return &item, nil
}

// GetCompositeItems lists composite items with components expanded in one
// query, so callers never fetch component lists item by item.
func (s *Service) GetCompositeItems(businessID uint) ([]Item, error) {
	var items []Item
	err := s.db.Preload("Category").
		Preload("Components.ComponentItem").
		Where("business_id = ? AND is_composite = ?", businessID, true).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve composite items: %w", err)
	}
	return items, nil
}

// CreateItem creates a catalog item; composite items require a recipe and
// a positive per-batch yield.
func (s *Service) CreateItem(businessID uint, req *CreateItemRequest) (*Item, error) {
	if req.IsComposite {
		if len(req.Components) == 0 {
			return nil, fmt.Errorf("composite items require at least one component")
		}
		if req.BatchQuantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("composite items require a positive batch_quantity")
		}
	}

	itemType := req.ItemType
	if itemType == "" {
		itemType = ItemTypeRaw
	}
	if req.IsComposite {
		itemType = ItemTypeFinished
	}

	if req.SKU != "" {
		var existing Item
		if err := s.db.Where("business_id = ? AND sku = ?", businessID, req.SKU).First(&existing).Error; err == nil {
			return nil, fmt.Errorf("item with SKU '%s' already exists", req.SKU)
		}
	}

	item := &Item{
		BusinessID:    businessID,
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		NameAr:        req.NameAr,
		ItemType:      itemType,
		Unit:          req.Unit,
		StorageUnit:   req.StorageUnit,
		SKU:           req.SKU,
		CostPerUnit:   req.CostPerUnit,
		DefaultPrice:  req.DefaultPrice,
		BusinessPrice: req.BusinessPrice,
		IsComposite:   req.IsComposite,
		BatchQuantity: req.BatchQuantity,
		BatchUnit:     req.BatchUnit,
		Status:        ItemStatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		if req.IsComposite {
			return s.replaceComponents(tx, businessID, item.ID, req.Components)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetItem(businessID, item.ID)
}

// UpdateItem updates a catalog item and, for composites, its recipe
func (s *Service) UpdateItem(businessID, itemID uint, req *UpdateItemRequest) (*Item, error) {
	item, err := s.GetItem(businessID, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		updates["name"] = *req.Name
	}
	if req.NameAr != nil {
		updates["name_ar"] = *req.NameAr
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.StorageUnit != nil {
		updates["storage_unit"] = *req.StorageUnit
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.CostPerUnit != nil {
		updates["cost_per_unit"] = *req.CostPerUnit
	}
	if req.DefaultPrice != nil {
		updates["default_price"] = *req.DefaultPrice
	}
	if req.ClearBusinessPrice {
		updates["business_price"] = nil
	} else if req.BusinessPrice != nil {
		updates["business_price"] = *req.BusinessPrice
	}
	if req.BatchQuantity != nil {
		if item.IsComposite && req.BatchQuantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("composite items require a positive batch_quantity")
		}
		updates["batch_quantity"] = *req.BatchQuantity
	}
	if req.BatchUnit != nil {
		updates["batch_unit"] = *req.BatchUnit
	}
	if req.Status != nil {
		if *req.Status != ItemStatusActive && *req.Status != ItemStatusInactive {
			return nil, fmt.Errorf("invalid status: %s", *req.Status)
		}
		updates["status"] = *req.Status
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(item).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update item: %w", err)
			}
		}
		if item.IsComposite && req.Components != nil {
			if len(req.Components) == 0 {
				return fmt.Errorf("composite items require at least one component")
			}
			return s.replaceComponents(tx, businessID, item.ID, req.Components)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetItem(businessID, itemID)
}

// DeleteItem soft-deletes a catalog item. Items referenced as components
// of an active composite cannot be removed.
func (s *Service) DeleteItem(businessID, itemID uint) error {
	item, err := s.GetItem(businessID, itemID)
	if err != nil {
		return err
	}

	var usage int64
	err = s.db.Model(&ItemComponent{}).
		Joins("JOIN items ON items.id = item_components.composite_item_id").
		Where("item_components.component_item_id = ? AND items.deleted_at IS NULL", itemID).
		Count(&usage).Error
	if err != nil {
		return fmt.Errorf("failed to check component usage: %w", err)
	}
	if usage > 0 {
		return fmt.Errorf("item is used as a component of %d composite item(s)", usage)
	}

	if err := s.db.Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// GetCategories lists the categories of a business
func (s *Service) GetCategories(businessID uint) ([]Category, error) {
	var categories []Category
	if err := s.db.Where("business_id = ?", businessID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a category
func (s *Service) CreateCategory(businessID uint, name, nameAr string) (*Category, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	category := &Category{
		BusinessID: businessID,
		Name:       name,
		NameAr:     nameAr,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *Service) replaceComponents(tx *gorm.DB, businessID, compositeItemID uint, components []ComponentInput) error {
	seen := map[uint]bool{}
	for _, c := range components {
		if c.ComponentItemID == compositeItemID {
			return fmt.Errorf("a composite item cannot be its own component")
		}
		if seen[c.ComponentItemID] {
			return fmt.Errorf("duplicate component item %d", c.ComponentItemID)
		}
		seen[c.ComponentItemID] = true

		if c.Quantity.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("component quantities must be positive")
		}

		var component Item
		if err := tx.Where("business_id = ? AND id = ?", businessID, c.ComponentItemID).First(&component).Error; err != nil {
			return fmt.Errorf("component item %d not found", c.ComponentItemID)
		}
		if component.IsComposite {
			return fmt.Errorf("composite items cannot be nested as components")
		}
	}

	if err := tx.Where("composite_item_id = ?", compositeItemID).Delete(&ItemComponent{}).Error; err != nil {
		return fmt.Errorf("failed to clear existing components: %w", err)
	}

	for _, c := range components {
		row := ItemComponent{
			CompositeItemID: compositeItemID,
			ComponentItemID: c.ComponentItemID,
			Quantity:        c.Quantity,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to save component: %w", err)
		}
	}

	return nil
}
