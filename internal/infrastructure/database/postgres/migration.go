// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/sylo-hq/sylo-backend/internal/domain/catalog"
	"github.com/sylo-hq/sylo-backend/internal/domain/count"
	"github.com/sylo-hq/sylo-backend/internal/domain/purchase"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"github.com/sylo-hq/sylo-backend/internal/domain/transfer"
	"github.com/sylo-hq/sylo-backend/internal/domain/upload"
	"github.com/sylo-hq/sylo-backend/internal/domain/user"
	"github.com/sylo-hq/sylo-backend/internal/domain/vendor"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Dependency order: tenancy first, then catalog, then documents.
	models := []interface{}{
		&user.Business{},
		&user.Branch{},
		&user.BusinessUser{},

		&catalog.Category{},
		&catalog.Item{},
		&catalog.ItemComponent{},
		&catalog.Production{},

		&vendor.Vendor{},

		&purchase.PurchaseOrder{},
		&purchase.PurchaseOrderItem{},
		&purchase.Activity{},
		&purchase.Template{},
		&purchase.TemplateItem{},

		&upload.InvoiceImage{},

		&transfer.InventoryTransfer{},
		&transfer.TransferItem{},

		&stock.InventoryStock{},
		&stock.InventoryTransaction{},

		&count.InventoryCount{},
		&count.CountLine{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_branch_item ON inventory_transactions(branch_id, item_id)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_branch_created ON inventory_transactions(branch_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_type ON inventory_transactions(transaction_type)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_branch_status ON purchase_orders(branch_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_po_activities_po_created ON purchase_order_activities(purchase_order_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transfers_from_branch ON inventory_transfers(from_branch_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_transfers_to_branch ON inventory_transfers(to_branch_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_items_business_composite ON items(business_id, is_composite)",
		"CREATE INDEX IF NOT EXISTS idx_productions_branch_date ON productions(branch_id, production_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_counts_branch_status ON inventory_counts(branch_id, status)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("Database indexes created successfully")
	return nil
}

// SeedInitialData seeds a demo business for development environments
func (m *Migration) SeedInitialData() error {
	log.Println("Seeding initial data...")

	var businessCount int64
	if err := m.db.Model(&user.Business{}).Count(&businessCount).Error; err != nil {
		return fmt.Errorf("failed to check businesses: %w", err)
	}
	if businessCount > 0 {
		log.Println("Seed data already present, skipping")
		return nil
	}

	business := &user.Business{
		Name:     "Demo Restaurant",
		MaxUsers: 10,
	}
	if err := m.db.Create(business).Error; err != nil {
		return fmt.Errorf("failed to seed business: %w", err)
	}

	branches := []user.Branch{
		{BusinessID: business.ID, Name: "Main Branch", Code: "MAIN", IsMain: true},
		{BusinessID: business.ID, Name: "Downtown", Code: "DT01"},
	}
	for i := range branches {
		if err := m.db.Create(&branches[i]).Error; err != nil {
			return fmt.Errorf("failed to seed branch: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Owner@12345"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	owner := &user.BusinessUser{
		BusinessID: business.ID,
		Username:   "owner",
		Password:   string(hash),
		Role:       user.RoleOwner,
		Status:     user.StatusActive,
		FullName:   "Demo Owner",
	}
	if err := m.db.Create(owner).Error; err != nil {
		return fmt.Errorf("failed to seed owner: %w", err)
	}
	if err := m.db.Model(business).Update("owner_id", owner.ID).Error; err != nil {
		return fmt.Errorf("failed to link owner: %w", err)
	}

	log.Println("Initial data seeded successfully")
	return nil
}
