// internal/domain/transfer/service.go
package transfer

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/catalog"
	"github.com/sylo-hq/sylo-backend/internal/domain/stock"
	"github.com/sylo-hq/sylo-backend/internal/domain/user"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a transfer is not visible to the branch
	ErrNotFound = errors.New("transfer not found")
	// ErrWrongBranch is returned when a branch acts on a transfer it does not own
	ErrWrongBranch = errors.New("transfer does not belong to this branch")
	// ErrForbidden is returned when the caller may not ship to the destination
	ErrForbidden = errors.New("destination not allowed")
)

// Service handles inter-branch stock transfers
type Service struct {
	db     *gorm.DB
	config *config.Config
	stock  *stock.Service
	users  *user.Service
}

// NewService creates a new transfer service
func NewService(db *gorm.DB, cfg *config.Config, stockService *stock.Service, userService *user.Service) *Service {
	return &Service{
		db:     db,
		config: cfg,
		stock:  stockService,
		users:  userService,
	}
}

// TransferLineInput is one requested transfer line
type TransferLineInput struct {
	ItemID   uint            `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateTransferRequest represents transfer creation data. The source is
// always the caller's active branch.
type CreateTransferRequest struct {
	ToBusinessID uint                `json:"to_business_id"`
	ToBranchID   uint                `json:"to_branch_id" binding:"required"`
	Notes        string              `json:"notes"`
	Items        []TransferLineInput `json:"items" binding:"required,min=1"`
}

// Destination is one branch a transfer can be sent to
type Destination struct {
	BusinessID   uint   `json:"business_id"`
	BusinessName string `json:"business_name"`
	BranchID     uint   `json:"branch_id"`
	BranchName   string `json:"branch_name"`
}

// GetTransfers lists transfers touching the active branch
func (s *Service) GetTransfers(branchID uint, status Status) ([]InventoryTransfer, error) {
	query := s.db.Preload("Items").
		Where("from_branch_id = ? OR to_branch_id = ?", branchID, branchID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var transfers []InventoryTransfer
	if err := query.Order("created_at DESC").Find(&transfers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve transfers: %w", err)
	}
	return transfers, nil
}

// GetTransfer retrieves a transfer visible to the active branch
func (s *Service) GetTransfer(branchID, transferID uint) (*InventoryTransfer, error) {
	var t InventoryTransfer
	err := s.db.Preload("Items").
		Where("id = ? AND (from_branch_id = ? OR to_branch_id = ?)", transferID, branchID, branchID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve transfer: %w", err)
	}
	return &t, nil
}

// GetDestinations lists the branches the caller may transfer to. Owners see
// every branch of every business they own, everyone else sees their own
// business's branches.
func (s *Service) GetDestinations(actor *user.BusinessUser, activeBranchID uint) ([]Destination, error) {
	var businesses []user.Business
	if actor.IsOwner() {
		owned, err := s.users.BusinessesByOwner(actor.Username)
		if err != nil {
			return nil, err
		}
		businesses = owned
	} else {
		b, err := s.users.GetBusiness(actor.BusinessID)
		if err != nil {
			return nil, err
		}
		businesses = []user.Business{*b}
	}

	var destinations []Destination
	for _, b := range businesses {
		branches, err := s.users.GetBranches(b.ID)
		if err != nil {
			return nil, err
		}
		for _, br := range branches {
			if br.ID == activeBranchID {
				continue
			}
			destinations = append(destinations, Destination{
				BusinessID:   b.ID,
				BusinessName: b.Name,
				BranchID:     br.ID,
				BranchName:   br.Name,
			})
		}
	}
	return destinations, nil
}

// crossBusinessGuard gates transfers into another business: only an owner
// may ship across businesses, and only into a business they own.
func crossBusinessGuard(actor *user.BusinessUser, owned []user.Business, toBusinessID uint) error {
	if !actor.IsOwner() {
		return fmt.Errorf("%w: only owners may transfer to another business", ErrForbidden)
	}
	for _, b := range owned {
		if b.ID == toBusinessID {
			return nil
		}
	}
	return fmt.Errorf("%w: business %d is not owned by the caller", ErrForbidden, toBusinessID)
}

// CreateTransfer ships stock out of the active branch. The outbound ledger
// rows are posted immediately so the quantity cannot be spent twice while
// the transfer is pending.
func (s *Service) CreateTransfer(businessID, branchID, userID uint, req *CreateTransferRequest) (*InventoryTransfer, error) {
	if req.ToBranchID == branchID {
		return nil, fmt.Errorf("source and destination branch must differ")
	}

	toBusinessID := req.ToBusinessID
	if toBusinessID == 0 {
		toBusinessID = businessID
	}
	if toBusinessID != businessID {
		actor, err := s.users.GetUser(businessID, userID)
		if err != nil {
			return nil, err
		}
		owned, err := s.users.BusinessesByOwner(actor.Username)
		if err != nil {
			return nil, err
		}
		if err := crossBusinessGuard(actor, owned, toBusinessID); err != nil {
			return nil, err
		}
	}
	toBranch, err := s.users.GetBranch(toBusinessID, req.ToBranchID)
	if err != nil {
		return nil, fmt.Errorf("destination branch not found")
	}

	lines := make([]TransferItem, 0, len(req.Items))
	seen := map[uint]bool{}
	for _, in := range req.Items {
		if seen[in.ItemID] {
			return nil, fmt.Errorf("duplicate item %d on transfer", in.ItemID)
		}
		seen[in.ItemID] = true
		if in.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("line quantities must be positive")
		}

		var item catalog.Item
		if err := s.db.Where("business_id = ? AND id = ?", businessID, in.ItemID).First(&item).Error; err != nil {
			return nil, fmt.Errorf("item %d not found", in.ItemID)
		}
		lines = append(lines, TransferItem{
			ItemID:   in.ItemID,
			ItemName: item.Name,
			ItemUnit: item.Unit,
			Quantity: in.Quantity,
		})
	}

	t := &InventoryTransfer{
		FromBusinessID: businessID,
		FromBranchID:   branchID,
		ToBusinessID:   toBranch.BusinessID,
		ToBranchID:     toBranch.ID,
		TransferDate:   time.Now(),
		Status:         StatusPending,
		Notes:          req.Notes,
		CreatedBy:      userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		t.TransferNumber, err = s.generateTransferNumber(tx)
		if err != nil {
			return err
		}
		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("failed to create transfer: %w", err)
		}
		for i := range lines {
			lines[i].TransferID = t.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return fmt.Errorf("failed to create transfer line: %w", err)
			}
			_, err := s.stock.ApplyMovement(tx, &stock.MovementInput{
				BusinessID:    businessID,
				BranchID:      branchID,
				ItemID:        lines[i].ItemID,
				Type:          stock.TypeTransferOut,
				Quantity:      lines[i].Quantity,
				ReferenceType: "transfer",
				ReferenceID:   t.ID,
				Notes:         t.TransferNumber,
				CreatedBy:     userID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stock.InvalidateStats(businessID, branchID)
	return s.GetTransfer(branchID, t.ID)
}

// receiveGuard checks that the acting branch may receive the transfer
func receiveGuard(t *InventoryTransfer, branchID uint) error {
	if t.ToBranchID != branchID {
		return fmt.Errorf("%w: only the receiving branch may receive", ErrWrongBranch)
	}
	if t.Status != StatusPending {
		return fmt.Errorf("transfer in status '%s' cannot be received", t.Status)
	}
	return nil
}

// cancelGuard checks that the acting branch may cancel the transfer
func cancelGuard(t *InventoryTransfer, branchID uint) error {
	if t.FromBranchID != branchID {
		return fmt.Errorf("%w: only the sending branch may cancel", ErrWrongBranch)
	}
	if t.Status != StatusPending {
		return fmt.Errorf("transfer in status '%s' cannot be cancelled", t.Status)
	}
	return nil
}

// ReceiveTransfer books the shipped quantities into the receiving branch.
// Only that branch may receive, and only while the transfer is pending.
func (s *Service) ReceiveTransfer(branchID, userID, transferID uint) (*InventoryTransfer, error) {
	t, err := s.GetTransfer(branchID, transferID)
	if err != nil {
		return nil, err
	}
	if err := receiveGuard(t, branchID); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Flip the status first, conditional on it still being pending, so a
		// concurrent receive or cancel of the same transfer loses here
		// instead of double-posting stock.
		updates := map[string]interface{}{
			"status":      StatusReceived,
			"received_by": userID,
			"received_at": now,
		}
		res := tx.Model(&InventoryTransfer{}).
			Where("id = ? AND status = ?", t.ID, StatusPending).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update transfer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("transfer is no longer pending")
		}

		for _, line := range t.Items {
			_, err := s.stock.ApplyMovement(tx, &stock.MovementInput{
				BusinessID:    t.ToBusinessID,
				BranchID:      t.ToBranchID,
				ItemID:        line.ItemID,
				Type:          stock.TypeTransferIn,
				Quantity:      line.Quantity,
				ReferenceType: "transfer",
				ReferenceID:   t.ID,
				Notes:         t.TransferNumber,
				CreatedBy:     userID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stock.InvalidateStats(t.ToBusinessID, t.ToBranchID)
	return s.GetTransfer(branchID, t.ID)
}

// CancelTransfer returns the shipped quantities to the source branch. Only
// the sending branch may cancel, and only while the transfer is pending.
func (s *Service) CancelTransfer(branchID, userID, transferID uint) (*InventoryTransfer, error) {
	t, err := s.GetTransfer(branchID, transferID)
	if err != nil {
		return nil, err
	}
	if err := cancelGuard(t, branchID); err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_by": userID,
			"cancelled_at": now,
		}
		res := tx.Model(&InventoryTransfer{}).
			Where("id = ? AND status = ?", t.ID, StatusPending).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update transfer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("transfer is no longer pending")
		}

		for _, line := range t.Items {
			_, err := s.stock.ApplyMovement(tx, &stock.MovementInput{
				BusinessID:    t.FromBusinessID,
				BranchID:      t.FromBranchID,
				ItemID:        line.ItemID,
				Type:          stock.TypeTransferIn,
				Quantity:      line.Quantity,
				ReferenceType: "transfer_cancel",
				ReferenceID:   t.ID,
				Notes:         t.TransferNumber,
				CreatedBy:     userID,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stock.InvalidateStats(t.FromBusinessID, t.FromBranchID)
	return s.GetTransfer(branchID, t.ID)
}

// generateTransferNumber creates a unique number like TRF-20260115-00001
func (s *Service) generateTransferNumber(tx *gorm.DB) (string, error) {
	today := time.Now().Format("20060102")

	var count int64
	err := tx.Model(&InventoryTransfer{}).Unscoped().
		Where("transfer_number LIKE ?", fmt.Sprintf("TRF-%s-%%", today)).
		Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("failed to generate transfer number: %w", err)
	}

	return fmt.Sprintf("TRF-%s-%05d", today, count+1), nil
}
