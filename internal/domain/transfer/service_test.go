package transfer

import (
	"errors"
	"testing"

	"github.com/sylo-hq/sylo-backend/internal/domain/user"
)

func TestCreateTransferRejectsSameBranch(t *testing.T) {
	s := &Service{}
	req := &CreateTransferRequest{ToBranchID: 3}

	if _, err := s.CreateTransfer(1, 3, 1, req); err == nil {
		t.Fatal("transfer to the source branch should be rejected")
	}
}

func TestReceiveGuard(t *testing.T) {
	pending := &InventoryTransfer{FromBranchID: 1, ToBranchID: 2, Status: StatusPending}

	if err := receiveGuard(pending, 2); err != nil {
		t.Fatalf("receiving branch should be allowed: %v", err)
	}

	// The sending branch may not receive its own shipment.
	if err := receiveGuard(pending, 1); !errors.Is(err, ErrWrongBranch) {
		t.Fatalf("expected ErrWrongBranch for the sending branch, got %v", err)
	}

	done := &InventoryTransfer{FromBranchID: 1, ToBranchID: 2, Status: StatusReceived}
	if err := receiveGuard(done, 2); err == nil || errors.Is(err, ErrWrongBranch) {
		t.Fatalf("expected a status error for a received transfer, got %v", err)
	}
}

func TestCancelGuard(t *testing.T) {
	pending := &InventoryTransfer{FromBranchID: 1, ToBranchID: 2, Status: StatusPending}

	if err := cancelGuard(pending, 1); err != nil {
		t.Fatalf("sending branch should be allowed: %v", err)
	}

	// The receiving branch may not cancel the shipment.
	if err := cancelGuard(pending, 2); !errors.Is(err, ErrWrongBranch) {
		t.Fatalf("expected ErrWrongBranch for the receiving branch, got %v", err)
	}

	cancelled := &InventoryTransfer{FromBranchID: 1, ToBranchID: 2, Status: StatusCancelled}
	if err := cancelGuard(cancelled, 1); err == nil || errors.Is(err, ErrWrongBranch) {
		t.Fatalf("expected a status error for a cancelled transfer, got %v", err)
	}
}

func TestCrossBusinessGuard(t *testing.T) {
	owned := []user.Business{{ID: 1}, {ID: 4}}

	owner := &user.BusinessUser{Role: user.RoleOwner, Username: "owner"}
	if err := crossBusinessGuard(owner, owned, 4); err != nil {
		t.Fatalf("owner shipping into an owned business should pass: %v", err)
	}
	if err := crossBusinessGuard(owner, owned, 9); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a business the owner does not own, got %v", err)
	}

	manager := &user.BusinessUser{Role: user.RoleManager}
	if err := crossBusinessGuard(manager, nil, 4); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a non-owner, got %v", err)
	}
}
