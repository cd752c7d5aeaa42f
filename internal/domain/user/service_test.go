package user

import (
	"errors"
	"testing"
)

func TestDeleteGuard(t *testing.T) {
	owner := &BusinessUser{ID: 1, Role: RoleOwner}
	manager := &BusinessUser{ID: 2, Role: RoleManager}
	employee := &BusinessUser{ID: 3, Role: RoleEmployee}
	other := &BusinessUser{ID: 4, Role: RoleEmployee}

	// The owner account can never be deleted, whoever asks.
	if err := deleteGuard(manager, owner); !errors.Is(err, ErrOwnerImmutable) {
		t.Fatalf("expected ErrOwnerImmutable, got %v", err)
	}
	if err := deleteGuard(owner, owner); !errors.Is(err, ErrOwnerImmutable) {
		t.Fatalf("expected ErrOwnerImmutable for self-delete by owner, got %v", err)
	}

	if err := deleteGuard(employee, other); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a non-managing role, got %v", err)
	}

	if err := deleteGuard(manager, manager); err == nil {
		t.Fatal("expected error when deleting own account")
	}

	if err := deleteGuard(manager, other); err != nil {
		t.Fatalf("manager deleting an employee should pass: %v", err)
	}
	if err := deleteGuard(owner, employee); err != nil {
		t.Fatalf("owner deleting an employee should pass: %v", err)
	}
}
