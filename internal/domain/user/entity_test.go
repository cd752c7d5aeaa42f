package user

import "testing"

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleOwner, RoleManager, RoleEmployee, RolePOS} {
		if !ValidRole(r) {
			t.Errorf("%s should be a valid role", r)
		}
	}
	if ValidRole("admin") {
		t.Error("unknown role should be invalid")
	}
	if ValidRole("") {
		t.Error("empty role should be invalid")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusInactive, StatusSuspended} {
		if !ValidStatus(s) {
			t.Errorf("%s should be a valid status", s)
		}
	}
	if ValidStatus("banned") {
		t.Error("unknown status should be invalid")
	}
}

func TestRolePermissions(t *testing.T) {
	cases := []struct {
		role      Role
		owner     bool
		canManage bool
	}{
		{RoleOwner, true, true},
		{RoleManager, false, true},
		{RoleEmployee, false, false},
		{RolePOS, false, false},
	}
	for _, tc := range cases {
		u := BusinessUser{Role: tc.role}
		if got := u.IsOwner(); got != tc.owner {
			t.Errorf("%s.IsOwner() expected %v, got %v", tc.role, tc.owner, got)
		}
		if got := u.CanManageUsers(); got != tc.canManage {
			t.Errorf("%s.CanManageUsers() expected %v, got %v", tc.role, tc.canManage, got)
		}
	}
}

func TestBusinessUserIsActive(t *testing.T) {
	u := BusinessUser{Status: StatusActive}
	if !u.IsActive() {
		t.Error("active user should report active")
	}
	for _, s := range []Status{StatusInactive, StatusSuspended} {
		u.Status = s
		if u.IsActive() {
			t.Errorf("%s user should not report active", s)
		}
	}
}
