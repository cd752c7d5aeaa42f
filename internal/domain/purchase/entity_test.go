package purchase

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusPending, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusApproved, false},
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusOrdered, false},
		{StatusApproved, StatusOrdered, true},
		{StatusApproved, StatusCancelled, true},
		{StatusOrdered, StatusPartial, true},
		{StatusOrdered, StatusReceived, true},
		{StatusPartial, StatusReceived, true},
		{StatusPartial, StatusCancelled, false},
		{StatusReceived, StatusCancelled, false},
		{StatusCancelled, StatusDraft, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	if got := NormalizeStatus("delivered"); got != StatusReceived {
		t.Fatalf("delivered should normalize to %s, got %s", StatusReceived, got)
	}
	if got := NormalizeStatus(StatusOrdered); got != StatusOrdered {
		t.Fatalf("ordered should pass through, got %s", got)
	}
}

func TestStatusReceivable(t *testing.T) {
	receivable := map[Status]bool{
		StatusDraft:     false,
		StatusPending:   false,
		StatusApproved:  true,
		StatusOrdered:   true,
		StatusPartial:   true,
		StatusReceived:  false,
		StatusCancelled: false,
	}
	for s, want := range receivable {
		if got := s.Receivable(); got != want {
			t.Errorf("%s.Receivable() expected %v, got %v", s, want, got)
		}
	}
}

func TestStatusEditable(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusPending} {
		if !s.Editable() {
			t.Errorf("%s should be editable", s)
		}
	}
	for _, s := range []Status{StatusApproved, StatusOrdered, StatusPartial, StatusReceived, StatusCancelled} {
		if s.Editable() {
			t.Errorf("%s should not be editable", s)
		}
	}
}

func TestTemplateCarriesLocalizedName(t *testing.T) {
	tpl := Template{Name: "Weekly produce", NameAr: "منتجات أسبوعية"}
	if tpl.NameAr == "" {
		t.Fatal("template should carry the localized name")
	}
}

func TestValidVarianceReason(t *testing.T) {
	for _, r := range []VarianceReason{VarianceMissing, VarianceCanceled, VarianceRejected} {
		if !ValidVarianceReason(r) {
			t.Errorf("%s should be a valid variance reason", r)
		}
	}
	if ValidVarianceReason("") {
		t.Error("empty variance reason should be invalid")
	}
	if ValidVarianceReason("lost") {
		t.Error("unknown variance reason should be invalid")
	}
}
