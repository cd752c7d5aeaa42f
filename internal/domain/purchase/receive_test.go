package purchase

import (
	"testing"

	"github.com/shopspring/decimal"
)

func orderLines(quantities ...string) map[uint]*PurchaseOrderItem {
	byID := map[uint]*PurchaseOrderItem{}
	for i, q := range quantities {
		id := uint(i + 1)
		byID[id] = &PurchaseOrderItem{
			ID:       id,
			Quantity: decimal.RequireFromString(q),
		}
	}
	return byID
}

func line(id uint, qty, cost string) ReceiveLineInput {
	return ReceiveLineInput{
		OrderItemID:      id,
		ReceivedQuantity: decimal.RequireFromString(qty),
		TotalCost:        decimal.RequireFromString(cost),
	}
}

func TestValidateReceiveLines_FullReceipt(t *testing.T) {
	byID := orderLines("10", "5")
	req := &ReceiveRequest{Lines: []ReceiveLineInput{
		line(1, "10", "80.00"),
		line(2, "5", "25.00"),
	}}

	received, outstanding, err := validateReceiveLines(req, byID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("expected 2 received lines, got %d", len(received))
	}
	if outstanding != 0 {
		t.Fatalf("expected no outstanding lines, got %d", outstanding)
	}
}

func TestValidateReceiveLines_ShortageNeedsReason(t *testing.T) {
	byID := orderLines("10")
	req := &ReceiveRequest{Lines: []ReceiveLineInput{
		line(1, "7", "56.00"),
	}}

	if _, _, err := validateReceiveLines(req, byID); err == nil {
		t.Fatal("expected error for shortage without variance_reason")
	}

	req.Lines[0].VarianceReason = VarianceMissing
	if _, _, err := validateReceiveLines(req, byID); err != nil {
		t.Fatalf("shortage with variance_reason should pass: %v", err)
	}
}

func TestValidateReceiveLines_PartialSkipsShortageReason(t *testing.T) {
	byID := orderLines("10", "5")
	req := &ReceiveRequest{
		Partial: true,
		Lines: []ReceiveLineInput{
			line(1, "7", "56.00"),
		},
	}

	received, outstanding, err := validateReceiveLines(req, byID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected 1 received line, got %d", len(received))
	}
	// Line 2 was not submitted and stays fully outstanding.
	if outstanding != 1 {
		t.Fatalf("expected 1 outstanding line, got %d", outstanding)
	}
}

func TestValidateReceiveLines_OverReceiptNeedsNote(t *testing.T) {
	byID := orderLines("10")
	req := &ReceiveRequest{Lines: []ReceiveLineInput{
		line(1, "12", "96.00"),
	}}

	if _, _, err := validateReceiveLines(req, byID); err == nil {
		t.Fatal("expected error for over-receipt without variance_note")
	}

	req.Lines[0].VarianceNote = "vendor added extra case"
	if _, _, err := validateReceiveLines(req, byID); err != nil {
		t.Fatalf("over-receipt with variance_note should pass: %v", err)
	}
}

func TestValidateReceiveLines_ZeroQuantity(t *testing.T) {
	byID := orderLines("10")

	// Non-partial: a fully short line needs a variance reason and is recorded.
	req := &ReceiveRequest{Lines: []ReceiveLineInput{
		{OrderItemID: 1, VarianceReason: VarianceCanceled},
	}}
	received, outstanding, err := validateReceiveLines(req, byID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received) != 1 || outstanding != 0 {
		t.Fatalf("expected zero line recorded, got received=%d outstanding=%d", len(received), outstanding)
	}

	// Partial: the same line counts as outstanding instead.
	req = &ReceiveRequest{Partial: true, Lines: []ReceiveLineInput{
		{OrderItemID: 1},
	}}
	received, outstanding, err = validateReceiveLines(req, byID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received) != 0 || outstanding != 1 {
		t.Fatalf("expected outstanding line, got received=%d outstanding=%d", len(received), outstanding)
	}
}

func TestValidateReceiveLines_Rejections(t *testing.T) {
	byID := orderLines("10")

	cases := []struct {
		name string
		req  *ReceiveRequest
	}{
		{"unknown line", &ReceiveRequest{Lines: []ReceiveLineInput{line(99, "5", "10.00")}}},
		{"duplicate line", &ReceiveRequest{Lines: []ReceiveLineInput{
			line(1, "5", "10.00"),
			line(1, "5", "10.00"),
		}}},
		{"negative quantity", &ReceiveRequest{Lines: []ReceiveLineInput{line(1, "-1", "10.00")}}},
		{"zero cost with goods", &ReceiveRequest{Lines: []ReceiveLineInput{line(1, "10", "0")}}},
	}
	for _, tc := range cases {
		if _, _, err := validateReceiveLines(tc.req, byID); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestUnitCostFromInvoiceTotal(t *testing.T) {
	// Unit cost is derived from the invoiced line total, exactly.
	total := decimal.RequireFromString("80.00")
	qty := decimal.RequireFromString("8")
	if got := total.Div(qty); !got.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected unit cost 10, got %s", got)
	}

	total = decimal.RequireFromString("10.00")
	qty = decimal.RequireFromString("3")
	unitCost := total.Div(qty)
	back := unitCost.Mul(qty).Round(2)
	if !back.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected cost to round-trip to 10.00, got %s", back)
	}
}
