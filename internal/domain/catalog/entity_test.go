package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeEffectivePrice(t *testing.T) {
	item := Item{DefaultPrice: decimal.RequireFromString("4.50")}
	if got := item.ComputeEffectivePrice(); !got.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("expected default price, got %s", got)
	}

	override := decimal.RequireFromString("3.75")
	item.BusinessPrice = &override
	if got := item.ComputeEffectivePrice(); !got.Equal(override) {
		t.Fatalf("expected business price override, got %s", got)
	}

	// An explicit zero override still wins over the default.
	zero := decimal.Zero
	item.BusinessPrice = &zero
	if got := item.ComputeEffectivePrice(); !got.IsZero() {
		t.Fatalf("expected zero override, got %s", got)
	}
}

func TestYieldFor(t *testing.T) {
	item := Item{BatchQuantity: decimal.RequireFromString("2.5")}

	cases := []struct {
		batches  int
		expected string
	}{
		{1, "2.5"},
		{4, "10"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := item.YieldFor(tc.batches); !got.Equal(decimal.RequireFromString(tc.expected)) {
			t.Errorf("YieldFor(%d) expected %s, got %s", tc.batches, tc.expected, got)
		}
	}
}

func TestProductionRecordFromRun(t *testing.T) {
	item := Item{
		IsComposite:   true,
		BatchQuantity: decimal.RequireFromString("2.5"),
		BatchUnit:     "kg",
	}

	p := Production{
		CompositeItemID: 7,
		BatchCount:      3,
		TotalYield:      item.YieldFor(3),
		YieldUnit:       item.BatchUnit,
	}

	if p.CompositeItemID != 7 {
		t.Fatalf("expected composite item 7, got %d", p.CompositeItemID)
	}
	if !p.TotalYield.Equal(decimal.RequireFromString("7.5")) {
		t.Fatalf("expected total yield 7.5, got %s", p.TotalYield)
	}
	if p.YieldUnit != "kg" {
		t.Fatalf("expected yield unit kg, got %s", p.YieldUnit)
	}
}

func TestItemIsActive(t *testing.T) {
	item := Item{Status: ItemStatusActive}
	if !item.IsActive() {
		t.Error("active item should report active")
	}
	item.Status = ItemStatusInactive
	if item.IsActive() {
		t.Error("inactive item should not report active")
	}
}
