package stock

import (
	"testing"

	"github.com/shopspring/decimal"
)

var allTypes = []TransactionType{
	TypeManualAddition,
	TypeManualDeduction,
	TypePOReceive,
	TypeOrderSale,
	TypeOrderCancelWaste,
	TypeOrderCancelReturn,
	TypeTransferIn,
	TypeTransferOut,
	TypeProductionConsume,
	TypeProductionYield,
	TypeCountAdjustment,
}

func TestTransactionTypeDirection(t *testing.T) {
	additions := map[TransactionType]bool{
		TypeManualAddition:    true,
		TypePOReceive:         true,
		TypeOrderCancelReturn: true,
		TypeTransferIn:        true,
		TypeProductionYield:   true,
	}
	deductions := map[TransactionType]bool{
		TypeManualDeduction:   true,
		TypeOrderSale:         true,
		TypeOrderCancelWaste:  true,
		TypeTransferOut:       true,
		TypeProductionConsume: true,
	}

	for _, tt := range allTypes {
		if got := tt.IsAddition(); got != additions[tt] {
			t.Errorf("%s.IsAddition() expected %v, got %v", tt, additions[tt], got)
		}
		if got := tt.IsDeduction(); got != deductions[tt] {
			t.Errorf("%s.IsDeduction() expected %v, got %v", tt, deductions[tt], got)
		}
		// A type is never both.
		if tt.IsAddition() && tt.IsDeduction() {
			t.Errorf("%s classified as both addition and deduction", tt)
		}
		if !tt.Valid() {
			t.Errorf("%s should be valid", tt)
		}
	}

	if TransactionType("teleport").Valid() {
		t.Error("unknown transaction type should be invalid")
	}
}

func TestValidDeductionReason(t *testing.T) {
	for _, r := range []DeductionReason{ReasonExpired, ReasonDamaged, ReasonSpoiled, ReasonOthers} {
		if !ValidDeductionReason(r) {
			t.Errorf("%s should be a valid deduction reason", r)
		}
	}
	if ValidDeductionReason("misplaced") {
		t.Error("unknown deduction reason should be invalid")
	}
}

func TestClassify(t *testing.T) {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	cases := []struct {
		name     string
		qty      string
		min      string
		max      string
		expected Level
	}{
		{"zero is out", "0", "5", "100", LevelOut},
		{"negative is out", "-2", "0", "0", LevelOut},
		{"at minimum is low", "5", "5", "100", LevelLow},
		{"under minimum is low", "3", "5", "100", LevelLow},
		{"between thresholds is healthy", "50", "5", "100", LevelHealthy},
		{"at maximum is overstocked", "100", "5", "100", LevelOverstocked},
		{"over maximum is overstocked", "120", "5", "100", LevelOverstocked},
		{"no thresholds is healthy", "1", "0", "0", LevelHealthy},
	}
	for _, tc := range cases {
		s := InventoryStock{
			Quantity:    d(tc.qty),
			MinQuantity: d(tc.min),
			MaxQuantity: d(tc.max),
		}
		if got := s.Classify(); got != tc.expected {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
	}
}
