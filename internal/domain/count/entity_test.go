package count

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCountLineCounted(t *testing.T) {
	line := CountLine{ExpectedQuantity: decimal.RequireFromString("10")}
	if line.Counted() {
		t.Error("line without a recorded quantity should not be counted")
	}

	zero := decimal.Zero
	line.CountedQuantity = &zero
	if !line.Counted() {
		t.Error("a recorded zero still counts the line")
	}
}
