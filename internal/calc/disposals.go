package calc

import (
	"taxreturn/internal/model"
	"taxreturn/pkg/money"

	"github.com/shopspring/decimal"
)

// DisposalGain is the gain of one disposal, floored at zero. A loss on one entry never
// offsets a gain on another.
func DisposalGain(e model.DisposalEntry) decimal.Decimal {
	return money.SubClamp(money.Amount(e.SaleAmount), money.Amount(e.PurchaseAmount))
}

// Disposals is the taxable base of one asset class: the sum of per-entry floored gains.
// Mutual funds and stock sales are computed independently with the same rule.
func Disposals(in model.Disposals) decimal.Decimal {
	if !in.Enabled {
		return money.Zero
	}
	gains := make([]decimal.Decimal, 0, len(in.Entries))
	for _, e := range in.Entries {
		gains = append(gains, DisposalGain(e))
	}
	return money.Round2(money.Sum(gains))
}

// HasLoss reports whether any entry was sold below its purchase amount.
func HasLoss(in model.Disposals) bool {
	for _, e := range in.Entries {
		if money.Amount(e.SaleAmount).LessThan(money.Amount(e.PurchaseAmount)) {
			return true
		}
	}
	return false
}
