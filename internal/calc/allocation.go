package calc

import (
	"taxreturn/internal/model"
	"taxreturn/pkg/money"

	"github.com/shopspring/decimal"
)

// ProgressiveTax applies the bracket schedule to base. Brackets must be ordered; a zero UpTo
// marks the open top band.
func ProgressiveTax(base decimal.Decimal, brackets []Bracket) decimal.Decimal {
	tax := money.Zero
	lower := money.Zero
	for _, b := range brackets {
		if !base.GreaterThan(lower) {
			break
		}
		upper := base
		if !b.UpTo.IsZero() {
			upper = money.Min(base, b.UpTo)
		}
		tax = tax.Add(money.Rate(money.SubClamp(upper, lower), b.Rate))
		if b.UpTo.IsZero() {
			break
		}
		lower = b.UpTo
	}
	return money.Round2(tax)
}

// AllocationRate is 2 %, or 3 % when the volunteering condition is claimed.
func AllocationRate(in model.TwoPercent, p Params) decimal.Decimal {
	if in.Volunteered {
		return p.VolunteerRate
	}
	return p.TwoPercentRate
}

// TwoPercent is the share of the tax left after bonuses (r124) assigned to the beneficiary. An
// amount under the statutory minimum cannot be assigned and becomes zero; the amount never
// exceeds that tax.
func TwoPercent(in model.TwoPercent, liability decimal.Decimal, p Params) decimal.Decimal {
	if !in.Enabled {
		return money.Zero
	}
	amount := money.Round2(money.Rate(liability, AllocationRate(in, p)))
	if amount.LessThan(p.AllocationMinimum) {
		return money.Zero
	}
	return money.Cap(amount, liability)
}

// ParentAllocations returns the shares of r124 assigned to the mother and the father, each
// capped by it.
func ParentAllocations(in model.ParentAllocation, liability decimal.Decimal, p Params) (decimal.Decimal, decimal.Decimal) {
	if !in.Enabled {
		return money.Zero, money.Zero
	}
	share := money.Cap(money.Round2(money.Rate(liability, p.ParentRate)), liability)

	mother, father := money.Zero, money.Zero
	if in.Mother.Selected {
		mother = share
	}
	if in.Father.Selected {
		father = share
	}
	return mother, father
}
