package calc

import (
	"time"

	"taxreturn/internal/model"
	"taxreturn/pkg/money"

	"github.com/shopspring/decimal"
)

type ChildBonusOutput struct {
	Total    decimal.Decimal // r118
	Taxpayer decimal.Decimal // r117
	Spouse   decimal.Decimal // r119
	// Eligible is false when the employment base is below the statutory minimum.
	Eligible  bool
	Reduction decimal.Decimal
}

// ChildBonus computes the full bonus for all qualifying children. The employment base (r38)
// decides eligibility and drives the phase-out. Taxpayer and Spouse are left for
// SplitChildBonus, which decides who claims which share.
func ChildBonus(in model.ChildBonus, taxYear int, employmentBase decimal.Decimal, p Params) ChildBonusOutput {
	if !in.Enabled || len(in.Children) == 0 {
		return ChildBonusOutput{}
	}
	if employmentBase.LessThan(p.ChildMinimumIncome) {
		return ChildBonusOutput{}
	}

	gross := money.Zero
	for _, child := range in.Children {
		gross = gross.Add(childAmount(child, taxYear, p))
	}

	reduction := money.Round2(money.Rate(money.SubClamp(employmentBase, p.ChildPhaseOutCeil), p.ChildPhaseOutRate))
	return ChildBonusOutput{
		Total:     money.Round2(money.SubClamp(gross, reduction)),
		Eligible:  true,
		Reduction: reduction,
	}
}

// childAmount sums the monthly amounts of one child. The age band is taken on the first day
// of each month; a month counts once the child is born by its last day.
func childAmount(child model.Child, taxYear int, p Params) decimal.Decimal {
	born, ok := ParseDate(child.BirthDate)
	if !ok {
		return money.Zero
	}

	total := money.Zero
	for _, m := range ClaimedMonths(child) {
		first := time.Date(taxYear, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		if born.After(last) {
			continue
		}
		age := ageOn(born, first)
		switch {
		case age >= p.ChildMaxAge:
		case age >= p.ChildAgeBand:
			total = total.Add(p.ChildBonusOlder)
		default:
			total = total.Add(p.ChildBonusYoung)
		}
	}
	return total
}

// ClaimedMonths normalizes a child's month list: empty means the whole year, values outside
// 1-12 and duplicates are dropped.
func ClaimedMonths(child model.Child) []int {
	if len(child.Months) == 0 {
		return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	}
	seen := make(map[int]bool, 12)
	months := make([]int, 0, len(child.Months))
	for m := 1; m <= 12; m++ {
		for _, claimed := range child.Months {
			if claimed == m && !seen[m] {
				seen[m] = true
				months = append(months, m)
			}
		}
	}
	return months
}

func ageOn(born, at time.Time) int {
	if at.Before(born) {
		return -1
	}
	years := at.Year() - born.Year()
	if at.Month() < born.Month() || (at.Month() == born.Month() && at.Day() < born.Day()) {
		years--
	}
	return years
}

// SplitChildBonus divides the total between the parents. The designated share applies only
// when the spouse is recorded and also claims the bonus; otherwise the taxpayer keeps it all.
// The spouse share is the remainder, so the two always add up to the total.
func SplitChildBonus(total decimal.Decimal, in model.ChildBonus, spouse model.Spouse) (decimal.Decimal, decimal.Decimal) {
	if !spouse.Enabled || !spouse.ClaimsChildBonus || money.IsBlank(in.TaxpayerSharePercent) {
		return total, money.Zero
	}
	share := money.Min(money.Amount(in.TaxpayerSharePercent), money.Int(100))
	taxpayer := money.Round2(money.Percent(total, share))
	return taxpayer, money.SubClamp(total, taxpayer)
}
