package calc

import (
	"taxreturn/internal/model"
	"taxreturn/pkg/money"

	"github.com/shopspring/decimal"
)

// BasicAllowance is the taxpayer's own non-taxable amount. Above the threshold it phases out as
// PhaseOutBase - employmentBase/4, never below zero.
func BasicAllowance(employmentBase decimal.Decimal, p Params) decimal.Decimal {
	if !employmentBase.GreaterThan(p.BasicAllowanceThreshold) {
		return p.BasicAllowance
	}
	return money.Round2(money.SubClamp(p.BasicAllowancePhaseOutBase, money.DivInt(employmentBase, 4)))
}

// SpouseAllowance is the non-taxable amount for a spouse with little or no own income,
// proportional to the months the spouse was supported.
func SpouseAllowance(in model.Spouse, employmentBase decimal.Decimal, p Params) decimal.Decimal {
	if !in.Enabled {
		return money.Zero
	}

	spouseIncome := money.Amount(in.Income)
	var full decimal.Decimal
	if !employmentBase.GreaterThan(p.SpouseAllowanceThreshold) {
		full = money.SubClamp(p.SpouseAllowance, spouseIncome)
	} else {
		full = money.SubClamp(money.SubClamp(p.SpouseAllowancePhaseOutBase, money.DivInt(employmentBase, 4)), spouseIncome)
	}

	return money.Round2(money.Fraction(full, int64(SupportedMonths(in)), 12))
}

// SupportedMonths reads months outside 1-12 as a whole year.
func SupportedMonths(in model.Spouse) int {
	if in.MonthsSupported < 1 || in.MonthsSupported > 12 {
		return 12
	}
	return in.MonthsSupported
}
