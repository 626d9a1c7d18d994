package calc

import (
	"taxreturn/internal/model"
	"taxreturn/pkg/money"

	"github.com/shopspring/decimal"
)

// EmploymentOutput holds the employment rows, each rounded to cents.
type EmploymentOutput struct {
	Income           decimal.Decimal // r36
	Insurance        decimal.Decimal // r37
	Base             decimal.Decimal // r38 = max(0, r36 - r37)
	Prepayments      decimal.Decimal // r131, reconciled by the aggregator
	PensionAllowance decimal.Decimal // r75
}

// Employment maps the employment section to its rows. A disabled section yields zeros.
func Employment(in model.Employment, p Params) EmploymentOutput {
	if !in.Enabled {
		return EmploymentOutput{}
	}

	income := money.Round2(money.Amount(in.GrossIncome))
	insurance := money.Round2(money.Amount(in.InsuranceDeduction))

	return EmploymentOutput{
		Income:           income,
		Insurance:        insurance,
		Base:             money.SubClamp(income, insurance),
		Prepayments:      money.Round2(money.Amount(in.Prepayments)),
		PensionAllowance: PensionAllowance(in.PensionSavings, p),
	}
}

// PensionAllowance is the supplementary pension-savings relief: the eligible contribution up
// to the yearly cap.
func PensionAllowance(in model.PensionSavings, p Params) decimal.Decimal {
	if !in.Enabled {
		return money.Zero
	}
	return money.Round2(money.Cap(money.Amount(in.Contribution), p.PensionCap))
}
