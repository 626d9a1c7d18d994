package calc

import (
	"taxreturn/internal/model"
	"taxreturn/pkg/money"

	"github.com/shopspring/decimal"
)

type DividendOutput struct {
	Income   decimal.Decimal // r106, sum of entry EUR amounts
	Tax      decimal.Decimal // r107
	Withheld decimal.Decimal // r108, sum of entry EUR withholding
	Credit   decimal.Decimal // r109, withholding credited against r107
}

// Dividends sums the EUR fields fixed at entry creation. No conversion happens here.
// The withholding credit is limited to the domestic dividend tax in aggregate.
func Dividends(in model.Dividends, p Params) DividendOutput {
	if !in.Enabled {
		return DividendOutput{}
	}

	income, withheld := money.Zero, money.Zero
	for _, e := range in.Entries {
		income = income.Add(money.Amount(e.AmountEur))
		withheld = withheld.Add(money.Amount(e.WithheldTaxEur))
	}
	income = money.Round2(income)
	withheld = money.Round2(withheld)
	tax := money.Round2(money.Rate(income, p.DividendRate))

	return DividendOutput{
		Income:   income,
		Tax:      tax,
		Withheld: withheld,
		Credit:   money.Min(withheld, tax),
	}
}
