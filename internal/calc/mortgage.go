package calc

import (
	"strings"
	"time"

	"taxreturn/internal/model"
	"taxreturn/pkg/money"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{dateLayout, "2.1.2006", "02.01.2006"}

// ParseDate accepts ISO dates and the dotted day.month.year form used on Slovak documents.
func ParseDate(s string) (time.Time, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type MortgageOutput struct {
	Bonus decimal.Decimal // r123
	Cap   decimal.Decimal
	// Capped reports that the statutory ceiling, not the interest, determined the bonus.
	Capped bool
}

// MortgageCap selects the ceiling by contract-signing date: on or before the cutover the lower
// cap, strictly after it the higher one. An unreadable date falls back to the lower cap.
func MortgageCap(contractDate string, p Params) decimal.Decimal {
	signed, ok := ParseDate(contractDate)
	if !ok || !signed.After(p.MortgageCutover) {
		return p.MortgageLowerCap
	}
	return p.MortgageHigherCap
}

// Mortgage computes the interest bonus: rate x interest paid, limited by the date-selected cap.
// Months serviced only shrink the cap when proration is switched on in the parameters.
// A missing attestation does not suppress the bonus.
func Mortgage(in model.Mortgage, p Params) MortgageOutput {
	if !in.Enabled {
		return MortgageOutput{}
	}

	ceiling := MortgageCap(in.ContractDate, p)
	if p.MortgageProrate && in.MonthsServiced > 0 && in.MonthsServiced < 12 {
		ceiling = money.Round2(money.Fraction(ceiling, int64(in.MonthsServiced), 12))
	}

	full := money.Round2(money.Rate(money.Amount(in.InterestPaid), p.MortgageRate))
	bonus := money.Cap(full, ceiling)

	return MortgageOutput{
		Bonus:  bonus,
		Cap:    ceiling,
		Capped: full.GreaterThan(ceiling),
	}
}
