// Package money is the decimal arithmetic layer shared by every tax calculator.
//
// Amounts travel as text because the form is edited incrementally; anything that does not
// parse is treated as zero instead of failing. All rounding is round-half-up to whole cents.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places of every row value on the filing.
const Places = 2

var (
	Zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

// Parse converts decimal-as-text into a Decimal. Blank or malformed text yields zero.
// Both "." and "," are accepted as the decimal separator and spaces are ignored,
// so "1 250,50" parses as 1250.50.
func Parse(text string) decimal.Decimal {
	s := normalize(text)
	if s == "" {
		return Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero
	}
	return d
}

// Amount parses a monetary field. Negative values are out of range for a money field and
// are normalized to zero like any other malformed input.
func Amount(text string) decimal.Decimal {
	return ClampZero(Parse(text))
}

// IsBlankOrZero reports whether a field carries no usable amount.
func IsBlankOrZero(text string) bool {
	return Amount(text).IsZero()
}

// IsBlank reports whether nothing has been typed into a field yet.
func IsBlank(text string) bool {
	return normalize(text) == ""
}

func normalize(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "\t", "").Replace(s)
	return strings.ReplaceAll(s, ",", ".")
}

// Add sums any number of values.
func Add(values ...decimal.Decimal) decimal.Decimal {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Sub returns a - b. The result may be negative; use SubClamp for quantities that cannot be.
func Sub(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b)
}

// Neg returns -v.
func Neg(v decimal.Decimal) decimal.Decimal {
	return v.Neg()
}

// SubClamp returns max(0, a - b).
func SubClamp(a, b decimal.Decimal) decimal.Decimal {
	return ClampZero(a.Sub(b))
}

// ClampZero floors v at zero.
func ClampZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return Zero
	}
	return v
}

// Percent returns pct % of v, e.g. Percent(v, 19) for 19 %.
func Percent(v, pct decimal.Decimal) decimal.Decimal {
	return v.Mul(pct).Div(hundred)
}

// Rate multiplies v by a fractional rate such as 0.19.
func Rate(v, rate decimal.Decimal) decimal.Decimal {
	return v.Mul(rate)
}

// Fraction returns v x num / den, e.g. a monthly share Fraction(v, months, 12).
func Fraction(v decimal.Decimal, num, den int64) decimal.Decimal {
	if den == 0 {
		return Zero
	}
	return v.Mul(decimal.NewFromInt(num)).Div(decimal.NewFromInt(den))
}

// DivInt divides v by n; division by zero yields zero.
func DivInt(v decimal.Decimal, n int64) decimal.Decimal {
	return Fraction(v, 1, n)
}

// Convert turns an amount quoted in a foreign currency into EUR using a rate expressed as
// foreign units per EUR. The result is rounded to cents; a rate that is not positive yields false.
func Convert(amount, rate decimal.Decimal) (decimal.Decimal, bool) {
	if !rate.IsPositive() {
		return Zero, false
	}
	return Round2(amount.Div(rate)), true
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Cap limits v to ceiling. A negative ceiling is treated as zero.
func Cap(v, ceiling decimal.Decimal) decimal.Decimal {
	return Min(v, ClampZero(ceiling))
}

// Round2 rounds half-up to cents (half away from zero for negative values).
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(Places)
}

// Format renders v as a 2-decimal string. It does not round further when v is already a row value.
func Format(v decimal.Decimal) string {
	return v.StringFixed(Places)
}

// Plain renders v exactly, without rounding. Used where sub-cent precision must survive a
// text round trip.
func Plain(v decimal.Decimal) string {
	return v.String()
}

// Sum folds a slice of values.
func Sum(values []decimal.Decimal) decimal.Decimal {
	return Add(values...)
}

// Int is a shorthand for integer constants in tax parameters.
func Int(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// MustParse parses a literal that is known to be valid, for parameter tables.
func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
