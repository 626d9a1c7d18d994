package calc

import (
	"fmt"
	"time"

	"taxreturn/internal/model"
	"taxreturn/pkg/money"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Bracket is one band of the progressive schedule. A zero UpTo marks the open top band.
type Bracket struct {
	UpTo decimal.Decimal
	Rate decimal.Decimal
}

// Params are the statutory constants of one tax year. Compute never reads anything else.
type Params struct {
	TaxYear  int
	Brackets []Bracket

	DividendRate decimal.Decimal

	// Basic personal allowance: full amount up to the threshold, then PhaseOutBase - base/4.
	BasicAllowance             decimal.Decimal
	BasicAllowanceThreshold    decimal.Decimal
	BasicAllowancePhaseOutBase decimal.Decimal

	SpouseAllowance             decimal.Decimal
	SpouseAllowanceThreshold    decimal.Decimal
	SpouseAllowancePhaseOutBase decimal.Decimal

	PensionCap decimal.Decimal

	MortgageRate decimal.Decimal
	// Contracts signed on or before MortgageCutover use MortgageLowerCap.
	MortgageCutover   time.Time
	MortgageLowerCap  decimal.Decimal
	MortgageHigherCap decimal.Decimal
	MortgageProrate   bool

	ChildBonusYoung    decimal.Decimal // monthly, below ChildAgeBand
	ChildBonusOlder    decimal.Decimal // monthly, from ChildAgeBand up to ChildMaxAge
	ChildAgeBand       int
	ChildMaxAge        int
	ChildMinimumIncome decimal.Decimal
	ChildPhaseOutCeil  decimal.Decimal
	ChildPhaseOutRate  decimal.Decimal

	TwoPercentRate    decimal.Decimal
	VolunteerRate     decimal.Decimal
	AllocationMinimum decimal.Decimal
	ParentRate        decimal.Decimal
}

// DefaultParams returns the parameters of the 2025 tax year. Allowance figures are multiples of
// the subsistence minimum of 284.13 EUR, already rounded to cents.
func DefaultParams() Params {
	return Params{
		TaxYear: model.DefaultTaxYear,
		Brackets: []Bracket{
			{UpTo: money.MustParse("50234.18"), Rate: money.MustParse("0.19")}, // 176.8 x SM
			{Rate: money.MustParse("0.25")},
		},
		DividendRate: money.MustParse("0.07"),

		BasicAllowance:             money.MustParse("5966.73"),  // 21 x SM
		BasicAllowanceThreshold:    money.MustParse("26367.26"), // 92.8 x SM
		BasicAllowancePhaseOutBase: money.MustParse("12558.55"), // 44.2 x SM

		SpouseAllowance:             money.MustParse("5455.30"),  // 19.2 x SM
		SpouseAllowanceThreshold:    money.MustParse("50234.18"), // 176.8 x SM
		SpouseAllowancePhaseOutBase: money.MustParse("18013.84"), // 63.4 x SM

		PensionCap: money.Int(180),

		MortgageRate:      money.MustParse("0.5"),
		MortgageCutover:   time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
		MortgageLowerCap:  money.Int(400),
		MortgageHigherCap: money.Int(1200),

		ChildBonusYoung:    money.Int(100),
		ChildBonusOlder:    money.Int(50),
		ChildAgeBand:       15,
		ChildMaxAge:        18,
		ChildMinimumIncome: money.Int(4896),  // 6 x 816 minimum wage
		ChildPhaseOutCeil:  money.Int(25740), // 12 x 2145
		ChildPhaseOutRate:  money.MustParse("0.10"),

		TwoPercentRate:    money.MustParse("0.02"),
		VolunteerRate:     money.MustParse("0.03"),
		AllocationMinimum: money.Int(3),
		ParentRate:        money.MustParse("0.02"),
	}
}

// ParamsFile is the on-disk form of Params. Empty fields keep the compiled default.
type ParamsFile struct {
	TaxYear      int           `yaml:"tax_year"`
	Brackets     []BracketFile `yaml:"brackets"`
	DividendRate string        `yaml:"dividend_rate"`
	Allowances   struct {
		Basic              string `yaml:"basic"`
		BasicThreshold     string `yaml:"basic_threshold"`
		BasicPhaseOutBase  string `yaml:"basic_phase_out_base"`
		Spouse             string `yaml:"spouse"`
		SpouseThreshold    string `yaml:"spouse_threshold"`
		SpousePhaseOutBase string `yaml:"spouse_phase_out_base"`
		PensionCap         string `yaml:"pension_cap"`
	} `yaml:"allowances"`
	Mortgage struct {
		Rate            string `yaml:"rate"`
		CutoverDate     string `yaml:"cutover_date"`
		LowerCap        string `yaml:"lower_cap"`
		HigherCap       string `yaml:"higher_cap"`
		ProrateByMonths *bool  `yaml:"prorate_by_months"`
	} `yaml:"mortgage"`
	ChildBonus struct {
		YoungMonthly    string `yaml:"young_monthly"`
		OlderMonthly    string `yaml:"older_monthly"`
		AgeBand         int    `yaml:"age_band"`
		MaxAge          int    `yaml:"max_age"`
		MinimumIncome   string `yaml:"minimum_income"`
		PhaseOutCeiling string `yaml:"phase_out_ceiling"`
		PhaseOutRate    string `yaml:"phase_out_rate"`
	} `yaml:"child_bonus"`
	Allocation struct {
		TwoPercentRate string `yaml:"two_percent_rate"`
		VolunteerRate  string `yaml:"volunteer_rate"`
		Minimum        string `yaml:"minimum"`
		ParentRate     string `yaml:"parent_rate"`
	} `yaml:"allocation"`
}

type BracketFile struct {
	UpTo string `yaml:"up_to"`
	Rate string `yaml:"rate"`
}

// Merge applies the non-empty values of f over p. Unlike form input, a parameter file must be
// well formed, so invalid numbers are reported instead of being read as zero.
func (f *ParamsFile) Merge(p Params) (Params, error) {
	var err error
	set := func(dst *decimal.Decimal, field, text string) {
		if err != nil || text == "" {
			return
		}
		v, parseErr := decimal.NewFromString(text)
		if parseErr != nil {
			err = fmt.Errorf("invalid %s %q: %w", field, text, parseErr)
			return
		}
		*dst = v
	}

	if f.TaxYear != 0 {
		p.TaxYear = f.TaxYear
	}
	if len(f.Brackets) > 0 {
		brackets := make([]Bracket, len(f.Brackets))
		for i, b := range f.Brackets {
			set(&brackets[i].UpTo, fmt.Sprintf("brackets[%d].up_to", i), b.UpTo)
			set(&brackets[i].Rate, fmt.Sprintf("brackets[%d].rate", i), b.Rate)
		}
		p.Brackets = brackets
	}
	set(&p.DividendRate, "dividend_rate", f.DividendRate)

	set(&p.BasicAllowance, "allowances.basic", f.Allowances.Basic)
	set(&p.BasicAllowanceThreshold, "allowances.basic_threshold", f.Allowances.BasicThreshold)
	set(&p.BasicAllowancePhaseOutBase, "allowances.basic_phase_out_base", f.Allowances.BasicPhaseOutBase)
	set(&p.SpouseAllowance, "allowances.spouse", f.Allowances.Spouse)
	set(&p.SpouseAllowanceThreshold, "allowances.spouse_threshold", f.Allowances.SpouseThreshold)
	set(&p.SpouseAllowancePhaseOutBase, "allowances.spouse_phase_out_base", f.Allowances.SpousePhaseOutBase)
	set(&p.PensionCap, "allowances.pension_cap", f.Allowances.PensionCap)

	set(&p.MortgageRate, "mortgage.rate", f.Mortgage.Rate)
	set(&p.MortgageLowerCap, "mortgage.lower_cap", f.Mortgage.LowerCap)
	set(&p.MortgageHigherCap, "mortgage.higher_cap", f.Mortgage.HigherCap)
	if f.Mortgage.CutoverDate != "" && err == nil {
		cutover, parseErr := time.Parse(dateLayout, f.Mortgage.CutoverDate)
		if parseErr != nil {
			err = fmt.Errorf("invalid mortgage.cutover_date (expected YYYY-MM-DD): %w", parseErr)
		} else {
			p.MortgageCutover = cutover
		}
	}
	if f.Mortgage.ProrateByMonths != nil {
		p.MortgageProrate = *f.Mortgage.ProrateByMonths
	}

	set(&p.ChildBonusYoung, "child_bonus.young_monthly", f.ChildBonus.YoungMonthly)
	set(&p.ChildBonusOlder, "child_bonus.older_monthly", f.ChildBonus.OlderMonthly)
	if f.ChildBonus.AgeBand > 0 {
		p.ChildAgeBand = f.ChildBonus.AgeBand
	}
	if f.ChildBonus.MaxAge > 0 {
		p.ChildMaxAge = f.ChildBonus.MaxAge
	}
	set(&p.ChildMinimumIncome, "child_bonus.minimum_income", f.ChildBonus.MinimumIncome)
	set(&p.ChildPhaseOutCeil, "child_bonus.phase_out_ceiling", f.ChildBonus.PhaseOutCeiling)
	set(&p.ChildPhaseOutRate, "child_bonus.phase_out_rate", f.ChildBonus.PhaseOutRate)

	set(&p.TwoPercentRate, "allocation.two_percent_rate", f.Allocation.TwoPercentRate)
	set(&p.VolunteerRate, "allocation.volunteer_rate", f.Allocation.VolunteerRate)
	set(&p.AllocationMinimum, "allocation.minimum", f.Allocation.Minimum)
	set(&p.ParentRate, "allocation.parent_rate", f.Allocation.ParentRate)

	if err != nil {
		return Params{}, err
	}
	return p, nil
}
