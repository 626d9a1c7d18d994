package calc

import (
	"taxreturn/internal/model"
	"taxreturn/pkg/money"

	"github.com/shopspring/decimal"
)

// Breakdown is the aggregated, still-decimal view of a computation. Risk rules read it to
// explain figures (caps hit, eligibility) that the text rows alone do not carry.
type Breakdown struct {
	TaxYear             int
	Employment          EmploymentOutput
	FundGains           decimal.Decimal
	StockGains          decimal.Decimal
	OtherBase           decimal.Decimal
	BasicAllowance      decimal.Decimal
	SpouseAllowance     decimal.Decimal
	AllowancesTotal     decimal.Decimal
	BaseAfterAllowances decimal.Decimal
	TaxBase             decimal.Decimal
	Tax                 decimal.Decimal
	Dividends           DividendOutput
	Liability           decimal.Decimal
	ChildBonus          ChildBonusOutput
	Mortgage            MortgageOutput
	TaxAfterBonuses     decimal.Decimal
	BonusPayable        decimal.Decimal
	TaxToPay            decimal.Decimal
	TaxToRefund         decimal.Decimal
	TwoPercent          decimal.Decimal
	ParentMother        decimal.Decimal
	ParentFather        decimal.Decimal
}

// Compute runs the full calculation with the compiled parameters of the default tax year.
// It is a total function of d: malformed amounts count as zero and nothing is read from or
// written to the outside.
func Compute(d model.Declaration) model.TaxCalculationResult {
	return ComputeWith(DefaultParams(), d)
}

// ComputeWith runs the calculation against an explicit parameter set.
func ComputeWith(p Params, d model.Declaration) model.TaxCalculationResult {
	return Aggregate(p, d).Result()
}

// Aggregate combines the section calculators. Every value is rounded when it first becomes a
// row; later steps only add, subtract, compare and clamp rounded rows.
func Aggregate(p Params, d model.Declaration) Breakdown {
	b := Breakdown{TaxYear: d.TaxYear}
	if b.TaxYear == 0 {
		b.TaxYear = p.TaxYear
	}

	b.Employment = Employment(d.Employment, p)
	b.FundGains = Disposals(d.MutualFunds)
	b.StockGains = Disposals(d.StockSales)
	b.OtherBase = money.Add(b.FundGains, b.StockGains)

	// Allowances offset employment income only, and their phase-outs read r38 alone so that
	// capital gains never shift the allowances or the child bonus.
	if d.Employment.Enabled {
		b.BasicAllowance = BasicAllowance(b.Employment.Base, p)
		b.SpouseAllowance = SpouseAllowance(d.Spouse, b.Employment.Base, p)
	}
	b.AllowancesTotal = money.Cap(
		money.Add(b.BasicAllowance, b.SpouseAllowance, b.Employment.PensionAllowance),
		b.Employment.Base,
	)
	b.BaseAfterAllowances = money.SubClamp(b.Employment.Base, b.AllowancesTotal)
	b.TaxBase = money.Add(b.BaseAfterAllowances, b.OtherBase)
	b.Tax = ProgressiveTax(b.TaxBase, p.Brackets)

	b.Dividends = Dividends(d.Dividends, p)
	b.Liability = money.SubClamp(money.Add(b.Tax, b.Dividends.Tax), b.Dividends.Credit)

	b.ChildBonus = ChildBonus(d.ChildBonus, b.TaxYear, b.Employment.Base, p)
	b.ChildBonus.Taxpayer, b.ChildBonus.Spouse = SplitChildBonus(b.ChildBonus.Total, d.ChildBonus, d.Spouse)
	b.Mortgage = Mortgage(d.Mortgage, p)

	bonuses := money.Add(b.ChildBonus.Taxpayer, b.Mortgage.Bonus)
	afterBonuses := money.Sub(b.Liability, bonuses)
	b.TaxAfterBonuses = money.ClampZero(afterBonuses)
	b.BonusPayable = money.ClampZero(money.Neg(afterBonuses))

	settlement := money.Sub(afterBonuses, b.Employment.Prepayments)
	b.TaxToPay = money.ClampZero(settlement)
	b.TaxToRefund = money.ClampZero(money.Neg(settlement))

	// Allocations are shares of the tax actually left after the bonuses (r124).
	b.TwoPercent = TwoPercent(d.TwoPercent, b.TaxAfterBonuses, p)
	b.ParentMother, b.ParentFather = ParentAllocations(d.ParentAllocation, b.TaxAfterBonuses, p)

	return b
}

// Result renders the breakdown as form rows.
func (b Breakdown) Result() model.TaxCalculationResult {
	f := money.Format
	return model.TaxCalculationResult{
		TaxYear: b.TaxYear,

		EmploymentIncome:   f(b.Employment.Income),
		InsuranceDeduction: f(b.Employment.Insurance),
		EmploymentBase:     f(b.Employment.Base),

		OtherIncomeBase: f(b.OtherBase),
		FundGains:       f(b.FundGains),
		StockGains:      f(b.StockGains),

		BasicAllowance:      f(b.BasicAllowance),
		SpouseAllowance:     f(b.SpouseAllowance),
		PensionAllowance:    f(b.Employment.PensionAllowance),
		AllowancesTotal:     f(b.AllowancesTotal),
		BaseAfterAllowances: f(b.BaseAfterAllowances),

		TaxBase: f(b.TaxBase),
		Tax:     f(b.Tax),

		DividendIncome:   f(b.Dividends.Income),
		DividendTax:      f(b.Dividends.Tax),
		DividendWithheld: f(b.Dividends.Withheld),
		DividendCredit:   f(b.Dividends.Credit),

		TaxLiability: f(b.Liability),

		ChildBonusTaxpayer: f(b.ChildBonus.Taxpayer),
		ChildBonusTotal:    f(b.ChildBonus.Total),
		ChildBonusSpouse:   f(b.ChildBonus.Spouse),
		MortgageBonus:      f(b.Mortgage.Bonus),
		TaxAfterBonuses:    f(b.TaxAfterBonuses),
		BonusPayable:       f(b.BonusPayable),

		Prepayments: f(b.Employment.Prepayments),
		TaxToPay:    f(b.TaxToPay),
		TaxToRefund: f(b.TaxToRefund),

		TwoPercent:   f(b.TwoPercent),
		ParentMother: f(b.ParentMother),
		ParentFather: f(b.ParentFather),
	}
}
