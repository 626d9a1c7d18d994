package filingxml

import (
	"encoding/xml"
	"fmt"

	"taxreturn/internal/calc"
	"taxreturn/internal/model"
	"taxreturn/pkg/money"

	"github.com/shopspring/decimal"
)

// Export renders d and its computed result r as the filing XML document.
func Export(d model.Declaration, r model.TaxCalculationResult) ([]byte, error) {
	doc := document{
		Header: header{
			TaxID:       d.PersonalInfo.TaxID,
			BirthNumber: d.PersonalInfo.BirthNumber,
			Year:        r.TaxYear,
			Title:       d.PersonalInfo.Title,
			LastName:    d.PersonalInfo.LastName,
			FirstName:   d.PersonalInfo.FirstName,
			Street:      d.PersonalInfo.Street,
			HouseNumber: d.PersonalInfo.HouseNumber,
			PostalCode:  d.PersonalInfo.PostalCode,
			City:        d.PersonalInfo.City,
			Country:     d.PersonalInfo.Country,
			Email:       d.PersonalInfo.Email,
			Phone:       d.PersonalInfo.Phone,
		},
		Body: body{
			Employment:  exportEmployment(d.Employment, r),
			Spouse:      exportSpouse(d.Spouse, r),
			Children:    exportChildren(d.ChildBonus, r),
			OtherIncome: exportOtherIncome(d),
			Dividends:   exportDividends(d.Dividends, r),
			Mortgage:    exportMortgage(d.Mortgage, r),
			TwoPercent:  exportTwoPercent(d.TwoPercent, r),
			Parents:     exportParents(d.ParentAllocation, r),
			Rows:        exportRows(r),
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filing xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func exportEmployment(in model.Employment, r model.TaxCalculationResult) *employment {
	if !in.Enabled {
		return nil
	}
	out := &employment{
		Income:      r.EmploymentIncome,
		Insurance:   r.InsuranceDeduction,
		Base:        r.EmploymentBase,
		Prepayments: r.Prepayments,
	}
	if in.PensionSavings.Enabled {
		out.Pension = &pension{Contribution: r.PensionAllowance}
	}
	return out
}

func exportSpouse(in model.Spouse, r model.TaxCalculationResult) *spouse {
	if !in.Enabled {
		return nil
	}
	return &spouse{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		BirthNumber:      in.BirthNumber,
		Income:           money.Plain(money.Amount(in.Income)),
		MonthsSupported:  in.MonthsSupported,
		ClaimsChildBonus: in.ClaimsChildBonus,
		Allowance:        r.SpouseAllowance,
	}
}

func exportChildren(in model.ChildBonus, r model.TaxCalculationResult) *children {
	if !in.Enabled {
		return nil
	}
	out := &children{
		Children: make([]child, 0, len(in.Children)),
		Taxpayer: r.ChildBonusTaxpayer,
		Total:    r.ChildBonusTotal,
		Spouse:   r.ChildBonusSpouse,
	}
	if !money.IsBlank(in.TaxpayerSharePercent) {
		out.TaxpayerShare = money.Plain(money.Amount(in.TaxpayerSharePercent))
	}
	for _, c := range in.Children {
		out.Children = append(out.Children, child{
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			BirthNumber: c.BirthNumber,
			BirthDate:   c.BirthDate,
			Months:      c.Months,
		})
	}
	return out
}

func exportOtherIncome(d model.Declaration) []otherIncome {
	out := make([]otherIncome, 0, 2)
	if d.MutualFunds.Enabled {
		out = append(out, disposalIncome(kindFunds, d.MutualFunds))
	}
	if d.StockSales.Enabled {
		out = append(out, disposalIncome(kindStocks, d.StockSales))
	}
	return out
}

// disposalIncome states the class as income and expenses whose difference is exactly the
// computed base, so losses stay unnetted after a reimport.
func disposalIncome(kind string, in model.Disposals) otherIncome {
	sales := make([]decimal.Decimal, 0, len(in.Entries))
	for _, e := range in.Entries {
		sales = append(sales, money.Amount(e.SaleAmount))
	}
	income := money.Round2(money.Sum(sales))
	base := calc.Disposals(in)
	return otherIncome{
		Kind:     kind,
		Income:   money.Format(income),
		Expenses: money.Format(money.SubClamp(income, base)),
		Base:     money.Format(base),
	}
}

func exportDividends(in model.Dividends, r model.TaxCalculationResult) *dividends {
	if !in.Enabled {
		return nil
	}
	out := &dividends{
		ExchangeRate: in.ExchangeRate,
		Countries:    make([]dividendCountry, 0),
		Income:       r.DividendIncome,
		Tax:          r.DividendTax,
		Withheld:     r.DividendWithheld,
		Credit:       r.DividendCredit,
	}

	index := make(map[string]int)
	income := make([]decimal.Decimal, 0)
	withheld := make([]decimal.Decimal, 0)
	for _, e := range in.Entries {
		i, ok := index[e.Country]
		if !ok {
			i = len(out.Countries)
			index[e.Country] = i
			out.Countries = append(out.Countries, dividendCountry{Code: e.Country, Currency: e.Currency})
			income = append(income, money.Zero)
			withheld = append(withheld, money.Zero)
		}
		income[i] = money.Add(income[i], money.Amount(e.AmountEur))
		withheld[i] = money.Add(withheld[i], money.Amount(e.WithheldTaxEur))
	}
	for i := range out.Countries {
		out.Countries[i].Income = money.Plain(income[i])
		out.Countries[i].Withheld = money.Plain(withheld[i])
	}
	return out
}

func exportMortgage(in model.Mortgage, r model.TaxCalculationResult) *mortgage {
	if !in.Enabled {
		return nil
	}
	return &mortgage{
		InterestPaid:     money.Plain(money.Amount(in.InterestPaid)),
		MonthsServiced:   in.MonthsServiced,
		ContractDate:     in.ContractDate,
		AccrualStartDate: in.AccrualStartDate,
		Confirmed:        in.ConsecutivePeriodsConfirmed,
		Bonus:            r.MortgageBonus,
	}
}

func exportTwoPercent(in model.TwoPercent, r model.TaxCalculationResult) *twoPercent {
	if !in.Enabled {
		return nil
	}
	return &twoPercent{
		BeneficiaryID: in.BeneficiaryID,
		LegalName:     in.LegalName,
		Consent:       in.Consent,
		Volunteered:   in.Volunteered,
		Amount:        r.TwoPercent,
	}
}

func exportParents(in model.ParentAllocation, r model.TaxCalculationResult) *parents {
	if !in.Enabled {
		return nil
	}
	out := &parents{R153: r.ParentMother, R154: r.ParentFather}
	if in.Mother.Selected {
		out.Mother = &parent{FirstName: in.Mother.FirstName, LastName: in.Mother.LastName, BirthNumber: in.Mother.BirthNumber}
	}
	if in.Father.Selected {
		out.Father = &parent{FirstName: in.Father.FirstName, LastName: in.Father.LastName, BirthNumber: in.Father.BirthNumber}
	}
	return out
}

func exportRows(r model.TaxCalculationResult) rows {
	return rows{
		R36: r.EmploymentIncome, R37: r.InsuranceDeduction, R38: r.EmploymentBase,
		R65: r.OtherIncomeBase, R66: r.FundGains, R67: r.StockGains,
		R73: r.BasicAllowance, R74: r.SpouseAllowance, R75: r.PensionAllowance,
		R77: r.AllowancesTotal, R78: r.BaseAfterAllowances, R80: r.TaxBase, R81: r.Tax,
		R106: r.DividendIncome, R107: r.DividendTax, R108: r.DividendWithheld, R109: r.DividendCredit,
		R116: r.TaxLiability,
		R117: r.ChildBonusTaxpayer, R118: r.ChildBonusTotal, R119: r.ChildBonusSpouse,
		R123: r.MortgageBonus, R124: r.TaxAfterBonuses, R125: r.BonusPayable,
		R131: r.Prepayments, R135: r.TaxToPay, R136: r.TaxToRefund,
		R152: r.TwoPercent, R153: r.ParentMother, R154: r.ParentFather,
	}
}
