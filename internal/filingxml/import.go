package filingxml

import (
	"encoding/xml"
	"fmt"

	"taxreturn/internal/model"
	"taxreturn/pkg/money"
)

// Import rebuilds a declaration from a document produced by Export. Sections absent from the
// document stay disabled. The computed rows in the document are ignored; callers recompute.
func Import(data []byte) (model.Declaration, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return model.Declaration{}, fmt.Errorf("failed to parse filing xml: %w", err)
	}

	d := model.DefaultDeclaration()
	if doc.Header.Year != 0 {
		d.TaxYear = doc.Header.Year
	}
	d.PersonalInfo = model.PersonalInfo{
		TaxID:       doc.Header.TaxID,
		BirthNumber: doc.Header.BirthNumber,
		Title:       doc.Header.Title,
		FirstName:   doc.Header.FirstName,
		LastName:    doc.Header.LastName,
		Street:      doc.Header.Street,
		HouseNumber: doc.Header.HouseNumber,
		City:        doc.Header.City,
		PostalCode:  doc.Header.PostalCode,
		Country:     doc.Header.Country,
		Email:       doc.Header.Email,
		Phone:       doc.Header.Phone,
	}

	b := doc.Body
	if e := b.Employment; e != nil {
		d.Employment = model.Employment{
			Enabled:            true,
			GrossIncome:        e.Income,
			InsuranceDeduction: e.Insurance,
			Prepayments:        e.Prepayments,
		}
		if e.Pension != nil {
			d.Employment.PensionSavings = model.PensionSavings{Enabled: true, Contribution: e.Pension.Contribution}
		}
	}

	if s := b.Spouse; s != nil {
		d.Spouse = model.Spouse{
			Enabled:          true,
			FirstName:        s.FirstName,
			LastName:         s.LastName,
			BirthNumber:      s.BirthNumber,
			Income:           s.Income,
			MonthsSupported:  s.MonthsSupported,
			ClaimsChildBonus: s.ClaimsChildBonus,
		}
	}

	if c := b.Children; c != nil {
		d.ChildBonus.Enabled = true
		d.ChildBonus.TaxpayerSharePercent = c.TaxpayerShare
		for _, ch := range c.Children {
			d.ChildBonus.Children = append(d.ChildBonus.Children, model.Child{
				FirstName:   ch.FirstName,
				LastName:    ch.LastName,
				BirthNumber: ch.BirthNumber,
				BirthDate:   ch.BirthDate,
				Months:      ch.Months,
			})
		}
	}

	for _, o := range b.OtherIncome {
		var target *model.Disposals
		switch o.Kind {
		case kindFunds:
			target = &d.MutualFunds
		case kindStocks:
			target = &d.StockSales
		default:
			return model.Declaration{}, fmt.Errorf("unknown other income kind %q", o.Kind)
		}
		target.Enabled = true
		if money.IsBlankOrZero(o.Income) && money.IsBlankOrZero(o.Expenses) {
			continue
		}
		target.Entries = append(target.Entries, model.DisposalEntry{
			ID:             fmt.Sprintf("%s-1", o.Kind),
			Name:           o.Kind,
			PurchaseAmount: o.Expenses,
			SaleAmount:     o.Income,
		})
	}

	if dv := b.Dividends; dv != nil {
		d.Dividends.Enabled = true
		d.Dividends.ExchangeRate = dv.ExchangeRate
		for i, c := range dv.Countries {
			d.Dividends.Entries = append(d.Dividends.Entries, model.DividendEntry{
				ID:             fmt.Sprintf("dividend-%d", i+1),
				Country:        c.Code,
				Currency:       c.Currency,
				AmountEur:      c.Income,
				WithheldTaxEur: c.Withheld,
			})
		}
	}

	if m := b.Mortgage; m != nil {
		d.Mortgage = model.Mortgage{
			Enabled:                     true,
			InterestPaid:                m.InterestPaid,
			MonthsServiced:              m.MonthsServiced,
			ContractDate:                m.ContractDate,
			AccrualStartDate:            m.AccrualStartDate,
			ConsecutivePeriodsConfirmed: m.Confirmed,
		}
	}

	if tp := b.TwoPercent; tp != nil {
		d.TwoPercent = model.TwoPercent{
			Enabled:       true,
			BeneficiaryID: tp.BeneficiaryID,
			LegalName:     tp.LegalName,
			Consent:       tp.Consent,
			Volunteered:   tp.Volunteered,
		}
	}

	if p := b.Parents; p != nil {
		d.ParentAllocation.Enabled = true
		if p.Mother != nil {
			d.ParentAllocation.Mother = model.Parent{Selected: true, FirstName: p.Mother.FirstName, LastName: p.Mother.LastName, BirthNumber: p.Mother.BirthNumber}
		}
		if p.Father != nil {
			d.ParentAllocation.Father = model.Parent{Selected: true, FirstName: p.Father.FirstName, LastName: p.Father.LastName, BirthNumber: p.Father.BirthNumber}
		}
	}

	return d, nil
}
