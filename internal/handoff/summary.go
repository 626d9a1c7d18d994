// Package handoff condenses a computed declaration into the record an accountant reviews.
package handoff

import (
	"strconv"
	"time"

	"taxreturn/internal/model"
	"taxreturn/internal/risk"
)

// Section names, in the order they appear in a summary.
const (
	SectionEmployment       = "employment"
	SectionDividends        = "dividends"
	SectionMutualFunds      = "mutual_funds"
	SectionStockSales       = "stock_sales"
	SectionMortgage         = "mortgage"
	SectionSpouse           = "spouse"
	SectionChildBonus       = "child_bonus"
	SectionTwoPercent       = "two_percent"
	SectionParentAllocation = "parent_allocation"
)

// Build summarizes d as of now.
func Build(d model.Declaration, r model.TaxCalculationResult, warnings []model.RiskWarning) model.HandoffSummary {
	return BuildAt(d, r, warnings, time.Now())
}

// BuildAt summarizes d with an explicit generation time.
func BuildAt(d model.Declaration, r model.TaxCalculationResult, warnings []model.RiskWarning, now time.Time) model.HandoffSummary {
	if warnings == nil {
		warnings = []model.RiskWarning{}
	}
	return model.HandoffSummary{
		Sections:       sections(d, r),
		Warnings:       warnings,
		// Every evidence entry is AI-extracted, so all of them count.
		EvidenceCount:  len(d.AiCopilot.Evidence),
		ReadinessScore: ReadinessScore(warnings),
		GeneratedAt:    now.UTC().Format(time.RFC3339),
	}
}

// ReadinessScore is 100 minus 20 per error, 10 per warning and 5 per info, never below zero.
func ReadinessScore(warnings []model.RiskWarning) int {
	errs, warns, infos := risk.Count(warnings)
	score := 100 - 20*errs - 10*warns - 5*infos
	if score < 0 {
		return 0
	}
	return score
}

func sections(d model.Declaration, r model.TaxCalculationResult) []model.SummarySection {
	out := make([]model.SummarySection, 0, 9)
	add := func(enabled bool, name string, kv map[string]string) {
		if enabled {
			out = append(out, model.SummarySection{Name: name, Enabled: true, KeyValues: kv})
		}
	}

	add(d.Employment.Enabled, SectionEmployment, map[string]string{
		model.RowEmploymentIncome:   r.EmploymentIncome,
		model.RowInsuranceDeduction: r.InsuranceDeduction,
		model.RowEmploymentBase:     r.EmploymentBase,
		model.RowAllowancesTotal:    r.AllowancesTotal,
		model.RowPrepayments:        r.Prepayments,
	})
	add(d.Dividends.Enabled, SectionDividends, map[string]string{
		model.RowDividendIncome:   r.DividendIncome,
		model.RowDividendTax:      r.DividendTax,
		model.RowDividendWithheld: r.DividendWithheld,
		model.RowDividendCredit:   r.DividendCredit,
		"entries":                 strconv.Itoa(len(d.Dividends.Entries)),
	})
	add(d.MutualFunds.Enabled, SectionMutualFunds, map[string]string{
		model.RowFundGains: r.FundGains,
		"entries":          strconv.Itoa(len(d.MutualFunds.Entries)),
	})
	add(d.StockSales.Enabled, SectionStockSales, map[string]string{
		model.RowStockGains: r.StockGains,
		"entries":           strconv.Itoa(len(d.StockSales.Entries)),
	})
	add(d.Mortgage.Enabled, SectionMortgage, map[string]string{
		model.RowMortgageBonus: r.MortgageBonus,
		"contract_date":        d.Mortgage.ContractDate,
		"pocet_mesiacov":       strconv.Itoa(d.Mortgage.MonthsServiced),
	})
	add(d.Spouse.Enabled, SectionSpouse, map[string]string{
		model.RowSpouseAllowance: r.SpouseAllowance,
	})
	add(d.ChildBonus.Enabled, SectionChildBonus, map[string]string{
		model.RowChildBonusTaxpayer: r.ChildBonusTaxpayer,
		model.RowChildBonusTotal:    r.ChildBonusTotal,
		model.RowChildBonusSpouse:   r.ChildBonusSpouse,
		"children":                  strconv.Itoa(len(d.ChildBonus.Children)),
	})
	add(d.TwoPercent.Enabled, SectionTwoPercent, map[string]string{
		model.RowTwoPercent: r.TwoPercent,
		"ico":               d.TwoPercent.BeneficiaryID,
	})
	add(d.ParentAllocation.Enabled, SectionParentAllocation, map[string]string{
		model.RowParentMother: r.ParentMother,
		model.RowParentFather: r.ParentFather,
	})
	return out
}
