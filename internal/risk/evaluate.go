// Package risk diagnoses a declaration and its computed result. Rules never change figures;
// they only explain missing inputs, inconsistencies and statutory caps that were applied.
package risk

import (
	"sort"

	"taxreturn/internal/calc"
	"taxreturn/internal/model"
)

// rule inspects one concern. It returns nil when the concern does not apply.
type rule func(d model.Declaration, b calc.Breakdown, r model.TaxCalculationResult) *model.RiskWarning

var rules = []rule{
	personalIDMissing,
	employmentMissingData,
	employmentInsuranceExceedsIncome,
	dividendsWithoutEntries,
	dividendEntryIncomplete,
	dividendCreditCapped,
	fundsWithoutEntries,
	stocksWithoutEntries,
	disposalLossNotOffset,
	mortgageAttestationMissing,
	mortgageDatesMissing,
	mortgageMonthsInvalid,
	mortgageAccrualBeforeContract,
	mortgageBonusCapped,
	childBonusNoChildren,
	childBonusIncomeTooLow,
	childDataIncomplete,
	spouseMissingData,
	twoPercentBeneficiaryMissing,
	twoPercentConsentMissing,
	twoPercentBelowMinimum,
	parentAllocationParentMissing,
	aiEvidenceUnconfirmed,
	documentInboxPending,
	taxUnderpayment,
}

// Evaluate runs every rule with the compiled tax parameters. A nil result is computed first.
func Evaluate(d model.Declaration, result *model.TaxCalculationResult) []model.RiskWarning {
	return EvaluateWith(calc.DefaultParams(), d, result)
}

// EvaluateWith runs every rule against p. The output order depends only on the warnings
// themselves: severity, then code, then field path.
func EvaluateWith(p calc.Params, d model.Declaration, result *model.TaxCalculationResult) []model.RiskWarning {
	b := calc.Aggregate(p, d)
	r := b.Result()
	if result != nil {
		r = *result
	}

	warnings := make([]model.RiskWarning, 0)
	for _, check := range rules {
		if w := check(d, b, r); w != nil {
			warnings = append(warnings, *w)
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		a, c := warnings[i], warnings[j]
		if severityRank(a.Severity) != severityRank(c.Severity) {
			return severityRank(a.Severity) < severityRank(c.Severity)
		}
		if a.Code != c.Code {
			return a.Code < c.Code
		}
		return a.FieldPath < c.FieldPath
	})
	return warnings
}

func severityRank(s string) int {
	switch s {
	case model.SeverityError:
		return 0
	case model.SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Count tallies warnings by severity.
func Count(warnings []model.RiskWarning) (errs, warns, infos int) {
	for _, w := range warnings {
		switch w.Severity {
		case model.SeverityError:
			errs++
		case model.SeverityWarning:
			warns++
		default:
			infos++
		}
	}
	return errs, warns, infos
}
