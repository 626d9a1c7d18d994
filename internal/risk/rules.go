package risk

import (
	"fmt"
	"strings"

	"taxreturn/internal/calc"
	"taxreturn/internal/model"
	"taxreturn/pkg/money"
)

func warn(severity, code, fieldPath, message, suggestion string) *model.RiskWarning {
	return &model.RiskWarning{
		Severity:   severity,
		Code:       code,
		Message:    message,
		FieldPath:  fieldPath,
		Suggestion: suggestion,
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func personalIDMissing(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !blank(d.PersonalInfo.BirthNumber) || !blank(d.PersonalInfo.TaxID) {
		return nil
	}
	return warn(model.SeverityError, "PERSONAL_ID_MISSING", "personal_info.rodne_cislo",
		"Neither a birth number nor a tax identification number is filled in.",
		"Enter the birth number, or the DIC if no birth number was assigned.")
}

// employmentMissingData reports the first statement figure that is not filled in. A zero
// insurance deduction is a real figure; blank prepayments mean nothing was withheld.
func employmentMissingData(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.Employment.Enabled {
		return nil
	}
	switch {
	case money.IsBlankOrZero(d.Employment.GrossIncome):
		return warn(model.SeverityError, "EMPLOYMENT_MISSING_REQUIRED_DATA", "employment.gross_income",
			"Employment income is enabled but the gross income is missing.",
			"Copy the gross income from the employer's annual statement.")
	case money.IsBlank(d.Employment.InsuranceDeduction):
		return warn(model.SeverityError, "EMPLOYMENT_MISSING_REQUIRED_DATA", "employment.insurance_deduction",
			"Employment income is enabled but the insurance deduction is missing.",
			"Copy the employee insurance contributions from the employer's annual statement; enter 0 if none were paid.")
	}
	return nil
}

func employmentInsuranceExceedsIncome(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.Employment.Enabled {
		return nil
	}
	if !money.Amount(d.Employment.InsuranceDeduction).GreaterThan(money.Amount(d.Employment.GrossIncome)) {
		return nil
	}
	return warn(model.SeverityWarning, "EMPLOYMENT_INSURANCE_EXCEEDS_INCOME", "employment.insurance_deduction",
		"Insurance contributions are higher than the gross income; the employment base was set to zero.",
		"Check that both figures come from the same annual statement.")
}

func dividendsWithoutEntries(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.Dividends.Enabled || len(d.Dividends.Entries) > 0 {
		return nil
	}
	return warn(model.SeverityWarning, "DIVIDENDS_ENABLED_WITHOUT_ENTRIES", "dividends.entries",
		"Dividend income is enabled but no dividend was entered.",
		"Add the dividends from the broker statement or disable the section.")
}

// dividendEntryIncomplete reports the first entry without an EUR amount or a source country.
func dividendEntryIncomplete(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.Dividends.Enabled {
		return nil
	}
	incomplete, first, field := 0, -1, ""
	for i, e := range d.Dividends.Entries {
		missing := ""
		switch {
		case money.IsBlankOrZero(e.AmountEur):
			missing = "amount_eur"
		case blank(e.Country):
			missing = "country"
		}
		if missing == "" {
			continue
		}
		incomplete++
		if first < 0 {
			first, field = i, missing
		}
	}
	if incomplete == 0 {
		return nil
	}
	return warn(model.SeverityError, "DIVIDEND_ENTRY_INCOMPLETE", fmt.Sprintf("dividends.entries[%d].%s", first, field),
		fmt.Sprintf("%d dividend entries lack an EUR amount or a source country.", incomplete),
		"Complete the entry; EUR amounts are converted once with the exchange rate of the payment day.")
}

func dividendCreditCapped(_ model.Declaration, b calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !b.Dividends.Withheld.GreaterThan(b.Dividends.Credit) {
		return nil
	}
	return warn(model.SeverityInfo, "DIVIDEND_CREDIT_CAPPED", "dividends.entries",
		fmt.Sprintf("Foreign withholding of %s EUR is credited only up to the dividend tax of %s EUR.",
			money.Format(b.Dividends.Withheld), money.Format(b.Dividends.Credit)),
		"The excess cannot be refunded in Slovakia; reclaim it from the source country if a treaty allows.")
}

func disposalsWithoutEntries(in model.Disposals, code, fieldPath, label string) *model.RiskWarning {
	if !in.Enabled || len(in.Entries) > 0 {
		return nil
	}
	return warn(model.SeverityWarning, code, fieldPath,
		fmt.Sprintf("%s are enabled but no entry was entered.", label),
		"Add the disposals or disable the section.")
}

func fundsWithoutEntries(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	return disposalsWithoutEntries(d.MutualFunds, "MUTUAL_FUNDS_ENABLED_WITHOUT_ENTRIES", "mutual_funds.entries", "Mutual fund redemptions")
}

func stocksWithoutEntries(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	return disposalsWithoutEntries(d.StockSales, "STOCK_SALES_ENABLED_WITHOUT_ENTRIES", "stock_sales.entries", "Stock sales")
}

func disposalLossNotOffset(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	var path string
	switch {
	case d.MutualFunds.Enabled && calc.HasLoss(d.MutualFunds):
		path = "mutual_funds.entries"
	case d.StockSales.Enabled && calc.HasLoss(d.StockSales):
		path = "stock_sales.entries"
	default:
		return nil
	}
	return warn(model.SeverityInfo, "DISPOSAL_LOSS_NOT_OFFSET", path,
		"A disposal was sold at a loss; losses are not offset against gains of other entries.",
		"")
}

func mortgageAttestationMissing(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.Mortgage.Enabled || d.Mortgage.ConsecutivePeriodsConfirmed {
		return nil
	}
	return warn(model.SeverityWarning, "MORTGAGE_ATTESTATION_MISSING", "mortgage.consecutive_periods_confirmed",
		"The mortgage bonus is claimed without confirming the limit on consecutive periods.",
		"Confirm the attestation before filing.")
}

func mortgageDatesMissing(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.Mortgage.Enabled {
		return nil
	}
	field := ""
	if _, ok := calc.ParseDate(d.Mortgage.ContractDate); !ok {
		field = "mortgage.contract_date"
	} else if _, ok := calc.ParseDate(d.Mortgage.AccrualStartDate); !ok {
		field = "mortgage.accrual_start_date"
	}
	if field == "" {
		return nil
	}
	return warn(model.SeverityError, "MORTGAGE_DATES_MISSING", field,
		"The loan contract date or the interest accrual start date is missing or unreadable.",
		"Enter both dates from the loan contract (YYYY-MM-DD); the lower cap applies until then.")
}

func mortgageMonthsInvalid(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.Mortgage.Enabled || (d.Mortgage.MonthsServiced >= 1 && d.Mortgage.MonthsServiced <= 12) {
		return nil
	}
	return warn(model.SeverityWarning, "MORTGAGE_MONTHS_INVALID", "mortgage.pocet_mesiacov",
		fmt.Sprintf("Months serviced must be between 1 and 12, got %d.", d.Mortgage.MonthsServiced),
		"")
}

func mortgageAccrualBeforeContract(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.Mortgage.Enabled {
		return nil
	}
	contract, ok1 := calc.ParseDate(d.Mortgage.ContractDate)
	accrual, ok2 := calc.ParseDate(d.Mortgage.AccrualStartDate)
	if !ok1 || !ok2 || !accrual.Before(contract) {
		return nil
	}
	return warn(model.SeverityWarning, "MORTGAGE_ACCRUAL_BEFORE_CONTRACT", "mortgage.accrual_start_date",
		"Interest accrual starts before the loan contract was signed.",
		"Check both dates against the contract.")
}

func mortgageBonusCapped(_ model.Declaration, b calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !b.Mortgage.Capped {
		return nil
	}
	return warn(model.SeverityInfo, "MORTGAGE_BONUS_CAPPED", "mortgage.interest_paid",
		fmt.Sprintf("The mortgage bonus was limited to the statutory maximum of %s EUR.", money.Format(b.Mortgage.Cap)),
		"")
}

func childBonusNoChildren(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.ChildBonus.Enabled || len(d.ChildBonus.Children) > 0 {
		return nil
	}
	return warn(model.SeverityError, "CHILD_BONUS_NO_CHILDREN", "child_bonus.children",
		"The child bonus is claimed but no child was entered.",
		"Add the children or disable the section.")
}

func childBonusIncomeTooLow(d model.Declaration, b calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.ChildBonus.Enabled || len(d.ChildBonus.Children) == 0 || b.ChildBonus.Eligible {
		return nil
	}
	return warn(model.SeverityWarning, "CHILD_BONUS_INCOME_TOO_LOW", "employment.gross_income",
		"The employment base (r38) is below the minimum required for the child bonus; no bonus was computed.",
		"")
}

func childDataIncomplete(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.ChildBonus.Enabled {
		return nil
	}
	for i, c := range d.ChildBonus.Children {
		field := ""
		switch {
		case blank(c.FirstName) || blank(c.LastName):
			field = "first_name"
		case blank(c.BirthNumber):
			field = "rodne_cislo"
		default:
			if _, ok := calc.ParseDate(c.BirthDate); !ok {
				field = "birth_date"
			}
		}
		if field != "" {
			return warn(model.SeverityError, "CHILD_DATA_INCOMPLETE", fmt.Sprintf("child_bonus.children[%d].%s", i, field),
				"A child is missing a name, birth number or readable birth date.",
				"Children without a readable birth date do not count towards the bonus.")
		}
	}
	return nil
}

func spouseMissingData(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.Spouse.Enabled {
		return nil
	}
	var field string
	switch {
	case blank(d.Spouse.FirstName) || blank(d.Spouse.LastName):
		field = "spouse.first_name"
	case blank(d.Spouse.BirthNumber):
		field = "spouse.rodne_cislo"
	default:
		return nil
	}
	return warn(model.SeverityWarning, "SPOUSE_MISSING_DATA", field,
		"The spouse is missing a name or birth number.",
		"")
}

func twoPercentBeneficiaryMissing(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.TwoPercent.Enabled {
		return nil
	}
	var field string
	switch {
	case blank(d.TwoPercent.BeneficiaryID):
		field = "two_percent.ico"
	case blank(d.TwoPercent.LegalName):
		field = "two_percent.obchodne_meno"
	default:
		return nil
	}
	return warn(model.SeverityError, "TWO_PERCENT_BENEFICIARY_MISSING", field,
		"The beneficiary of the tax allocation is not identified.",
		"Enter the beneficiary's ICO and registered name.")
}

func twoPercentConsentMissing(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.TwoPercent.Enabled || d.TwoPercent.Consent {
		return nil
	}
	return warn(model.SeverityWarning, "TWO_PERCENT_CONSENT_MISSING", "two_percent.suhlas_so_zaslanim",
		"Consent to pass personal data to the beneficiary is not given.",
		"The allocation is still valid; the beneficiary will not learn who sent it.")
}

func twoPercentBelowMinimum(d model.Declaration, b calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	if !d.TwoPercent.Enabled || !b.TaxAfterBonuses.IsPositive() || !b.TwoPercent.IsZero() {
		return nil
	}
	return warn(model.SeverityInfo, "TWO_PERCENT_BELOW_MINIMUM", "two_percent",
		"The allocated share is below the statutory minimum and cannot be assigned.",
		"")
}

func parentAllocationParentMissing(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	in := d.ParentAllocation
	if !in.Enabled {
		return nil
	}
	var field string
	switch {
	case !in.Mother.Selected && !in.Father.Selected:
		field = "parent_allocation"
	case in.Mother.Selected && (blank(in.Mother.LastName) || blank(in.Mother.BirthNumber)):
		field = "parent_allocation.mother"
	case in.Father.Selected && (blank(in.Father.LastName) || blank(in.Father.BirthNumber)):
		field = "parent_allocation.father"
	default:
		return nil
	}
	return warn(model.SeverityError, "PARENT_ALLOCATION_PARENT_MISSING", field,
		"The parental allocation has no selected parent, or a selected parent is not identified.",
		"Select the parent and enter their name and birth number.")
}

func aiEvidenceUnconfirmed(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	pending, first := 0, ""
	for _, e := range d.AiCopilot.Evidence {
		if e.Confirmed {
			continue
		}
		pending++
		if first == "" {
			first = e.FieldPath
		}
	}
	if pending == 0 {
		return nil
	}
	return warn(model.SeverityWarning, "AI_EVIDENCE_UNCONFIRMED", first,
		fmt.Sprintf("%d extracted values have not been confirmed.", pending),
		"Review each extracted value against its source document.")
}

func documentInboxPending(d model.Declaration, _ calc.Breakdown, _ model.TaxCalculationResult) *model.RiskWarning {
	pending := 0
	for _, doc := range d.AiCopilot.DocumentInbox {
		if doc.Status == model.DocumentPending {
			pending++
		}
	}
	if pending == 0 {
		return nil
	}
	return warn(model.SeverityInfo, "DOCUMENT_INBOX_PENDING", "ai_copilot.document_inbox",
		fmt.Sprintf("%d uploaded documents are still waiting to be processed.", pending),
		"")
}

func taxUnderpayment(_ model.Declaration, _ calc.Breakdown, r model.TaxCalculationResult) *model.RiskWarning {
	toPay := money.Parse(r.TaxToPay)
	if !toPay.IsPositive() {
		return nil
	}
	return warn(model.SeverityInfo, "TAX_UNDERPAYMENT", "employment.prepayments",
		fmt.Sprintf("%s EUR remains to be paid after prepayments.", money.Format(toPay)),
		"Pay the difference by the filing deadline.")
}
