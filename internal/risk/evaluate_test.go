package risk

import (
	"testing"

	"taxreturn/internal/calc"
	"taxreturn/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanDeclaration() model.Declaration {
	d := model.DefaultDeclaration()
	d.PersonalInfo.BirthNumber = "850101/1234"
	d.Employment.Enabled = true
	d.Employment.GrossIncome = "15000"
	d.Employment.InsuranceDeduction = "1500"
	d.Employment.Prepayments = "2000"
	return d
}

func codes(warnings []model.RiskWarning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Code)
	}
	return out
}

func TestEvaluate_CleanDeclaration(t *testing.T) {
	assert.Empty(t, Evaluate(cleanDeclaration(), nil))
}

func TestEvaluate_DefaultDeclaration(t *testing.T) {
	assert.Equal(t, []string{"PERSONAL_ID_MISSING"}, codes(Evaluate(model.DefaultDeclaration(), nil)))
}

func TestEvaluate_ComputesMissingResult(t *testing.T) {
	d := cleanDeclaration()
	d.Employment.Prepayments = "0"
	r := calc.Compute(d)

	withResult := Evaluate(d, &r)
	withoutResult := Evaluate(d, nil)
	if diff := cmp.Diff(withResult, withoutResult); diff != "" {
		t.Fatalf("result argument changed the warnings (-given +computed):\n%s", diff)
	}
	assert.Equal(t, []string{"TAX_UNDERPAYMENT"}, codes(withResult))
}

func TestEvaluate_SortedBySeverityCodeAndPath(t *testing.T) {
	d := cleanDeclaration()
	d.PersonalInfo.BirthNumber = ""
	d.Mortgage = model.Mortgage{Enabled: true, InterestPaid: "4000", MonthsServiced: 14, ContractDate: "2024-02-01"}
	d.TwoPercent = model.TwoPercent{Enabled: true}
	d.Dividends.Enabled = true
	d.AiCopilot.DocumentInbox = []model.InboxDocument{{ID: "doc-1", Status: model.DocumentPending}}

	got := codes(Evaluate(d, nil))
	want := []string{
		"MORTGAGE_DATES_MISSING",
		"PERSONAL_ID_MISSING",
		"TWO_PERCENT_BENEFICIARY_MISSING",
		"DIVIDENDS_ENABLED_WITHOUT_ENTRIES",
		"MORTGAGE_ATTESTATION_MISSING",
		"MORTGAGE_MONTHS_INVALID",
		"TWO_PERCENT_CONSENT_MISSING",
		"DOCUMENT_INBOX_PENDING",
		"MORTGAGE_BONUS_CAPPED",
	}
	assert.Equal(t, want, got)
}

func TestEvaluate_MissingAttestationKeepsBonus(t *testing.T) {
	d := cleanDeclaration()
	d.Mortgage = model.Mortgage{Enabled: true, InterestPaid: "600", MonthsServiced: 12, ContractDate: "2024-02-01", AccrualStartDate: "2024-03-01"}

	r := calc.Compute(d)
	assert.Equal(t, "300.00", r.MortgageBonus)
	assert.Equal(t, []string{"MORTGAGE_ATTESTATION_MISSING"}, codes(Evaluate(d, &r)))
}

func TestRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(d *model.Declaration)
		code      string
		severity  string
		fieldPath string
	}{
		{
			name:      "employment without gross income",
			mutate:    func(d *model.Declaration) { d.Employment.GrossIncome = "" },
			code:      "EMPLOYMENT_MISSING_REQUIRED_DATA",
			severity:  model.SeverityError,
			fieldPath: "employment.gross_income",
		},
		{
			name:      "employment without insurance deduction",
			mutate:    func(d *model.Declaration) { d.Employment.InsuranceDeduction = " " },
			code:      "EMPLOYMENT_MISSING_REQUIRED_DATA",
			severity:  model.SeverityError,
			fieldPath: "employment.insurance_deduction",
		},
		{
			name: "employment without any figures",
			mutate: func(d *model.Declaration) {
				d.Employment.GrossIncome = ""
				d.Employment.InsuranceDeduction = ""
				d.Employment.Prepayments = ""
			},
			code:      "EMPLOYMENT_MISSING_REQUIRED_DATA",
			severity:  model.SeverityError,
			fieldPath: "employment.gross_income",
		},
		{
			name:      "insurance above income",
			mutate:    func(d *model.Declaration) { d.Employment.InsuranceDeduction = "16000" },
			code:      "EMPLOYMENT_INSURANCE_EXCEEDS_INCOME",
			severity:  model.SeverityWarning,
			fieldPath: "employment.insurance_deduction",
		},
		{
			name: "dividend entry without EUR amount",
			mutate: func(d *model.Declaration) {
				d.Dividends.Enabled = true
				d.Dividends.Entries = []model.DividendEntry{
					{ID: "1", Country: "US", AmountEur: "100"},
					{ID: "2", Country: "US", AmountOriginal: "50"},
				}
			},
			code:      "DIVIDEND_ENTRY_INCOMPLETE",
			severity:  model.SeverityError,
			fieldPath: "dividends.entries[1].amount_eur",
		},
		{
			name: "withholding above dividend tax",
			mutate: func(d *model.Declaration) {
				d.Dividends.Enabled = true
				d.Dividends.Entries = []model.DividendEntry{{ID: "1", Country: "US", AmountEur: "100", WithheldTaxEur: "15"}}
			},
			code:      "DIVIDEND_CREDIT_CAPPED",
			severity:  model.SeverityInfo,
			fieldPath: "dividends.entries",
		},
		{
			name:      "funds without entries",
			mutate:    func(d *model.Declaration) { d.MutualFunds.Enabled = true },
			code:      "MUTUAL_FUNDS_ENABLED_WITHOUT_ENTRIES",
			severity:  model.SeverityWarning,
			fieldPath: "mutual_funds.entries",
		},
		{
			name: "stock sold at a loss",
			mutate: func(d *model.Declaration) {
				d.StockSales.Enabled = true
				d.StockSales.Entries = []model.DisposalEntry{{ID: "1", PurchaseAmount: "1000", SaleAmount: "800"}}
			},
			code:      "DISPOSAL_LOSS_NOT_OFFSET",
			severity:  model.SeverityInfo,
			fieldPath: "stock_sales.entries",
		},
		{
			name: "accrual before contract",
			mutate: func(d *model.Declaration) {
				d.Mortgage = model.Mortgage{Enabled: true, InterestPaid: "100", MonthsServiced: 12, ContractDate: "2024-05-01", AccrualStartDate: "2024-04-01", ConsecutivePeriodsConfirmed: true}
			},
			code:      "MORTGAGE_ACCRUAL_BEFORE_CONTRACT",
			severity:  model.SeverityWarning,
			fieldPath: "mortgage.accrual_start_date",
		},
		{
			name:      "child bonus without children",
			mutate:    func(d *model.Declaration) { d.ChildBonus.Enabled = true },
			code:      "CHILD_BONUS_NO_CHILDREN",
			severity:  model.SeverityError,
			fieldPath: "child_bonus.children",
		},
		{
			name: "child bonus with low income",
			mutate: func(d *model.Declaration) {
				d.Employment.GrossIncome = "3000"
				d.Employment.InsuranceDeduction = "0"
				d.Employment.Prepayments = "0"
				d.ChildBonus.Enabled = true
				d.ChildBonus.Children = []model.Child{{FirstName: "Ema", LastName: "Novak", BirthNumber: "155501/1234", BirthDate: "2015-05-01"}}
			},
			code:      "CHILD_BONUS_INCOME_TOO_LOW",
			severity:  model.SeverityWarning,
			fieldPath: "employment.gross_income",
		},
		{
			name: "child without birth date",
			mutate: func(d *model.Declaration) {
				d.ChildBonus.Enabled = true
				d.ChildBonus.Children = []model.Child{{FirstName: "Ema", LastName: "Novak", BirthNumber: "155501/1234"}}
			},
			code:      "CHILD_DATA_INCOMPLETE",
			severity:  model.SeverityError,
			fieldPath: "child_bonus.children[0].birth_date",
		},
		{
			name:      "spouse without name",
			mutate:    func(d *model.Declaration) { d.Spouse.Enabled = true },
			code:      "SPOUSE_MISSING_DATA",
			severity:  model.SeverityWarning,
			fieldPath: "spouse.first_name",
		},
		{
			name: "two percent below minimum",
			mutate: func(d *model.Declaration) {
				d.Employment.GrossIncome = "6000"
				d.Employment.InsuranceDeduction = "0"
				d.Employment.Prepayments = "10"
				d.TwoPercent = model.TwoPercent{Enabled: true, BeneficiaryID: "30845572", LegalName: "Nadacia", Consent: true}
			},
			code:      "TWO_PERCENT_BELOW_MINIMUM",
			severity:  model.SeverityInfo,
			fieldPath: "two_percent",
		},
		{
			name: "parent allocation without parent",
			mutate: func(d *model.Declaration) {
				d.ParentAllocation.Enabled = true
			},
			code:      "PARENT_ALLOCATION_PARENT_MISSING",
			severity:  model.SeverityError,
			fieldPath: "parent_allocation",
		},
		{
			name: "unconfirmed evidence",
			mutate: func(d *model.Declaration) {
				d.AiCopilot.Evidence = []model.Evidence{
					{ID: "e1", FieldPath: "employment.gross_income", Confirmed: true},
					{ID: "e2", FieldPath: "employment.prepayments"},
				}
			},
			code:      "AI_EVIDENCE_UNCONFIRMED",
			severity:  model.SeverityWarning,
			fieldPath: "employment.prepayments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := cleanDeclaration()
			tt.mutate(&d)

			warnings := Evaluate(d, nil)
			var found *model.RiskWarning
			for i := range warnings {
				if warnings[i].Code == tt.code {
					found = &warnings[i]
				}
			}
			require.NotNil(t, found, "got %v", codes(warnings))
			assert.Equal(t, tt.severity, found.Severity)
			assert.Equal(t, tt.fieldPath, found.FieldPath)
			assert.NotEmpty(t, found.Message)
		})
	}
}

func TestEvaluate_NoAllocationNoticeWhenBonusesConsumeTax(t *testing.T) {
	d := cleanDeclaration()
	d.Mortgage = model.Mortgage{Enabled: true, InterestPaid: "2000", MonthsServiced: 12, ContractDate: "2024-02-01", AccrualStartDate: "2024-03-01", ConsecutivePeriodsConfirmed: true}
	d.ChildBonus = model.ChildBonus{Enabled: true, Children: []model.Child{{FirstName: "Adam", LastName: "Novak", BirthNumber: "200301/1234", BirthDate: "2020-03-01"}}}
	d.TwoPercent = model.TwoPercent{Enabled: true, BeneficiaryID: "30845572", LegalName: "Nadacia", Consent: true}

	r := calc.Compute(d)
	require.Equal(t, "0.00", r.TaxAfterBonuses)
	require.Equal(t, "0.00", r.TwoPercent)
	assert.NotContains(t, codes(Evaluate(d, &r)), "TWO_PERCENT_BELOW_MINIMUM")
}

func TestEvaluate_EmploymentOptionalFigures(t *testing.T) {
	d := cleanDeclaration()
	d.Employment.InsuranceDeduction = "0"
	d.Employment.Prepayments = ""

	warnings := Evaluate(d, nil)
	assert.NotContains(t, codes(warnings), "EMPLOYMENT_MISSING_REQUIRED_DATA")
	assert.Contains(t, codes(warnings), "TAX_UNDERPAYMENT")
}

func TestCount(t *testing.T) {
	e, w, i := Count([]model.RiskWarning{
		{Severity: model.SeverityError},
		{Severity: model.SeverityWarning},
		{Severity: model.SeverityWarning},
		{Severity: model.SeverityInfo},
	})
	assert.Equal(t, 1, e)
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, i)
}
