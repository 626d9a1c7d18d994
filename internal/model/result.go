package model

// Row codes of the filing form. The set is closed: every code maps to exactly one field of
// TaxCalculationResult.
const (
	RowEmploymentIncome    = "r36"
	RowInsuranceDeduction  = "r37"
	RowEmploymentBase      = "r38"
	RowOtherIncomeBase     = "r65"
	RowFundGains           = "r66"
	RowStockGains          = "r67"
	RowBasicAllowance      = "r73"
	RowSpouseAllowance     = "r74"
	RowPensionAllowance    = "r75"
	RowAllowancesTotal     = "r77"
	RowBaseAfterAllowances = "r78"
	RowTaxBase             = "r80"
	RowTax                 = "r81"
	RowDividendIncome      = "r106"
	RowDividendTax         = "r107"
	RowDividendWithheld    = "r108"
	RowDividendCredit      = "r109"
	RowTaxLiability        = "r116"
	RowChildBonusTaxpayer  = "r117"
	RowChildBonusTotal     = "r118"
	RowChildBonusSpouse    = "r119"
	RowMortgageBonus       = "r123"
	RowTaxAfterBonuses     = "r124"
	RowBonusPayable        = "r125"
	RowPrepayments         = "r131"
	RowTaxToPay            = "r135"
	RowTaxToRefund         = "r136"
	RowTwoPercent          = "r152"
	RowParentMother        = "r153"
	RowParentFather        = "r154"
)

// TaxCalculationResult holds one rounded, non-negative decimal-as-text value per form row.
// Rows of a disabled section are "0.00".
type TaxCalculationResult struct {
	TaxYear int `json:"tax_year"`

	EmploymentIncome   string `json:"r36"`
	InsuranceDeduction string `json:"r37"`
	EmploymentBase     string `json:"r38"`

	OtherIncomeBase string `json:"r65"`
	FundGains       string `json:"r66"`
	StockGains      string `json:"r67"`

	BasicAllowance      string `json:"r73"`
	SpouseAllowance     string `json:"r74"`
	PensionAllowance    string `json:"r75"`
	AllowancesTotal     string `json:"r77"`
	BaseAfterAllowances string `json:"r78"`

	TaxBase string `json:"r80"`
	Tax     string `json:"r81"`

	DividendIncome   string `json:"r106"`
	DividendTax      string `json:"r107"`
	DividendWithheld string `json:"r108"`
	DividendCredit   string `json:"r109"`

	TaxLiability string `json:"r116"`

	ChildBonusTaxpayer string `json:"r117"`
	ChildBonusTotal    string `json:"r118"`
	ChildBonusSpouse   string `json:"r119"`
	MortgageBonus      string `json:"r123"`
	TaxAfterBonuses    string `json:"r124"`
	BonusPayable       string `json:"r125"`

	Prepayments string `json:"r131"`
	TaxToPay    string `json:"r135"`
	TaxToRefund string `json:"r136"`

	TwoPercent   string `json:"r152"`
	ParentMother string `json:"r153"`
	ParentFather string `json:"r154"`
}

// Row is one (code, value) pair of a result.
type Row struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

// Rows lists every row of r in form order.
func (r TaxCalculationResult) Rows() []Row {
	return []Row{
		{RowEmploymentIncome, r.EmploymentIncome},
		{RowInsuranceDeduction, r.InsuranceDeduction},
		{RowEmploymentBase, r.EmploymentBase},
		{RowOtherIncomeBase, r.OtherIncomeBase},
		{RowFundGains, r.FundGains},
		{RowStockGains, r.StockGains},
		{RowBasicAllowance, r.BasicAllowance},
		{RowSpouseAllowance, r.SpouseAllowance},
		{RowPensionAllowance, r.PensionAllowance},
		{RowAllowancesTotal, r.AllowancesTotal},
		{RowBaseAfterAllowances, r.BaseAfterAllowances},
		{RowTaxBase, r.TaxBase},
		{RowTax, r.Tax},
		{RowDividendIncome, r.DividendIncome},
		{RowDividendTax, r.DividendTax},
		{RowDividendWithheld, r.DividendWithheld},
		{RowDividendCredit, r.DividendCredit},
		{RowTaxLiability, r.TaxLiability},
		{RowChildBonusTaxpayer, r.ChildBonusTaxpayer},
		{RowChildBonusTotal, r.ChildBonusTotal},
		{RowChildBonusSpouse, r.ChildBonusSpouse},
		{RowMortgageBonus, r.MortgageBonus},
		{RowTaxAfterBonuses, r.TaxAfterBonuses},
		{RowBonusPayable, r.BonusPayable},
		{RowPrepayments, r.Prepayments},
		{RowTaxToPay, r.TaxToPay},
		{RowTaxToRefund, r.TaxToRefund},
		{RowTwoPercent, r.TwoPercent},
		{RowParentMother, r.ParentMother},
		{RowParentFather, r.ParentFather},
	}
}

// Value returns the value of a row code, and false for unknown codes.
func (r TaxCalculationResult) Value(code string) (string, bool) {
	for _, row := range r.Rows() {
		if row.Code == code {
			return row.Value, true
		}
	}
	return "", false
}
