package model

// Declaration is the full taxpayer input for one filing period. Every section carries an
// Enabled flag; a disabled section never contributes to any computed row.
// Amounts are decimal-as-text because the form is edited keystroke by keystroke.
type Declaration struct {
	TaxYear          int              `json:"tax_year"`
	PersonalInfo     PersonalInfo     `json:"personal_info"`
	Employment       Employment       `json:"employment"`
	Dividends        Dividends        `json:"dividends"`
	MutualFunds      Disposals        `json:"mutual_funds"`
	StockSales       Disposals        `json:"stock_sales"`
	Mortgage         Mortgage         `json:"mortgage"`
	Spouse           Spouse           `json:"spouse"`
	ChildBonus       ChildBonus       `json:"child_bonus"`
	TwoPercent       TwoPercent       `json:"two_percent"`
	ParentAllocation ParentAllocation `json:"parent_allocation"`
	AiCopilot        AiCopilot        `json:"ai_copilot"`
}

// PersonalInfo is identity and address data; it is never used in arithmetic.
type PersonalInfo struct {
	TaxID       string `json:"dic"`
	BirthNumber string `json:"rodne_cislo"`
	Title       string `json:"title"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// Employment holds income from dependent activity as reported by the employer's annual statement.
type Employment struct {
	Enabled            bool           `json:"enabled"`
	GrossIncome        string         `json:"gross_income"`
	InsuranceDeduction string         `json:"insurance_deduction"`
	Prepayments        string         `json:"prepayments"`
	PensionSavings     PensionSavings `json:"pension_savings"`
}

// PensionSavings is the supplementary pension-savings relief sub-record.
type PensionSavings struct {
	Enabled      bool   `json:"enabled"`
	Contribution string `json:"contribution"`
}

// Dividends lists foreign dividend receipts. EUR amounts are fixed when an entry is created;
// the engine only sums them.
type Dividends struct {
	Enabled      bool            `json:"enabled"`
	ExchangeRate string          `json:"exchange_rate"`
	Entries      []DividendEntry `json:"entries"`
}

type DividendEntry struct {
	ID                  string `json:"id"`
	Ticker              string `json:"ticker"`
	Country             string `json:"country"`
	Currency            string `json:"currency"`
	AmountOriginal      string `json:"amount_original"`
	AmountEur           string `json:"amount_eur"`
	WithheldTaxOriginal string `json:"withheld_tax_original"`
	WithheldTaxEur      string `json:"withheld_tax_eur"`
}

// Disposals is shared by mutual-fund redemptions and stock sales.
type Disposals struct {
	Enabled bool            `json:"enabled"`
	Entries []DisposalEntry `json:"entries"`
}

type DisposalEntry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PurchaseAmount string `json:"purchase_amount"`
	SaleAmount     string `json:"sale_amount"`
}

// Mortgage is the young-borrower interest relief.
type Mortgage struct {
	Enabled          bool   `json:"enabled"`
	InterestPaid     string `json:"interest_paid"`
	MonthsServiced   int    `json:"pocet_mesiacov"`
	AccrualStartDate string `json:"accrual_start_date"` // YYYY-MM-DD
	ContractDate     string `json:"contract_date"`      // YYYY-MM-DD
	// ConsecutivePeriodsConfirmed is the taxpayer's attestation that the relief is not claimed
	// for more than four consecutive periods.
	ConsecutivePeriodsConfirmed bool `json:"consecutive_periods_confirmed"`
}

// Spouse feeds both the spouse allowance and the child bonus split.
type Spouse struct {
	Enabled          bool   `json:"enabled"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	BirthNumber      string `json:"rodne_cislo"`
	Income           string `json:"income"`
	MonthsSupported  int    `json:"months_supported"`
	ClaimsChildBonus bool   `json:"claims_child_bonus"`
}

type ChildBonus struct {
	Enabled  bool    `json:"enabled"`
	Children []Child `json:"children"`
	// TaxpayerSharePercent is the part of the total bonus claimed by the taxpayer when the
	// spouse also claims; blank means the taxpayer claims everything.
	TaxpayerSharePercent string `json:"taxpayer_share_percent"`
}

type Child struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	BirthNumber string `json:"rodne_cislo"`
	BirthDate   string `json:"birth_date"` // YYYY-MM-DD
	// Months lists claimed calendar months (1-12); empty means the whole year.
	Months []int `json:"months"`
}

// TwoPercent is the allocation of a share of the paid tax to a registered beneficiary.
type TwoPercent struct {
	Enabled       bool   `json:"enabled"`
	BeneficiaryID string `json:"ico"`
	LegalName     string `json:"obchodne_meno"`
	Consent       bool   `json:"suhlas_so_zaslanim"`
	// Volunteered records that the volunteering condition for the higher 3 % share is met.
	Volunteered bool `json:"splnam_3per"`
}

// ParentAllocation assigns a share of the tax to each parent (parental pension).
type ParentAllocation struct {
	Enabled bool   `json:"enabled"`
	Mother  Parent `json:"mother"`
	Father  Parent `json:"father"`
}

type Parent struct {
	Selected    bool   `json:"selected"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	BirthNumber string `json:"rodne_cislo"`
}

// AiCopilot carries extraction evidence and uploaded documents. Only the risk rules and the
// handoff summary read it; calculators never do.
type AiCopilot struct {
	Evidence      []Evidence      `json:"evidence"`
	DocumentInbox []InboxDocument `json:"document_inbox"`
}

// Evidence is one AI-extracted value. Every entry in AiCopilot.Evidence is AI-sourced; Source
// names the extraction (document parser, OCR, ...) and not whether the value came from the AI.
type Evidence struct {
	ID         string `json:"id"`
	FieldPath  string `json:"field_path"`
	Value      string `json:"value"`
	Source     string `json:"source"`
	DocumentID string `json:"document_id"`
	Confidence string `json:"confidence"` // 0..1 as text
	Confirmed  bool   `json:"confirmed"`
}

// Inbox document statuses
const (
	DocumentPending   = "PENDING"
	DocumentProcessed = "PROCESSED"
	DocumentRejected  = "REJECTED"
)

type InboxDocument struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	Kind       string `json:"kind"`
	Status     string `json:"status"`
	UploadedAt string `json:"uploaded_at"`
}

// DefaultTaxYear is the filing period the compiled tax parameters describe.
const DefaultTaxYear = 2025

// DefaultDeclaration is the template every declaration is built from: all sections present,
// all disabled, collections empty rather than nil.
func DefaultDeclaration() Declaration {
	return Declaration{
		TaxYear:      DefaultTaxYear,
		PersonalInfo: PersonalInfo{Country: "SK"},
		Dividends:    Dividends{Entries: []DividendEntry{}},
		MutualFunds:  Disposals{Entries: []DisposalEntry{}},
		StockSales:   Disposals{Entries: []DisposalEntry{}},
		Mortgage:     Mortgage{MonthsServiced: 12},
		Spouse:       Spouse{MonthsSupported: 12},
		ChildBonus:   ChildBonus{Children: []Child{}},
		AiCopilot: AiCopilot{
			Evidence:      []Evidence{},
			DocumentInbox: []InboxDocument{},
		},
	}
}
