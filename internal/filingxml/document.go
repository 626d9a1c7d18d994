// Package filingxml maps a declaration to the filing XML document and back.
//
// The document carries the statutory rows for the reader plus the inputs behind them, so an
// imported document recomputes to the same rows. Per-entry detail that the form does not hold
// (individual dividends and disposals) is collapsed: dividends per source country, disposals
// into one income/expense pair per asset class.
package filingxml

import "encoding/xml"

type document struct {
	XMLName xml.Name `xml:"dokument"`
	Header  header   `xml:"hlavicka"`
	Body    body     `xml:"telo"`
}

type header struct {
	TaxID       string `xml:"dic"`
	BirthNumber string `xml:"rodneCislo"`
	Year        int    `xml:"zdanovacieObdobie>rok"`
	Title       string `xml:"titul,omitempty"`
	LastName    string `xml:"priezvisko"`
	FirstName   string `xml:"meno"`
	Street      string `xml:"adresa>ulica"`
	HouseNumber string `xml:"adresa>supisneOrientacneCislo"`
	PostalCode  string `xml:"adresa>psc"`
	City        string `xml:"adresa>obec"`
	Country     string `xml:"adresa>stat"`
	Email       string `xml:"email,omitempty"`
	Phone       string `xml:"telefon,omitempty"`
}

type body struct {
	Employment  *employment   `xml:"zamestnanie,omitempty"`
	Spouse      *spouse       `xml:"manzel,omitempty"`
	Children    *children     `xml:"deti,omitempty"`
	OtherIncome []otherIncome `xml:"ostatnePrijmy>prijem"`
	Dividends   *dividends    `xml:"dividendy,omitempty"`
	Mortgage    *mortgage     `xml:"uroky,omitempty"`
	TwoPercent  *twoPercent   `xml:"prijimatel,omitempty"`
	Parents     *parents      `xml:"rodicia,omitempty"`
	Rows        rows          `xml:"vypocet"`
}

type employment struct {
	Income      string   `xml:"r36"`
	Insurance   string   `xml:"r37"`
	Base        string   `xml:"r38"`
	Prepayments string   `xml:"r131"`
	Pension     *pension `xml:"dds,omitempty"`
}

type pension struct {
	Contribution string `xml:"r75"`
}

type spouse struct {
	FirstName        string `xml:"meno"`
	LastName         string `xml:"priezvisko"`
	BirthNumber      string `xml:"rodneCislo"`
	Income           string `xml:"vlastnePrijmy"`
	MonthsSupported  int    `xml:"pocetMesiacov"`
	ClaimsChildBonus bool   `xml:"uplatnujeBonusNaDieta"`
	Allowance        string `xml:"r74"`
}

type children struct {
	TaxpayerShare string  `xml:"podielDanovnika,omitempty"`
	Children      []child `xml:"dieta"`
	Taxpayer      string  `xml:"r117"`
	Total         string  `xml:"r118"`
	Spouse        string  `xml:"r119"`
}

type child struct {
	FirstName   string `xml:"meno"`
	LastName    string `xml:"priezvisko"`
	BirthNumber string `xml:"rodneCislo"`
	BirthDate   string `xml:"datumNarodenia"`
	Months      []int  `xml:"mesiac"`
}

// Asset classes of otherIncome.Kind.
const (
	kindFunds  = "fondy"
	kindStocks = "akcie"
)

type otherIncome struct {
	Kind     string `xml:"druh,attr"`
	Income   string `xml:"prijmy"`
	Expenses string `xml:"vydavky"`
	Base     string `xml:"zaklad"`
}

type dividends struct {
	ExchangeRate string            `xml:"kurz,omitempty"`
	Countries    []dividendCountry `xml:"stat"`
	Income       string            `xml:"r106"`
	Tax          string            `xml:"r107"`
	Withheld     string            `xml:"r108"`
	Credit       string            `xml:"r109"`
}

type dividendCountry struct {
	Code     string `xml:"kod,attr"`
	Currency string `xml:"mena,attr,omitempty"`
	Income   string `xml:"prijemEur"`
	Withheld string `xml:"zrazenaDanEur"`
}

type mortgage struct {
	InterestPaid     string `xml:"zaplateneUroky"`
	MonthsServiced   int    `xml:"pocetMesiacov"`
	ContractDate     string `xml:"datumUzavretiaZmluvy"`
	AccrualStartDate string `xml:"datumZaciatkuUrocenia"`
	Confirmed        bool   `xml:"potvrdenieObdobi"`
	Bonus            string `xml:"r123"`
}

type twoPercent struct {
	BeneficiaryID string `xml:"ico"`
	LegalName     string `xml:"obchodneMeno"`
	Consent       bool   `xml:"suhlasZaslanieUdajov"`
	Volunteered   bool   `xml:"splnam3per"`
	Amount        string `xml:"r152"`
}

type parents struct {
	Mother *parent `xml:"matka,omitempty"`
	Father *parent `xml:"otec,omitempty"`
	R153   string  `xml:"r153"`
	R154   string  `xml:"r154"`
}

type parent struct {
	FirstName   string `xml:"meno"`
	LastName    string `xml:"priezvisko"`
	BirthNumber string `xml:"rodneCislo"`
}

// rows is the full computed form, for the reader. Import never trusts it.
type rows struct {
	R36  string `xml:"r36"`
	R37  string `xml:"r37"`
	R38  string `xml:"r38"`
	R65  string `xml:"r65"`
	R66  string `xml:"r66"`
	R67  string `xml:"r67"`
	R73  string `xml:"r73"`
	R74  string `xml:"r74"`
	R75  string `xml:"r75"`
	R77  string `xml:"r77"`
	R78  string `xml:"r78"`
	R80  string `xml:"r80"`
	R81  string `xml:"r81"`
	R106 string `xml:"r106"`
	R107 string `xml:"r107"`
	R108 string `xml:"r108"`
	R109 string `xml:"r109"`
	R116 string `xml:"r116"`
	R117 string `xml:"r117"`
	R118 string `xml:"r118"`
	R119 string `xml:"r119"`
	R123 string `xml:"r123"`
	R124 string `xml:"r124"`
	R125 string `xml:"r125"`
	R131 string `xml:"r131"`
	R135 string `xml:"r135"`
	R136 string `xml:"r136"`
	R152 string `xml:"r152"`
	R153 string `xml:"r153"`
	R154 string `xml:"r154"`
}
