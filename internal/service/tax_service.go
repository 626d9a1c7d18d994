package service

import (
	"bytes"
	"fmt"
	"strings"

	"taxreturn/internal/calc"
	"taxreturn/internal/handoff"
	"taxreturn/internal/model"
	"taxreturn/internal/risk"
	"taxreturn/pkg/money"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// --- DTOs ---

// ComputeResponse is everything the form shows after a recomputation.
type ComputeResponse struct {
	Result   model.TaxCalculationResult `json:"result"`
	Rows     []model.Row                `json:"rows"`
	Warnings []model.RiskWarning        `json:"warnings"`
	Summary  model.HandoffSummary       `json:"summary"`
}

type CreateDividendEntryRequest struct {
	Ticker              string `json:"ticker" binding:"required"`
	Country             string `json:"country" binding:"required,len=2"`
	Currency            string `json:"currency" binding:"required,len=3"`
	AmountOriginal      string `json:"amount_original" binding:"required"`
	WithheldTaxOriginal string `json:"withheld_tax_original"`
	ExchangeRate        string `json:"exchange_rate"` // foreign units per EUR, ignored for EUR
}

// --- Interface ---

// TaxService runs the calculation triad. It holds no state beyond the tax parameters.
type TaxService interface {
	DecodeDeclaration(data []byte) (model.Declaration, error)
	Compute(d model.Declaration) ComputeResponse
	NewDividendEntry(req CreateDividendEntryRequest) (model.DividendEntry, error)
}

type taxService struct {
	params calc.Params
}

func NewTaxService(params calc.Params) TaxService {
	return &taxService{params: params}
}

// --- Implementation ---

// DecodeDeclaration decodes JSON over the default declaration, so omitted sections and
// fields keep their defaults.
func (s *taxService) DecodeDeclaration(data []byte) (model.Declaration, error) {
	return DecodeDeclaration(data)
}

func (s *taxService) Compute(d model.Declaration) ComputeResponse {
	result := calc.ComputeWith(s.params, d)
	warnings := risk.EvaluateWith(s.params, d, &result)
	return ComputeResponse{
		Result:   result,
		Rows:     result.Rows(),
		Warnings: warnings,
		Summary:  handoff.Build(d, result, warnings),
	}
}

// NewDividendEntry converts a foreign receipt into EUR once, at entry time.
func (s *taxService) NewDividendEntry(req CreateDividendEntryRequest) (model.DividendEntry, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	rate := money.Int(1)
	if currency != "EUR" {
		rate = money.Parse(req.ExchangeRate)
	}

	amount, ok := money.Convert(money.Amount(req.AmountOriginal), rate)
	if !ok {
		return model.DividendEntry{}, fmt.Errorf("exchange rate must be positive, got %q", req.ExchangeRate)
	}
	withheld, _ := money.Convert(money.Amount(req.WithheldTaxOriginal), rate)

	return model.DividendEntry{
		ID:                  uuid.NewString(),
		Ticker:              strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Country:             strings.ToUpper(strings.TrimSpace(req.Country)),
		Currency:            currency,
		AmountOriginal:      req.AmountOriginal,
		AmountEur:           money.Format(amount),
		WithheldTaxOriginal: req.WithheldTaxOriginal,
		WithheldTaxEur:      money.Format(withheld),
	}, nil
}

// DecodeDeclaration is the package-level form used by callers without a TaxService.
func DecodeDeclaration(data []byte) (model.Declaration, error) {
	d := model.DefaultDeclaration()
	if len(bytes.TrimSpace(data)) == 0 {
		return d, fmt.Errorf("%w: empty document", ErrInvalidDeclaration)
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("%w: %v", ErrInvalidDeclaration, err)
	}
	normalizeCollections(&d)
	return d, nil
}

// normalizeCollections turns explicit nulls back into empty collections.
func normalizeCollections(d *model.Declaration) {
	if d.Dividends.Entries == nil {
		d.Dividends.Entries = []model.DividendEntry{}
	}
	if d.MutualFunds.Entries == nil {
		d.MutualFunds.Entries = []model.DisposalEntry{}
	}
	if d.StockSales.Entries == nil {
		d.StockSales.Entries = []model.DisposalEntry{}
	}
	if d.ChildBonus.Children == nil {
		d.ChildBonus.Children = []model.Child{}
	}
	if d.AiCopilot.Evidence == nil {
		d.AiCopilot.Evidence = []model.Evidence{}
	}
	if d.AiCopilot.DocumentInbox == nil {
		d.AiCopilot.DocumentInbox = []model.InboxDocument{}
	}
}
