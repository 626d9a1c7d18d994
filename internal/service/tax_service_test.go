package service

import (
	"errors"
	"testing"

	"taxreturn/internal/calc"
	"taxreturn/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employmentJSON = `{
	"personal_info": {"rodne_cislo": "850101/1234"},
	"employment": {"enabled": true, "gross_income": "15000", "insurance_deduction": "1500", "prepayments": "2000"}
}`

func TestDecodeDeclaration_KeepsDefaults(t *testing.T) {
	d, err := DecodeDeclaration([]byte(employmentJSON))
	require.NoError(t, err)

	assert.Equal(t, model.DefaultTaxYear, d.TaxYear)
	assert.Equal(t, "SK", d.PersonalInfo.Country)
	assert.Equal(t, 12, d.Mortgage.MonthsServiced)
	assert.NotNil(t, d.Dividends.Entries)
	assert.True(t, d.Employment.Enabled)
}

func TestDecodeDeclaration_NullCollections(t *testing.T) {
	d, err := DecodeDeclaration([]byte(`{"dividends": {"entries": null}, "child_bonus": {"children": null}}`))
	require.NoError(t, err)
	assert.NotNil(t, d.Dividends.Entries)
	assert.NotNil(t, d.ChildBonus.Children)
}

func TestDecodeDeclaration_Invalid(t *testing.T) {
	for _, input := range []string{"", "  ", "{", `{"tax_year": "soon"}`} {
		_, err := DecodeDeclaration([]byte(input))
		assert.True(t, errors.Is(err, ErrInvalidDeclaration), "input %q: %v", input, err)
	}
}

func TestTaxService_Compute(t *testing.T) {
	svc := NewTaxService(calc.DefaultParams())
	d, err := svc.DecodeDeclaration([]byte(employmentJSON))
	require.NoError(t, err)

	got := svc.Compute(d)
	if diff := cmp.Diff(calc.Compute(d), got.Result); diff != "" {
		t.Fatalf("service result differs from the engine (-engine +service):\n%s", diff)
	}
	assert.Equal(t, "568.68", got.Result.TaxToRefund)
	assert.Empty(t, got.Warnings)
	assert.Equal(t, 100, got.Summary.ReadinessScore)
	assert.Len(t, got.Rows, len(got.Result.Rows()))
}

func TestTaxService_NewDividendEntry(t *testing.T) {
	svc := NewTaxService(calc.DefaultParams())

	entry, err := svc.NewDividendEntry(CreateDividendEntryRequest{
		Ticker:              "aapl",
		Country:             "us",
		Currency:            "usd",
		AmountOriginal:      "100",
		WithheldTaxOriginal: "15",
		ExchangeRate:        "1.0823",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "AAPL", entry.Ticker)
	assert.Equal(t, "US", entry.Country)
	assert.Equal(t, "92.40", entry.AmountEur)
	assert.Equal(t, "13.86", entry.WithheldTaxEur)

	entry, err = svc.NewDividendEntry(CreateDividendEntryRequest{Ticker: "ALV", Country: "DE", Currency: "EUR", AmountOriginal: "300"})
	require.NoError(t, err)
	assert.Equal(t, "300.00", entry.AmountEur)
	assert.Equal(t, "0.00", entry.WithheldTaxEur)

	_, err = svc.NewDividendEntry(CreateDividendEntryRequest{Ticker: "X", Country: "US", Currency: "USD", AmountOriginal: "1", ExchangeRate: "0"})
	assert.Error(t, err)
}
