package calc

import (
	"testing"

	"taxreturn/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsFile_MergeKeepsDefaults(t *testing.T) {
	var f ParamsFile
	p, err := f.Merge(DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, DefaultParams().TaxYear, p.TaxYear)
	assert.True(t, p.BasicAllowance.Equal(money.MustParse("5966.73")))
	assert.Len(t, p.Brackets, 2)
	assert.False(t, p.MortgageProrate)
}

func TestParamsFile_MergeOverrides(t *testing.T) {
	prorate := true
	f := ParamsFile{
		TaxYear:      2026,
		DividendRate: "0.10",
		Brackets: []BracketFile{
			{UpTo: "40000", Rate: "0.19"},
			{UpTo: "60000", Rate: "0.25"},
			{Rate: "0.30"},
		},
	}
	f.Mortgage.CutoverDate = "2024-06-30"
	f.Mortgage.ProrateByMonths = &prorate
	f.ChildBonus.AgeBand = 16
	f.Allocation.Minimum = "5"

	p, err := f.Merge(DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, 2026, p.TaxYear)
	assert.True(t, p.DividendRate.Equal(money.MustParse("0.10")))
	require.Len(t, p.Brackets, 3)
	assert.True(t, p.Brackets[2].UpTo.IsZero())
	assert.Equal(t, "2024-06-30", p.MortgageCutover.Format("2006-01-02"))
	assert.True(t, p.MortgageProrate)
	assert.Equal(t, 16, p.ChildAgeBand)
	assert.Equal(t, 18, p.ChildMaxAge)
	assert.True(t, p.AllocationMinimum.Equal(money.Int(5)))

	// 40000 x 19 % + 20000 x 25 % + 10000 x 30 %
	assert.Equal(t, "15600.00", money.Format(ProgressiveTax(money.Int(70000), p.Brackets)))
}

func TestParamsFile_MergeRejectsInvalidValues(t *testing.T) {
	f := ParamsFile{DividendRate: "seven"}
	_, err := f.Merge(DefaultParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dividend_rate")

	var g ParamsFile
	g.Mortgage.CutoverDate = "31.12.2023"
	_, err = g.Merge(DefaultParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cutover_date")
}
