package handoff

import (
	"testing"
	"time"

	"taxreturn/internal/calc"
	"taxreturn/internal/model"
	"taxreturn/internal/risk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ofSeverity(severity string, n int) []model.RiskWarning {
	out := make([]model.RiskWarning, n)
	for i := range out {
		out[i] = model.RiskWarning{Severity: severity, Code: "X"}
	}
	return out
}

func TestReadinessScore(t *testing.T) {
	mixed := append(ofSeverity(model.SeverityError, 1), ofSeverity(model.SeverityWarning, 2)...)
	mixed = append(mixed, ofSeverity(model.SeverityInfo, 3)...)

	tests := []struct {
		name     string
		warnings []model.RiskWarning
		want     int
	}{
		{"none", nil, 100},
		{"one error", ofSeverity(model.SeverityError, 1), 80},
		{"one warning", ofSeverity(model.SeverityWarning, 1), 90},
		{"one info", ofSeverity(model.SeverityInfo, 1), 95},
		{"mixed", mixed, 45},
		{"ten errors", ofSeverity(model.SeverityError, 10), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadinessScore(tt.warnings))
		})
	}
}

func TestBuildAt(t *testing.T) {
	d := model.DefaultDeclaration()
	d.PersonalInfo.BirthNumber = "850101/1234"
	d.Employment.Enabled = true
	d.Employment.GrossIncome = "15000"
	d.Employment.InsuranceDeduction = "1500"
	d.Mortgage = model.Mortgage{Enabled: true, InterestPaid: "600", MonthsServiced: 12, ContractDate: "2024-02-01", AccrualStartDate: "2024-03-01"}
	d.AiCopilot.Evidence = []model.Evidence{
		{ID: "e1", FieldPath: "employment.gross_income", Confirmed: true},
		{ID: "e2", FieldPath: "employment.gross_income", Confirmed: true},
		{ID: "e3", FieldPath: "mortgage.interest_paid", Confirmed: true},
	}

	r := calc.Compute(d)
	warnings := risk.Evaluate(d, &r)
	now := time.Date(2026, time.March, 2, 10, 30, 0, 0, time.FixedZone("CET", 3600))

	s := BuildAt(d, r, warnings, now)

	assert.Equal(t, "2026-03-02T09:30:00Z", s.GeneratedAt)
	assert.Equal(t, 3, s.EvidenceCount)
	// attestation missing, tax underpayment
	assert.Equal(t, 85, s.ReadinessScore)
	require.Len(t, s.Sections, 2)
	assert.Equal(t, SectionEmployment, s.Sections[0].Name)
	assert.Equal(t, "15000.00", s.Sections[0].KeyValues[model.RowEmploymentIncome])
	assert.Equal(t, SectionMortgage, s.Sections[1].Name)
	assert.Equal(t, "300.00", s.Sections[1].KeyValues[model.RowMortgageBonus])
	for _, sec := range s.Sections {
		assert.True(t, sec.Enabled)
	}
}

func TestBuildAt_EvidenceCountIgnoresSource(t *testing.T) {
	d := model.DefaultDeclaration()
	d.AiCopilot.Evidence = []model.Evidence{
		{ID: "e1", FieldPath: "employment.gross_income", Source: "document", DocumentID: "doc-1"},
		{ID: "e2", FieldPath: "employment.gross_income", Source: "ocr", DocumentID: "doc-1"},
		{ID: "e3", FieldPath: "mortgage.interest_paid"},
		{ID: "e4", FieldPath: "unknown.field", Source: "manual", Confirmed: true},
	}

	s := BuildAt(d, calc.Compute(d), nil, time.Unix(0, 0))
	assert.Equal(t, 4, s.EvidenceCount)
}

func TestBuildAt_EmptyDeclaration(t *testing.T) {
	d := model.DefaultDeclaration()
	s := BuildAt(d, calc.Compute(d), nil, time.Unix(0, 0))

	assert.Empty(t, s.Sections)
	assert.NotNil(t, s.Warnings)
	assert.Equal(t, 0, s.EvidenceCount)
	assert.Equal(t, 100, s.ReadinessScore)
	assert.Equal(t, "1970-01-01T00:00:00Z", s.GeneratedAt)
}
