package model

// Severity enum constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// RiskWarning is one diagnostic over a declaration and its computed result.
// Code is stable and machine-checkable; Message and Suggestion are for people.
type RiskWarning struct {
	Severity   string `json:"severity"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	FieldPath  string `json:"field_path"`
	Suggestion string `json:"suggestion"`
}

// HandoffSummary is the condensed review record handed to an accountant.
type HandoffSummary struct {
	Sections       []SummarySection `json:"sections"`
	Warnings       []RiskWarning    `json:"warnings"`
	EvidenceCount  int              `json:"evidence_count"` // all AI evidence entries, whatever their source
	ReadinessScore int              `json:"readiness_score"`
	GeneratedAt    string           `json:"generated_at"`
}

// SummarySection lists the review-relevant rows of one enabled section.
type SummarySection struct {
	Name      string            `json:"name"`
	Enabled   bool              `json:"enabled"`
	KeyValues map[string]string `json:"key_values"`
}
