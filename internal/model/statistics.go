package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatisticsResponse aggregates settlement totals and readiness over the filings touched in a
// time window.
type StatisticsResponse struct {
	TaxYear            int             `json:"tax_year,omitempty"`
	TotalFilings       int             `json:"total_filings"`
	ByStatus           map[string]int  `json:"by_status"`
	TotalTaxToPay      decimal.Decimal `json:"total_tax_to_pay"`
	TotalTaxToRefund   decimal.Decimal `json:"total_tax_to_refund"`
	AverageReadiness   int             `json:"average_readiness"`
	PendingReviews     int64           `json:"pending_reviews"`
	LeastReady         []FilingRanking `json:"least_ready"`
	TimeRangeStartDate time.Time       `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time       `json:"time_range_end_date"`
}

// FilingRanking is one filing ranked by its readiness score
type FilingRanking struct {
	FilingID       string          `json:"filing_id"`
	Title          string          `json:"title"`
	TaxYear        int             `json:"tax_year"`
	Status         string          `json:"status"`
	ReadinessScore int             `json:"readiness_score"`
	TaxToPay       decimal.Decimal `json:"tax_to_pay"`
	TaxToRefund    decimal.Decimal `json:"tax_to_refund"`
}
