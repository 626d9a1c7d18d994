package service

import (
	"context"
	"fmt"
	"time"

	"taxreturn/internal/model"
	"taxreturn/internal/repository"

	"github.com/shopspring/decimal"
)

const leastReadyLimit = 5

type StatisticsService interface {
	GetStatistics(ctx context.Context, taxYear int, startDate, endDate time.Time) (model.StatisticsResponse, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetStatistics aggregates the filings updated between startDate and endDate. A zero taxYear
// covers every year.
func (s *statisticsService) GetStatistics(ctx context.Context, taxYear int, startDate, endDate time.Time) (model.StatisticsResponse, error) {
	if endDate.Before(startDate) {
		return model.StatisticsResponse{}, fmt.Errorf("%w: end_date is before start_date", ErrInvalidTimeRange)
	}
	filter := repository.StatisticsFilter{TaxYear: taxYear, Start: startDate, End: endDate}

	response := model.StatisticsResponse{
		TaxYear: taxYear,
		ByStatus: map[string]int{
			model.FilingDraft:    0,
			model.FilingInReview: 0,
			model.FilingApproved: 0,
			model.FilingRejected: 0,
		},
		TotalTaxToPay:      decimal.Zero,
		TotalTaxToRefund:   decimal.Zero,
		LeastReady:         []model.FilingRanking{},
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
	}

	totals, err := s.repo.GetStatusTotals(ctx, filter)
	if err != nil {
		return model.StatisticsResponse{}, err
	}
	readinessSum := 0
	for _, t := range totals {
		response.ByStatus[t.Status] += t.Count
		response.TotalFilings += t.Count
		response.TotalTaxToPay = response.TotalTaxToPay.Add(t.TaxToPay)
		response.TotalTaxToRefund = response.TotalTaxToRefund.Add(t.TaxToRefund)
		readinessSum += t.ReadinessSum
	}
	if response.TotalFilings > 0 {
		response.AverageReadiness = (readinessSum + response.TotalFilings/2) / response.TotalFilings
	}

	ranked, err := s.repo.GetLeastReady(ctx, filter, leastReadyLimit)
	if err != nil {
		return model.StatisticsResponse{}, err
	}
	if ranked != nil {
		response.LeastReady = ranked
	}

	if response.PendingReviews, err = s.repo.CountPendingReviews(ctx, filter); err != nil {
		return model.StatisticsResponse{}, err
	}
	return response, nil
}
