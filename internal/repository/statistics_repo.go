package repository

import (
	"context"
	"fmt"
	"time"

	"taxreturn/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatisticsFilter bounds the filings by last update and, when TaxYear is set, by tax year.
type StatisticsFilter struct {
	TaxYear int
	Start   time.Time
	End     time.Time
}

// StatusTotals is one row of the per-status aggregate.
type StatusTotals struct {
	Status       string
	Count        int
	TaxToPay     decimal.Decimal
	TaxToRefund  decimal.Decimal
	ReadinessSum int
}

type StatisticsRepository interface {
	GetStatusTotals(ctx context.Context, filter StatisticsFilter) ([]StatusTotals, error)
	GetLeastReady(ctx context.Context, filter StatisticsFilter, limit int) ([]model.FilingRanking, error)
	CountPendingReviews(ctx context.Context, filter StatisticsFilter) (int64, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (f StatisticsFilter) scope(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(table+".updated_at >= ? AND "+table+".updated_at <= ?", f.Start, f.End)
		if f.TaxYear != 0 {
			db = db.Where("filings.tax_year = ?", f.TaxYear)
		}
		return db
	}
}

func (r *statisticsRepository) GetStatusTotals(ctx context.Context, filter StatisticsFilter) ([]StatusTotals, error) {
	var totals []StatusTotals
	if err := GetDB(ctx, r.db).Model(&model.Filing{}).
		Select("filings.status as status, COUNT(*) as count, COALESCE(SUM(filings.tax_to_pay), 0) as tax_to_pay, COALESCE(SUM(filings.tax_to_refund), 0) as tax_to_refund, COALESCE(SUM(filings.readiness_score), 0) as readiness_sum").
		Scopes(filter.scope("filings")).
		Group("filings.status").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to query filing totals: %w", err)
	}
	return totals, nil
}

func (r *statisticsRepository) GetLeastReady(ctx context.Context, filter StatisticsFilter, limit int) ([]model.FilingRanking, error) {
	var rankings []model.FilingRanking
	if err := GetDB(ctx, r.db).Model(&model.Filing{}).
		Select("filings.id as filing_id, filings.title, filings.tax_year, filings.status, filings.readiness_score, filings.tax_to_pay, filings.tax_to_refund").
		Scopes(filter.scope("filings")).
		Where("filings.status IN ?", []string{model.FilingDraft, model.FilingInReview, model.FilingRejected}).
		Order("filings.readiness_score ASC, filings.updated_at DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query least ready filings: %w", err)
	}
	return rankings, nil
}

func (r *statisticsRepository) CountPendingReviews(ctx context.Context, filter StatisticsFilter) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Review{}).
		Joins("JOIN filings ON filings.id = reviews.filing_id AND filings.deleted_at IS NULL").
		Where("reviews.status = ?", model.ReviewPending).
		Scopes(filter.scope("reviews")).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending reviews: %w", err)
	}
	return count, nil
}
