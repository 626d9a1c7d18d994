package repository

import (
	"context"
	"errors"

	"taxreturn/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Review, error)
	HasPending(ctx context.Context, filingID uuid.UUID) (bool, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Review, int64, error)
	Update(ctx context.Context, review *model.Review) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return GetDB(ctx, r.db).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := GetDB(ctx, r.db).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := GetDB(ctx, r.db).Preload("Requester").Preload("Reviewer").First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) HasPending(ctx context.Context, filingID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Review{}).
		Where("filing_id = ? AND status = ?", filingID, model.ReviewPending).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) List(ctx context.Context, status string, page, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Review{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Requester").Preload("Reviewer")
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}
	if err := fetchQuery.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return GetDB(ctx, r.db).Omit("Requester", "Reviewer", "Filing").Save(review).Error
}
