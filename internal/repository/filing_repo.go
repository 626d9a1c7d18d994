package repository

import (
	"context"
	"errors"

	"taxreturn/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("record not found")

// FilingFilter narrows List. A nil OwnerID lists every owner's filings.
type FilingFilter struct {
	OwnerID *uuid.UUID
	TaxYear int
	Status  string
	Page    int
	Limit   int
}

type FilingRepository interface {
	Create(ctx context.Context, filing *model.Filing) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Filing, error)
	List(ctx context.Context, filter FilingFilter) ([]model.Filing, int64, error)
	Update(ctx context.Context, filing *model.Filing) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type filingRepository struct {
	db *gorm.DB
}

func NewFilingRepository(db *gorm.DB) FilingRepository {
	return &filingRepository{db: db}
}

func (r *filingRepository) Create(ctx context.Context, filing *model.Filing) error {
	return GetDB(ctx, r.db).Create(filing).Error
}

func (r *filingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Filing, error) {
	var filing model.Filing
	if err := GetDB(ctx, r.db).Preload("Owner").First(&filing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &filing, nil
}

func (r *filingRepository) List(ctx context.Context, filter FilingFilter) ([]model.Filing, int64, error) {
	var filings []model.Filing
	var total int64

	scoped := func(db *gorm.DB) *gorm.DB {
		if filter.OwnerID != nil {
			db = db.Where("owner_id = ?", *filter.OwnerID)
		}
		if filter.TaxYear != 0 {
			db = db.Where("tax_year = ?", filter.TaxYear)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		return db
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Filing{}).Scopes(scoped).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Scopes(scoped).Preload("Owner").Order("updated_at DESC").Offset(offset).Limit(filter.Limit).Find(&filings).Error; err != nil {
		return nil, 0, err
	}

	return filings, total, nil
}

func (r *filingRepository) Update(ctx context.Context, filing *model.Filing) error {
	return GetDB(ctx, r.db).Omit("Owner").Save(filing).Error
}

func (r *filingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Filing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
