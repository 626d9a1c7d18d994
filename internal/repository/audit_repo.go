package repository

import (
	"context"

	"taxreturn/internal/model"

	"gorm.io/gorm"
)

// AuditFilter narrows audit log listings. EntityID selects the trail of one filing or review.
type AuditFilter struct {
	EntityID string
	Action   string
	Page     int
	Limit    int
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	scoped := func(db *gorm.DB) *gorm.DB {
		if filter.EntityID != "" {
			db = db.Where("entity_id = ?", filter.EntityID)
		}
		if filter.Action != "" {
			db = db.Where("action = ?", filter.Action)
		}
		return db
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AuditLog{}).Scopes(scoped).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Scopes(scoped).Preload("User").Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
