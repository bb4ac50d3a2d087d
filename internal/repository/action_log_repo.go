package repository

import (
	"context"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/model"

	"gorm.io/gorm"
)

type ActionLogRepository interface {
	Create(ctx context.Context, l *model.ActionLog) error
	ListBetween(ctx context.Context, from, to *time.Time) ([]model.ActionLog, error)
}

type actionLogRepo struct{ db *gorm.DB }

func NewActionLogRepository(db *gorm.DB) ActionLogRepository { return &actionLogRepo{db: db} }

func (r *actionLogRepo) Create(ctx context.Context, l *model.ActionLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *actionLogRepo) ListBetween(ctx context.Context, from, to *time.Time) ([]model.ActionLog, error) {
	var logs []model.ActionLog
	q := r.db.WithContext(ctx).Model(&model.ActionLog{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	err := q.Order("created_at DESC").Find(&logs).Error
	return logs, err
}
