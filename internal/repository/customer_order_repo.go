package repository

import (
	"context"

	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerOrderRepository interface {
	// Create inserts the order together with its items.
	Create(ctx context.Context, o *model.CustomerOrder) error
	List(ctx context.Context) ([]model.CustomerOrder, error)
	// UpdateStatus reports false when the order does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
}

type customerOrderRepo struct{ db *gorm.DB }

func NewCustomerOrderRepository(db *gorm.DB) CustomerOrderRepository {
	return &customerOrderRepo{db: db}
}

func (r *customerOrderRepo) Create(ctx context.Context, o *model.CustomerOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *customerOrderRepo) List(ctx context.Context) ([]model.CustomerOrder, error) {
	var out []model.CustomerOrder
	err := r.db.WithContext(ctx).Preload("Items").Order("delivery_date ASC").Find(&out).Error
	return out, err
}

func (r *customerOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.CustomerOrder{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected == 1, res.Error
}
