package repository

import (
	"context"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	// CreateTx inserts the sale header only; items go through CreateItemTx.
	CreateTx(tx *gorm.DB, s *model.Sale) error
	CreateItemTx(tx *gorm.DB, item *model.SaleItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListBetween(ctx context.Context, from, to *time.Time) ([]model.Sale, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit("Items", "Employee").Create(s).Error
}

func (r *saleRepo) CreateItemTx(tx *gorm.DB, item *model.SaleItem) error {
	return tx.Omit("Product").Create(item).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("Employee").
		Where("id = ?", id).Take(&s).Error
	return &s, err
}

// ListBetween returns sales newest first; nil bounds are open.
func (r *saleRepo) ListBetween(ctx context.Context, from, to *time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if from != nil {
		q = q.Where("sale_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("sale_date <= ?", *to)
	}
	err := q.Preload("Items.Product").Preload("Employee").
		Order("sale_date DESC").
		Find(&sales).Error
	return sales, err
}
