package repository

import (
	"context"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentTotal struct {
	PaymentMethod string
	Total         decimal.Decimal
}

type ProductQuantity struct {
	Name          string
	TotalQuantity int64
}

type ReportRepository interface {
	SalesSince(ctx context.Context, since time.Time) (decimal.Decimal, int64, error)
	TotalsByPaymentMethod(ctx context.Context, since time.Time) ([]PaymentTotal, error)
	// TopProductSince returns nil when nothing was sold.
	TopProductSince(ctx context.Context, since time.Time) (*ProductQuantity, error)
	CountCustomerOrders(ctx context.Context, statuses ...string) (int64, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesSince(ctx context.Context, since time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS count").
		Where("sale_date >= ?", since).
		Scan(&row).Error
	return row.Total, row.Count, err
}

func (r *reportRepo) TotalsByPaymentMethod(ctx context.Context, since time.Time) ([]PaymentTotal, error) {
	var rows []PaymentTotal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("payment_method, COALESCE(SUM(total_amount), 0) AS total").
		Where("sale_date >= ?", since).
		Group("payment_method").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) TopProductSince(ctx context.Context, since time.Time) (*ProductQuantity, error) {
	var rows []ProductQuantity
	err := r.db.WithContext(ctx).Table("sale_items").
		Select("products.name AS name, SUM(sale_items.quantity) AS total_quantity").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.sale_date >= ?", since).
		Group("products.name").
		Order("total_quantity DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *reportRepo) CountCustomerOrders(ctx context.Context, statuses ...string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CustomerOrder{}).Where("status IN ?", statuses).Count(&n).Error
	return n, err
}
