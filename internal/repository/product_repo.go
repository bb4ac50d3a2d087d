package repository

import (
	"context"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, includeInactive bool) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	LowStock(ctx context.Context, threshold int) ([]model.Product, error)
	ExpiringBetween(ctx context.Context, from, to time.Time) ([]model.Product, error)

	// Used inside transactions: callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error)
	AddStockTx(tx *gorm.DB, id uuid.UUID, qty int) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Omit("Supplier").Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Preload("Supplier").Where("id = ?", id).Take(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, includeInactive bool) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Preload("Supplier")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Omit("Supplier").Save(p).Error
}

func (r *productRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *productRepo) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND stock > 0 AND stock <= ?", true, threshold).
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ExpiringBetween(ctx context.Context, from, to time.Time) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento BETWEEN ? AND ?", true, from, to).
		Order("fecha_vencimiento ASC").
		Find(&products).Error
	return products, err
}

// DecrementStockTx takes qty units in a single conditional statement and
// deactivates the product when its stock reaches zero. It reports false when
// the product is missing or has fewer than qty units; nothing is written then.
func (r *productRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]any{
			"stock":     gorm.Expr("stock - ?", qty),
			"is_active": gorm.Expr("CASE WHEN stock - ? <= 0 THEN ? ELSE is_active END", qty, false),
		})
	return res.RowsAffected == 1, res.Error
}

// AddStockTx never reactivates: that stays an explicit product edit.
func (r *productRepo) AddStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}
