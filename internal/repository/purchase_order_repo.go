package repository

import (
	"context"

	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseOrderRepository interface {
	List(ctx context.Context) ([]model.PurchaseOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)

	// Used inside transactions: callers must pass the tx instance
	CreateTx(tx *gorm.DB, o *model.PurchaseOrder) error
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error)
	AddReceivedTx(tx *gorm.DB, itemID uuid.UUID, qty int) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error

	DB() *gorm.DB
}

type purchaseOrderRepo struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) DB() *gorm.DB { return r.db }

func (r *purchaseOrderRepo) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	var out []model.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Supplier").Preload("Items").
		Order("order_date DESC").Find(&out).Error
	return out, err
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var o model.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Supplier").Preload("Items.Product").
		Where("id = ?", id).Take(&o).Error
	return &o, err
}

// CreateTx inserts the order and its items.
func (r *purchaseOrderRepo) CreateTx(tx *gorm.DB, o *model.PurchaseOrder) error {
	return tx.Omit("Supplier", "Items.Product").Create(o).Error
}

func (r *purchaseOrderRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	var o model.PurchaseOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").Where("id = ?", id).Take(&o).Error
	return &o, err
}

func (r *purchaseOrderRepo) AddReceivedTx(tx *gorm.DB, itemID uuid.UUID, qty int) error {
	return tx.Model(&model.PurchaseOrderItem{}).Where("id = ?", itemID).
		Update("quantity_received", gorm.Expr("quantity_received + ?", qty)).Error
}

func (r *purchaseOrderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.PurchaseOrder{}).Where("id = ?", id).Update("status", status).Error
}
