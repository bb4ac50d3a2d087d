package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable item. A product whose stock reaches zero is
// deactivated; it is only reactivated by an explicit stock edit or toggle.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"index;not null"`
	Code         *string
	Category     string          `gorm:"not null"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock        int             `gorm:"not null;check:chk_products_stock,stock >= 0"`
	IsActive     bool            `gorm:"not null"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index"`
	ExpiryDate   *time.Time      `gorm:"column:fecha_vencimiento"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
