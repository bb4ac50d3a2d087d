package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentCash    = "efectivo"
	PaymentCard    = "tarjeta"
	PaymentSpecial = "venta especial"
)

// Sale is immutable once committed. EmployeeID is the attributed employee:
// the cashier, or the authorizing admin for special sales.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NetAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	SaleDate      time.Time       `gorm:"not null;index"`

	Employee *Employee `gorm:"foreignKey:EmployeeID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity    int             `gorm:"not null"`
	PriceAtSale decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (i *SaleItem) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
