package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase order status: pendiente | ordenado | recibido_parcial | recibido_completo | cancelado
const (
	POStatusPending   = "pendiente"
	POStatusOrdered   = "ordenado"
	POStatusPartial   = "recibido_parcial"
	POStatusComplete  = "recibido_completo"
	POStatusCancelled = "cancelado"
)

type PurchaseOrder struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplierID           uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderDate            time.Time `gorm:"not null"`
	ExpectedDeliveryDate *time.Time
	Notes                string
	TotalCost            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status               string          `gorm:"type:varchar(20);not null"`
	CreatedBy            uuid.UUID       `gorm:"type:uuid;not null"`

	Supplier *Supplier          `gorm:"foreignKey:SupplierID"`
	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

func (o *PurchaseOrder) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}

type PurchaseOrderItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityOrdered     int             `gorm:"not null"`
	QuantityReceived    int             `gorm:"not null"`
	CostPriceAtPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (i *PurchaseOrderItem) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// Customer order status: pendiente | en_preparacion | listo_para_entrega | completado | cancelado
const (
	COStatusPending   = "pendiente"
	COStatusPreparing = "en_preparacion"
	COStatusReady     = "listo_para_entrega"
	COStatusDone      = "completado"
	COStatusCancelled = "cancelado"
)

type CustomerOrder struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerName  string    `gorm:"not null"`
	CustomerPhone string
	DeliveryDate  time.Time       `gorm:"not null;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DownPayment   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes         string
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	CreatedAt     time.Time

	Items []CustomerOrderItem `gorm:"foreignKey:OrderID"`
}

func (o *CustomerOrder) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}

type CustomerOrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Description string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (i *CustomerOrderItem) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
