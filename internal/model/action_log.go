package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action tags.
const (
	ActionCashboxOpen         = "CASHBOX_OPEN"
	ActionCashboxClose        = "CASHBOX_CLOSE"
	ActionCashAdd             = "CASH_ADD"
	ActionCashRemove          = "CASH_REMOVE"
	ActionSaleProcessed       = "SALE_PROCESSED"
	ActionProductCreate       = "PRODUCT_CREATE"
	ActionProductUpdate       = "PRODUCT_UPDATE"
	ActionProductActivate     = "PRODUCT_ACTIVATE"
	ActionProductDeactivate   = "PRODUCT_DEACTIVATE"
	ActionSupplierCreate      = "SUPPLIER_CREATE"
	ActionSupplierUpdate      = "SUPPLIER_UPDATE"
	ActionSupplierDelete      = "SUPPLIER_DELETE"
	ActionEmployeeCreate      = "EMPLOYEE_CREATE"
	ActionEmployeeUpdate      = "EMPLOYEE_UPDATE"
	ActionPurchaseOrderCreate = "PURCHASE_ORDER_CREATE"
	ActionPurchaseOrderRecv   = "PURCHASE_ORDER_RECEIVE"
	ActionCustomerOrderCreate = "CUSTOMER_ORDER_CREATE"
	ActionCustomerOrderUpdate = "CUSTOMER_ORDER_UPDATE"
)

// ActionLog is an append-only audit entry. It is written outside the
// transaction of the operation it describes.
type ActionLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;index"`
	EmployeeName string    `gorm:"not null"`
	ActionType   string    `gorm:"type:varchar(40);not null;index"`
	Details      string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"index"`
}

func (l *ActionLog) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}
