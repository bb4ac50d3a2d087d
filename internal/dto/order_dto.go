package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Purchase orders ─────────────────────────────────────────────────────────

type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,gt=0"`
	CostPrice decimal.Decimal `json:"cost_price" validate:"min=0"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID           string                     `json:"supplier_id"            validate:"required,uuid"`
	ExpectedDeliveryDate *string                    `json:"expected_delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Notes                string                     `json:"notes"                  validate:"max=1000"`
	Items                []PurchaseOrderItemRequest `json:"items"                  validate:"required,min=1,dive"`
	TotalCost            decimal.Decimal            `json:"total_cost"             validate:"min=0"`
}

type ReceivedItem struct {
	ItemID           string `json:"item_id"           validate:"required,uuid"`
	QuantityReceived int    `json:"quantity_received" validate:"required,gt=0"`
}

type ReceivePurchaseOrderRequest struct {
	ItemsReceived []ReceivedItem `json:"items_received" validate:"required,min=1,dive"`
}

type PurchaseOrderItemResponse struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	QuantityOrdered     int             `json:"quantity_ordered"`
	QuantityReceived    int             `json:"quantity_received"`
	CostPriceAtPurchase decimal.Decimal `json:"cost_price_at_purchase"`
}

type PurchaseOrderResponse struct {
	ID                   string                      `json:"id"`
	SupplierID           string                      `json:"supplier_id"`
	SupplierName         string                      `json:"supplier_name"`
	OrderDate            time.Time                   `json:"order_date"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date"`
	Notes                string                      `json:"notes"`
	TotalCost            decimal.Decimal             `json:"total_cost"`
	Status               string                      `json:"status"`
	CreatedBy            string                      `json:"created_by"`
	Items                []PurchaseOrderItemResponse `json:"items"`
}

// ─── Customer orders ─────────────────────────────────────────────────────────

type CustomerOrderItemRequest struct {
	Description string          `json:"description" validate:"required,min=1,max=255"`
	Quantity    int             `json:"quantity"    validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"  validate:"min=0"`
}

type CreateCustomerOrderRequest struct {
	CustomerName  string                     `json:"customer_name"  validate:"required,min=1,max=150"`
	CustomerPhone string                     `json:"customer_phone" validate:"max=30"`
	DeliveryDate  string                     `json:"delivery_date"  validate:"required,datetime=2006-01-02"`
	TotalAmount   decimal.Decimal            `json:"total_amount"   validate:"min=0"`
	DownPayment   decimal.Decimal            `json:"down_payment"   validate:"min=0"`
	Notes         string                     `json:"notes"          validate:"max=1000"`
	Items         []CustomerOrderItemRequest `json:"items"          validate:"required,min=1,dive"`
}

type UpdateCustomerOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pendiente en_preparacion listo_para_entrega completado cancelado"`
}

type CustomerOrderItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type CustomerOrderResponse struct {
	ID            string                      `json:"id"`
	CustomerName  string                      `json:"customer_name"`
	CustomerPhone string                      `json:"customer_phone"`
	DeliveryDate  time.Time                   `json:"delivery_date"`
	TotalAmount   decimal.Decimal             `json:"total_amount"`
	DownPayment   decimal.Decimal             `json:"down_payment"`
	Notes         string                      `json:"notes"`
	EmployeeID    string                      `json:"employee_id"`
	Status        string                      `json:"status"`
	CreatedAt     time.Time                   `json:"created_at"`
	Items         []CustomerOrderItemResponse `json:"items"`
}
