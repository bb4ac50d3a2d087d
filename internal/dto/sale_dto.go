package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID   string          `json:"product_id"    validate:"required,uuid"`
	Quantity    int             `json:"quantity"      validate:"required,gt=0"`
	PriceAtSale decimal.Decimal `json:"price_at_sale"`
}

type ProcessSaleRequest struct {
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=efectivo tarjeta 'venta especial'"`
	AdminRUT      string            `json:"adminRut"`
	AdminPassword string            `json:"adminPassword"`
}

// ActivityFilter bounds the feed by calendar day (YYYY-MM-DD, both inclusive).
type ActivityFilter struct {
	StartDate string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate"   validate:"omitempty,datetime=2006-01-02"`
}

type PrintReceiptRequest struct {
	SaleID string `json:"sale_id" validate:"required,uuid"`
	Email  string `json:"email"   validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProcessSaleResponse struct {
	Message     string          `json:"message"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SaleID      string          `json:"sale_id"`
}

type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	PriceAtSale decimal.Decimal `json:"price_at_sale"`
}

// ActivityItem is either a sale (Type "SALE") or an audit entry (Type "LOG").
type ActivityItem struct {
	Type         string    `json:"type"`
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	EmployeeName string    `json:"employee_name"`

	TotalAmount   *decimal.Decimal   `json:"total_amount,omitempty"`
	NetAmount     *decimal.Decimal   `json:"net_amount,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	Items         []SaleItemResponse `json:"items,omitempty"`

	ActionType string `json:"action_type,omitempty"`
	Details    string `json:"details,omitempty"`
}
