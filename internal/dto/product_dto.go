package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ProductRequest struct {
	Name       string          `json:"name"              validate:"required,min=1,max=200"`
	Code       *string         `json:"code"              validate:"omitempty,max=60"`
	Category   string          `json:"category"          validate:"required,max=100"`
	CostPrice  decimal.Decimal `json:"cost_price"        validate:"min=0"`
	Stock      int             `json:"stock"             validate:"min=0"`
	SupplierID *string         `json:"supplier_id"       validate:"omitempty,uuid"`
	ExpiryDate *string         `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateProductRequest struct {
	ProductRequest
	RecalculatePrice bool `json:"recalculate_price"`
}

type ProductListFilter struct {
	IncludeInactive bool `form:"include_inactive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ProductResponse keeps the field names the register front-end reads
// (price is the selling price).
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Code         *string         `json:"code"`
	Category     string          `json:"category"`
	IsActive     bool            `json:"is_active"`
	SupplierID   *string         `json:"supplier_id"`
	SupplierName *string         `json:"supplier_name"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	ExpiryDate   *time.Time      `json:"fecha_vencimiento"`
}

type StockAlertResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Stock      int        `json:"stock"`
	ExpiryDate *time.Time `json:"fecha_vencimiento,omitempty"`
}
