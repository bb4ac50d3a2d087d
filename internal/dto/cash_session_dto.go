package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────
// Amount rules (non-negative start, positive movement) are checked by the
// cash-session service so they surface as invalid_input like every other
// register rejection.

type OpenSessionRequest struct {
	StartAmount *decimal.Decimal `json:"start_amount"`
}

type CashMovementRequest struct {
	Type          string          `json:"type"          validate:"required,oneof=ADD REMOVE"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"        validate:"max=255"`
	AdminRUT      string          `json:"adminRut"`
	AdminPassword string          `json:"adminPassword"`
}

type HistoryFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CashSessionResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	StartAmount    decimal.Decimal `json:"start_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	IsActive       bool            `json:"is_active"`
	StartTime      time.Time       `json:"start_time"`
	EndTime        *time.Time      `json:"end_time"`
}

type CashMovementResponse struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"session_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	EmployeeID string          `json:"employee_id"`
	ApprovedBy *string         `json:"approved_by"`
	SaleID     *string         `json:"sale_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

type SessionHistoryResponse struct {
	Data  []CashSessionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
