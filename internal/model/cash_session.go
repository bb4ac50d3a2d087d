package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashSession is one register shift. At most one row has IsActive=true,
// enforced by the partial unique index ux_cash_sessions_single_active.
type CashSession struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	StartAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;check:chk_cash_sessions_balance,current_balance >= 0"`
	IsActive       bool            `gorm:"not null"`
	StartTime      time.Time       `gorm:"not null"`
	EndTime        *time.Time
}

func (s *CashSession) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

const (
	MovementAdd    = "ADD"
	MovementRemove = "REMOVE"
	MovementSale   = "SALE"
)

// CashMovement is an immutable entry of the session ledger. Amount is signed:
// StartAmount + SUM(Amount) always equals the session's CurrentBalance.
type CashMovement struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SessionID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type       string          `gorm:"type:varchar(10);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason     string          `gorm:"not null"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null"`
	// ApprovedBy is the admin who authorized a manual movement
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	SaleID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time
}

func (m *CashMovement) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}
