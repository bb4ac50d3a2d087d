package repository

import (
	"context"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CashSessionRepository interface {
	// FindActive returns (nil, nil) when no session is open.
	FindActive(ctx context.Context) (*model.CashSession, error)
	ListClosed(ctx context.Context, page, limit int) ([]model.CashSession, int64, error)
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)

	// Used inside transactions: callers must pass the tx instance
	FindActiveForUpdateTx(tx *gorm.DB) (*model.CashSession, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.CashSession, error)
	CreateTx(tx *gorm.DB, s *model.CashSession) error
	CloseTx(tx *gorm.DB, id uuid.UUID, at time.Time) (bool, error)
	AdjustBalanceTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (bool, error)
	CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type cashSessionRepo struct{ db *gorm.DB }

func NewCashSessionRepository(db *gorm.DB) CashSessionRepository { return &cashSessionRepo{db: db} }

func (r *cashSessionRepo) DB() *gorm.DB { return r.db }

func (r *cashSessionRepo) FindActive(ctx context.Context) (*model.CashSession, error) {
	return findActive(r.db.WithContext(ctx))
}

func (r *cashSessionRepo) FindActiveForUpdateTx(tx *gorm.DB) (*model.CashSession, error) {
	return findActive(tx.Clauses(clause.Locking{Strength: "UPDATE"}))
}

func findActive(q *gorm.DB) (*model.CashSession, error) {
	var s model.CashSession
	err := q.Where("is_active = ?", true).Take(&s).Error
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashSessionRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := tx.Where("id = ?", id).Take(&s).Error
	return &s, err
}

func (r *cashSessionRepo) CreateTx(tx *gorm.DB, s *model.CashSession) error {
	return tx.Create(s).Error
}

// CloseTx deactivates the session; false means it was no longer active.
func (r *cashSessionRepo) CloseTx(tx *gorm.DB, id uuid.UUID, at time.Time) (bool, error) {
	res := tx.Model(&model.CashSession{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"is_active": false, "end_time": at})
	return res.RowsAffected == 1, res.Error
}

// AdjustBalanceTx adds delta to the balance unless the result would be
// negative; false means the update was refused.
func (r *cashSessionRepo) AdjustBalanceTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (bool, error) {
	res := tx.Model(&model.CashSession{}).
		Where("id = ? AND current_balance + ? >= 0", id, delta).
		Update("current_balance", gorm.Expr("current_balance + ?", delta))
	return res.RowsAffected == 1, res.Error
}

func (r *cashSessionRepo) CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error {
	return tx.Create(m).Error
}

func (r *cashSessionRepo) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *cashSessionRepo) ListClosed(ctx context.Context, page, limit int) ([]model.CashSession, int64, error) {
	var (
		out   []model.CashSession
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.CashSession{}).Where("is_active = ?", false)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("start_time DESC").Offset((page - 1) * limit).Limit(limit).Find(&out).Error
	return out, total, err
}
