package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"
	"github.com/SoyuzCL/pos-panchita/internal/audit"
	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/infra"
	"github.com/SoyuzCL/pos-panchita/internal/model"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashSessionService interface {
	// GetActive returns nil when no session is open.
	GetActive(ctx context.Context) (*dto.CashSessionResponse, error)
	Open(ctx context.Context, actor Actor, startAmount *decimal.Decimal) (*dto.CashSessionResponse, error)
	// Close returns nil, nil when there was nothing to close.
	Close(ctx context.Context, actor Actor) (*dto.CashSessionResponse, error)
	ApplyMovement(ctx context.Context, actor Actor, req dto.CashMovementRequest) (*dto.CashSessionResponse, error)
	History(ctx context.Context, filter dto.HistoryFilter) (*dto.SessionHistoryResponse, error)
	Movements(ctx context.Context, sessionID uuid.UUID) ([]dto.CashMovementResponse, error)

	// ApplySaleCreditIfCashTx is called by the sale processor inside its own
	// transaction. Non-cash methods are a no-op.
	ApplySaleCreditIfCashTx(tx *gorm.DB, method string, amount decimal.Decimal, saleID, actorID uuid.UUID) error
}

var (
	errActiveSession = apierror.E(apierror.ActiveSessionExists, "Ya existe una sesión de caja activa.")
	errNoSession     = apierror.E(apierror.NoActiveSession, "No hay una sesión de caja activa.")
	errNegativeCash  = apierror.E(apierror.InsufficientFunds, "El retiro no puede dejar la caja con saldo negativo.")
)

type cashSessionService struct {
	repo  repository.CashSessionRepository
	gate  AdminGate
	audit audit.Recorder
}

func NewCashSessionService(repo repository.CashSessionRepository, gate AdminGate, rec audit.Recorder) CashSessionService {
	return &cashSessionService{repo: repo, gate: gate, audit: rec}
}

func (s *cashSessionService) GetActive(ctx context.Context) (*dto.CashSessionResponse, error) {
	active, err := s.repo.FindActive(ctx)
	if err != nil || active == nil {
		return nil, err
	}
	return sessionToResponse(active), nil
}

// ── Open ──────────────────────────────────────────────────────────────────────
// The check and the insert share one transaction; the partial unique index
// catches the opens that race past the check.

func (s *cashSessionService) Open(ctx context.Context, actor Actor, startAmount *decimal.Decimal) (*dto.CashSessionResponse, error) {
	if startAmount == nil || startAmount.IsNegative() {
		return nil, apierror.E(apierror.InvalidInput, "Se requiere un monto inicial válido.")
	}

	var session model.CashSession
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		active, err := s.repo.FindActiveForUpdateTx(tx)
		if err != nil {
			return err
		}
		if active != nil {
			return errActiveSession
		}
		session = model.CashSession{
			EmployeeID:     actor.ID,
			StartAmount:    *startAmount,
			CurrentBalance: *startAmount,
			IsActive:       true,
			StartTime:      time.Now().UTC(),
		}
		return s.repo.CreateTx(tx, &session)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errActiveSession
		}
		return nil, err
	}

	record(ctx, s.audit, actor, model.ActionCashboxOpen,
		fmt.Sprintf("Inició caja con %s.", infra.FormatCLP(session.StartAmount)))
	return sessionToResponse(&session), nil
}

// ── Close ─────────────────────────────────────────────────────────────────────

func (s *cashSessionService) Close(ctx context.Context, actor Actor) (*dto.CashSessionResponse, error) {
	var closed *model.CashSession
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		active, err := s.repo.FindActiveForUpdateTx(tx)
		if err != nil || active == nil {
			return err
		}
		now := time.Now().UTC()
		ok, err := s.repo.CloseTx(tx, active.ID, now)
		if err != nil || !ok {
			return err
		}
		active.IsActive = false
		active.EndTime = &now
		closed = active
		return nil
	})
	if err != nil || closed == nil {
		return nil, err
	}

	record(ctx, s.audit, actor, model.ActionCashboxClose,
		fmt.Sprintf("Cerró caja con un saldo final de %s.", infra.FormatCLP(closed.CurrentBalance)))
	return sessionToResponse(closed), nil
}

// ── ApplyMovement ─────────────────────────────────────────────────────────────
// Manual ADD/REMOVE approved by an admin. Approval, balance change and
// ledger row commit together or not at all.

func (s *cashSessionService) ApplyMovement(ctx context.Context, actor Actor, req dto.CashMovementRequest) (*dto.CashSessionResponse, error) {
	if req.Type != model.MovementAdd && req.Type != model.MovementRemove {
		return nil, apierror.E(apierror.InvalidInput, "Tipo de movimiento no válido.")
	}
	if !req.Amount.IsPositive() {
		return nil, apierror.E(apierror.InvalidInput, "El monto debe ser positivo.")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apierror.E(apierror.InvalidInput, "Debe indicar el motivo del movimiento.")
	}

	delta := req.Amount
	if req.Type == model.MovementRemove {
		delta = req.Amount.Neg()
	}

	var (
		updated  *model.CashSession
		approver *Approver
	)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		if approver, err = s.gate.AuthorizeTx(tx, req.AdminRUT, req.AdminPassword); err != nil {
			return err
		}
		active, err := s.repo.FindActiveForUpdateTx(tx)
		if err != nil {
			return err
		}
		if active == nil {
			return errNoSession
		}
		if active.CurrentBalance.Add(delta).IsNegative() {
			return errNegativeCash
		}
		ok, err := s.repo.AdjustBalanceTx(tx, active.ID, delta)
		if err != nil {
			return err
		}
		if !ok {
			return errNegativeCash
		}
		approvedBy := approver.ID
		if err := s.repo.CreateMovementTx(tx, &model.CashMovement{
			SessionID:  active.ID,
			Type:       req.Type,
			Amount:     delta,
			Reason:     reason,
			EmployeeID: actor.ID,
			ApprovedBy: &approvedBy,
		}); err != nil {
			return err
		}
		updated, err = s.repo.FindByIDTx(tx, active.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	action, verb := model.ActionCashAdd, "Agregó"
	if req.Type == model.MovementRemove {
		action, verb = model.ActionCashRemove, "Retiró"
	}
	record(ctx, s.audit, actor, action, fmt.Sprintf("%s %s. Motivo: %s. Aprobado por: %s.",
		verb, infra.FormatCLP(req.Amount), reason, approver.Name))
	return sessionToResponse(updated), nil
}

func (s *cashSessionService) ApplySaleCreditIfCashTx(tx *gorm.DB, method string, amount decimal.Decimal, saleID, actorID uuid.UUID) error {
	if method != model.PaymentCash {
		return nil
	}
	active, err := s.repo.FindActiveForUpdateTx(tx)
	if err != nil {
		return err
	}
	if active == nil {
		return apierror.E(apierror.NoActiveSession, "No se encontró una sesión de caja activa.")
	}
	ok, err := s.repo.AdjustBalanceTx(tx, active.ID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return errNegativeCash
	}
	return s.repo.CreateMovementTx(tx, &model.CashMovement{
		SessionID:  active.ID,
		Type:       model.MovementSale,
		Amount:     amount,
		Reason:     "Venta " + saleID.String()[:8],
		EmployeeID: actorID,
		SaleID:     &saleID,
	})
}

// ── Read paths ────────────────────────────────────────────────────────────────

func (s *cashSessionService) History(ctx context.Context, filter dto.HistoryFilter) (*dto.SessionHistoryResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	sessions, total, err := s.repo.ListClosed(ctx, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CashSessionResponse, 0, len(sessions))
	for i := range sessions {
		data = append(data, *sessionToResponse(&sessions[i]))
	}
	return &dto.SessionHistoryResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *cashSessionService) Movements(ctx context.Context, sessionID uuid.UUID) ([]dto.CashMovementResponse, error) {
	movs, err := s.repo.ListMovements(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.CashMovementResponse{
			ID:         m.ID.String(),
			SessionID:  m.SessionID.String(),
			Type:       m.Type,
			Amount:     m.Amount,
			Reason:     m.Reason,
			EmployeeID: m.EmployeeID.String(),
			ApprovedBy: uuidString(m.ApprovedBy),
			SaleID:     uuidString(m.SaleID),
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, nil
}

func sessionToResponse(s *model.CashSession) *dto.CashSessionResponse {
	return &dto.CashSessionResponse{
		ID:             s.ID.String(),
		EmployeeID:     s.EmployeeID.String(),
		StartAmount:    s.StartAmount,
		CurrentBalance: s.CurrentBalance,
		IsActive:       s.IsActive,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
	}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
