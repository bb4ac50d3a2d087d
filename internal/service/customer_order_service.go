package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"
	"github.com/SoyuzCL/pos-panchita/internal/audit"
	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/infra"
	"github.com/SoyuzCL/pos-panchita/internal/model"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/google/uuid"
)

type CustomerOrderService interface {
	List(ctx context.Context) ([]dto.CustomerOrderResponse, error)
	Create(ctx context.Context, actor Actor, req dto.CreateCustomerOrderRequest) (*dto.CustomerOrderResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, status string) error
}

type customerOrderService struct {
	repo  repository.CustomerOrderRepository
	audit audit.Recorder
}

func NewCustomerOrderService(repo repository.CustomerOrderRepository, rec audit.Recorder) CustomerOrderService {
	return &customerOrderService{repo: repo, audit: rec}
}

func (s *customerOrderService) List(ctx context.Context) ([]dto.CustomerOrderResponse, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerOrderResponse, len(orders))
	for i := range orders {
		out[i] = customerOrderToResponse(&orders[i])
	}
	return out, nil
}

func (s *customerOrderService) Create(ctx context.Context, actor Actor, req dto.CreateCustomerOrderRequest) (*dto.CustomerOrderResponse, error) {
	delivery, err := time.Parse(time.DateOnly, req.DeliveryDate)
	if err != nil {
		return nil, apierror.E(apierror.InvalidInput, "delivery_date inválida.")
	}
	if req.DownPayment.GreaterThan(req.TotalAmount) {
		return nil, apierror.E(apierror.InvalidInput, "El abono no puede superar el total del pedido.")
	}
	order := &model.CustomerOrder{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		DeliveryDate:  delivery,
		TotalAmount:   req.TotalAmount,
		DownPayment:   req.DownPayment,
		Notes:         req.Notes,
		EmployeeID:    actor.ID,
		Status:        model.COStatusPending,
	}
	for _, it := range req.Items {
		order.Items = append(order.Items, model.CustomerOrderItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	record(ctx, s.audit, actor, model.ActionCustomerOrderCreate,
		fmt.Sprintf("Creó pedido para cliente '%s' por %s.", order.CustomerName, infra.FormatCLP(order.TotalAmount)))
	resp := customerOrderToResponse(order)
	return &resp, nil
}

func (s *customerOrderService) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, status string) error {
	switch status {
	case model.COStatusPending, model.COStatusPreparing, model.COStatusReady, model.COStatusDone, model.COStatusCancelled:
	default:
		return apierror.E(apierror.InvalidInput, "Estado de pedido no válido.")
	}
	ok, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.E(apierror.NotFound, "Pedido no encontrado.")
	}
	record(ctx, s.audit, actor, model.ActionCustomerOrderUpdate,
		fmt.Sprintf("Actualizó estado del pedido #%s a '%s'.", id.String()[:8], status))
	return nil
}

func customerOrderToResponse(o *model.CustomerOrder) dto.CustomerOrderResponse {
	resp := dto.CustomerOrderResponse{
		ID:            o.ID.String(),
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		DeliveryDate:  o.DeliveryDate,
		TotalAmount:   o.TotalAmount,
		DownPayment:   o.DownPayment,
		Notes:         o.Notes,
		EmployeeID:    o.EmployeeID.String(),
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		Items:         make([]dto.CustomerOrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.CustomerOrderItemResponse{
			ID:          it.ID.String(),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return resp
}
