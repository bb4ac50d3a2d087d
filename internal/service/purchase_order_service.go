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
	"gorm.io/gorm"
)

type PurchaseOrderService interface {
	List(ctx context.Context) ([]dto.PurchaseOrderResponse, error)
	Create(ctx context.Context, actor Actor, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	Receive(ctx context.Context, actor Actor, id uuid.UUID, req dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
}

type purchaseOrderService struct {
	repo     repository.PurchaseOrderRepository
	products repository.ProductRepository
	audit    audit.Recorder
}

func NewPurchaseOrderService(repo repository.PurchaseOrderRepository, products repository.ProductRepository, rec audit.Recorder) PurchaseOrderService {
	return &purchaseOrderService{repo: repo, products: products, audit: rec}
}

func (s *purchaseOrderService) List(ctx context.Context) ([]dto.PurchaseOrderResponse, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, len(orders))
	for i := range orders {
		out[i] = purchaseOrderToResponse(&orders[i])
	}
	return out, nil
}

func (s *purchaseOrderService) Create(ctx context.Context, actor Actor, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.E(apierror.InvalidInput, "supplier_id inválido.")
	}
	order := model.PurchaseOrder{
		SupplierID: supplierID,
		OrderDate:  time.Now().UTC(),
		Notes:      req.Notes,
		TotalCost:  req.TotalCost,
		Status:     model.POStatusOrdered,
		CreatedBy:  actor.ID,
	}
	if req.ExpectedDeliveryDate != nil && *req.ExpectedDeliveryDate != "" {
		d, err := time.Parse(time.DateOnly, *req.ExpectedDeliveryDate)
		if err != nil {
			return nil, apierror.E(apierror.InvalidInput, "expected_delivery_date inválida.")
		}
		order.ExpectedDeliveryDate = &d
	}
	for _, it := range req.Items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, apierror.E(apierror.InvalidInput, "product_id inválido: "+it.ProductID)
		}
		order.Items = append(order.Items, model.PurchaseOrderItem{
			ProductID:           pid,
			QuantityOrdered:     it.Quantity,
			CostPriceAtPurchase: it.CostPrice,
		})
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, &order)
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, apierror.Wrap(apierror.InvalidInput, "El proveedor o un producto de la orden no existe.", err)
		}
		return nil, err
	}

	record(ctx, s.audit, actor, model.ActionPurchaseOrderCreate,
		fmt.Sprintf("Creó orden de compra #%s por %s.", order.ID.String()[:8], infra.FormatCLP(order.TotalCost)))
	return s.reload(ctx, order.ID)
}

// Receive books delivered quantities against the order lines and the
// product stock in one transaction. Received stock does not reactivate
// products; that stays an explicit edit.
func (s *purchaseOrderService) Receive(ctx context.Context, actor Actor, id uuid.UUID, req dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		order, err := s.repo.FindForUpdateTx(tx, id)
		if repository.IsNotFound(err) {
			return apierror.E(apierror.NotFound, "Orden de compra no encontrada.")
		}
		if err != nil {
			return err
		}
		if order.Status == model.POStatusCancelled || order.Status == model.POStatusComplete {
			return apierror.E(apierror.InvalidInput, "La orden de compra ya está cerrada.")
		}

		lines := make(map[uuid.UUID]*model.PurchaseOrderItem, len(order.Items))
		for i := range order.Items {
			lines[order.Items[i].ID] = &order.Items[i]
		}
		for _, r := range req.ItemsReceived {
			itemID, err := uuid.Parse(r.ItemID)
			if err != nil {
				return apierror.E(apierror.InvalidInput, "item_id inválido: "+r.ItemID)
			}
			line, ok := lines[itemID]
			if !ok {
				return apierror.E(apierror.InvalidInput, "El ítem "+r.ItemID+" no pertenece a la orden.")
			}
			if err := s.repo.AddReceivedTx(tx, itemID, r.QuantityReceived); err != nil {
				return err
			}
			if err := s.products.AddStockTx(tx, line.ProductID, r.QuantityReceived); err != nil {
				return err
			}
			line.QuantityReceived += r.QuantityReceived
		}

		var ordered, received int
		for _, it := range order.Items {
			ordered += it.QuantityOrdered
			received += it.QuantityReceived
		}
		status := model.POStatusPartial
		if received >= ordered {
			status = model.POStatusComplete
		}
		return s.repo.UpdateStatusTx(tx, id, status)
	})
	if err != nil {
		return nil, err
	}

	record(ctx, s.audit, actor, model.ActionPurchaseOrderRecv,
		fmt.Sprintf("Recibió items para la orden de compra #%s.", id.String()[:8]))
	return s.reload(ctx, id)
}

func (s *purchaseOrderService) reload(ctx context.Context, id uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := purchaseOrderToResponse(o)
	return &resp, nil
}

func purchaseOrderToResponse(o *model.PurchaseOrder) dto.PurchaseOrderResponse {
	resp := dto.PurchaseOrderResponse{
		ID:                   o.ID.String(),
		SupplierID:           o.SupplierID.String(),
		OrderDate:            o.OrderDate,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		Notes:                o.Notes,
		TotalCost:            o.TotalCost,
		Status:               o.Status,
		CreatedBy:            o.CreatedBy.String(),
		Items:                make([]dto.PurchaseOrderItemResponse, 0, len(o.Items)),
	}
	if o.Supplier != nil {
		resp.SupplierName = o.Supplier.Name
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.PurchaseOrderItemResponse{
			ID:                  it.ID.String(),
			ProductID:           it.ProductID.String(),
			QuantityOrdered:     it.QuantityOrdered,
			QuantityReceived:    it.QuantityReceived,
			CostPriceAtPurchase: it.CostPriceAtPurchase,
		})
	}
	return resp
}
