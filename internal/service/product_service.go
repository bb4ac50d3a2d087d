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
)

type ProductService interface {
	List(ctx context.Context, includeInactive bool) ([]dto.ProductResponse, error)
	Create(ctx context.Context, actor Actor, req dto.ProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	ToggleStatus(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ProductResponse, error)
	LowStock(ctx context.Context) ([]dto.StockAlertResponse, error)
	ExpiringSoon(ctx context.Context) ([]dto.StockAlertResponse, error)
}

// ProductOptions carries the alert thresholds.
type ProductOptions struct {
	LowStockThreshold int
	ExpiryWindowDays  int
}

var errProductNotFound = apierror.E(apierror.NotFound, "Producto no encontrado.")

type productService struct {
	repo  repository.ProductRepository
	audit audit.Recorder
	opts  ProductOptions
}

func NewProductService(repo repository.ProductRepository, rec audit.Recorder, opts ProductOptions) ProductService {
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = 5
	}
	if opts.ExpiryWindowDays <= 0 {
		opts.ExpiryWindowDays = 30
	}
	return &productService{repo: repo, audit: rec, opts: opts}
}

func (s *productService) List(ctx context.Context, includeInactive bool) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, len(products))
	for i := range products {
		out[i] = productToResponse(&products[i])
	}
	return out, nil
}

func (s *productService) Create(ctx context.Context, actor Actor, req dto.ProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{SellingPrice: SellingPrice(req.CostPrice)}
	if err := applyProduct(p, req); err != nil {
		return nil, err
	}
	p.IsActive = p.Stock > 0
	if err := s.repo.Create(ctx, p); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, apierror.Wrap(apierror.InvalidInput, "El proveedor indicado no existe.", err)
		}
		return nil, err
	}
	record(ctx, s.audit, actor, model.ActionProductCreate,
		fmt.Sprintf("Creó el producto '%s' (Stock: %d).", p.Name, p.Stock))
	return s.reload(ctx, p.ID)
}

// Update applies the stock transition rule: restocking an empty product
// activates it, emptying a product deactivates it.
func (s *productService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, errProductNotFound
	}
	if err != nil {
		return nil, err
	}
	old := *p

	if err := applyProduct(p, req.ProductRequest); err != nil {
		return nil, err
	}
	p.Supplier = nil
	if req.RecalculatePrice {
		p.SellingPrice = SellingPrice(p.CostPrice)
	}
	switch {
	case old.Stock <= 0 && p.Stock > 0:
		p.IsActive = true
	case p.Stock <= 0:
		p.IsActive = false
	}
	if err := s.repo.Update(ctx, p); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, apierror.Wrap(apierror.InvalidInput, "El proveedor indicado no existe.", err)
		}
		return nil, err
	}

	details := []string{fmt.Sprintf("'%s' actualizado.", p.Name)}
	if old.Stock != p.Stock {
		details = append(details, fmt.Sprintf("Stock: %d -> %d.", old.Stock, p.Stock))
	}
	if !old.CostPrice.Equal(p.CostPrice) {
		details = append(details, fmt.Sprintf("Costo: %s -> %s.", infra.FormatCLP(old.CostPrice), infra.FormatCLP(p.CostPrice)))
	}
	if old.IsActive != p.IsActive {
		details = append(details, "Estado cambiado a "+activeLabel(p.IsActive)+".")
	}
	record(ctx, s.audit, actor, model.ActionProductUpdate, strings.Join(details, " "))
	return s.reload(ctx, p.ID)
}

func (s *productService) ToggleStatus(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, errProductNotFound
	}
	if err != nil {
		return nil, err
	}
	next := !p.IsActive
	if next && p.Stock <= 0 {
		return nil, apierror.E(apierror.InvalidInput, "No se puede activar un producto sin stock.")
	}
	if err := s.repo.SetActive(ctx, id, next); err != nil {
		return nil, err
	}
	p.IsActive = next

	action := model.ActionProductDeactivate
	if next {
		action = model.ActionProductActivate
	}
	record(ctx, s.audit, actor, action, fmt.Sprintf("Cambió el estado de '%s' a %s.", p.Name, activeLabel(next)))
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) LowStock(ctx context.Context) ([]dto.StockAlertResponse, error) {
	products, err := s.repo.LowStock(ctx, s.opts.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	return toAlerts(products), nil
}

func (s *productService) ExpiringSoon(ctx context.Context) ([]dto.StockAlertResponse, error) {
	now := time.Now().UTC()
	products, err := s.repo.ExpiringBetween(ctx, now, now.AddDate(0, 0, s.opts.ExpiryWindowDays))
	if err != nil {
		return nil, err
	}
	return toAlerts(products), nil
}

func (s *productService) reload(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func applyProduct(p *model.Product, req dto.ProductRequest) error {
	p.Name = req.Name
	p.Code = blankToNil(req.Code)
	p.Category = req.Category
	p.CostPrice = req.CostPrice
	p.Stock = req.Stock
	p.SupplierID = nil
	if req.SupplierID != nil && *req.SupplierID != "" {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return apierror.E(apierror.InvalidInput, "supplier_id inválido.")
		}
		p.SupplierID = &sid
	}
	p.ExpiryDate = nil
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		d, err := time.Parse(time.DateOnly, *req.ExpiryDate)
		if err != nil {
			return apierror.E(apierror.InvalidInput, "fecha_vencimiento inválida.")
		}
		p.ExpiryDate = &d
	}
	return nil
}

func activeLabel(active bool) string {
	if active {
		return "Activo"
	}
	return "Inactivo"
}

func toAlerts(products []model.Product) []dto.StockAlertResponse {
	out := make([]dto.StockAlertResponse, len(products))
	for i, p := range products {
		out[i] = dto.StockAlertResponse{ID: p.ID.String(), Name: p.Name, Stock: p.Stock, ExpiryDate: p.ExpiryDate}
	}
	return out
}

func productToResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		Code:       p.Code,
		Category:   p.Category,
		IsActive:   p.IsActive,
		SupplierID: uuidString(p.SupplierID),
		Price:      p.SellingPrice,
		Stock:      p.Stock,
		CostPrice:  p.CostPrice,
		ExpiryDate: p.ExpiryDate,
	}
	if p.Supplier != nil {
		name := p.Supplier.Name
		resp.SupplierName = &name
	}
	return resp
}
