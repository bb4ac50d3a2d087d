package service

import (
	"context"
	"fmt"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"
	"github.com/SoyuzCL/pos-panchita/internal/audit"
	"github.com/SoyuzCL/pos-panchita/internal/dto"
	"github.com/SoyuzCL/pos-panchita/internal/model"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/google/uuid"
)

type SupplierService interface {
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Create(ctx context.Context, actor Actor, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

var errSupplierNotFound = apierror.E(apierror.NotFound, "Proveedor no encontrado.")

type supplierService struct {
	repo  repository.SupplierRepository
	audit audit.Recorder
}

func NewSupplierService(repo repository.SupplierRepository, rec audit.Recorder) SupplierService {
	return &supplierService{repo: repo, audit: rec}
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, len(list))
	for i := range list {
		out[i] = supplierToResponse(&list[i])
	}
	return out, nil
}

func (s *supplierService) Create(ctx context.Context, actor Actor, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	sup := &model.Supplier{}
	applySupplier(sup, req)
	if err := s.repo.Create(ctx, sup); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Wrap(apierror.Conflict, "El RUT o Email ingresado ya existe.", err)
		}
		return nil, err
	}
	record(ctx, s.audit, actor, model.ActionSupplierCreate, fmt.Sprintf("Creó al proveedor '%s'.", sup.Name))
	resp := supplierToResponse(sup)
	return &resp, nil
}

func (s *supplierService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, errSupplierNotFound
	}
	if err != nil {
		return nil, err
	}
	applySupplier(sup, req)
	if err := s.repo.Update(ctx, sup); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Wrap(apierror.Conflict, "El RUT o Email ingresado ya pertenece a otro proveedor.", err)
		}
		return nil, err
	}
	record(ctx, s.audit, actor, model.ActionSupplierUpdate, fmt.Sprintf("Actualizó al proveedor '%s'.", sup.Name))
	resp := supplierToResponse(sup)
	return &resp, nil
}

// Delete refuses suppliers still referenced by products or purchase orders.
func (s *supplierService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	sup, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return errSupplierNotFound
	}
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return apierror.Wrap(apierror.Conflict, "No se puede eliminar el proveedor porque está en uso.", err)
		}
		return err
	}
	if !deleted {
		return errSupplierNotFound
	}
	record(ctx, s.audit, actor, model.ActionSupplierDelete, fmt.Sprintf("Eliminó al proveedor '%s'.", sup.Name))
	return nil
}

func applySupplier(sup *model.Supplier, req dto.SupplierRequest) {
	sup.Name = req.Name
	sup.RUT = blankToNil(req.RUT)
	sup.ContactPerson = blankToNil(req.ContactPerson)
	sup.Phone = blankToNil(req.Phone)
	sup.Email = blankToNil(req.Email)
	sup.Address = blankToNil(req.Address)
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func supplierToResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		RUT:           s.RUT,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		CreatedAt:     s.CreatedAt,
	}
}
