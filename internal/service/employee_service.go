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
	"golang.org/x/crypto/bcrypt"
)

type EmployeeService interface {
	List(ctx context.Context) ([]dto.EmployeeResponse, error)
	Create(ctx context.Context, actor Actor, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
}

type employeeService struct {
	repo       repository.EmployeeRepository
	audit      audit.Recorder
	bcryptCost int
}

func NewEmployeeService(repo repository.EmployeeRepository, rec audit.Recorder, bcryptCost int) EmployeeService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &employeeService{repo: repo, audit: rec, bcryptCost: bcryptCost}
}

func (s *employeeService) List(ctx context.Context) ([]dto.EmployeeResponse, error) {
	emps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, len(emps))
	for i := range emps {
		out[i] = employeeToResponse(&emps[i])
	}
	return out, nil
}

func (s *employeeService) Create(ctx context.Context, actor Actor, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	emp := &model.Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		RUT:          req.RUT,
		Role:         req.Role,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, emp); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Wrap(apierror.Conflict, "El RUT ingresado ya existe.", err)
		}
		return nil, err
	}
	record(ctx, s.audit, actor, model.ActionEmployeeCreate,
		fmt.Sprintf("Creó al usuario '%s' con RUT %s.", emp.FullName(), emp.RUT))
	resp := employeeToResponse(emp)
	return &resp, nil
}

func (s *employeeService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apierror.E(apierror.NotFound, "Empleado no encontrado")
	}
	if err != nil {
		return nil, err
	}

	emp.FirstName = req.FirstName
	emp.LastName = req.LastName
	emp.RUT = req.RUT
	emp.Role = req.Role
	emp.IsActive = *req.IsActive
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		emp.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, emp); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Wrap(apierror.Conflict, "El RUT ingresado ya pertenece a otro usuario.", err)
		}
		return nil, err
	}
	record(ctx, s.audit, actor, model.ActionEmployeeUpdate,
		fmt.Sprintf("Actualizó datos del usuario con RUT %s.", emp.RUT))
	resp := employeeToResponse(emp)
	return &resp, nil
}

func employeeToResponse(e *model.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:        e.ID.String(),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		RUT:       e.RUT,
		Role:      e.Role,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
	}
}
