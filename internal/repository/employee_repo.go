package repository

import (
	"context"

	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	FindActiveByRUT(ctx context.Context, rut string) (*model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
	Update(ctx context.Context, e *model.Employee) error

	// FindActiveAdminByRUTTx is the step-up lookup; it runs on the caller's transaction.
	FindActiveAdminByRUTTx(tx *gorm.DB, rut string) (*model.Employee, error)
}

type employeeRepo struct{ db *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository { return &employeeRepo{db: db} }

func (r *employeeRepo) Create(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&e).Error
	return &e, err
}

func (r *employeeRepo) FindActiveByRUT(ctx context.Context, rut string) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).Where("rut = ? AND is_active = ?", rut, true).Take(&e).Error
	return &e, err
}

func (r *employeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	var out []model.Employee
	err := r.db.WithContext(ctx).Order("first_name, last_name").Find(&out).Error
	return out, err
}

func (r *employeeRepo) Update(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *employeeRepo) FindActiveAdminByRUTTx(tx *gorm.DB, rut string) (*model.Employee, error) {
	var e model.Employee
	err := tx.Where("rut = ? AND role = ? AND is_active = ?", rut, model.RoleAdmin, true).Take(&e).Error
	return &e, err
}
