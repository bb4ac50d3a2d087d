package service

import (
	"sync"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Approver is the admin who authorized a step-up operation.
type Approver struct {
	ID   uuid.UUID
	Name string
}

// AdminGate verifies a second identity inline with the operation it
// authorizes. It runs on the caller's transaction so the lookup and the
// guarded writes commit together.
type AdminGate interface {
	AuthorizeTx(tx *gorm.DB, rut, secret string) (*Approver, error)
}

var errBadAdmin = apierror.E(apierror.Unauthorized, "Credenciales de administrador inválidas.")

type adminGate struct {
	employees repository.EmployeeRepository
}

func NewAdminGate(employees repository.EmployeeRepository) AdminGate {
	return &adminGate{employees: employees}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareSecret is swapped in tests to count comparisons.
var compareSecret = bcrypt.CompareHashAndPassword

// absentEmployeeHash is compared against when no employee matches the RUT so
// that an unknown RUT and a wrong secret cost the same bcrypt comparison.
func absentEmployeeHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-admin"), bcrypt.DefaultCost)
	})
	return dummyHash
}

func (g *adminGate) AuthorizeTx(tx *gorm.DB, rut, secret string) (*Approver, error) {
	if rut == "" || secret == "" {
		return nil, errBadAdmin
	}
	admin, err := g.employees.FindActiveAdminByRUTTx(tx, rut)
	if repository.IsNotFound(err) {
		_ = compareSecret(absentEmployeeHash(), []byte(secret))
		return nil, errBadAdmin
	}
	if err != nil {
		return nil, err
	}
	if compareSecret([]byte(admin.PasswordHash), []byte(secret)) != nil {
		return nil, errBadAdmin
	}
	return &Approver{ID: admin.ID, Name: admin.FullName()}, nil
}
