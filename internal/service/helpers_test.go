package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/SoyuzCL/pos-panchita/internal/audit"
	"github.com/SoyuzCL/pos-panchita/internal/infra"
	"github.com/SoyuzCL/pos-panchita/internal/model"
	"github.com/SoyuzCL/pos-panchita/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewSQLiteDatabase(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedEmployee(t *testing.T, db *gorm.DB, role, rut, password string, active bool) *model.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	e := &model.Employee{
		FirstName:    "Emp",
		LastName:     rut,
		RUT:          rut,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, db.Create(e).Error)
	if !active {
		require.NoError(t, db.Model(e).Update("is_active", false).Error)
		e.IsActive = false
	}
	return e
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int, price int64) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:         name,
		Category:     "Panadería",
		CostPrice:    decimal.NewFromInt(price / 2),
		SellingPrice: decimal.NewFromInt(price),
		Stock:        stock,
		IsActive:     stock > 0,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func reloadProduct(t *testing.T, db *gorm.DB, id uuid.UUID) model.Product {
	t.Helper()
	var p model.Product
	require.NoError(t, db.Where("id = ?", id).Take(&p).Error)
	return p
}

func activeSession(t *testing.T, db *gorm.DB) *model.CashSession {
	t.Helper()
	s, err := repository.NewCashSessionRepository(db).FindActive(context.Background())
	require.NoError(t, err)
	return s
}

func countRows(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// memRecorder keeps audit entries in memory, synchronously.
type memRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *memRecorder) Record(_ context.Context, e audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *memRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

func (r *memRecorder) last() audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[len(r.entries)-1]
}

// failingLogRepo makes every audit write fail.
type failingLogRepo struct{ repository.ActionLogRepository }

func (failingLogRepo) Create(context.Context, *model.ActionLog) error {
	return errors.New("action_logs unavailable")
}

// fixture wires the register services over one sqlite store.
type fixture struct {
	db       *gorm.DB
	rec      *memRecorder
	sessions CashSessionService
	sales    SaleService
	cashier  *model.Employee
	admin    *model.Employee
	actor    Actor
}

const adminPassword = "clave-admin"

func newFixture(t *testing.T, opts SaleOptions) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{db: db, rec: &memRecorder{}}
	f.cashier = seedEmployee(t, db, model.RoleCashier, "11111111-1", "clave-cajero", true)
	f.admin = seedEmployee(t, db, model.RoleAdmin, "22222222-2", adminPassword, true)
	f.actor = Actor{ID: f.cashier.ID, Name: f.cashier.FullName(), Role: model.RoleCashier}
	f.build(opts, f.rec)
	return f
}

func (f *fixture) build(opts SaleOptions, rec audit.Recorder) {
	gate := NewAdminGate(repository.NewEmployeeRepository(f.db))
	f.sessions = NewCashSessionService(repository.NewCashSessionRepository(f.db), gate, rec)
	saleRepo := repository.NewSaleRepository(f.db)
	f.sales = NewSaleService(
		saleRepo,
		repository.NewProductRepository(f.db),
		repository.NewActionLogRepository(f.db),
		f.sessions,
		gate,
		NewReceiptService(saleRepo, nil, false),
		rec,
		opts,
	)
}

func (f *fixture) open(t *testing.T, amount string) {
	t.Helper()
	_, err := f.sessions.Open(context.Background(), f.actor, decPtr(amount))
	require.NoError(t, err)
}
