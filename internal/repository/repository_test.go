package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/infra"
	"github.com/SoyuzCL/pos-panchita/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewSQLiteDatabase(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newProduct(t *testing.T, db *gorm.DB, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:         "Hallulla",
		Category:     "Panadería",
		CostPrice:    decimal.NewFromInt(100),
		SellingPrice: decimal.NewFromInt(170),
		Stock:        stock,
		IsActive:     stock > 0,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestDecrementStockTx(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	p := newProduct(t, db, 3)

	ok, err := repo.DecrementStockTx(db, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
	assert.True(t, got.IsActive)

	ok, err = repo.DecrementStockTx(db, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "never goes below zero")

	ok, err = repo.DecrementStockTx(db, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Stock)
	assert.False(t, got.IsActive, "selling out deactivates")

	ok, err = repo.DecrementStockTx(db, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddStockTxKeepsInactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	p := newProduct(t, db, 0)

	require.NoError(t, repo.AddStockTx(db, p.ID, 7))
	got, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)
	assert.False(t, got.IsActive)
}

func TestCashSessionRepo(t *testing.T) {
	db := newTestDB(t)
	repo := NewCashSessionRepository(db)
	ctx := context.Background()

	none, err := repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	s := &model.CashSession{
		EmployeeID:     uuid.New(),
		StartAmount:    decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(1000),
		IsActive:       true,
		StartTime:      time.Now().UTC(),
	}
	require.NoError(t, repo.CreateTx(db, s))

	second := &model.CashSession{
		EmployeeID:     uuid.New(),
		StartAmount:    decimal.Zero,
		CurrentBalance: decimal.Zero,
		IsActive:       true,
		StartTime:      time.Now().UTC(),
	}
	err = repo.CreateTx(db, second)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "only one active session")

	ok, err := repo.AdjustBalanceTx(db, s.ID, decimal.NewFromInt(-1001))
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.AdjustBalanceTx(db, s.ID, decimal.NewFromInt(-1000))
	require.NoError(t, err)
	assert.True(t, ok)

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.True(t, active.CurrentBalance.IsZero())

	closed, err := repo.CloseTx(db, s.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, closed)
	closed, err = repo.CloseTx(db, s.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, closed)

	// closed sessions do not count against the index
	require.NoError(t, repo.CreateTx(db, second))

	list, total, err := repo.ListClosed(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, s.ID, list[0].ID)
}

func TestSupplierDeleteInUse(t *testing.T) {
	db := newTestDB(t)
	repo := NewSupplierRepository(db)
	ctx := context.Background()

	sup := &model.Supplier{Name: "Molino"}
	require.NoError(t, repo.Create(ctx, sup))
	p := newProduct(t, db, 1)
	require.NoError(t, db.Model(p).Update("supplier_id", sup.ID).Error)

	_, err := repo.Delete(ctx, sup.ID)
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, IsNotFound(err))
}

func TestEmployeeRUTUnique(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	e := &model.Employee{FirstName: "Ana", RUT: "9876543-2", Role: model.RoleAdmin, PasswordHash: "x", IsActive: true}
	require.NoError(t, repo.Create(ctx, e))
	dup := &model.Employee{FirstName: "Otra", RUT: "9876543-2", Role: model.RoleCashier, PasswordHash: "x", IsActive: true}
	assert.True(t, IsUniqueViolation(repo.Create(ctx, dup)))
}
