package infra

import (
	"fmt"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the store selected by driver ("postgres" or "sqlite") and
// brings the schema up to date.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "", "postgres":
		db, err = gorm.Open(postgres.Open(dsn), gormConfig(false))
	case "sqlite":
		return NewSQLiteDatabase(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// NewSQLiteDatabase opens a file-backed SQLite store. A single connection
// serializes writers, which gives the same all-or-nothing guarantees the
// Postgres row locks give.
func NewSQLiteDatabase(path string) (*gorm.DB, error) {
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(true))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func gormConfig(translateErrors bool) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: translateErrors,
	}
}

// Migrate creates / updates all tables, then applies the idempotent SQL
// patches AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Employee{},
		&model.Supplier{},
		&model.Product{},
		&model.CashSession{},
		&model.CashMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.ActionLog{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.CustomerOrder{},
		&model.CustomerOrderItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs statements that are valid on both Postgres and
// SQLite and safe to re-run.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one active cash session system-wide.
		{"single active cash session", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_cash_sessions_single_active
  ON cash_sessions (is_active) WHERE is_active`},
		{"activity feed: sales by date", `
CREATE INDEX IF NOT EXISTS idx_sales_sale_date_desc ON sales (sale_date DESC)`},
		{"low stock scan", `
CREATE INDEX IF NOT EXISTS idx_products_active_stock ON products (is_active, stock)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
	}
	return nil
}
