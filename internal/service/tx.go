package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction. Anything fn returns rolls the
// whole unit back; repositories must only be given the tx handle inside fn.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
