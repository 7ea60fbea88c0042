package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockForUpdate takes a row-level lock on Postgres. SQLite, used by the
// test suite, has no row locks and serializes writers itself.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
