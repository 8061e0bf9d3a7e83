package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockIf adds FOR UPDATE when requested and the dialect supports it.
// sqlite is single writer, so skipping the clause there is safe.
func lockIf(tx *gorm.DB, lock bool) *gorm.DB {
	if lock && tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
