// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"

	"campusfeed/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translate maps storage errors onto the application taxonomy: a missing row
// is NOT_FOUND, a unique-index race is CONFLICT, anything else means the
// record store failed us and the whole operation surfaces as UNAVAILABLE.
func translate(err error, resource string, id interface{}) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewConflictError("Concurrent update lost a uniqueness race, please retry")
	default:
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewUnavailableError(err)
	}
}

// lockForUpdate takes a row-level lock on the queried rows so a concurrent
// cast-vote on the same target serializes behind this transaction. SQLite
// has no FOR UPDATE syntax and serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
