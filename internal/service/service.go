// Package service implements the shop's use cases on top of the repository Store.
// Every multi-row change runs inside a single Store transaction.
package service

import (
	"errors" // Error inspection

	"online_shop/internal/apperr"     // Error taxonomy
	"online_shop/internal/repository" // Persistence
)

// orNotFound turns repository.ErrNotFound into a NotFound error naming field
func orNotFound(err error, field, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		e := apperr.NotFound(format, args...)
		if field != "" {
			e.WithField(field)
		}
		return e
	}
	return err
}

// pageBounds converts 1-based page parameters into offset and limit
func pageBounds(page, pageSize, defaultSize, maxSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return (page - 1) * pageSize, pageSize
}
