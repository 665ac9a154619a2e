// Package repository implements the domain store interfaces using SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"paasd/internal/domain"
)

// mapDBError folds driver errors into the domain error taxonomy. A
// timeout must surface as its own kind — an authorization query that
// timed out is not an empty result, and callers fail closed on it.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrStorageTimeout("store query timed out")
	}
	if errors.Is(err, context.Canceled) {
		return domain.ErrStorageTimeout("store query canceled")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound("resource not found")
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return domain.ErrConflict("resource already exists")
	}
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked") {
		return domain.ErrStorageUnavailable("store busy: %v", err)
	}
	return err
}

// placeholders returns a comma-joined list of n SQL placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// stringArgs converts a string slice into driver args.
func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
