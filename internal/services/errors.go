// Package services implements the business layer: owner-scoped resource
// services consumed by the route factory, plus account management. Services
// speak tagged faults upward and GORM errors downward; nothing above this
// layer ever sees a database error.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/casafolio/go-property-backend/internal/faults"
)

// mapRepoErr classifies data-layer errors for one resource. Absent rows
// (including rows owned by someone else) become not-found faults named after
// the resource; unique-constraint violations become conflicts; context
// expiry becomes a timeout fault. Anything else passes through unclassified
// and normalizes to an internal error at the boundary.
func mapRepoErr(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return faults.NotFound(resource + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return faults.Conflict(resource + " already exists")
	case errors.Is(err, context.DeadlineExceeded):
		return faults.Wrap(faults.KindTimeout, err, "request timed out")
	default:
		return err
	}
}
