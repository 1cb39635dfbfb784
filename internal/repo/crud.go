// Generic owner-scoped accessors.
//
// Every tenant-scoped table carries an owner_id column, so one set of
// generic helpers can serve all resources: list with search/sort/filter and
// pagination, fetch, insert, save, and soft delete, always constrained to
// the calling owner's rows. A row that exists but belongs to someone else is
// reported exactly like a row that does not exist; the distinction is logged
// at debug level server-side only.
package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/casafolio/go-property-backend/internal/pagination"
)

// ListOptions configures ListOwned for one resource.
type ListOptions struct {
	// SearchColumns are OR-matched with LIKE against the search term.
	SearchColumns []string
	// SortColumns maps accepted sort_by values to column names. Anything
	// not in the map falls back to DefaultSort.
	SortColumns map[string]string
	// DefaultSort is the column used when no (or an unknown) sort_by is
	// requested.
	DefaultSort string
	// Filters are exact-match column constraints; empty string values are
	// skipped so optional query fields compose naturally.
	Filters map[string]string
}

// ListOwned returns one page of the owner's rows plus the total match count.
func ListOwned[T any](ctx context.Context, db *gorm.DB, ownerID string, q pagination.ListQuery, opt ListOptions) (pagination.Page[T], error) {
	var zero pagination.Page[T]

	tx := db.WithContext(ctx).Model(new(T)).Where("owner_id = ?", ownerID)

	for col, val := range opt.Filters {
		if val != "" {
			tx = tx.Where(col+" = ?", val)
		}
	}

	if q.Search != "" && len(opt.SearchColumns) > 0 {
		like := "%" + q.Search + "%"
		grp := db.Session(&gorm.Session{NewDB: true})
		for i, col := range opt.SearchColumns {
			if i == 0 {
				grp = grp.Where(col+" LIKE ?", like)
			} else {
				grp = grp.Or(col+" LIKE ?", like)
			}
		}
		tx = tx.Where(grp)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return zero, err
	}
	if total == 0 {
		return pagination.NewPage[T](nil, 0), nil
	}

	sortCol := opt.SortColumns[q.SortBy]
	if sortCol == "" {
		sortCol = opt.DefaultSort
	}
	if sortCol == "" {
		sortCol = "created_at"
	}
	order := sortCol + " " + strings.ToUpper(q.Order())

	offset, limit := q.Bounds()

	var items []T
	err := tx.Order(order).Offset(offset).Limit(limit).Find(&items).Error
	if err != nil {
		return zero, err
	}
	return pagination.NewPage(items, total), nil
}

// GetOwned fetches a single row by id, constrained to the owner. Rows owned
// by other identities report gorm.ErrRecordNotFound, indistinguishable from
// absence; the mismatch is logged at debug level for server-side audits.
func GetOwned[T any](ctx context.Context, db *gorm.DB, id, ownerID string) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logOwnerMismatch[T](ctx, db, id, ownerID)
		}
		return nil, err
	}
	return &row, nil
}

// Insert persists a new row.
func Insert[T any](ctx context.Context, db *gorm.DB, row *T) error {
	return db.WithContext(ctx).Create(row).Error
}

// Save writes back a previously fetched row.
func Save[T any](ctx context.Context, db *gorm.DB, row *T) error {
	return db.WithContext(ctx).Save(row).Error
}

// DeleteOwned soft-deletes a row by id, constrained to the owner. Deleting a
// missing (or foreign) row reports gorm.ErrRecordNotFound.
func DeleteOwned[T any](ctx context.Context, db *gorm.DB, id, ownerID string) error {
	res := db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		logOwnerMismatch[T](ctx, db, id, ownerID)
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountOwned returns the number of rows the owner has matching the filters.
func CountOwned[T any](ctx context.Context, db *gorm.DB, ownerID string, filters map[string]string) (int64, error) {
	tx := db.WithContext(ctx).Model(new(T)).Where("owner_id = ?", ownerID)
	for col, val := range filters {
		if val != "" {
			tx = tx.Where(col+" = ?", val)
		}
	}
	var n int64
	err := tx.Count(&n).Error
	return n, err
}

// logOwnerMismatch records, server-side only, when an id exists but belongs
// to a different owner. Best effort; failures are ignored.
func logOwnerMismatch[T any](ctx context.Context, db *gorm.DB, id, ownerID string) {
	var n int64
	if err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err == nil && n > 0 {
		log.Debug().
			Str("id", id).
			Str("requested_by", ownerID).
			Msg("owner mismatch on scoped lookup")
	}
}
