// Package pagination defines the list-query surface shared by every list
// endpoint: page/limit/offset coercion with bounded defaults, free-text
// search, and allow-listed sorting. List responses always use Page[T]
// ({items,total}) so pagination metadata is available to clients on every
// resource.
package pagination

// Sort orders accepted by list queries.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Default and ceiling values for page sizing.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListQuery carries the generic list parameters. Resource-specific query
// types embed it and add their own filter fields. All fields arrive as
// strings on the wire and are coerced by the binding layer; malformed
// numerics are a validation failure, never a silent default.
type ListQuery struct {
	Page      int    `json:"page,omitempty" form:"page" binding:"omitempty,min=1"`
	Limit     int    `json:"limit,omitempty" form:"limit" binding:"omitempty,min=1,max=100"`
	Offset    int    `json:"offset,omitempty" form:"offset" binding:"omitempty,min=0"`
	Search    string `json:"search,omitempty" form:"search" binding:"omitempty,max=255"`
	SortBy    string `json:"sort_by,omitempty" form:"sort_by" binding:"omitempty,max=64"`
	SortOrder string `json:"sort_order,omitempty" form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// List returns the embedded generic query. Resource query types satisfy the
// route factory's ListParams contract through this method.
func (q ListQuery) List() ListQuery { return q }

// Bounds resolves the effective offset and limit. An explicit offset wins;
// otherwise the offset is derived from the page number. Limit falls back to
// DefaultLimit and is capped at MaxLimit.
func (q ListQuery) Bounds() (offset, limit int) {
	limit = q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if q.Offset > 0 {
		return q.Offset, limit
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit, limit
}

// Order returns the requested sort order, defaulting to descending (newest
// first), which matches how resource listings are usually consumed.
func (q ListQuery) Order() string {
	if q.SortOrder == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}

// Page is the uniform list-response shape: the items of the current page and
// the total number of matching rows.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// NewPage wraps items and total, normalizing nil slices so the JSON shape is
// always an array.
func NewPage[T any](items []T, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total}
}
