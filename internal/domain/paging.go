// Package domain provides core business logic interfaces and types.
package domain

// Paging contains pagination options for list operations.
type Paging struct {
	// Limit is the page size; zero means no limit.
	Limit int

	// Offset is the number of rows to skip.
	Offset int

	// IncludeTotal requests the total row count (extra COUNT query).
	IncludeTotal bool
}

// DefaultPaging returns sensible defaults.
func DefaultPaging() Paging {
	return Paging{
		Limit:        50,
		IncludeTotal: true,
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
