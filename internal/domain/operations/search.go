package operations

import (
	"time"

	"stockops/internal/core/id"
)

// Search is a caller-supplied query over the operation history. The
// Template is an explicit filter specification interpreted by the
// repository; callers never pass executable predicates across the
// service boundary.
type Search struct {
	Template *Template
}

// NewSearch creates a search with an empty template.
func NewSearch() *Search {
	return &Search{Template: &Template{}}
}

// Template lists the optional criteria a search may constrain. Nil/zero
// fields are ignored; set fields are combined with AND.
type Template struct {
	Status          *Status
	OperationTypeID *id.ID
	SourceID        *id.ID
	DestinationID   *id.ID

	// OperationNumber matches exactly, or as a contains-pattern when
	// NumberWildcard is set.
	OperationNumber string
	NumberWildcard  bool

	// DateFrom / DateTo bound OperationDate inclusively.
	DateFrom *time.Time
	DateTo   *time.Time
}

// UserScope is the authorization sub-filter for user-scoped listings:
// operations created by the user, or whose type is in the user's
// approval scope (TypeIDs, resolved by ApprovableTypeIDs).
type UserScope struct {
	UserID  id.ID
	TypeIDs []id.ID
	Status  *Status
}
