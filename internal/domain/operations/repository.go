package operations

import (
	"context"
	"time"

	"stockops/internal/core/id"
	"stockops/internal/domain"
)

// Repository defines persistence operations for stock operations and their
// items. Implementations live in infrastructure/storage/postgres.
//
// Single-result lookups where "nothing matched" is a normal outcome
// (GetByNumber, LastByDate, FirstByDate) return (nil, nil) on absence;
// GetByID returns a NotFound error because callers require presence.
type Repository interface {
	Create(ctx context.Context, op *StockOperation) error
	Update(ctx context.Context, op *StockOperation) error
	GetByID(ctx context.Context, opID id.ID) (*StockOperation, error)
	GetByNumber(ctx context.Context, number string) (*StockOperation, error)

	// SaveItems replaces the operation's item set wholesale.
	SaveItems(ctx context.Context, opID id.ID, items []StockOperationItem) error
	ListItems(ctx context.Context, opID id.ID, p domain.Paging) (domain.ListResult[StockOperationItem], error)

	// ListByRoom returns operations where the stockroom is source or
	// destination, creation date descending.
	ListByRoom(ctx context.Context, stockroomID id.ID, p domain.Paging) (domain.ListResult[*StockOperation], error)

	// ListForUser returns operations within the given authorization scope,
	// creation date descending.
	ListForUser(ctx context.Context, scope UserScope, p domain.Paging) (domain.ListResult[*StockOperation], error)

	// List applies a search template, creation date descending.
	List(ctx context.Context, tpl Template, p domain.Paging) (domain.ListResult[*StockOperation], error)

	// ListSince returns operations strictly after t, operation date ascending.
	ListSince(ctx context.Context, t time.Time, p domain.Paging) (domain.ListResult[*StockOperation], error)

	// ListFuture returns operations later than ref under the total order:
	// same calendar day with greater OperationOrder, or a later day.
	// Sorted by day asc, OperationOrder asc, OperationDate asc.
	ListFuture(ctx context.Context, ref *StockOperation, p domain.Paging) (domain.ListResult[*StockOperation], error)

	// ListByDate returns operations within the day containing day,
	// OperationOrder asc then OperationDate asc.
	ListByDate(ctx context.Context, day time.Time, p domain.Paging) (domain.ListResult[*StockOperation], error)
	LastByDate(ctx context.Context, day time.Time) (*StockOperation, error)
	FirstByDate(ctx context.Context, day time.Time) (*StockOperation, error)

	// HasTransactions reports whether any posted or reserved transactions
	// reference the operation.
	HasTransactions(ctx context.Context, opID id.ID) (bool, error)

	// Purge permanently deletes the operation and its items.
	Purge(ctx context.Context, opID id.ID) error
}

// TypeRegistry exposes the operation-type catalog owned by an external
// collaborator.
type TypeRegistry interface {
	GetByID(ctx context.Context, typeID id.ID) (*OperationType, error)

	// GetAdjustment resolves the built-in Adjustment type.
	GetAdjustment(ctx context.Context) (*OperationType, error)

	List(ctx context.Context) ([]*OperationType, error)
}
