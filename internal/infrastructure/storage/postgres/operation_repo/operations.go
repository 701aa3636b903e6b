// Package operation_repo provides PostgreSQL implementations for the stock
// operation repositories.
package operation_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockops/internal/core/apperror"
	"stockops/internal/core/id"
	"stockops/internal/domain"
	"stockops/internal/domain/operations"
	"stockops/internal/infrastructure/storage/postgres"
)

const (
	operationsTable           = "stock_operations"
	operationItemsTable       = "stock_operation_items"
	operationTypesTable       = "stock_operation_types"
	itemsTable                = "items"
	transactionsTable         = "stock_operation_transactions"
	reservedTransactionsTable = "reserved_transactions"
)

// OperationRepo implements operations.Repository.
type OperationRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

var _ operations.Repository = (*OperationRepo)(nil)

// NewOperationRepo creates a new stock operation repository.
func NewOperationRepo(txm *postgres.TxManager) *OperationRepo {
	return &OperationRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[operations.StockOperation](),
	}
}

// Builder returns a new squirrel builder.
func (r *OperationRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *OperationRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(operationsTable)
}

// Create inserts a new operation.
func (r *OperationRepo) Create(ctx context.Context, op *operations.StockOperation) error {
	data := postgres.StructToMap(op)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Insert(operationsTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", operationsTable, err)
	}

	return nil
}

// Update updates an existing operation with optimistic locking.
func (r *OperationRepo) Update(ctx context.Context, op *operations.StockOperation) error {
	data := postgres.StructToMap(op)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	// Exclude immutable and repo-managed fields
	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "created_at" || col == "creator_id" {
			continue
		}
		if col == "version" || col == "updated_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Update(operationsTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": op.ID}).
		Where(squirrel.Eq{"version": op.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", operationsTable, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(operationsTable, op.ID)
	}

	op.SetVersion(op.Version + 1)
	return nil
}

// GetByID retrieves an operation by ID.
func (r *OperationRepo) GetByID(ctx context.Context, opID id.ID) (*operations.StockOperation, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": opID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	op := &operations.StockOperation{}
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, op, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(operationsTable, opID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return op, nil
}

// GetByNumber retrieves an operation by its business number.
// Returns (nil, nil) when no operation carries that number.
func (r *OperationRepo) GetByNumber(ctx context.Context, number string) (*operations.StockOperation, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"operation_number": number})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	op := &operations.StockOperation{}
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, op, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get by number: %w", err)
	}

	return op, nil
}

// buildByRoom selects operations where the stockroom is source or destination.
func (r *OperationRepo) buildByRoom(stockroomID id.ID) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Or{
			squirrel.Eq{"source_id": stockroomID},
			squirrel.Eq{"destination_id": stockroomID},
		}).
		OrderBy("created_at DESC")
}

// ListByRoom returns operations where the stockroom is source or destination.
func (r *OperationRepo) ListByRoom(ctx context.Context, stockroomID id.ID, p domain.Paging) (domain.ListResult[*operations.StockOperation], error) {
	return r.runList(ctx, r.buildByRoom(stockroomID), p)
}

// buildForUser selects operations the user created or may approve by type.
func (r *OperationRepo) buildForUser(scope operations.UserScope) squirrel.SelectBuilder {
	q := r.baseSelect().
		Where(squirrel.Or{
			squirrel.Eq{"creator_id": scope.UserID},
			squirrel.Eq{"operation_type_id": scope.TypeIDs},
		})

	if scope.Status != nil {
		q = q.Where(squirrel.Eq{"status": *scope.Status})
	}

	return q.OrderBy("created_at DESC")
}

// ListForUser returns operations within the given authorization scope.
func (r *OperationRepo) ListForUser(ctx context.Context, scope operations.UserScope, p domain.Paging) (domain.ListResult[*operations.StockOperation], error) {
	return r.runList(ctx, r.buildForUser(scope), p)
}

// buildTemplate applies search template criteria.
func (r *OperationRepo) buildTemplate(tpl operations.Template) squirrel.SelectBuilder {
	q := r.baseSelect()

	if tpl.Status != nil {
		q = q.Where(squirrel.Eq{"status": *tpl.Status})
	}

	if tpl.OperationTypeID != nil {
		q = q.Where(squirrel.Eq{"operation_type_id": *tpl.OperationTypeID})
	}

	if tpl.SourceID != nil {
		q = q.Where(squirrel.Eq{"source_id": *tpl.SourceID})
	}

	if tpl.DestinationID != nil {
		q = q.Where(squirrel.Eq{"destination_id": *tpl.DestinationID})
	}

	if tpl.OperationNumber != "" {
		if tpl.NumberWildcard {
			q = q.Where(squirrel.ILike{"operation_number": "%" + tpl.OperationNumber + "%"})
		} else {
			q = q.Where(squirrel.Eq{"operation_number": tpl.OperationNumber})
		}
	}

	if tpl.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"operation_date": *tpl.DateFrom})
	}

	if tpl.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"operation_date": *tpl.DateTo})
	}

	return q.OrderBy("created_at DESC")
}

// List applies a search template.
func (r *OperationRepo) List(ctx context.Context, tpl operations.Template, p domain.Paging) (domain.ListResult[*operations.StockOperation], error) {
	return r.runList(ctx, r.buildTemplate(tpl), p)
}

// buildSince selects operations strictly after t.
func (r *OperationRepo) buildSince(t time.Time) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Gt{"operation_date": t}).
		OrderBy("operation_date ASC")
}

// ListSince returns operations strictly after t, operation date ascending.
func (r *OperationRepo) ListSince(ctx context.Context, t time.Time, p domain.Paging) (domain.ListResult[*operations.StockOperation], error) {
	return r.runList(ctx, r.buildSince(t), p)
}

// buildFuture selects operations later than ref: same day with a greater
// order, or a later operation date.
func (r *OperationRepo) buildFuture(ref *operations.StockOperation) squirrel.SelectBuilder {
	dayStart, dayEnd := operations.DayRange(ref.OperationDate)

	return r.baseSelect().
		Where(squirrel.Or{
			squirrel.And{
				squirrel.GtOrEq{"operation_date": dayStart},
				squirrel.LtOrEq{"operation_date": dayEnd},
				squirrel.Gt{"operation_order": ref.OperationOrder},
			},
			squirrel.Gt{"operation_date": dayEnd},
		}).
		OrderBy("operation_date::date ASC", "operation_order ASC", "operation_date ASC")
}

// ListFuture returns operations later than ref under the day/order total order.
func (r *OperationRepo) ListFuture(ctx context.Context, ref *operations.StockOperation, p domain.Paging) (domain.ListResult[*operations.StockOperation], error) {
	return r.runList(ctx, r.buildFuture(ref), p)
}

// buildByDate selects operations within the day containing t.
func (r *OperationRepo) buildByDate(t time.Time) squirrel.SelectBuilder {
	dayStart, dayEnd := operations.DayRange(t)

	return r.baseSelect().
		Where(squirrel.GtOrEq{"operation_date": dayStart}).
		Where(squirrel.LtOrEq{"operation_date": dayEnd}).
		OrderBy("operation_order ASC", "operation_date ASC")
}

// ListByDate returns operations within the day containing day.
func (r *OperationRepo) ListByDate(ctx context.Context, day time.Time, p domain.Paging) (domain.ListResult[*operations.StockOperation], error) {
	return r.runList(ctx, r.buildByDate(day), p)
}

// LastByDate returns the highest-ordered operation of the day, or (nil, nil).
func (r *OperationRepo) LastByDate(ctx context.Context, day time.Time) (*operations.StockOperation, error) {
	dayStart, dayEnd := operations.DayRange(day)

	q := r.baseSelect().
		Where(squirrel.GtOrEq{"operation_date": dayStart}).
		Where(squirrel.LtOrEq{"operation_date": dayEnd}).
		OrderBy("operation_order DESC", "created_at DESC").
		Limit(1)

	return r.getOne(ctx, q)
}

// FirstByDate returns the lowest-ordered operation of the day, or (nil, nil).
func (r *OperationRepo) FirstByDate(ctx context.Context, day time.Time) (*operations.StockOperation, error) {
	dayStart, dayEnd := operations.DayRange(day)

	q := r.baseSelect().
		Where(squirrel.GtOrEq{"operation_date": dayStart}).
		Where(squirrel.LtOrEq{"operation_date": dayEnd}).
		OrderBy("operation_order ASC", "created_at ASC").
		Limit(1)

	return r.getOne(ctx, q)
}

// HasTransactions reports whether any posted or reserved transactions
// reference the operation.
func (r *OperationRepo) HasTransactions(ctx context.Context, opID id.ID) (bool, error) {
	sql := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE operation_id = $1)
		    OR EXISTS (SELECT 1 FROM %s WHERE operation_id = $1)
	`, transactionsTable, reservedTransactionsTable)

	var exists bool
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, opID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check transactions: %w", err)
	}

	return exists, nil
}

// Purge permanently deletes the operation and its items.
func (r *OperationRepo) Purge(ctx context.Context, opID id.ID) error {
	querier := r.txm.GetQuerier(ctx)

	itemsSQL, itemsArgs, err := r.Builder().
		Delete(operationItemsTable).
		Where(squirrel.Eq{"operation_id": opID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete items: %w", err)
	}

	if _, err := querier.Exec(ctx, itemsSQL, itemsArgs...); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	opSQL, opArgs, err := r.Builder().
		Delete(operationsTable).
		Where(squirrel.Eq{"id": opID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete operation: %w", err)
	}

	result, err := querier.Exec(ctx, opSQL, opArgs...)
	if err != nil {
		return fmt.Errorf("delete operation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(operationsTable, opID.String())
	}

	return nil
}

// getOne executes a single-row query, (nil, nil) when nothing matched.
func (r *OperationRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*operations.StockOperation, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	op := &operations.StockOperation{}
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, op, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get one: %w", err)
	}

	return op, nil
}

// runList executes a list query with optional total count and paging.
func (r *OperationRepo) runList(ctx context.Context, q squirrel.SelectBuilder, p domain.Paging) (domain.ListResult[*operations.StockOperation], error) {
	result := domain.ListResult[*operations.StockOperation]{
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	querier := r.txm.GetQuerier(ctx)

	if p.IncludeTotal {
		countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
		countSQL, countArgs, err := countQ.ToSql()
		if err != nil {
			return result, fmt.Errorf("build count: %w", err)
		}

		if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
			return result, fmt.Errorf("count: %w", err)
		}
	}

	if p.Limit > 0 {
		q = q.Limit(uint64(p.Limit))
	}
	if p.Offset > 0 {
		q = q.Offset(uint64(p.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
