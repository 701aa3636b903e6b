package operation_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockops/internal/core/id"
	"stockops/internal/domain"
	"stockops/internal/domain/operations"
)

// SaveItems replaces the operation's item set wholesale.
func (r *OperationRepo) SaveItems(ctx context.Context, opID id.ID, items []operations.StockOperationItem) error {
	querier := r.txm.GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + operationItemsTable + " WHERE operation_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, opID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(operationItemsTable).
		Columns(
			"id", "operation_id", "item_id", "quantity",
			"expiration", "calculated_expiration", "calculated_batch",
			"batch_operation_id",
		)

	for _, item := range items {
		q = q.Values(
			item.ID, opID, item.ItemID, item.Quantity,
			item.Expiration, item.CalculatedExpiration, item.CalculatedBatch,
			item.BatchOperationID,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

// buildListItems joins the item catalog for display names, item name ascending.
func (r *OperationRepo) buildListItems(opID id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select(
			"oi.id", "oi.operation_id", "oi.item_id",
			"it.name AS item_name",
			"oi.quantity", "oi.expiration",
			"oi.calculated_expiration", "oi.calculated_batch",
			"oi.batch_operation_id",
		).
		From(operationItemsTable + " oi").
		Join(itemsTable + " it ON it.id = oi.item_id").
		Where(squirrel.Eq{"oi.operation_id": opID}).
		OrderBy("it.name ASC")
}

// ListItems returns the operation's items sorted by catalog item name.
func (r *OperationRepo) ListItems(ctx context.Context, opID id.ID, p domain.Paging) (domain.ListResult[operations.StockOperationItem], error) {
	result := domain.ListResult[operations.StockOperationItem]{
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	q := r.buildListItems(opID)
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
		return result, fmt.Errorf("select items: %w", err)
	}

	return result, nil
}
