package operation_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockops/internal/core/apperror"
	"stockops/internal/core/id"
	"stockops/internal/domain/operations"
	"stockops/internal/infrastructure/storage/postgres"
)

// TypeRepo implements operations.TypeRegistry over the operation type catalog.
type TypeRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

var _ operations.TypeRegistry = (*TypeRepo)(nil)

// NewTypeRepo creates a new operation type repository.
func NewTypeRepo(txm *postgres.TxManager) *TypeRepo {
	return &TypeRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[operations.OperationType](),
	}
}

func (r *TypeRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *TypeRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(operationTypesTable)
}

// GetByID retrieves an operation type.
func (r *TypeRepo) GetByID(ctx context.Context, typeID id.ID) (*operations.OperationType, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": typeID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	opType := &operations.OperationType{}
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, opType, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(operationTypesTable, typeID.String())
		}
		return nil, fmt.Errorf("get type by id: %w", err)
	}

	return opType, nil
}

// GetAdjustment resolves the built-in Adjustment type.
func (r *TypeRepo) GetAdjustment(ctx context.Context) (*operations.OperationType, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"well_known": operations.WellKnownAdjustment})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	opType := &operations.OperationType{}
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, opType, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(operationTypesTable, operations.WellKnownAdjustment)
		}
		return nil, fmt.Errorf("get adjustment type: %w", err)
	}

	return opType, nil
}

// List returns the full type catalog, name ascending.
func (r *TypeRepo) List(ctx context.Context) ([]*operations.OperationType, error) {
	q := r.baseSelect().
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var types []*operations.OperationType
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &types, sql, args...); err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}

	return types, nil
}
