package operations

import (
	"context"
	"fmt"
	"time"

	"stockops/internal/core/apperror"
	appctx "stockops/internal/core/context"
	"stockops/internal/core/id"
	"stockops/internal/core/numerator"
	"stockops/internal/core/tx"
	"stockops/internal/domain"
	"stockops/internal/domain/auth"
	"stockops/pkg/logger"
)

// NumberPrefix is the numerator prefix for system-generated operation numbers.
const NumberPrefix = "ADJ"

// Service is the operation lifecycle manager and query facade. It validates
// inputs eagerly before any persistence call; no partial mutations occur on
// failure. The service is request-scoped and stateless between calls.
type Service struct {
	repo      Repository
	types     TypeRegistry
	numerator numerator.Generator
	txm       tx.Manager
}

// NewService creates a new stock operation service.
func NewService(repo Repository, types TypeRegistry, gen numerator.Generator, txm tx.Manager) *Service {
	return &Service{
		repo:      repo,
		types:     types,
		numerator: gen,
		txm:       txm,
	}
}

// Types returns the operation-type registry for callers that need to
// resolve a type before the pre-submission authorization check.
func (s *Service) Types() TypeRegistry {
	return s.types
}

// --- Queries ---

// GetOperationByNumber returns the operation stored under the given number,
// or nil when none matches.
func (s *Service) GetOperationByNumber(ctx context.Context, number string) (*StockOperation, error) {
	if number == "" {
		return nil, apperror.NewValidation("the operation number to find must be defined")
	}
	if len(number) > MaxOperationNumberLength {
		return nil, apperror.NewValidation("the operation number must be less than 256 characters").
			WithDetail("length", len(number))
	}

	return s.repo.GetByNumber(ctx, number)
}

// GetOperation returns the operation by id, erroring with NotFound when absent.
func (s *Service) GetOperation(ctx context.Context, opID id.ID) (*StockOperation, error) {
	if id.IsNil(opID) {
		return nil, apperror.NewValidation("the operation must be defined")
	}

	return s.repo.GetByID(ctx, opID)
}

// GetOperationsByRoom returns operations where the stockroom is the source
// or the destination, creation date descending.
func (s *Service) GetOperationsByRoom(ctx context.Context, stockroomID id.ID, p domain.Paging) (domain.ListResult[*StockOperation], error) {
	if id.IsNil(stockroomID) {
		return domain.ListResult[*StockOperation]{}, apperror.NewValidation("the stockroom must be defined")
	}

	return s.repo.ListByRoom(ctx, stockroomID, p)
}

// GetItemsByOperation returns the operation's items, item name ascending.
func (s *Service) GetItemsByOperation(ctx context.Context, opID id.ID, p domain.Paging) (domain.ListResult[StockOperationItem], error) {
	if id.IsNil(opID) {
		return domain.ListResult[StockOperationItem]{}, apperror.NewValidation("the operation must be defined")
	}

	return s.repo.ListItems(ctx, opID, p)
}

// GetUserOperations returns operations the user created or whose type is in
// the user's approval scope, optionally narrowed to a status, creation date
// descending.
func (s *Service) GetUserOperations(ctx context.Context, user *auth.User, status *Status, p domain.Paging) (domain.ListResult[*StockOperation], error) {
	if user == nil {
		return domain.ListResult[*StockOperation]{}, apperror.NewValidation("the user must be defined")
	}

	types, err := s.types.List(ctx)
	if err != nil {
		return domain.ListResult[*StockOperation]{}, fmt.Errorf("list operation types: %w", err)
	}

	scope := UserScope{
		UserID:  user.ID,
		TypeIDs: ApprovableTypeIDs(user, types),
		Status:  status,
	}

	return s.repo.ListForUser(ctx, scope, p)
}

// GetOperations applies a caller-supplied search template, creation date
// descending.
func (s *Service) GetOperations(ctx context.Context, search *Search, p domain.Paging) (domain.ListResult[*StockOperation], error) {
	if search == nil {
		return domain.ListResult[*StockOperation]{}, apperror.NewValidation("the operation search must be defined")
	}
	if search.Template == nil {
		return domain.ListResult[*StockOperation]{}, apperror.NewValidation("the operation search template must be defined")
	}

	return s.repo.List(ctx, *search.Template, p)
}

// GetOperationsSince returns operations strictly after the given instant,
// operation date ascending.
func (s *Service) GetOperationsSince(ctx context.Context, t time.Time, p domain.Paging) (domain.ListResult[*StockOperation], error) {
	if t.IsZero() {
		return domain.ListResult[*StockOperation]{}, apperror.NewValidation("the operation date must be defined")
	}

	return s.repo.ListSince(ctx, t, p)
}

// GetFutureOperations returns operations later than ref under the total
// order among operations.
func (s *Service) GetFutureOperations(ctx context.Context, ref *StockOperation, p domain.Paging) (domain.ListResult[*StockOperation], error) {
	if ref == nil {
		return domain.ListResult[*StockOperation]{}, apperror.NewValidation("the operation must be defined")
	}

	return s.repo.ListFuture(ctx, ref, p)
}

// GetOperationsByDate returns operations within the day containing the given
// date.
func (s *Service) GetOperationsByDate(ctx context.Context, date time.Time, p domain.Paging) (domain.ListResult[*StockOperation], error) {
	if date.IsZero() {
		return domain.ListResult[*StockOperation]{}, apperror.NewValidation("the date to search for must be defined")
	}

	return s.repo.ListByDate(ctx, date, p)
}

// GetLastOperationByDate returns the latest operation of the day (ties
// broken by operation order, then creation time) or nil when the day is
// empty.
func (s *Service) GetLastOperationByDate(ctx context.Context, date time.Time) (*StockOperation, error) {
	if date.IsZero() {
		return nil, apperror.NewValidation("the date to search for must be defined")
	}

	return s.repo.LastByDate(ctx, date)
}

// GetFirstOperationByDate returns the earliest operation of the day or nil
// when the day is empty.
func (s *Service) GetFirstOperationByDate(ctx context.Context, date time.Time) (*StockOperation, error) {
	if date.IsZero() {
		return nil, apperror.NewValidation("the date to search for must be defined")
	}

	return s.repo.FirstByDate(ctx, date)
}

// --- Lifecycle ---

// SubmitStockTake builds and persists an Adjustment operation from counted
// stock. The Adjustment type is passed in explicitly; resolving it (and
// checking CanProcess for the acting user) is the caller's contract
// obligation before calling submit.
func (s *Service) SubmitStockTake(ctx context.Context, st *StockTake, adjustment *OperationType) (*StockOperation, error) {
	if st == nil {
		return nil, apperror.NewValidation("the stock take must be defined")
	}
	if adjustment == nil {
		return nil, apperror.NewValidation("the adjustment operation type must be defined")
	}
	if err := st.Validate(ctx); err != nil {
		return nil, err
	}

	op := buildAdjustment(st, adjustment, appctx.GetUserID(ctx))

	if op.OperationNumber == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(NumberPrefix), nil, op.OperationDate)
		if err != nil {
			return nil, fmt.Errorf("generate operation number: %w", err)
		}
		op.OperationNumber = number
	}

	if err := op.Validate(ctx); err != nil {
		return nil, err
	}
	if err := op.ValidateForType(adjustment); err != nil {
		return nil, err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		// Keep the per-day total order strict: the new operation goes
		// after the day's current last one.
		last, err := s.repo.LastByDate(ctx, op.OperationDate)
		if err != nil {
			return fmt.Errorf("resolve operation order: %w", err)
		}
		if last != nil {
			op.OperationOrder = last.OperationOrder + 1
		}

		if err := s.repo.Create(ctx, op); err != nil {
			return fmt.Errorf("create operation: %w", err)
		}
		if err := s.repo.SaveItems(ctx, op.ID, op.Items); err != nil {
			return fmt.Errorf("save operation items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock take submitted",
		"id", op.ID, "number", op.OperationNumber, "stockroom", st.StockroomID, "items", len(op.Items))
	return op, nil
}

// Update validates and saves a modified operation.
func (s *Service) Update(ctx context.Context, op *StockOperation) error {
	if op == nil {
		return apperror.NewValidation("the operation must be defined")
	}
	if err := op.Validate(ctx); err != nil {
		return err
	}

	opType, err := s.types.GetByID(ctx, op.OperationTypeID)
	if err != nil {
		return fmt.Errorf("resolve operation type: %w", err)
	}
	if err := op.ValidateForType(opType); err != nil {
		return err
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, op); err != nil {
			return fmt.Errorf("update operation: %w", err)
		}
		return s.repo.SaveItems(ctx, op.ID, op.Items)
	})
}

// Purge permanently deletes an operation. Operations with associated posted
// or reserved transactions cannot be deleted. A nil operation is a no-op.
// The check and the delete run in one transaction so a transaction created
// concurrently cannot slip between them.
func (s *Service) Purge(ctx context.Context, op *StockOperation) error {
	if op == nil {
		return nil
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		has, err := s.repo.HasTransactions(ctx, op.ID)
		if err != nil {
			return fmt.Errorf("check operation transactions: %w", err)
		}
		if has {
			return apperror.NewBusinessRule(
				apperror.CodeOperationHasTransactions,
				"Stock operations can not be deleted if there are any associated transactions.",
			).WithDetail("operationId", op.ID.String())
		}

		return s.repo.Purge(ctx, op.ID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "operation purged", "id", op.ID, "number", op.OperationNumber)
	return nil
}
