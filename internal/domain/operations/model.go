// Package operations provides the stock operation lifecycle and query engine:
// operation creation and validation, approval scoping, and the time- and
// authorization-scoped queries over the operation history.
package operations

import (
	"context"
	"time"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/id"
)

// MaxOperationNumberLength is the upper bound for operation numbers.
const MaxOperationNumberLength = 255

// Status represents the processing state of a stock operation.
//
// The set is open: NEW is the initial state every operation starts in, the
// remaining values are the states observed so far. Callers must not switch
// exhaustively over Status.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusRollback  Status = "ROLLBACK"
)

// OperationType describes a class of stock operations (adjustment, transfer,
// receipt, ...) including who may approve operations of that class. The type
// catalog itself is owned by an external registry; this model carries the
// attributes the lifecycle and scoping logic need.
type OperationType struct {
	ID       id.ID  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	WellKnown string `db:"well_known" json:"wellKnown,omitempty"`

	// HasSource / HasDestination define which stockroom references an
	// operation of this type must carry.
	HasSource      bool `db:"has_source" json:"hasSource"`
	HasDestination bool `db:"has_destination" json:"hasDestination"`

	// ApproverUserID / ApproverRoleID designate who may process operations
	// of this type. Either, both, or neither may be set.
	ApproverUserID *id.ID `db:"approver_user_id" json:"approverUserId,omitempty"`
	ApproverRoleID *id.ID `db:"approver_role_id" json:"approverRoleId,omitempty"`
}

// WellKnownAdjustment is the registry key of the built-in Adjustment type
// stock-takes are submitted as.
const WellKnownAdjustment = "adjustment"

// StockOperation is a discrete inventory transaction moving items between
// stockrooms or reconciling counted quantities.
type StockOperation struct {
	entity.Base

	// OperationNumber is the unique business identifier. Caller-supplied or
	// generated by the numerator on submission.
	OperationNumber string `db:"operation_number" json:"operationNumber"`

	OperationTypeID id.ID  `db:"operation_type_id" json:"operationTypeId"`
	Status          Status `db:"status" json:"status"`

	// SourceID / DestinationID reference stockrooms. Either, both, or
	// neither is set depending on the operation type.
	SourceID      *id.ID `db:"source_id" json:"sourceId,omitempty"`
	DestinationID *id.ID `db:"destination_id" json:"destinationId,omitempty"`

	// OperationDate is the business date of the transaction, distinct from
	// the CreatedAt system timestamp.
	OperationDate time.Time `db:"operation_date" json:"operationDate"`

	// OperationOrder breaks ties among operations sharing the same
	// OperationDate; (OperationDate, OperationOrder) is a strict total order.
	OperationOrder int `db:"operation_order" json:"operationOrder"`

	// CreatorID is the user who created the record.
	CreatorID id.ID `db:"creator_id" json:"creatorId"`

	Items []StockOperationItem `db:"-" json:"items,omitempty"`
}

// NewStockOperation creates an operation draft in status NEW.
func NewStockOperation(typeID id.ID) *StockOperation {
	return &StockOperation{
		Base:            entity.NewBase(),
		OperationTypeID: typeID,
		Status:          StatusNew,
		OperationDate:   time.Now().UTC(),
	}
}

// Validate implements entity.Validatable. It checks the structural
// invariants that hold for every operation regardless of its type;
// type-specific checks live in ValidateForType.
func (op *StockOperation) Validate(ctx context.Context) error {
	if id.IsNil(op.OperationTypeID) {
		return apperror.NewValidation("operation type is required").
			WithDetail("field", "operationTypeId")
	}

	if op.Status == "" {
		return apperror.NewValidation("operation status is required").
			WithDetail("field", "status")
	}

	if op.OperationDate.IsZero() {
		return apperror.NewValidation("operation date is required").
			WithDetail("field", "operationDate")
	}

	if op.OperationNumber == "" {
		return apperror.NewValidation("operation number is required").
			WithDetail("field", "operationNumber")
	}

	if len(op.OperationNumber) > MaxOperationNumberLength {
		return apperror.NewValidation("the operation number must be less than 256 characters").
			WithDetail("field", "operationNumber").
			WithDetail("length", len(op.OperationNumber))
	}

	return nil
}

// ValidateForType checks the source/destination invariants the operation
// type imposes.
func (op *StockOperation) ValidateForType(opType *OperationType) error {
	if opType == nil {
		return apperror.NewValidation("operation type is required")
	}

	if opType.HasSource && (op.SourceID == nil || id.IsNil(*op.SourceID)) {
		return apperror.NewValidation("source stockroom is required for this operation type").
			WithDetail("field", "sourceId").
			WithDetail("operationType", opType.Name)
	}

	if opType.HasDestination && (op.DestinationID == nil || id.IsNil(*op.DestinationID)) {
		return apperror.NewValidation("destination stockroom is required for this operation type").
			WithDetail("field", "destinationId").
			WithDetail("operationType", opType.Name)
	}

	return nil
}

var _ entity.Validatable = (*StockOperation)(nil)

// StockOperationItem is a single item line of a stock operation.
type StockOperationItem struct {
	ID          id.ID `db:"id" json:"id"`
	OperationID id.ID `db:"operation_id" json:"operationId"`
	ItemID      id.ID `db:"item_id" json:"itemId"`

	// ItemName is populated from the item catalog on reads; it is not a
	// column of the item table itself.
	ItemName string `db:"item_name" json:"itemName,omitempty"`

	// Quantity is signed. For adjustments it is a delta: counted actual
	// quantity minus previously recorded quantity.
	Quantity int `db:"quantity" json:"quantity"`

	Expiration *time.Time `db:"expiration" json:"expiration,omitempty"`

	// CalculatedExpiration / CalculatedBatch record whether those values
	// were derived rather than explicitly supplied.
	CalculatedExpiration bool `db:"calculated_expiration" json:"calculatedExpiration"`
	CalculatedBatch      bool `db:"calculated_batch" json:"calculatedBatch"`

	// BatchOperationID links to the operation that established the item's
	// batch. Stock-take items point at their own operation.
	BatchOperationID *id.ID `db:"batch_operation_id" json:"batchOperationId,omitempty"`
}
