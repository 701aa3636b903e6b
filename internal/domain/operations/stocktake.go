package operations

import (
	"context"
	"time"

	"stockops/internal/core/apperror"
	"stockops/internal/core/entity"
	"stockops/internal/core/id"
)

// ItemStockSummary is one counted line of a stock-take: the counted actual
// quantity against the previously recorded quantity for an item.
type ItemStockSummary struct {
	ItemID           id.ID      `json:"itemId"`
	ActualQuantity   int        `json:"actualQuantity"`
	RecordedQuantity int        `json:"quantity"`
	Expiration       *time.Time `json:"expiration,omitempty"`
}

// Delta returns the signed adjustment quantity: counted minus recorded.
func (s ItemStockSummary) Delta() int {
	return s.ActualQuantity - s.RecordedQuantity
}

// StockTake is a counted-inventory reconciliation for a stockroom,
// submitted as an Adjustment operation whose item quantities are deltas.
type StockTake struct {
	StockroomID     id.ID              `json:"stockroomId"`
	OperationNumber string             `json:"operationNumber,omitempty"`
	Items           []ItemStockSummary `json:"items"`
}

// Validate implements entity.Validatable.
func (st *StockTake) Validate(ctx context.Context) error {
	if id.IsNil(st.StockroomID) {
		return apperror.NewValidation("the stockroom must be defined").
			WithDetail("field", "stockroomId")
	}

	if len(st.OperationNumber) > MaxOperationNumberLength {
		return apperror.NewValidation("the operation number must be less than 256 characters").
			WithDetail("field", "operationNumber")
	}

	if len(st.Items) == 0 {
		return apperror.NewValidation("a stock take requires at least one counted item").
			WithDetail("field", "items")
	}

	for i, item := range st.Items {
		if id.IsNil(item.ItemID) {
			return apperror.NewValidation("counted item is missing its item reference").
				WithDetail("index", i)
		}
	}

	return nil
}

var _ entity.Validatable = (*StockTake)(nil)

// buildAdjustment assembles a fresh Adjustment operation from a stock take:
// status NEW, source set to the counted stockroom, operation date now, and
// one item per counted summary carrying the signed delta. Expiration and
// batch are marked as explicitly supplied, and each item's batch operation
// is the new operation itself.
func buildAdjustment(st *StockTake, adjustment *OperationType, creatorID id.ID) *StockOperation {
	op := NewStockOperation(adjustment.ID)
	op.OperationNumber = st.OperationNumber
	op.SourceID = &st.StockroomID
	op.CreatorID = creatorID

	op.Items = make([]StockOperationItem, 0, len(st.Items))
	for _, summary := range st.Items {
		op.Items = append(op.Items, StockOperationItem{
			ID:                   id.New(),
			OperationID:          op.ID,
			ItemID:               summary.ItemID,
			Quantity:             summary.Delta(),
			Expiration:           summary.Expiration,
			CalculatedExpiration: false,
			CalculatedBatch:      false,
			BatchOperationID:     &op.ID,
		})
	}

	return op
}
