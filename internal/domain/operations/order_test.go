package operations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockops/internal/core/id"
)

func TestDayRange(t *testing.T) {
	start, end := DayRange(time.Date(2024, 3, 10, 14, 23, 5, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 999000000, time.UTC), end)
}

func TestDayRange_LastMillisecondIncluded(t *testing.T) {
	lastMoment := time.Date(2024, 3, 10, 23, 59, 59, 999000000, time.UTC)

	start, end := DayRange(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.False(t, lastMoment.Before(start))
	assert.False(t, lastMoment.After(end))

	nextStart, _ := DayRange(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	assert.True(t, lastMoment.Before(nextStart))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)
	c := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}

func opAt(date time.Time, order int, created time.Time) *StockOperation {
	op := NewStockOperation(id.New())
	op.OperationDate = date
	op.OperationOrder = order
	op.CreatedAt = created
	return op
}

func TestCompare_TotalOrder(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 10, 12, 1, 0, 0, time.UTC)

	earlierDate := opAt(day.Add(-time.Hour), 5, created)
	lowOrder := opAt(day, 1, created)
	highOrder := opAt(day, 2, created)
	laterCreated := opAt(day, 2, created.Add(time.Minute))

	assert.Equal(t, -1, Compare(earlierDate, lowOrder))
	assert.Equal(t, -1, Compare(lowOrder, highOrder))
	assert.Equal(t, 1, Compare(highOrder, lowOrder))
	assert.Equal(t, -1, Compare(highOrder, laterCreated))
	assert.Equal(t, 0, Compare(highOrder, highOrder))
}

func TestIsFuture_SameDayOrderedByOperationOrder(t *testing.T) {
	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	created := day

	a := opAt(day, 1, created)
	b := opAt(day.Add(2*time.Hour), 2, created)

	assert.True(t, IsFuture(b, a))
	assert.False(t, IsFuture(a, b))
	assert.False(t, IsFuture(a, a))
}

func TestIsFuture_LaterDayWinsRegardlessOfOrder(t *testing.T) {
	a := opAt(time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC), 9, time.Now())
	b := opAt(time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC), 0, time.Now())

	assert.True(t, IsFuture(b, a))
	assert.False(t, IsFuture(a, b))
}
