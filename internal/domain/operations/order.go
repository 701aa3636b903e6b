package operations

import "time"

// Day boundaries are computed in a fixed reference calendar so every
// date-scoped query agrees on them regardless of the storage engine's
// date semantics.
var referenceLocation = time.UTC

// DayRange returns the inclusive day boundary [start-of-day, end-of-day - 1ms]
// containing t. Every date-scoped query reuses this range.
func DayRange(t time.Time) (start, end time.Time) {
	t = t.In(referenceLocation)
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, referenceLocation)
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// SameDay reports whether a and b fall on the same calendar day of the
// reference calendar.
func SameDay(a, b time.Time) bool {
	startA, _ := DayRange(a)
	startB, _ := DayRange(b)
	return startA.Equal(startB)
}

// Compare defines the total order among operations: by OperationDate, ties
// broken by OperationOrder, then by CreatedAt. Returns -1, 0 or +1.
func Compare(a, b *StockOperation) int {
	switch {
	case a.OperationDate.Before(b.OperationDate):
		return -1
	case a.OperationDate.After(b.OperationDate):
		return 1
	}

	switch {
	case a.OperationOrder < b.OperationOrder:
		return -1
	case a.OperationOrder > b.OperationOrder:
		return 1
	}

	switch {
	case a.CreatedAt.Before(b.CreatedAt):
		return -1
	case a.CreatedAt.After(b.CreatedAt):
		return 1
	}

	return 0
}

// IsFuture reports whether candidate happened after reference under the
// query definition of "future": same calendar day with a strictly greater
// OperationOrder, or a strictly later operation date.
func IsFuture(candidate, reference *StockOperation) bool {
	if SameDay(candidate.OperationDate, reference.OperationDate) {
		return candidate.OperationOrder > reference.OperationOrder
	}
	return candidate.OperationDate.After(reference.OperationDate)
}
