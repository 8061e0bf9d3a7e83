package availability

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInterval covers zero length, negative length, and
	// otherwise malformed stay intervals.
	ErrInvalidInterval = errors.New("interval start must be before end")

	// ErrTransactionConflict is surfaced after a booking transaction
	// keeps losing serialization conflicts past the retry budget.
	ErrTransactionConflict = errors.New("booking transaction conflict, try again")
)

// InsufficientInventoryError reports how many rooms were actually free
// when an allocation or validation asked for more.
type InsufficientInventoryError struct {
	RoomTypeID int64
	Requested  int
	Available  int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("room type %d: requested %d rooms, only %d available", e.RoomTypeID, e.Requested, e.Available)
}
