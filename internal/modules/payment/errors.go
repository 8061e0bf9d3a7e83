package payment

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrDetailNotFound   = errors.New("booking detail not found")
	ErrNotOwner         = errors.New("booking belongs to another customer")
	ErrAlreadySettled   = errors.New("booking detail is already settled")
	ErrAlreadyCancelled = errors.New("booking detail is already cancelled")
	ErrNotSettled       = errors.New("only paid booking details can be cancelled")
	ErrEmptyBooking     = errors.New("booking has no pending details")
	ErrInvalidCallback  = errors.New("callback signature mismatch")
	ErrAmountMismatch   = errors.New("paid amount does not match the booking total")
	ErrGatewayDisabled  = errors.New("payment gateway is not configured")
)

// DetailSettlementError identifies which cart line sank a bulk
// settlement. The whole transaction rolls back, so nothing else was
// charged either.
type DetailSettlementError struct {
	DetailID int64
	Err      error
}

func (e *DetailSettlementError) Error() string {
	return fmt.Sprintf("settling detail %d: %v", e.DetailID, e.Err)
}

func (e *DetailSettlementError) Unwrap() error { return e.Err }
