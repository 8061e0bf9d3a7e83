package partner

import "errors"

// ValidationError carries per-field failures from domain validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "invalid input" }

var (
	ErrNotApproved         = errors.New("partner is not approved yet")
	ErrNotOwner            = errors.New("resource belongs to another partner")
	ErrResortNotFound      = errors.New("resort not found")
	ErrRoomTypeNotFound    = errors.New("room type not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrOfferNotFound       = errors.New("offer not found")
	ErrRoomInUse           = errors.New("room has reserved time slots")
	ErrInsufficientBalance = errors.New("withdraw amount exceeds balance")
	ErrInvalidAmount       = errors.New("withdraw amount must be positive")
)
