package cart

import "errors"

var (
	ErrCartNotFound   = errors.New("customer has no cart")
	ErrOfferNotFound  = errors.New("offer not found")
	ErrDetailNotFound = errors.New("cart item not found")
	ErrNotOwner       = errors.New("cart item belongs to another customer")
	ErrInvalidState   = errors.New("cart item is no longer pending")
	ErrPastStart      = errors.New("stay cannot start in the past")
	ErrInvalidRooms   = errors.New("number of rooms must be at least one")
)
