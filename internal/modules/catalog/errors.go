package catalog

import "errors"

var (
	ErrResortNotFound   = errors.New("resort not found")
	ErrRoomTypeNotFound = errors.New("room type not found")
)
