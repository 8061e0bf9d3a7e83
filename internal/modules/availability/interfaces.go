package availability

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

// SlotStore is the persistence surface for the room occupation ledger.
type SlotStore interface {
	CountRoomsOfType(ctx context.Context, roomTypeID int64) (int64, error)
	CountBookedRooms(ctx context.Context, roomTypeID int64, start, end time.Time) (int64, error)
	FindFreeRoomsTx(tx *gorm.DB, roomTypeID int64, start, end time.Time, limit int, lock bool) ([]domain.Room, error)
	CreateSlotsTx(tx *gorm.DB, slots []domain.BookingTimeSlot) error
	DeleteByInvoiceIDsTx(tx *gorm.DB, invoiceIDs []int64) error
}
