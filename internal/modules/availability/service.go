package availability

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/database"
	"resortbooking/internal/domain"
)

// Service answers "how many rooms of this type are free for this
// interval" and reserves concrete rooms when an interval is paid for.
// Availability is never stored; it is always derived from the slot
// ledger, so it cannot drift.
type Service struct {
	db    *gorm.DB
	slots SlotStore
}

func NewService(db *gorm.DB, slots SlotStore) *Service {
	return &Service{db: db, slots: slots}
}

func checkInterval(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidInterval
	}
	return nil
}

// Availability returns the total room count of a type and how many are
// free across the whole interval [start, end). A room is free only if
// no slot of any length overlaps the interval.
func (s *Service) Availability(ctx context.Context, roomTypeID int64, start, end time.Time) (total, available int64, err error) {
	if err := checkInterval(start, end); err != nil {
		return 0, 0, err
	}

	total, err = s.slots.CountRoomsOfType(ctx, roomTypeID)
	if err != nil {
		return 0, 0, err
	}
	booked, err := s.slots.CountBookedRooms(ctx, roomTypeID, start, end)
	if err != nil {
		return 0, 0, err
	}
	return total, total - booked, nil
}

// Validate checks that n rooms of the type are free for the interval.
// This is advisory: only AllocateTx holds locks, so a Validate that
// passes can still lose the race at settlement.
func (s *Service) Validate(ctx context.Context, roomTypeID int64, start, end time.Time, n int) error {
	if err := checkInterval(start, end); err != nil {
		return err
	}

	_, available, err := s.Availability(ctx, roomTypeID, start, end)
	if err != nil {
		return err
	}
	if int64(n) > available {
		return &InsufficientInventoryError{
			RoomTypeID: roomTypeID,
			Requested:  n,
			Available:  int(available),
		}
	}
	return nil
}

// AllocateTx reserves n concrete rooms for the invoice inside the
// caller's transaction. Candidate rooms are row locked on postgres and
// rechecked, so two settlements racing for the last room cannot both
// win. Rooms are taken in ascending id order.
func (s *Service) AllocateTx(tx *gorm.DB, roomTypeID, invoiceID int64, start, end time.Time, n int) ([]domain.BookingTimeSlot, error) {
	if err := checkInterval(start, end); err != nil {
		return nil, err
	}

	lock := database.IsPostgres(tx)
	rooms, err := s.slots.FindFreeRoomsTx(tx, roomTypeID, start, end, n, lock)
	if err != nil {
		return nil, err
	}
	if len(rooms) < n {
		return nil, &InsufficientInventoryError{
			RoomTypeID: roomTypeID,
			Requested:  n,
			Available:  len(rooms),
		}
	}

	slots := make([]domain.BookingTimeSlot, 0, n)
	for _, room := range rooms[:n] {
		slots = append(slots, domain.BookingTimeSlot{
			RoomID:       room.ID,
			InvoiceID:    invoiceID,
			StartedTime:  start,
			FinishedTime: end,
		})
	}
	if err := s.slots.CreateSlotsTx(tx, slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// ReleaseTx frees every slot held by the given invoices. Releasing an
// already released invoice is a no-op.
func (s *Service) ReleaseTx(tx *gorm.DB, invoiceIDs []int64) error {
	return s.slots.DeleteByInvoiceIDsTx(tx, invoiceIDs)
}
