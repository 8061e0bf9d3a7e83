package cart

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/availability"
)

// Service manages a customer's cart. The cart is the customer's newest
// pending booking; its lines are booking details priced at the offer's
// unit price as of their last change.
type Service struct {
	db       *gorm.DB
	bookings BookingStore
	offers   OfferStore
	ledger   AvailabilityChecker
}

func NewService(db *gorm.DB, bookings BookingStore, offers OfferStore, ledger AvailabilityChecker) *Service {
	return &Service{db: db, bookings: bookings, offers: offers, ledger: ledger}
}

// GetCart returns the customer's pending booking with its lines.
// A customer who never added anything has no cart yet.
func (s *Service) GetCart(ctx context.Context, customerID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetPendingByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	details, err := s.bookings.ListDetails(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Details = details
	return booking, nil
}

// AddItem puts n rooms of an offer for [start, end) into the cart. The
// line is priced now, offer cost first and the room type's base price
// as fallback. Adding the same offer and interval again merges into
// the existing line.
func (s *Service) AddItem(ctx context.Context, customerID, offerID int64, n int, start, end time.Time) (*domain.BookingDetail, error) {
	if n < 1 {
		return nil, ErrInvalidRooms
	}
	if err := checkStay(start, end); err != nil {
		return nil, err
	}

	pricing, err := s.offers.GetOfferPricing(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	var detail *domain.BookingDetail
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookings.GetOrCreatePendingTx(tx, customerID, true)
		if err != nil {
			return err
		}

		existing, err := s.bookings.FindMergeableDetailTx(tx, booking.ID, offerID, start, end)
		if err != nil {
			return err
		}

		wanted := n
		if existing != nil {
			wanted += existing.NumberOfRooms
		}
		if err := s.ledger.Validate(ctx, pricing.RoomType.ID, start, end, wanted); err != nil {
			return err
		}

		if existing != nil {
			// Merging reprices the whole line at the current price so
			// its cost always equals rooms times the latest unit price.
			newCost := pricing.UnitPrice() * int64(wanted)
			delta := newCost - existing.Cost
			existing.NumberOfRooms = wanted
			existing.Cost = newCost
			if err := s.bookings.UpdateDetailTx(tx, existing); err != nil {
				return err
			}
			detail = existing
			return s.bookings.AddCostTx(tx, booking.ID, delta)
		}

		cost := pricing.UnitPrice() * int64(n)
		detail = &domain.BookingDetail{
			BookingID:     booking.ID,
			OfferID:       offerID,
			NumberOfRooms: n,
			StartedAt:     start,
			FinishedAt:    end,
			Status:        domain.DetailPending,
			Cost:          cost,
		}
		if err := s.bookings.CreateDetailTx(tx, detail); err != nil {
			return err
		}
		return s.bookings.AddCostTx(tx, booking.ID, cost)
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// UpdateItem changes the room count of a cart line. The line is
// repriced from the offer's current price; increases are revalidated
// against availability, decreases always succeed.
func (s *Service) UpdateItem(ctx context.Context, customerID, detailID int64, n int) (*domain.BookingDetail, error) {
	if n < 1 {
		return nil, ErrInvalidRooms
	}

	var detail *domain.BookingDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		detail, err = s.ownedPendingDetailTx(tx, customerID, detailID)
		if err != nil {
			return err
		}
		if n == detail.NumberOfRooms {
			return nil
		}

		pricing, err := s.offers.GetOfferPricing(ctx, detail.OfferID)
		if err != nil {
			return err
		}

		if n > detail.NumberOfRooms {
			if err := s.ledger.Validate(ctx, pricing.RoomType.ID, detail.StartedAt, detail.FinishedAt, n); err != nil {
				return err
			}
		}

		newCost := pricing.UnitPrice() * int64(n)
		delta := newCost - detail.Cost
		detail.NumberOfRooms = n
		detail.Cost = newCost
		if err := s.bookings.UpdateDetailTx(tx, detail); err != nil {
			return err
		}
		return s.bookings.AddCostTx(tx, detail.BookingID, delta)
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// RemoveItem drops a cart line and subtracts its cost from the booking
// total.
func (s *Service) RemoveItem(ctx context.Context, customerID, detailID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detail, err := s.ownedPendingDetailTx(tx, customerID, detailID)
		if err != nil {
			return err
		}
		if err := s.bookings.DeleteDetailTx(tx, detail.ID); err != nil {
			return err
		}
		return s.bookings.AddCostTx(tx, detail.BookingID, -detail.Cost)
	})
}

// ownedPendingDetailTx loads a detail, checks the caller owns it via
// the parent booking, and checks the line is still editable.
func (s *Service) ownedPendingDetailTx(tx *gorm.DB, customerID, detailID int64) (*domain.BookingDetail, error) {
	detail, err := s.bookings.GetDetailTx(tx, detailID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDetailNotFound
		}
		return nil, err
	}

	booking, err := s.bookings.GetByIDTx(tx, detail.BookingID, false)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, ErrNotOwner
	}
	if booking.Status != domain.BookingPending || detail.Status != domain.DetailPending {
		return nil, ErrInvalidState
	}
	return detail, nil
}

func checkStay(start, end time.Time) error {
	if !start.Before(end) {
		return availability.ErrInvalidInterval
	}
	if start.Before(time.Now()) {
		return ErrPastStart
	}
	return nil
}
