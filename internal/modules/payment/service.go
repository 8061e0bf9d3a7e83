package payment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/database"
	"resortbooking/internal/domain"
	"resortbooking/internal/events"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/pkg/logger"
)

// maxSettleAttempts bounds retries on serialization conflicts between
// concurrent settlements.
const maxSettleAttempts = 3

// Service turns pending cart lines into paid reservations. Settlement
// is the only writer of invoices, time slots and partner credits, and
// does all three in one transaction so a crash can never leave a paid
// line without rooms.
type Service struct {
	db       *gorm.DB
	bookings BookingStore
	offers   OfferStore
	invoices InvoiceStore
	ledger   Allocator
	partners PartnerLedger
	accounts CustomerDirectory
	mail     Notifier
	events   EventPublisher
}

func NewService(
	db *gorm.DB,
	bookings BookingStore,
	offers OfferStore,
	invoices InvoiceStore,
	ledger Allocator,
	partners PartnerLedger,
	accounts CustomerDirectory,
	mail Notifier,
	publisher EventPublisher,
) *Service {
	return &Service{
		db:       db,
		bookings: bookings,
		offers:   offers,
		invoices: invoices,
		ledger:   ledger,
		partners: partners,
		accounts: accounts,
		mail:     mail,
		events:   publisher,
	}
}

// SettlementResult reports what a settlement charged and reserved.
type SettlementResult struct {
	BookingID int64
	Invoices  []domain.Invoice
	Events    []events.BookingSettledEvent
	TotalCost int64
}

// runTx runs fn in a transaction, retrying bounded times on postgres
// serialization failures.
func (s *Service) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxSettleAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if err == nil || !database.IsSerializationError(err) {
			return err
		}
		logger.Log.WithError(err).Warnf("settlement conflict, attempt %d", attempt+1)
	}
	return availability.ErrTransactionConflict
}

// settleDetailTx charges one pending line: invoice, room allocation,
// PAID status and partner credit, all inside the caller's transaction.
func (s *Service) settleDetailTx(tx *gorm.DB, booking *domain.Booking, detail *domain.BookingDetail, method domain.PaymentMethod) (*domain.Invoice, events.BookingSettledEvent, error) {
	var event events.BookingSettledEvent

	pricing, err := s.offers.GetOfferPricingTx(tx, detail.OfferID)
	if err != nil {
		return nil, event, err
	}

	invoice := &domain.Invoice{
		CustomerID:      booking.CustomerID,
		PartnerID:       pricing.PartnerID,
		BookingDetailID: detail.ID,
		Cost:            detail.Cost,
		PaymentMethod:   method,
		FinishedTime:    detail.FinishedAt,
	}
	if err := s.invoices.CreateTx(tx, invoice); err != nil {
		return nil, event, err
	}

	if _, err := s.ledger.AllocateTx(tx, pricing.RoomType.ID, invoice.ID, detail.StartedAt, detail.FinishedAt, detail.NumberOfRooms); err != nil {
		return nil, event, err
	}

	if err := s.bookings.UpdateDetailStatusTx(tx, detail.ID, domain.DetailPaid); err != nil {
		return nil, event, err
	}

	if _, err := s.partners.AddPartnerBalanceTx(tx, pricing.PartnerID, detail.Cost, true); err != nil {
		return nil, event, err
	}

	event = events.BookingSettledEvent{
		BookingID:     booking.ID,
		DetailID:      detail.ID,
		InvoiceID:     invoice.ID,
		CustomerID:    booking.CustomerID,
		PartnerID:     pricing.PartnerID,
		RoomTypeID:    pricing.RoomType.ID,
		NumberOfRooms: detail.NumberOfRooms,
		Amount:        detail.Cost,
		PaymentMethod: string(method),
		StartedAt:     detail.StartedAt.Format(time.RFC3339),
		FinishedAt:    detail.FinishedAt.Format(time.RFC3339),
		SettledAt:     time.Now().Format(time.RFC3339),
	}
	return invoice, event, nil
}

// Settle charges a single cart line, paid directly at the desk or by
// an operator. The caller must own the line unless customerID is zero.
func (s *Service) Settle(ctx context.Context, customerID, detailID int64, method domain.PaymentMethod) (*SettlementResult, error) {
	var result *SettlementResult

	err := s.runTx(ctx, func(tx *gorm.DB) error {
		detail, err := s.bookings.GetDetailTx(tx, detailID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDetailNotFound
			}
			return err
		}

		booking, err := s.bookings.GetByIDTx(tx, detail.BookingID, true)
		if err != nil {
			return err
		}
		if customerID != 0 && booking.CustomerID != customerID {
			return ErrNotOwner
		}

		switch detail.Status {
		case domain.DetailPaid:
			return ErrAlreadySettled
		case domain.DetailCancelled:
			return ErrAlreadyCancelled
		}

		invoice, event, err := s.settleDetailTx(tx, booking, detail, method)
		if err != nil {
			return err
		}

		// When this was the last pending line the whole booking is
		// settled.
		remaining, err := s.bookings.ListDetailsTx(tx, booking.ID, string(domain.DetailPending))
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			if err := s.bookings.MarkPaidTx(tx, booking.ID, ""); err != nil {
				return err
			}
		}

		result = &SettlementResult{
			BookingID: booking.ID,
			Invoices:  []domain.Invoice{*invoice},
			Events:    []events.BookingSettledEvent{event},
			TotalCost: invoice.Cost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterSettlement(ctx, result)
	return result, nil
}

// SettleBooking charges every pending line of a booking in one
// transaction. Either every line gets rooms and an invoice or the
// whole settlement rolls back; the error names the line that failed.
// A positive paidAmount is the sum the gateway reports as received and
// must match the booking total; zero means the caller already charged
// the right amount out of band.
func (s *Service) SettleBooking(ctx context.Context, bookingID, paidAmount int64, method domain.PaymentMethod, zpTransID string) (*SettlementResult, error) {
	var result *SettlementResult

	err := s.runTx(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookings.GetByIDTx(tx, bookingID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != domain.BookingPending {
			return ErrAlreadySettled
		}
		if paidAmount > 0 && paidAmount != booking.Cost {
			return ErrAmountMismatch
		}

		details, err := s.bookings.ListDetailsTx(tx, booking.ID, string(domain.DetailPending))
		if err != nil {
			return err
		}
		if len(details) == 0 {
			return ErrEmptyBooking
		}

		res := &SettlementResult{BookingID: booking.ID}
		for i := range details {
			invoice, event, err := s.settleDetailTx(tx, booking, &details[i], method)
			if err != nil {
				return &DetailSettlementError{DetailID: details[i].ID, Err: err}
			}
			res.Invoices = append(res.Invoices, *invoice)
			res.Events = append(res.Events, event)
			res.TotalCost += invoice.Cost
		}

		if err := s.bookings.MarkPaidTx(tx, booking.ID, zpTransID); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterSettlement(ctx, result)
	return result, nil
}

// Cancel voids a paid reservation line: its rooms go back to the
// ledger and the money is clawed back from the partner. Lines that
// were never paid cannot be cancelled, the cart endpoints remove
// those instead.
func (s *Service) Cancel(ctx context.Context, customerID, detailID int64) error {
	var (
		releasedRooms int
		ownerID       int64
	)

	err := s.runTx(ctx, func(tx *gorm.DB) error {
		detail, err := s.bookings.GetDetailTx(tx, detailID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDetailNotFound
			}
			return err
		}

		booking, err := s.bookings.GetByIDTx(tx, detail.BookingID, true)
		if err != nil {
			return err
		}
		if customerID != 0 && booking.CustomerID != customerID {
			return ErrNotOwner
		}
		ownerID = booking.CustomerID

		switch detail.Status {
		case domain.DetailCancelled:
			return ErrAlreadyCancelled
		case domain.DetailPending:
			return ErrNotSettled
		}

		invoiceIDs, err := s.invoices.InvoiceIDsForDetailTx(tx, detail.ID)
		if err != nil {
			return err
		}
		if err := s.ledger.ReleaseTx(tx, invoiceIDs); err != nil {
			return err
		}

		pricing, err := s.offers.GetOfferPricingTx(tx, detail.OfferID)
		if err != nil {
			return err
		}
		if _, err := s.partners.AddPartnerBalanceTx(tx, pricing.PartnerID, -detail.Cost, true); err != nil {
			return err
		}
		releasedRooms = detail.NumberOfRooms

		return s.bookings.UpdateDetailStatusTx(tx, detail.ID, domain.DetailCancelled)
	})
	if err != nil {
		return err
	}

	s.afterCancellation(ctx, ownerID, detailID, releasedRooms)
	return nil
}

// BookingForOrder loads a booking for a gateway order, enforcing
// ownership and that there is something left to pay.
func (s *Service) BookingForOrder(ctx context.Context, customerID, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if customerID != 0 && booking.CustomerID != customerID {
		return nil, ErrNotOwner
	}
	if booking.Status != domain.BookingPending {
		return nil, ErrAlreadySettled
	}
	if booking.Cost <= 0 {
		return nil, ErrEmptyBooking
	}
	return booking, nil
}

// Histories returns a customer's bookings with their lines.
func (s *Service) Histories(ctx context.Context, customerID int64, status string, limit, offset int) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByCustomer(ctx, customerID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		details, err := s.bookings.ListDetails(ctx, bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].Details = details
	}
	return bookings, nil
}

// Invoices returns a customer's invoices, newest first.
func (s *Service) Invoices(ctx context.Context, customerID int64, limit, offset int) ([]domain.Invoice, error) {
	return s.invoices.ListByCustomer(ctx, customerID, limit, offset)
}

// afterSettlement sends best effort notifications once the settlement
// transaction committed. Failures are logged, never propagated.
func (s *Service) afterSettlement(ctx context.Context, result *SettlementResult) {
	if result == nil || len(result.Events) == 0 {
		return
	}

	for _, event := range result.Events {
		if err := s.events.PublishBookingSettled(ctx, event); err != nil {
			logger.Log.WithError(err).Warn("failed to publish settlement event")
		}
	}

	name, email, err := s.customerContact(ctx, result.Events[0].CustomerID)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to resolve customer contact")
		return
	}
	s.mail.SendBookingConfirmation(email, name, result.BookingID, result.TotalCost, time.Now())
}

func (s *Service) afterCancellation(ctx context.Context, customerID, detailID int64, releasedRooms int) {
	event := events.BookingCancelledEvent{
		DetailID:      detailID,
		CustomerID:    customerID,
		ReleasedRooms: releasedRooms,
		CancelledAt:   time.Now().Format(time.RFC3339),
	}
	if err := s.events.PublishBookingCancelled(ctx, event); err != nil {
		logger.Log.WithError(err).Warn("failed to publish cancellation event")
	}

	name, email, err := s.customerContact(ctx, customerID)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to resolve customer contact")
		return
	}
	s.mail.SendCancellationNotice(email, name, detailID)
}

func (s *Service) customerContact(ctx context.Context, customerID int64) (name, email string, err error) {
	customer, err := s.accounts.GetCustomerByID(ctx, customerID)
	if err != nil {
		return "", "", err
	}
	account, err := s.accounts.GetAccountByID(ctx, customer.AccountID)
	if err != nil {
		return "", "", err
	}
	return customer.FullName, account.Email, nil
}
