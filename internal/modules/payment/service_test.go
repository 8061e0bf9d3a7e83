package payment

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"resortbooking/internal/domain"
	"resortbooking/internal/events"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/repository"
)

type stubNotifier struct {
	confirmations int
	cancellations int
}

func (s *stubNotifier) SendBookingConfirmation(to, customerName string, bookingID int64, totalCost int64, paidAt time.Time) {
	s.confirmations++
}

func (s *stubNotifier) SendCancellationNotice(to, customerName string, detailID int64) {
	s.cancellations++
}

type stubPublisher struct {
	settled   []events.BookingSettledEvent
	cancelled []events.BookingCancelledEvent
}

func (s *stubPublisher) PublishBookingSettled(ctx context.Context, event events.BookingSettledEvent) error {
	s.settled = append(s.settled, event)
	return nil
}

func (s *stubPublisher) PublishBookingCancelled(ctx context.Context, event events.BookingCancelledEvent) error {
	s.cancelled = append(s.cancelled, event)
	return nil
}

type paymentFixture struct {
	db        *gorm.DB
	service   *Service
	ledger    *availability.Service
	accounts  *repository.AccountRepository
	bookings  *repository.BookingRepository
	slots     *repository.TimeSlotRepository
	notifier  *stubNotifier
	publisher *stubPublisher

	partnerID  int64
	customerID int64
	roomTypeID int64
	offerID    int64
	unitPrice  int64
}

func newPaymentFixture(t *testing.T, roomCount int) *paymentFixture {
	t.Helper()
	return newPaymentFixtureDSN(t, fmt.Sprintf("file:payment_%s?mode=memory&cache=shared", t.Name()), roomCount)
}

func newPaymentFixtureDSN(t *testing.T, dsn string, roomCount int) *paymentFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	ctx := context.Background()
	accounts := repository.NewAccountRepository(db)
	resorts := repository.NewResortRepository(db)
	rooms := repository.NewRoomRepository(db)
	bookings := repository.NewBookingRepository(db)
	invoices := repository.NewInvoiceRepository(db)
	slots := repository.NewTimeSlotRepository(db)
	ledger := availability.NewService(db, slots)

	account := &domain.Account{Email: "guest@example.com", PasswordHash: "x", Role: domain.RoleCustomer, Status: domain.AccountActive}
	require.NoError(t, accounts.CreateAccount(ctx, account))
	customer := &domain.Customer{AccountID: account.ID, FullName: "Guest"}
	require.NoError(t, accounts.CreateCustomer(ctx, customer))

	partnerAccount := &domain.Account{Email: "owner@example.com", PasswordHash: "x", Role: domain.RolePartner, Status: domain.AccountActive}
	require.NoError(t, accounts.CreateAccount(ctx, partnerAccount))
	partner := &domain.Partner{AccountID: partnerAccount.ID, Name: "Sunrise Hotels", Status: domain.PartnerApproved}
	require.NoError(t, accounts.CreatePartner(ctx, partner))

	resort := &domain.Resort{PartnerID: partner.ID, Name: "Sunrise Bay"}
	require.NoError(t, resorts.Create(ctx, resort))

	unitPrice := int64(900_000)
	rt := &domain.RoomType{ResortID: resort.ID, Name: "Deluxe", Price: unitPrice}
	require.NoError(t, rooms.CreateRoomType(ctx, rt))
	for i := 0; i < roomCount; i++ {
		require.NoError(t, rooms.CreateRoom(ctx, &domain.Room{RoomTypeID: rt.ID, Number: fmt.Sprintf("%d", 200+i)}))
	}

	offer := &domain.Offer{RoomTypeID: rt.ID, Name: "Standard"}
	require.NoError(t, rooms.CreateOffer(ctx, offer))

	notifier := &stubNotifier{}
	publisher := &stubPublisher{}
	service := NewService(db, bookings, rooms, invoices, ledger, accounts, accounts, notifier, publisher)

	return &paymentFixture{
		db:         db,
		service:    service,
		ledger:     ledger,
		accounts:   accounts,
		bookings:   bookings,
		slots:      slots,
		notifier:   notifier,
		publisher:  publisher,
		partnerID:  partner.ID,
		customerID: customer.ID,
		roomTypeID: rt.ID,
		offerID:    offer.ID,
		unitPrice:  unitPrice,
	}
}

func (f *paymentFixture) addLine(t *testing.T, customerID int64, n int, start, end time.Time) *domain.BookingDetail {
	t.Helper()
	var detail *domain.BookingDetail
	err := f.db.Transaction(func(tx *gorm.DB) error {
		booking, err := f.bookings.GetOrCreatePendingTx(tx, customerID, false)
		if err != nil {
			return err
		}
		detail = &domain.BookingDetail{
			BookingID:     booking.ID,
			OfferID:       f.offerID,
			NumberOfRooms: n,
			StartedAt:     start,
			FinishedAt:    end,
			Status:        domain.DetailPending,
			Cost:          f.unitPrice * int64(n),
		}
		if err := f.bookings.CreateDetailTx(tx, detail); err != nil {
			return err
		}
		return f.bookings.AddCostTx(tx, booking.ID, detail.Cost)
	})
	require.NoError(t, err)
	return detail
}

func (f *paymentFixture) partnerBalance(t *testing.T) int64 {
	t.Helper()
	partner, err := f.accounts.GetPartnerByID(context.Background(), f.partnerID)
	require.NoError(t, err)
	return partner.Balance
}

func (f *paymentFixture) available(t *testing.T, start, end time.Time) int64 {
	t.Helper()
	_, available, err := f.ledger.Availability(context.Background(), f.roomTypeID, start, end)
	require.NoError(t, err)
	return available
}

func testStay() (time.Time, time.Time) {
	start := time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 3)
}

func TestSettleChargesLineEndToEnd(t *testing.T) {
	f := newPaymentFixture(t, 3)
	start, end := testStay()
	ctx := context.Background()

	detail := f.addLine(t, f.customerID, 2, start, end)

	result, err := f.service.Settle(ctx, f.customerID, detail.ID, domain.MethodDirect)
	require.NoError(t, err)
	require.Len(t, result.Invoices, 1)
	assert.Equal(t, detail.Cost, result.TotalCost)

	invoice := result.Invoices[0]
	assert.Equal(t, f.partnerID, invoice.PartnerID)
	assert.Equal(t, f.customerID, invoice.CustomerID)
	assert.Equal(t, domain.MethodDirect, invoice.PaymentMethod)

	slots, err := f.slots.ListByInvoiceID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, slots, 2)

	settled, err := f.bookings.GetDetail(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DetailPaid, settled.Status)

	// The only line was settled, so the booking itself is paid.
	booking, err := f.bookings.GetByID(ctx, detail.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPaid, booking.Status)

	assert.Equal(t, detail.Cost, f.partnerBalance(t))
	assert.EqualValues(t, 1, f.available(t, start, end))
	assert.Equal(t, 1, f.notifier.confirmations)
	require.Len(t, f.publisher.settled, 1)
	assert.Equal(t, detail.ID, f.publisher.settled[0].DetailID)
}

func TestSettleIsNotRepeatable(t *testing.T) {
	f := newPaymentFixture(t, 2)
	start, end := testStay()
	ctx := context.Background()

	detail := f.addLine(t, f.customerID, 1, start, end)
	_, err := f.service.Settle(ctx, f.customerID, detail.ID, domain.MethodDirect)
	require.NoError(t, err)

	_, err = f.service.Settle(ctx, f.customerID, detail.ID, domain.MethodDirect)
	assert.ErrorIs(t, err, ErrAlreadySettled)
	assert.Equal(t, detail.Cost, f.partnerBalance(t))
}

func TestSettleRejectsOtherCustomer(t *testing.T) {
	f := newPaymentFixture(t, 2)
	start, end := testStay()

	detail := f.addLine(t, f.customerID, 1, start, end)
	_, err := f.service.Settle(context.Background(), f.customerID+10, detail.ID, domain.MethodDirect)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestSettleBookingChargesAllLines(t *testing.T) {
	f := newPaymentFixture(t, 4)
	start, end := testStay()
	ctx := context.Background()

	first := f.addLine(t, f.customerID, 2, start, end)
	second := f.addLine(t, f.customerID, 1, end, end.AddDate(0, 0, 2))

	result, err := f.service.SettleBooking(ctx, first.BookingID, first.Cost+second.Cost, domain.MethodZaloPay, "240001")
	require.NoError(t, err)
	assert.Len(t, result.Invoices, 2)
	assert.Equal(t, first.Cost+second.Cost, result.TotalCost)

	booking, err := f.bookings.GetByID(ctx, first.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPaid, booking.Status)
	assert.Equal(t, "240001", booking.ZpTransID)

	assert.Equal(t, first.Cost+second.Cost, f.partnerBalance(t))
	assert.Len(t, f.publisher.settled, 2)
}

func TestSettleBookingRollsBackWhole(t *testing.T) {
	f := newPaymentFixture(t, 3)
	start, end := testStay()
	ctx := context.Background()

	ok := f.addLine(t, f.customerID, 2, start, end)
	tooMany := f.addLine(t, f.customerID, 2, start, end)

	_, err := f.service.SettleBooking(ctx, ok.BookingID, 0, domain.MethodZaloPay, "240002")
	var detailErr *DetailSettlementError
	require.ErrorAs(t, err, &detailErr)
	assert.Equal(t, tooMany.ID, detailErr.DetailID)
	var insufficient *availability.InsufficientInventoryError
	assert.ErrorAs(t, err, &insufficient)

	// The first line must have been rolled back with the second.
	for _, id := range []int64{ok.ID, tooMany.ID} {
		detail, err := f.bookings.GetDetail(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.DetailPending, detail.Status)
	}
	assert.Zero(t, f.partnerBalance(t))
	assert.EqualValues(t, 3, f.available(t, start, end))
	assert.Empty(t, f.publisher.settled)
}

func TestSettleBookingLastRoomContention(t *testing.T) {
	f := newPaymentFixture(t, 1)
	start, end := testStay()
	ctx := context.Background()

	winner := f.addLine(t, f.customerID, 1, start, end)

	other := &domain.Customer{AccountID: 99, FullName: "Late Guest"}
	require.NoError(t, f.accounts.CreateCustomer(ctx, other))
	loser := f.addLine(t, other.ID, 1, start, end)

	_, err := f.service.SettleBooking(ctx, winner.BookingID, 0, domain.MethodDirect, "")
	require.NoError(t, err)

	_, err = f.service.SettleBooking(ctx, loser.BookingID, 0, domain.MethodDirect, "")
	var insufficient *availability.InsufficientInventoryError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Available)
}

func TestCancelPaidLineReleasesRoomsAndClawsBack(t *testing.T) {
	f := newPaymentFixture(t, 2)
	start, end := testStay()
	ctx := context.Background()

	detail := f.addLine(t, f.customerID, 2, start, end)
	_, err := f.service.Settle(ctx, f.customerID, detail.ID, domain.MethodDirect)
	require.NoError(t, err)
	assert.EqualValues(t, 0, f.available(t, start, end))

	require.NoError(t, f.service.Cancel(ctx, f.customerID, detail.ID))

	assert.EqualValues(t, 2, f.available(t, start, end))
	assert.Zero(t, f.partnerBalance(t))

	cancelled, err := f.bookings.GetDetail(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DetailCancelled, cancelled.Status)

	// Cancellation refunds the partner, the booking keeps the amount
	// the customer was charged.
	booking, err := f.bookings.GetByID(ctx, detail.BookingID)
	require.NoError(t, err)
	assert.Equal(t, detail.Cost, booking.Cost)

	assert.Equal(t, 1, f.notifier.cancellations)
	require.Len(t, f.publisher.cancelled, 1)
	assert.Equal(t, 2, f.publisher.cancelled[0].ReleasedRooms)

	assert.ErrorIs(t, f.service.Cancel(ctx, f.customerID, detail.ID), ErrAlreadyCancelled)
}

func TestCancelRejectsPendingLine(t *testing.T) {
	f := newPaymentFixture(t, 2)
	start, end := testStay()
	ctx := context.Background()

	detail := f.addLine(t, f.customerID, 1, start, end)
	assert.ErrorIs(t, f.service.Cancel(ctx, f.customerID, detail.ID), ErrNotSettled)

	// The line stays in the cart untouched.
	unchanged, err := f.bookings.GetDetail(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DetailPending, unchanged.Status)

	booking, err := f.bookings.GetByID(ctx, detail.BookingID)
	require.NoError(t, err)
	assert.Equal(t, detail.Cost, booking.Cost)
	assert.Empty(t, f.publisher.cancelled)
}

func TestSettleBookingVerifiesPaidAmount(t *testing.T) {
	f := newPaymentFixture(t, 2)
	start, end := testStay()
	ctx := context.Background()

	detail := f.addLine(t, f.customerID, 1, start, end)

	_, err := f.service.SettleBooking(ctx, detail.BookingID, detail.Cost-1, domain.MethodZaloPay, "240003")
	assert.ErrorIs(t, err, ErrAmountMismatch)

	pending, err := f.bookings.GetByID(ctx, detail.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, pending.Status)
	assert.Zero(t, f.partnerBalance(t))

	_, err = f.service.SettleBooking(ctx, detail.BookingID, detail.Cost, domain.MethodZaloPay, "240003")
	require.NoError(t, err)
}

func TestBookingForOrder(t *testing.T) {
	f := newPaymentFixture(t, 2)
	start, end := testStay()
	ctx := context.Background()

	detail := f.addLine(t, f.customerID, 1, start, end)

	booking, err := f.service.BookingForOrder(ctx, f.customerID, detail.BookingID)
	require.NoError(t, err)
	assert.Equal(t, detail.Cost, booking.Cost)

	_, err = f.service.BookingForOrder(ctx, f.customerID+1, detail.BookingID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.service.SettleBooking(ctx, detail.BookingID, 0, domain.MethodDirect, "")
	require.NoError(t, err)
	_, err = f.service.BookingForOrder(ctx, f.customerID, detail.BookingID)
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestConcurrentSettlesKeepRoomsDistinct(t *testing.T) {
	// A file backed database in WAL mode lets the settlements actually
	// run in parallel instead of serializing on a shared connection.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=10000", filepath.Join(t.TempDir(), "race.db"))
	f := newPaymentFixtureDSN(t, dsn, 2)
	start, end := testStay()
	ctx := context.Background()

	// Five customers race for two rooms over the same nights.
	details := make([]*domain.BookingDetail, 5)
	for i := range details {
		guest := &domain.Customer{AccountID: int64(500 + i), FullName: fmt.Sprintf("Guest %d", i)}
		require.NoError(t, f.accounts.CreateCustomer(ctx, guest))
		details[i] = f.addLine(t, guest.ID, 1, start, end)
	}

	errs := make([]error, len(details))
	var wg sync.WaitGroup
	for i := range details {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.SettleBooking(ctx, details[i].BookingID, 0, domain.MethodDirect, "")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		}
	}
	require.GreaterOrEqual(t, wins, 1)
	require.LessOrEqual(t, wins, 2)

	// However the race played out, no two reservations may hold the
	// same room for the same nights.
	var total, distinct int64
	require.NoError(t, f.db.Table("booking_time_slots").Count(&total).Error)
	require.NoError(t, f.db.Table("booking_time_slots").Distinct("room_id").Count(&distinct).Error)
	assert.EqualValues(t, wins, total)
	assert.Equal(t, total, distinct)
	assert.EqualValues(t, 2-wins, f.available(t, start, end))
}
