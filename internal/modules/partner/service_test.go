package partner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/catalog"
	"resortbooking/internal/repository"
)

type partnerFixture struct {
	db       *gorm.DB
	service  *Service
	accounts *repository.AccountRepository
	rooms    *repository.RoomRepository
	slots    *repository.TimeSlotRepository

	partnerID int64
	otherID   int64
}

func newFixture(t *testing.T) *partnerFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:partner_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	ctx := context.Background()
	accounts := repository.NewAccountRepository(db)

	approved := &domain.Partner{Name: "Seaside Group", Status: domain.PartnerApproved, Balance: 1_000_000}
	require.NoError(t, accounts.CreatePartnerAccount(ctx, &domain.Account{
		Email: "approved@example.com", PasswordHash: "x", Role: domain.RolePartner, Status: domain.AccountActive,
	}, approved))

	other := &domain.Partner{Name: "Rival Group", Status: domain.PartnerApproved}
	require.NoError(t, accounts.CreatePartnerAccount(ctx, &domain.Account{
		Email: "rival@example.com", PasswordHash: "x", Role: domain.RolePartner, Status: domain.AccountActive,
	}, other))

	rooms := repository.NewRoomRepository(db)
	slots := repository.NewTimeSlotRepository(db)
	service := NewService(
		db,
		accounts,
		repository.NewResortRepository(db),
		rooms,
		slots,
		repository.NewInvoiceRepository(db),
		repository.NewWithdrawRepository(db),
		catalog.NewRedisCache(nil),
	)

	return &partnerFixture{
		db:        db,
		service:   service,
		accounts:  accounts,
		rooms:     rooms,
		slots:     slots,
		partnerID: approved.ID,
		otherID:   other.ID,
	}
}

// seedInventory creates a resort with one room type and one room owned
// by the fixture partner.
func (f *partnerFixture) seedInventory(t *testing.T) (resortID, roomTypeID, roomID int64) {
	t.Helper()
	ctx := context.Background()

	resort := &domain.Resort{Name: "Palm Cove"}
	require.NoError(t, f.service.CreateResort(ctx, f.partnerID, resort))

	rt := &domain.RoomType{ResortID: resort.ID, Name: "Bungalow", PeopleAmount: 2, Price: 700_000}
	require.NoError(t, f.service.CreateRoomType(ctx, f.partnerID, rt))

	room := &domain.Room{RoomTypeID: rt.ID, Number: "101"}
	require.NoError(t, f.service.CreateRoom(ctx, f.partnerID, room))

	return resort.ID, rt.ID, room.ID
}

func TestCreateResortRequiresApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := &domain.Partner{Name: "Newcomer", Status: domain.PartnerPending}
	require.NoError(t, f.accounts.CreatePartnerAccount(ctx, &domain.Account{
		Email: "pending@example.com", PasswordHash: "x", Role: domain.RolePartner, Status: domain.AccountActive,
	}, pending))

	err := f.service.CreateResort(ctx, pending.ID, &domain.Resort{Name: "Too Early"})
	assert.ErrorIs(t, err, ErrNotApproved)

	require.NoError(t, f.service.CreateResort(ctx, f.partnerID, &domain.Resort{Name: "On Time"}))
}

func TestUpdateResortOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resortID, _, _ := f.seedInventory(t)

	err := f.service.UpdateResort(ctx, f.otherID, &domain.Resort{ID: resortID, Name: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, f.service.UpdateResort(ctx, f.partnerID, &domain.Resort{ID: resortID, Name: "Palm Cove Deluxe"}))

	resorts, err := f.service.ListResorts(ctx, f.partnerID)
	require.NoError(t, err)
	require.Len(t, resorts, 1)
	assert.Equal(t, "Palm Cove Deluxe", resorts[0].Name)
}

func TestRoomTypeOwnershipWalksToResort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, roomTypeID, _ := f.seedInventory(t)

	err := f.service.CreateRoom(ctx, f.otherID, &domain.Room{RoomTypeID: roomTypeID, Number: "999"})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.service.ListRooms(ctx, f.otherID, roomTypeID)
	assert.ErrorIs(t, err, ErrNotOwner)

	rooms, err := f.service.ListRooms(ctx, f.partnerID, roomTypeID)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestCreateRoomTypeValidatesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resortID, _, _ := f.seedInventory(t)

	err := f.service.CreateRoomType(ctx, f.partnerID, &domain.RoomType{
		ResortID: resortID, Name: "Zero", PeopleAmount: 0, Price: 100_000,
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "PeopleAmount")
}

func TestDeleteRoomBlockedByReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, roomID := f.seedInventory(t)

	start := time.Now().Add(24 * time.Hour)
	err := f.db.Transaction(func(tx *gorm.DB) error {
		return f.slots.CreateSlotsTx(tx, []domain.BookingTimeSlot{{
			RoomID:       roomID,
			InvoiceID:    1,
			StartedTime:  start,
			FinishedTime: start.Add(48 * time.Hour),
		}})
	})
	require.NoError(t, err)

	err = f.service.DeleteRoom(ctx, f.partnerID, roomID)
	assert.ErrorIs(t, err, ErrRoomInUse)

	room, err := f.rooms.GetRoom(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, roomID, room.ID)
}

func TestDeleteRoomWithoutReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, roomTypeID, roomID := f.seedInventory(t)

	require.NoError(t, f.service.DeleteRoom(ctx, f.partnerID, roomID))

	rooms, err := f.service.ListRooms(ctx, f.partnerID, roomTypeID)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestUpdateOfferKeepsRoomType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, roomTypeID, _ := f.seedInventory(t)

	cost := int64(450_000)
	offer := &domain.Offer{RoomTypeID: roomTypeID, Name: "Early bird", Cost: &cost}
	require.NoError(t, f.service.CreateOffer(ctx, f.partnerID, offer))

	err := f.service.UpdateOffer(ctx, f.otherID, &domain.Offer{ID: offer.ID, Name: "Stolen"})
	assert.ErrorIs(t, err, ErrNotOwner)

	updated := &domain.Offer{ID: offer.ID, Name: "Early bird plus"}
	require.NoError(t, f.service.UpdateOffer(ctx, f.partnerID, updated))
	assert.Equal(t, roomTypeID, updated.RoomTypeID)

	stored, err := f.rooms.GetOffer(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Early bird plus", stored.Name)
	assert.Nil(t, stored.Cost)
}

func TestRequestWithdrawDebitsBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	withdraw, err := f.service.RequestWithdraw(ctx, f.partnerID, 400_000)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawPending, withdraw.Status)
	assert.Equal(t, int64(400_000), withdraw.TransactionAmount)
	assert.Nil(t, withdraw.FinishedAt)

	balance, err := f.service.Balance(ctx, f.partnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(600_000), balance)

	withdraws, err := f.service.ListWithdraws(ctx, f.partnerID, 20, 0)
	require.NoError(t, err)
	require.Len(t, withdraws, 1)
	assert.Equal(t, withdraw.ID, withdraws[0].ID)
}

func TestRequestWithdrawInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.RequestWithdraw(ctx, f.partnerID, 2_000_000)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Nothing is recorded and the balance stays intact.
	balance, err := f.service.Balance(ctx, f.partnerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), balance)

	withdraws, err := f.service.ListWithdraws(ctx, f.partnerID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, withdraws)
}

func TestRequestWithdrawRejectsNonPositive(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.RequestWithdraw(context.Background(), f.partnerID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.service.RequestWithdraw(context.Background(), f.partnerID, -100)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
