package catalog

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
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/repository"
)

type catalogFixture struct {
	db      *gorm.DB
	service *Service
	ledger  *availability.Service

	resortID   int64
	roomTypeID int64
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	ctx := context.Background()
	resorts := repository.NewResortRepository(db)
	rooms := repository.NewRoomRepository(db)
	ledger := availability.NewService(db, repository.NewTimeSlotRepository(db))

	resort := &domain.Resort{PartnerID: 1, Name: "Sunrise Bay", Address: "Da Nang"}
	require.NoError(t, resorts.Create(ctx, resort))

	rt := &domain.RoomType{ResortID: resort.ID, Name: "Deluxe", Price: 700_000, PeopleAmount: 2}
	require.NoError(t, rooms.CreateRoomType(ctx, rt))
	for i := 0; i < 2; i++ {
		require.NoError(t, rooms.CreateRoom(ctx, &domain.Room{RoomTypeID: rt.ID, Number: fmt.Sprintf("%d", 301+i)}))
	}
	require.NoError(t, rooms.CreateOffer(ctx, &domain.Offer{RoomTypeID: rt.ID, Name: "Standard"}))

	service := NewService(resorts, rooms, ledger, NewRedisCache(nil))
	return &catalogFixture{
		db:         db,
		service:    service,
		ledger:     ledger,
		resortID:   resort.ID,
		roomTypeID: rt.ID,
	}
}

func catalogStay() (time.Time, time.Time) {
	start := time.Date(2026, 11, 1, 14, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 2)
}

func TestGetResortAssemblesRoomTypesAndOffers(t *testing.T) {
	f := newCatalogFixture(t)

	resort, err := f.service.GetResort(context.Background(), f.resortID)
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Bay", resort.Name)
	require.Len(t, resort.RoomTypes, 1)
	assert.Len(t, resort.RoomTypes[0].Offers, 1)

	_, err = f.service.GetResort(context.Background(), 999)
	assert.ErrorIs(t, err, ErrResortNotFound)
}

func TestRoomTypeAvailabilityReflectsLedger(t *testing.T) {
	f := newCatalogFixture(t)
	start, end := catalogStay()
	ctx := context.Background()

	total, available, err := f.service.RoomTypeAvailability(ctx, f.roomTypeID, start, end)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 2, available)

	err = f.db.Transaction(func(tx *gorm.DB) error {
		_, err := f.ledger.AllocateTx(tx, f.roomTypeID, 1, start, end, 1)
		return err
	})
	require.NoError(t, err)

	_, available, err = f.service.RoomTypeAvailability(ctx, f.roomTypeID, start, end)
	require.NoError(t, err)
	assert.EqualValues(t, 1, available)

	_, _, err = f.service.RoomTypeAvailability(ctx, 999, start, end)
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)
}

func TestSearchFiltersByAvailability(t *testing.T) {
	f := newCatalogFixture(t)
	start, end := catalogStay()
	ctx := context.Background()

	// Name-only search ignores availability.
	results, err := f.service.Search(ctx, SearchParams{Query: "sunrise", Limit: 20})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].RoomTypes)

	results, err = f.service.Search(ctx, SearchParams{Query: "sunrise", Start: start, End: end, Rooms: 2, Limit: 20})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].RoomTypes, 1)
	assert.EqualValues(t, 2, results[0].RoomTypes[0].Available)

	// Take one room; asking for two free rooms now excludes the resort.
	err = f.db.Transaction(func(tx *gorm.DB) error {
		_, err := f.ledger.AllocateTx(tx, f.roomTypeID, 1, start, end, 1)
		return err
	})
	require.NoError(t, err)

	results, err = f.service.Search(ctx, SearchParams{Query: "sunrise", Start: start, End: end, Rooms: 2, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = f.service.Search(ctx, SearchParams{Query: "nowhere", Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchFiltersByCapacity(t *testing.T) {
	f := newCatalogFixture(t)
	start, end := catalogStay()
	ctx := context.Background()

	// The Deluxe room type sleeps two; a party of four filters it out.
	results, err := f.service.Search(ctx, SearchParams{Query: "sunrise", Start: start, End: end, People: 4, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = f.service.Search(ctx, SearchParams{Query: "sunrise", Start: start, End: end, People: 2, Limit: 20})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].RoomTypes, 1)
}
