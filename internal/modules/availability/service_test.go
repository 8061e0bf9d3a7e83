package availability

import (
	"context"
	"errors"
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
	"resortbooking/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:availability_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(db, repository.NewTimeSlotRepository(db)), db
}

func seedRooms(t *testing.T, db *gorm.DB, roomTypeID int64, count int) {
	t.Helper()
	rooms := repository.NewRoomRepository(db)
	for i := 0; i < count; i++ {
		room := &domain.Room{RoomTypeID: roomTypeID, Number: fmt.Sprintf("10%d", i+1)}
		require.NoError(t, rooms.CreateRoom(context.Background(), room))
	}
}

func interval(startDay, endDay int) (time.Time, time.Time) {
	base := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, startDay), base.AddDate(0, 0, endDay)
}

func TestAvailabilityEmptyLedger(t *testing.T) {
	svc, db := newTestService(t)
	seedRooms(t, db, 1, 2)

	start, end := interval(0, 2)
	total, available, err := svc.Availability(context.Background(), 1, start, end)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 2, available)
}

func TestAvailabilityCountsDistinctRooms(t *testing.T) {
	svc, db := newTestService(t)
	seedRooms(t, db, 1, 2)

	start, end := interval(0, 4)
	// Two short slots on the same room must count that room once.
	err := db.Transaction(func(tx *gorm.DB) error {
		s1, e1 := interval(0, 1)
		if _, err := svc.AllocateTx(tx, 1, 10, s1, e1, 1); err != nil {
			return err
		}
		s2, e2 := interval(2, 3)
		_, err := svc.AllocateTx(tx, 1, 11, s2, e2, 1)
		return err
	})
	require.NoError(t, err)

	total, available, err := svc.Availability(context.Background(), 1, start, end)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 1, available)
}

func TestValidate(t *testing.T) {
	svc, db := newTestService(t)
	seedRooms(t, db, 1, 2)
	start, end := interval(0, 2)

	require.NoError(t, svc.Validate(context.Background(), 1, start, end, 2))

	err := svc.Validate(context.Background(), 1, start, end, 3)
	var insufficient *InsufficientInventoryError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 2, insufficient.Available)
}

func TestValidateRejectsEmptyInterval(t *testing.T) {
	svc, db := newTestService(t)
	seedRooms(t, db, 1, 1)

	start, _ := interval(0, 2)
	assert.ErrorIs(t, svc.Validate(context.Background(), 1, start, start, 1), ErrInvalidInterval)
	assert.ErrorIs(t, svc.Validate(context.Background(), 1, start, start.Add(-time.Hour), 1), ErrInvalidInterval)
}

func TestAllocatePicksLowestRoomIDs(t *testing.T) {
	svc, db := newTestService(t)
	seedRooms(t, db, 1, 3)
	start, end := interval(0, 2)

	var slots []domain.BookingTimeSlot
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		slots, err = svc.AllocateTx(tx, 1, 42, start, end, 2)
		return err
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Less(t, slots[0].RoomID, slots[1].RoomID)

	for _, s := range slots {
		assert.EqualValues(t, 42, s.InvoiceID)
		assert.True(t, s.StartedTime.Equal(start))
		assert.True(t, s.FinishedTime.Equal(end))
	}
}

func TestAllocateInsufficientRollsBack(t *testing.T) {
	svc, db := newTestService(t)
	seedRooms(t, db, 1, 3)
	start, end := interval(0, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.AllocateTx(tx, 1, 1, start, end, 2)
		return err
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.AllocateTx(tx, 1, 2, start, end, 2)
		return err
	})
	var insufficient *InsufficientInventoryError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Available)

	// The failed allocation must not leave partial slots behind.
	_, available, availErr := svc.Availability(context.Background(), 1, start, end)
	require.NoError(t, availErr)
	assert.EqualValues(t, 1, available)
}

func TestReleaseRestoresAvailabilityAndIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	seedRooms(t, db, 1, 2)
	start, end := interval(0, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.AllocateTx(tx, 1, 7, start, end, 2)
		return err
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		err = db.Transaction(func(tx *gorm.DB) error {
			return svc.ReleaseTx(tx, []int64{7})
		})
		require.NoError(t, err)
	}

	_, available, err := svc.Availability(context.Background(), 1, start, end)
	require.NoError(t, err)
	assert.EqualValues(t, 2, available)
}

func TestBackToBackIntervalsDoNotCollide(t *testing.T) {
	svc, db := newTestService(t)
	seedRooms(t, db, 1, 1)

	s1, e1 := interval(0, 2)
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.AllocateTx(tx, 1, 1, s1, e1, 1)
		return err
	})
	require.NoError(t, err)

	// A stay starting exactly when the previous one ends takes the
	// same room.
	s2, e2 := e1, e1.AddDate(0, 0, 2)
	_, available, err := svc.Availability(context.Background(), 1, s2, e2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, available)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.AllocateTx(tx, 1, 2, s2, e2, 1)
		return err
	})
	require.NoError(t, err)
}

func TestAllocateUnknownRoomType(t *testing.T) {
	svc, db := newTestService(t)
	seedRooms(t, db, 1, 2)
	start, end := interval(0, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.AllocateTx(tx, 99, 1, start, end, 1)
		return err
	})
	var insufficient *InsufficientInventoryError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 0, insufficient.Available)
}
