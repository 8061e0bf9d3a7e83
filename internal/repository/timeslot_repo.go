package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resortbooking/internal/domain"
)

// TimeSlotRepository owns the room occupation ledger. A row in
// booking_time_slots means one concrete room is taken for one interval.
// Intervals are half open: a slot ending at T does not collide with a
// slot starting at T.
type TimeSlotRepository struct {
	db *gorm.DB
}

func NewTimeSlotRepository(db *gorm.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

type timeSlotModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	RoomID       int64     `gorm:"column:room_id;index"`
	InvoiceID    int64     `gorm:"column:invoice_id;index"`
	StartedTime  time.Time `gorm:"column:started_time;index"`
	FinishedTime time.Time `gorm:"column:finished_time"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (timeSlotModel) TableName() string { return "booking_time_slots" }

func toDomainTimeSlot(m timeSlotModel) *domain.BookingTimeSlot {
	return &domain.BookingTimeSlot{
		ID:           m.ID,
		RoomID:       m.RoomID,
		InvoiceID:    m.InvoiceID,
		StartedTime:  m.StartedTime,
		FinishedTime: m.FinishedTime,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *TimeSlotRepository) CountRoomsOfType(ctx context.Context, roomTypeID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&roomModel{}).
		Where("room_type_id = ?", roomTypeID).
		Count(&total).Error
	return total, err
}

// CountBookedRooms counts the distinct rooms of a type that have at
// least one slot overlapping [start, end).
func (r *TimeSlotRepository) CountBookedRooms(ctx context.Context, roomTypeID int64, start, end time.Time) (int64, error) {
	var booked int64
	err := r.db.WithContext(ctx).Model(&timeSlotModel{}).
		Distinct("booking_time_slots.room_id").
		Joins("JOIN rooms ON rooms.id = booking_time_slots.room_id").
		Where("rooms.room_type_id = ?", roomTypeID).
		Where("booking_time_slots.started_time < ? AND booking_time_slots.finished_time > ?", end, start).
		Count(&booked).Error
	return booked, err
}

// FindFreeRoomsTx returns up to limit rooms of the given type with no
// slot overlapping [start, end), ordered by room id so concurrent
// allocators contend on the same rows. When lock is true the selected
// rows are locked with FOR UPDATE; callers must skip locking on
// dialects that do not support it.
func (r *TimeSlotRepository) FindFreeRoomsTx(tx *gorm.DB, roomTypeID int64, start, end time.Time, limit int, lock bool) ([]domain.Room, error) {
	q := tx.Model(&roomModel{}).
		Where("room_type_id = ?", roomTypeID).
		Where(`NOT EXISTS (
			SELECT 1 FROM booking_time_slots
			WHERE booking_time_slots.room_id = rooms.id
			  AND booking_time_slots.started_time < ?
			  AND booking_time_slots.finished_time > ?
		)`, end, start).
		Order("id ASC").
		Limit(limit)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "rooms"}})
	}

	var rows []roomModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out, nil
}

func (r *TimeSlotRepository) CreateSlotsTx(tx *gorm.DB, slots []domain.BookingTimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	rows := make([]timeSlotModel, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, timeSlotModel{
			RoomID:       s.RoomID,
			InvoiceID:    s.InvoiceID,
			StartedTime:  s.StartedTime,
			FinishedTime: s.FinishedTime,
		})
	}
	return tx.Create(&rows).Error
}

func (r *TimeSlotRepository) DeleteByInvoiceIDsTx(tx *gorm.DB, invoiceIDs []int64) error {
	if len(invoiceIDs) == 0 {
		return nil
	}
	return tx.Where("invoice_id IN ?", invoiceIDs).Delete(&timeSlotModel{}).Error
}

func (r *TimeSlotRepository) ListByInvoiceID(ctx context.Context, invoiceID int64) ([]domain.BookingTimeSlot, error) {
	var rows []timeSlotModel
	if err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Order("room_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.BookingTimeSlot, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainTimeSlot(m))
	}
	return out, nil
}

// ScheduleEntry is one occupied room interval for a partner's schedule
// view.
type ScheduleEntry struct {
	Slot       domain.BookingTimeSlot
	RoomNumber string
	RoomTypeID int64
}

// ListScheduleForPartner returns room occupations across all of a
// partner's resorts within [from, to).
func (r *TimeSlotRepository) ListScheduleForPartner(ctx context.Context, partnerID int64, from, to time.Time) ([]ScheduleEntry, error) {
	type row struct {
		timeSlotModel
		Number     string `gorm:"column:number"`
		RoomTypeID int64  `gorm:"column:room_type_id"`
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&timeSlotModel{}).
		Select("booking_time_slots.*, rooms.number, rooms.room_type_id").
		Joins("JOIN rooms ON rooms.id = booking_time_slots.room_id").
		Joins("JOIN room_types ON room_types.id = rooms.room_type_id").
		Joins("JOIN resorts ON resorts.id = room_types.resort_id").
		Where("resorts.partner_id = ?", partnerID).
		Where("booking_time_slots.started_time < ? AND booking_time_slots.finished_time > ?", to, from).
		Order("booking_time_slots.started_time ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]ScheduleEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, ScheduleEntry{
			Slot:       *toDomainTimeSlot(m.timeSlotModel),
			RoomNumber: m.Number,
			RoomTypeID: m.RoomTypeID,
		})
	}
	return out, nil
}
