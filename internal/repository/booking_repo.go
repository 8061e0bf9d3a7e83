package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	CustomerID int64     `gorm:"column:customer_id;index"`
	Status     string    `gorm:"column:status;index"`
	Cost       int64     `gorm:"column:cost"`
	ZpTransID  string    `gorm:"column:zp_trans_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

type bookingDetailModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	BookingID     int64     `gorm:"column:booking_id;index"`
	OfferID       int64     `gorm:"column:offer_id;index"`
	NumberOfRooms int       `gorm:"column:number_of_rooms"`
	StartedAt     time.Time `gorm:"column:started_at"`
	FinishedAt    time.Time `gorm:"column:finished_at"`
	Status        string    `gorm:"column:status"`
	Cost          int64     `gorm:"column:cost"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (bookingDetailModel) TableName() string { return "booking_details" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Status:     domain.BookingStatus(m.Status),
		Cost:       m.Cost,
		ZpTransID:  m.ZpTransID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toDomainDetail(m bookingDetailModel) *domain.BookingDetail {
	return &domain.BookingDetail{
		ID:            m.ID,
		BookingID:     m.BookingID,
		OfferID:       m.OfferID,
		NumberOfRooms: m.NumberOfRooms,
		StartedAt:     m.StartedAt,
		FinishedAt:    m.FinishedAt,
		Status:        domain.DetailStatus(m.Status),
		Cost:          m.Cost,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// GetOrCreatePendingTx returns the customer's newest pending booking,
// creating an empty one when none exists. The pending booking is the
// customer's cart.
func (r *BookingRepository) GetOrCreatePendingTx(tx *gorm.DB, customerID int64, lock bool) (*domain.Booking, error) {
	q := lockIf(tx, lock).
		Where("customer_id = ? AND status = ?", customerID, string(domain.BookingPending)).
		Order("created_at DESC")

	var m bookingModel
	err := q.First(&m).Error
	if err == nil {
		return toDomainBooking(m), nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	m = bookingModel{CustomerID: customerID, Status: string(domain.BookingPending)}
	if err := tx.Create(&m).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetPendingByCustomer(ctx context.Context, customerID int64) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, string(domain.BookingPending)).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByIDTx(tx *gorm.DB, id int64, lock bool) (*domain.Booking, error) {
	var m bookingModel
	if err := lockIf(tx, lock).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

// AddCostTx shifts a booking's total by delta. The cart keeps the
// running total so checkout never has to re-sum details.
func (r *BookingRepository) AddCostTx(tx *gorm.DB, bookingID int64, delta int64) error {
	return tx.Model(&bookingModel{}).
		Where("id = ?", bookingID).
		Update("cost", gorm.Expr("cost + ?", delta)).Error
}

func (r *BookingRepository) MarkPaidTx(tx *gorm.DB, bookingID int64, zpTransID string) error {
	return tx.Model(&bookingModel{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"status":      string(domain.BookingPaid),
			"zp_trans_id": zpTransID,
		}).Error
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, status string, limit, offset int) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []bookingModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) CreateDetailTx(tx *gorm.DB, d *domain.BookingDetail) error {
	m := bookingDetailModel{
		BookingID:     d.BookingID,
		OfferID:       d.OfferID,
		NumberOfRooms: d.NumberOfRooms,
		StartedAt:     d.StartedAt,
		FinishedAt:    d.FinishedAt,
		Status:        string(d.Status),
		Cost:          d.Cost,
	}
	if err := tx.Create(&m).Error; err != nil {
		return err
	}
	*d = *toDomainDetail(m)
	return nil
}

func (r *BookingRepository) GetDetail(ctx context.Context, id int64) (*domain.BookingDetail, error) {
	var m bookingDetailModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainDetail(m), nil
}

func (r *BookingRepository) GetDetailTx(tx *gorm.DB, id int64, lock bool) (*domain.BookingDetail, error) {
	var m bookingDetailModel
	if err := lockIf(tx, lock).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainDetail(m), nil
}

// FindMergeableDetailTx looks for a pending line in the booking with
// the same offer and exact interval, so repeated adds merge instead of
// duplicating rows.
func (r *BookingRepository) FindMergeableDetailTx(tx *gorm.DB, bookingID, offerID int64, start, end time.Time) (*domain.BookingDetail, error) {
	var m bookingDetailModel
	err := tx.Where(
		"booking_id = ? AND offer_id = ? AND started_at = ? AND finished_at = ? AND status = ?",
		bookingID, offerID, start, end, string(domain.DetailPending),
	).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toDomainDetail(m), nil
}

func (r *BookingRepository) UpdateDetailTx(tx *gorm.DB, d *domain.BookingDetail) error {
	return tx.Model(&bookingDetailModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]any{
			"number_of_rooms": d.NumberOfRooms,
			"started_at":      d.StartedAt,
			"finished_at":     d.FinishedAt,
			"status":          string(d.Status),
			"cost":            d.Cost,
		}).Error
}

func (r *BookingRepository) UpdateDetailStatusTx(tx *gorm.DB, detailID int64, status domain.DetailStatus) error {
	return tx.Model(&bookingDetailModel{}).
		Where("id = ?", detailID).
		Update("status", string(status)).Error
}

func (r *BookingRepository) DeleteDetailTx(tx *gorm.DB, detailID int64) error {
	return tx.Delete(&bookingDetailModel{}, detailID).Error
}

func (r *BookingRepository) ListDetails(ctx context.Context, bookingID int64) ([]domain.BookingDetail, error) {
	var rows []bookingDetailModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.BookingDetail, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainDetail(m))
	}
	return out, nil
}

func (r *BookingRepository) ListDetailsTx(tx *gorm.DB, bookingID int64, status string) ([]domain.BookingDetail, error) {
	q := tx.Where("booking_id = ?", bookingID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []bookingDetailModel
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.BookingDetail, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainDetail(m))
	}
	return out, nil
}
