package cart

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

type BookingStore interface {
	GetOrCreatePendingTx(tx *gorm.DB, customerID int64, lock bool) (*domain.Booking, error)
	GetPendingByCustomer(ctx context.Context, customerID int64) (*domain.Booking, error)
	GetByIDTx(tx *gorm.DB, id int64, lock bool) (*domain.Booking, error)
	AddCostTx(tx *gorm.DB, bookingID int64, delta int64) error
	CreateDetailTx(tx *gorm.DB, d *domain.BookingDetail) error
	GetDetailTx(tx *gorm.DB, id int64, lock bool) (*domain.BookingDetail, error)
	FindMergeableDetailTx(tx *gorm.DB, bookingID, offerID int64, start, end time.Time) (*domain.BookingDetail, error)
	UpdateDetailTx(tx *gorm.DB, d *domain.BookingDetail) error
	DeleteDetailTx(tx *gorm.DB, detailID int64) error
	ListDetails(ctx context.Context, bookingID int64) ([]domain.BookingDetail, error)
}

type OfferStore interface {
	GetOfferPricing(ctx context.Context, offerID int64) (*repository.OfferPricing, error)
}

type AvailabilityChecker interface {
	Validate(ctx context.Context, roomTypeID int64, start, end time.Time, n int) error
}
