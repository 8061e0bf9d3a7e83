package payment

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
	"resortbooking/internal/events"
	"resortbooking/internal/repository"
)

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDTx(tx *gorm.DB, id int64, lock bool) (*domain.Booking, error)
	GetDetail(ctx context.Context, id int64) (*domain.BookingDetail, error)
	GetDetailTx(tx *gorm.DB, id int64, lock bool) (*domain.BookingDetail, error)
	ListDetails(ctx context.Context, bookingID int64) ([]domain.BookingDetail, error)
	ListDetailsTx(tx *gorm.DB, bookingID int64, status string) ([]domain.BookingDetail, error)
	UpdateDetailStatusTx(tx *gorm.DB, detailID int64, status domain.DetailStatus) error
	AddCostTx(tx *gorm.DB, bookingID int64, delta int64) error
	MarkPaidTx(tx *gorm.DB, bookingID int64, zpTransID string) error
	ListByCustomer(ctx context.Context, customerID int64, status string, limit, offset int) ([]domain.Booking, error)
}

type OfferStore interface {
	GetOfferPricingTx(tx *gorm.DB, offerID int64) (*repository.OfferPricing, error)
}

type InvoiceStore interface {
	CreateTx(tx *gorm.DB, inv *domain.Invoice) error
	InvoiceIDsForDetailTx(tx *gorm.DB, detailID int64) ([]int64, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Invoice, error)
}

// Allocator reserves and frees concrete rooms inside a settlement
// transaction.
type Allocator interface {
	AllocateTx(tx *gorm.DB, roomTypeID, invoiceID int64, start, end time.Time, n int) ([]domain.BookingTimeSlot, error)
	ReleaseTx(tx *gorm.DB, invoiceIDs []int64) error
}

// PartnerLedger moves money on partner balances.
type PartnerLedger interface {
	AddPartnerBalanceTx(tx *gorm.DB, partnerID int64, delta int64, lock bool) (int64, error)
}

type CustomerDirectory interface {
	GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
}

type Notifier interface {
	SendBookingConfirmation(to, customerName string, bookingID int64, totalCost int64, paidAt time.Time)
	SendCancellationNotice(to, customerName string, detailID int64)
}

type EventPublisher interface {
	PublishBookingSettled(ctx context.Context, event events.BookingSettledEvent) error
	PublishBookingCancelled(ctx context.Context, event events.BookingCancelledEvent) error
}
