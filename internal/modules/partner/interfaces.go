package partner

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

type PartnerStore interface {
	GetPartnerByID(ctx context.Context, id int64) (*domain.Partner, error)
	AddPartnerBalanceTx(tx *gorm.DB, partnerID int64, delta int64, lock bool) (int64, error)
}

type ResortStore interface {
	Create(ctx context.Context, resort *domain.Resort) error
	Update(ctx context.Context, resort *domain.Resort) error
	GetByID(ctx context.Context, id int64) (*domain.Resort, error)
	ListByPartner(ctx context.Context, partnerID int64) ([]domain.Resort, error)
}

type RoomStore interface {
	CreateRoomType(ctx context.Context, rt *domain.RoomType) error
	UpdateRoomType(ctx context.Context, rt *domain.RoomType) error
	GetRoomType(ctx context.Context, id int64) (*domain.RoomType, error)
	ListRoomTypesByResort(ctx context.Context, resortID int64) ([]domain.RoomType, error)
	CreateRoom(ctx context.Context, room *domain.Room) error
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	ListRoomsByType(ctx context.Context, roomTypeID int64) ([]domain.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
	CreateOffer(ctx context.Context, o *domain.Offer) error
	UpdateOffer(ctx context.Context, o *domain.Offer) error
	GetOffer(ctx context.Context, id int64) (*domain.Offer, error)
}

type ScheduleStore interface {
	ListScheduleForPartner(ctx context.Context, partnerID int64, from, to time.Time) ([]repository.ScheduleEntry, error)
}

type InvoiceStore interface {
	ListByPartner(ctx context.Context, partnerID int64, limit, offset int) ([]domain.Invoice, error)
	RevenueByMonth(ctx context.Context, partnerID int64, from, to time.Time) ([]repository.RevenuePoint, error)
}

type WithdrawStore interface {
	CreateTx(tx *gorm.DB, w *domain.Withdraw) error
	ListByPartner(ctx context.Context, partnerID int64, limit, offset int) ([]domain.Withdraw, error)
}

// CacheEvictor drops stale catalog cache entries after partner edits.
type CacheEvictor interface {
	Del(ctx context.Context, keys ...string)
}
