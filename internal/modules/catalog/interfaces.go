package catalog

import (
	"context"
	"time"

	"resortbooking/internal/domain"
)

type ResortStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Resort, error)
	List(ctx context.Context, limit, offset int) ([]domain.Resort, int64, error)
	SearchByName(ctx context.Context, query string, limit, offset int) ([]domain.Resort, error)
}

type RoomTypeStore interface {
	GetRoomType(ctx context.Context, id int64) (*domain.RoomType, error)
	ListRoomTypesByResort(ctx context.Context, resortID int64) ([]domain.RoomType, error)
	ListOffersByRoomType(ctx context.Context, roomTypeID int64) ([]domain.Offer, error)
}

type AvailabilityReader interface {
	Availability(ctx context.Context, roomTypeID int64, start, end time.Time) (total, available int64, err error)
}
