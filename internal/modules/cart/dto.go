package cart

import (
	"time"

	"resortbooking/internal/domain"
)

type AddItemRequest struct {
	OfferID       int64     `json:"offer_id" binding:"required"`
	NumberOfRooms int       `json:"number_of_rooms" binding:"required,min=1"`
	StartedAt     time.Time `json:"started_at" binding:"required"`
	FinishedAt    time.Time `json:"finished_at" binding:"required"`
}

type UpdateItemRequest struct {
	NumberOfRooms int `json:"number_of_rooms" binding:"required,min=1"`
}

type ItemResponse struct {
	ID            int64     `json:"id"`
	OfferID       int64     `json:"offer_id"`
	NumberOfRooms int       `json:"number_of_rooms"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Status        string    `json:"status"`
	Cost          int64     `json:"cost"`
}

type CartResponse struct {
	BookingID int64          `json:"booking_id"`
	Status    string         `json:"status"`
	Cost      int64          `json:"cost"`
	Items     []ItemResponse `json:"items"`
}

func toItemResponse(d domain.BookingDetail) ItemResponse {
	return ItemResponse{
		ID:            d.ID,
		OfferID:       d.OfferID,
		NumberOfRooms: d.NumberOfRooms,
		StartedAt:     d.StartedAt,
		FinishedAt:    d.FinishedAt,
		Status:        string(d.Status),
		Cost:          d.Cost,
	}
}

func toCartResponse(b *domain.Booking) CartResponse {
	items := make([]ItemResponse, 0, len(b.Details))
	for _, d := range b.Details {
		items = append(items, toItemResponse(d))
	}
	return CartResponse{
		BookingID: b.ID,
		Status:    string(b.Status),
		Cost:      b.Cost,
		Items:     items,
	}
}
