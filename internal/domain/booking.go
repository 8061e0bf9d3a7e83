package domain

import "time"

type BookingStatus string

const (
	BookingPending BookingStatus = "pending"
	BookingPaid    BookingStatus = "paid"
)

type DetailStatus string

const (
	DetailPending   DetailStatus = "pending"
	DetailPaid      DetailStatus = "PAID"
	DetailCancelled DetailStatus = "CANCELLED"
)

// Booking is a customer's cart while pending and an order once paid.
// Cost is the running sum of its detail costs.
type Booking struct {
	ID         int64         `json:"id"`
	CustomerID int64         `json:"customer_id"`
	Status     BookingStatus `json:"status"`
	Cost       int64         `json:"cost"`
	ZpTransID  string        `json:"zp_trans_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	Details []BookingDetail `json:"details,omitempty" gorm:"-"`
}

// BookingDetail is one reservation request: a room type (via offer),
// a quantity and a half-open stay interval [StartedAt, FinishedAt).
// Cost is snapshotted at add/update time, not recomputed later.
type BookingDetail struct {
	ID            int64        `json:"id"`
	BookingID     int64        `json:"booking_id"`
	OfferID       int64        `json:"offer_id"`
	NumberOfRooms int          `json:"number_of_rooms" validate:"gt=0"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
	Status        DetailStatus `json:"status"`
	Cost          int64        `json:"cost"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// BookingTimeSlot records that one room is occupied over
// [StartedTime, FinishedTime). Slots exist only for PAID details and
// belong to the settling invoice.
type BookingTimeSlot struct {
	ID           int64     `json:"id"`
	RoomID       int64     `json:"room_id"`
	InvoiceID    int64     `json:"invoice_id"`
	StartedTime  time.Time `json:"started_time"`
	FinishedTime time.Time `json:"finished_time"`
	CreatedAt    time.Time `json:"created_at"`
}
