// Package events defines message payloads published to the broker when
// bookings settle or cancel. Consumers (reporting, notifications) read
// them without touching the primary database.
package events

type BookingSettledEvent struct {
	BookingID     int64  `json:"booking_id"`
	DetailID      int64  `json:"booking_detail_id"`
	InvoiceID     int64  `json:"invoice_id"`
	CustomerID    int64  `json:"customer_id"`
	PartnerID     int64  `json:"partner_id"`
	RoomTypeID    int64  `json:"room_type_id"`
	NumberOfRooms int    `json:"number_of_rooms"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	StartedAt     string `json:"started_at"`
	FinishedAt    string `json:"finished_at"`
	SettledAt     string `json:"settled_at"`
}

type BookingCancelledEvent struct {
	DetailID      int64  `json:"booking_detail_id"`
	CustomerID    int64  `json:"customer_id"`
	ReleasedRooms int    `json:"released_rooms"`
	CancelledAt   string `json:"cancelled_at"`
}
