package payment

import (
	"time"

	"resortbooking/internal/domain"
)

type DirectPaymentRequest struct {
	BookingDetailID int64 `json:"booking_detail_id" binding:"required"`
}

type CancelRequest struct {
	BookingDetailID int64 `json:"booking_detail_id" binding:"required"`
}

type CreateOrderRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

type CallbackRequest struct {
	Data string `json:"data" binding:"required"`
	Mac  string `json:"mac" binding:"required"`
}

type InvoiceResponse struct {
	ID              int64     `json:"id"`
	BookingDetailID int64     `json:"booking_detail_id"`
	PartnerID       int64     `json:"partner_id"`
	Cost            int64     `json:"cost"`
	PaymentMethod   string    `json:"payment_method"`
	FinishedTime    time.Time `json:"finished_time"`
	CreatedAt       time.Time `json:"created_at"`
}

func toInvoiceResponse(inv domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              inv.ID,
		BookingDetailID: inv.BookingDetailID,
		PartnerID:       inv.PartnerID,
		Cost:            inv.Cost,
		PaymentMethod:   string(inv.PaymentMethod),
		FinishedTime:    inv.FinishedTime,
		CreatedAt:       inv.CreatedAt,
	}
}

type SettlementResponse struct {
	BookingID int64             `json:"booking_id"`
	TotalCost int64             `json:"total_cost"`
	Invoices  []InvoiceResponse `json:"invoices"`
}

func toSettlementResponse(result *SettlementResult) SettlementResponse {
	invoices := make([]InvoiceResponse, 0, len(result.Invoices))
	for _, inv := range result.Invoices {
		invoices = append(invoices, toInvoiceResponse(inv))
	}
	return SettlementResponse{
		BookingID: result.BookingID,
		TotalCost: result.TotalCost,
		Invoices:  invoices,
	}
}

type HistoryItemResponse struct {
	ID            int64     `json:"id"`
	OfferID       int64     `json:"offer_id"`
	NumberOfRooms int       `json:"number_of_rooms"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Status        string    `json:"status"`
	Cost          int64     `json:"cost"`
}

type HistoryResponse struct {
	BookingID int64                 `json:"booking_id"`
	Status    string                `json:"status"`
	Cost      int64                 `json:"cost"`
	CreatedAt time.Time             `json:"created_at"`
	Items     []HistoryItemResponse `json:"items"`
}

func toHistoryResponse(b domain.Booking) HistoryResponse {
	items := make([]HistoryItemResponse, 0, len(b.Details))
	for _, d := range b.Details {
		items = append(items, HistoryItemResponse{
			ID:            d.ID,
			OfferID:       d.OfferID,
			NumberOfRooms: d.NumberOfRooms,
			StartedAt:     d.StartedAt,
			FinishedAt:    d.FinishedAt,
			Status:        string(d.Status),
			Cost:          d.Cost,
		})
	}
	return HistoryResponse{
		BookingID: b.ID,
		Status:    string(b.Status),
		Cost:      b.Cost,
		CreatedAt: b.CreatedAt,
		Items:     items,
	}
}
