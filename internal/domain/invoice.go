package domain

import "time"

type PaymentMethod string

const (
	MethodZaloPay PaymentMethod = "ZALOPAY"
	MethodDirect  PaymentMethod = "DIRECT"
)

// Invoice is the financial record for one settled booking detail.
// PartnerID is always derived from the booked room type's resort.
// Invoices are immutable after creation.
type Invoice struct {
	ID              int64         `json:"id"`
	CustomerID      int64         `json:"customer_id"`
	PartnerID       int64         `json:"partner_id"`
	BookingDetailID int64         `json:"booking_detail_id"`
	Cost            int64         `json:"cost"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	FinishedTime    time.Time     `json:"finished_time"`
	CreatedAt       time.Time     `json:"created_at"`
}

type WithdrawStatus string

const (
	WithdrawPending  WithdrawStatus = "PENDING"
	WithdrawApproved WithdrawStatus = "APPROVED"
	WithdrawRejected WithdrawStatus = "REJECTED"
)

// Withdraw is a partner's request to pay out part of their balance.
// The amount is debited from the balance when the request is created
// and refunded if an admin rejects it.
type Withdraw struct {
	ID                int64          `json:"id"`
	PartnerID         int64          `json:"partner_id"`
	TransactionAmount int64          `json:"transaction_amount"`
	Status            WithdrawStatus `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	FinishedAt        *time.Time     `json:"finished_at,omitempty"`
}
