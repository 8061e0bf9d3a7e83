package domain

import "time"

type AccountRole string

const (
	RoleCustomer AccountRole = "customer"
	RolePartner  AccountRole = "partner"
	RoleAdmin    AccountRole = "admin"
)

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountDisabled AccountStatus = "disabled"
)

type Account struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email" validate:"required,email"`
	PasswordHash string        `json:"-"`
	Role         AccountRole   `json:"role"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type Customer struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type PartnerStatus string

const (
	PartnerPending  PartnerStatus = "pending"
	PartnerApproved PartnerStatus = "approved"
	PartnerRejected PartnerStatus = "rejected"
)

// Partner is a resort operator. Balance accumulates settled invoice
// amounts and is debited by withdraw requests; it is only ever mutated
// under a row lock.
type Partner struct {
	ID        int64         `json:"id"`
	AccountID int64         `json:"account_id"`
	Name      string        `json:"name" validate:"required"`
	Address   string        `json:"address,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Balance   int64         `json:"balance"`
	Status    PartnerStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
