package auth

import (
	"context"

	"resortbooking/internal/domain"
)

type AccountStore interface {
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	CreateCustomerAccount(ctx context.Context, a *domain.Account, c *domain.Customer) error
	CreatePartnerAccount(ctx context.Context, a *domain.Account, p *domain.Partner) error
	GetCustomerByAccountID(ctx context.Context, accountID int64) (*domain.Customer, error)
	GetPartnerByAccountID(ctx context.Context, accountID int64) (*domain.Partner, error)
}

// TokenIssuer signs and parses access tokens.
type TokenIssuer interface {
	GenerateToken(accountID int64, role string) (string, error)
}
