package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type Service struct {
	accounts AccountStore
	tokens   TokenIssuer
}

func NewService(accounts AccountStore, tokens TokenIssuer) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// Profile is the caller's account with its role-specific profile
// attached.
type Profile struct {
	Account  domain.Account
	Customer *domain.Customer
	Partner  *domain.Partner
}

// RegisterCustomer creates a customer account, active immediately.
func (s *Service) RegisterCustomer(ctx context.Context, email, password, fullName, phone string) (*Profile, error) {
	hash, err := s.checkNewAccount(ctx, email, password)
	if err != nil {
		return nil, err
	}

	account := domain.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		Status:       domain.AccountActive,
	}
	customer := domain.Customer{FullName: fullName, Phone: phone}
	if err := s.accounts.CreateCustomerAccount(ctx, &account, &customer); err != nil {
		return nil, err
	}
	return &Profile{Account: account, Customer: &customer}, nil
}

// RegisterPartner creates a partner account. The partner starts
// pending and cannot manage resorts until an admin approves it.
func (s *Service) RegisterPartner(ctx context.Context, email, password, name, address, phone string) (*Profile, error) {
	hash, err := s.checkNewAccount(ctx, email, password)
	if err != nil {
		return nil, err
	}

	account := domain.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RolePartner,
		Status:       domain.AccountActive,
	}
	partner := domain.Partner{
		Name:    name,
		Address: address,
		Phone:   phone,
		Status:  domain.PartnerPending,
	}
	if err := s.accounts.CreatePartnerAccount(ctx, &account, &partner); err != nil {
		return nil, err
	}
	return &Profile{Account: account, Partner: &partner}, nil
}

func (s *Service) checkNewAccount(ctx context.Context, email, password string) (string, error) {
	_, err := s.accounts.GetAccountByEmail(ctx, email)
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (token string, account *domain.Account, err error) {
	account, err = s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if account.Status == domain.AccountDisabled {
		return "", nil, ErrAccountDisabled
	}

	token, err = s.tokens.GenerateToken(account.ID, string(account.Role))
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// Me loads the caller's account together with its profile.
func (s *Service) Me(ctx context.Context, accountID int64) (*Profile, error) {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{Account: *account}
	switch account.Role {
	case domain.RoleCustomer:
		profile.Customer, err = s.accounts.GetCustomerByAccountID(ctx, accountID)
	case domain.RolePartner:
		profile.Partner, err = s.accounts.GetPartnerByAccountID(ctx, accountID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// ResolveProfileID satisfies the auth middleware: it maps an account
// to its customer or partner row id.
func (s *Service) ResolveProfileID(ctx context.Context, accountID int64, role domain.AccountRole) (int64, error) {
	switch role {
	case domain.RoleCustomer:
		customer, err := s.accounts.GetCustomerByAccountID(ctx, accountID)
		if err != nil {
			return 0, ErrProfileNotFound
		}
		return customer.ID, nil
	case domain.RolePartner:
		partner, err := s.accounts.GetPartnerByAccountID(ctx, accountID)
		if err != nil {
			return 0, ErrProfileNotFound
		}
		return partner.ID, nil
	}
	return 0, nil
}
