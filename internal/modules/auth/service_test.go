package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type mockAccountStore struct {
	mock.Mock
}

func (m *mockAccountStore) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountStore) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountStore) CreateCustomerAccount(ctx context.Context, a *domain.Account, c *domain.Customer) error {
	args := m.Called(ctx, a, c)
	if args.Error(0) == nil {
		a.ID = 1
		c.ID = 1
		c.AccountID = a.ID
	}
	return args.Error(0)
}

func (m *mockAccountStore) CreatePartnerAccount(ctx context.Context, a *domain.Account, p *domain.Partner) error {
	args := m.Called(ctx, a, p)
	if args.Error(0) == nil {
		a.ID = 2
		p.ID = 1
		p.AccountID = a.ID
	}
	return args.Error(0)
}

func (m *mockAccountStore) GetCustomerByAccountID(ctx context.Context, accountID int64) (*domain.Customer, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockAccountStore) GetPartnerByAccountID(ctx context.Context, accountID int64) (*domain.Partner, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) GenerateToken(accountID int64, role string) (string, error) {
	args := m.Called(accountID, role)
	return args.String(0), args.Error(1)
}

func TestRegisterCustomer(t *testing.T) {
	store := new(mockAccountStore)
	svc := NewService(store, new(mockTokenIssuer))

	store.On("GetAccountByEmail", mock.Anything, "guest@example.com").Return(nil, gorm.ErrRecordNotFound)
	store.On("CreateCustomerAccount", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	profile, err := svc.RegisterCustomer(context.Background(), "guest@example.com", "s3cretpass", "Guest", "+84 900 000 111")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleCustomer, profile.Account.Role)
	assert.Equal(t, domain.AccountActive, profile.Account.Status)
	require.NotNil(t, profile.Customer)
	assert.Equal(t, "Guest", profile.Customer.FullName)

	// Password is stored hashed, never verbatim.
	assert.NotEqual(t, "s3cretpass", profile.Account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profile.Account.PasswordHash), []byte("s3cretpass")))

	store.AssertExpectations(t)
}

func TestRegisterCustomerEmailTaken(t *testing.T) {
	store := new(mockAccountStore)
	svc := NewService(store, new(mockTokenIssuer))

	store.On("GetAccountByEmail", mock.Anything, "guest@example.com").
		Return(&domain.Account{ID: 1, Email: "guest@example.com"}, nil)

	_, err := svc.RegisterCustomer(context.Background(), "guest@example.com", "s3cretpass", "Guest", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
	store.AssertNotCalled(t, "CreateCustomerAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterPartnerStartsPending(t *testing.T) {
	store := new(mockAccountStore)
	svc := NewService(store, new(mockTokenIssuer))

	store.On("GetAccountByEmail", mock.Anything, "owner@example.com").Return(nil, gorm.ErrRecordNotFound)
	store.On("CreatePartnerAccount", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	profile, err := svc.RegisterPartner(context.Background(), "owner@example.com", "s3cretpass", "Sunrise Hotels", "Da Nang", "")
	require.NoError(t, err)
	require.NotNil(t, profile.Partner)
	assert.Equal(t, domain.PartnerPending, profile.Partner.Status)
	assert.Zero(t, profile.Partner.Balance)
}

func TestLogin(t *testing.T) {
	store := new(mockAccountStore)
	tokens := new(mockTokenIssuer)
	svc := NewService(store, tokens)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	account := &domain.Account{
		ID:           5,
		Email:        "guest@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		Status:       domain.AccountActive,
	}

	store.On("GetAccountByEmail", mock.Anything, "guest@example.com").Return(account, nil)
	tokens.On("GenerateToken", int64(5), "customer").Return("signed-token", nil)

	token, got, err := svc.Login(context.Background(), "guest@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	assert.Equal(t, account.ID, got.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	store := new(mockAccountStore)
	svc := NewService(store, new(mockTokenIssuer))

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.DefaultCost)
	store.On("GetAccountByEmail", mock.Anything, "guest@example.com").Return(&domain.Account{
		ID:           5,
		PasswordHash: string(hash),
		Status:       domain.AccountActive,
	}, nil)

	_, _, err := svc.Login(context.Background(), "guest@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	store := new(mockAccountStore)
	svc := NewService(store, new(mockTokenIssuer))

	store.On("GetAccountByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	store := new(mockAccountStore)
	svc := NewService(store, new(mockTokenIssuer))

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.DefaultCost)
	store.On("GetAccountByEmail", mock.Anything, "guest@example.com").Return(&domain.Account{
		ID:           5,
		PasswordHash: string(hash),
		Status:       domain.AccountDisabled,
	}, nil)

	_, _, err := svc.Login(context.Background(), "guest@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestResolveProfileID(t *testing.T) {
	store := new(mockAccountStore)
	svc := NewService(store, new(mockTokenIssuer))
	ctx := context.Background()

	store.On("GetCustomerByAccountID", mock.Anything, int64(1)).Return(&domain.Customer{ID: 11}, nil)
	store.On("GetPartnerByAccountID", mock.Anything, int64(2)).Return(&domain.Partner{ID: 22}, nil)
	store.On("GetCustomerByAccountID", mock.Anything, int64(3)).Return(nil, gorm.ErrRecordNotFound)

	id, err := svc.ResolveProfileID(ctx, 1, domain.RoleCustomer)
	require.NoError(t, err)
	assert.EqualValues(t, 11, id)

	id, err = svc.ResolveProfileID(ctx, 2, domain.RolePartner)
	require.NoError(t, err)
	assert.EqualValues(t, 22, id)

	_, err = svc.ResolveProfileID(ctx, 3, domain.RoleCustomer)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	// Admins have no profile row.
	id, err = svc.ResolveProfileID(ctx, 4, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, id)
}
