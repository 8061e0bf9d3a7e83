package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

// ErrBalanceBelowZero is returned when a balance adjustment would
// leave a partner with a negative balance.
var ErrBalanceBelowZero = errors.New("partner balance would go below zero")

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

type accountModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "accounts" }

type customerModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	AccountID int64     `gorm:"column:account_id;index"`
	FullName  string    `gorm:"column:full_name"`
	Phone     string    `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (customerModel) TableName() string { return "customers" }

type partnerModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	AccountID int64     `gorm:"column:account_id;index"`
	Name      string    `gorm:"column:name"`
	Address   string    `gorm:"column:address"`
	Phone     string    `gorm:"column:phone"`
	Balance   int64     `gorm:"column:balance"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (partnerModel) TableName() string { return "partners" }

func toDomainAccount(m accountModel) *domain.Account {
	return &domain.Account{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.AccountRole(m.Role),
		Status:       domain.AccountStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainCustomer(m customerModel) *domain.Customer {
	return &domain.Customer{
		ID:        m.ID,
		AccountID: m.AccountID,
		FullName:  m.FullName,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
	}
}

func toDomainPartner(m partnerModel) *domain.Partner {
	return &domain.Partner{
		ID:        m.ID,
		AccountID: m.AccountID,
		Name:      m.Name,
		Address:   m.Address,
		Phone:     m.Phone,
		Balance:   m.Balance,
		Status:    domain.PartnerStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, a *domain.Account) error {
	m := accountModel{
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		Status:       string(a.Status),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*a = *toDomainAccount(m)
	return nil
}

func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var m accountModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainAccount(m), nil
}

func (r *AccountRepository) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	var m accountModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainAccount(m), nil
}

func (r *AccountRepository) UpdateAccountStatus(ctx context.Context, id int64, status domain.AccountStatus) error {
	return r.db.WithContext(ctx).Model(&accountModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

type AccountFilters struct {
	Role   string
	Status string
	Limit  int
	Offset int
}

func (r *AccountRepository) ListAccounts(ctx context.Context, f AccountFilters) ([]domain.Account, int64, error) {
	q := r.db.WithContext(ctx).Model(&accountModel{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []accountModel
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Account, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAccount(m))
	}
	return out, total, nil
}

// CreateCustomerAccount creates the account row and its customer
// profile in one transaction.
func (r *AccountRepository) CreateCustomerAccount(ctx context.Context, a *domain.Account, c *domain.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		am := accountModel{
			Email:        a.Email,
			PasswordHash: a.PasswordHash,
			Role:         string(a.Role),
			Status:       string(a.Status),
		}
		if err := tx.Create(&am).Error; err != nil {
			return err
		}
		cm := customerModel{AccountID: am.ID, FullName: c.FullName, Phone: c.Phone}
		if err := tx.Create(&cm).Error; err != nil {
			return err
		}
		*a = *toDomainAccount(am)
		*c = *toDomainCustomer(cm)
		return nil
	})
}

// CreatePartnerAccount creates the account row and its partner profile
// in one transaction.
func (r *AccountRepository) CreatePartnerAccount(ctx context.Context, a *domain.Account, p *domain.Partner) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		am := accountModel{
			Email:        a.Email,
			PasswordHash: a.PasswordHash,
			Role:         string(a.Role),
			Status:       string(a.Status),
		}
		if err := tx.Create(&am).Error; err != nil {
			return err
		}
		pm := partnerModel{
			AccountID: am.ID,
			Name:      p.Name,
			Address:   p.Address,
			Phone:     p.Phone,
			Status:    string(p.Status),
		}
		if err := tx.Create(&pm).Error; err != nil {
			return err
		}
		*a = *toDomainAccount(am)
		*p = *toDomainPartner(pm)
		return nil
	})
}

func (r *AccountRepository) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	m := customerModel{AccountID: c.AccountID, FullName: c.FullName, Phone: c.Phone}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*c = *toDomainCustomer(m)
	return nil
}

func (r *AccountRepository) GetCustomerByAccountID(ctx context.Context, accountID int64) (*domain.Customer, error) {
	var m customerModel
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainCustomer(m), nil
}

func (r *AccountRepository) GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var m customerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainCustomer(m), nil
}

func (r *AccountRepository) CreatePartner(ctx context.Context, p *domain.Partner) error {
	m := partnerModel{
		AccountID: p.AccountID,
		Name:      p.Name,
		Address:   p.Address,
		Phone:     p.Phone,
		Balance:   p.Balance,
		Status:    string(p.Status),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainPartner(m)
	return nil
}

func (r *AccountRepository) GetPartnerByAccountID(ctx context.Context, accountID int64) (*domain.Partner, error) {
	var m partnerModel
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainPartner(m), nil
}

func (r *AccountRepository) GetPartnerByID(ctx context.Context, id int64) (*domain.Partner, error) {
	var m partnerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainPartner(m), nil
}

func (r *AccountRepository) ListPartnersByStatus(ctx context.Context, status domain.PartnerStatus) ([]domain.Partner, error) {
	var rows []partnerModel
	if err := r.db.WithContext(ctx).Where("status = ?", string(status)).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Partner, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPartner(m))
	}
	return out, nil
}

func (r *AccountRepository) UpdatePartnerStatus(ctx context.Context, id int64, status domain.PartnerStatus) error {
	return r.db.WithContext(ctx).Model(&partnerModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

// AddPartnerBalanceTx adjusts a partner's balance by delta inside the
// caller's transaction, locking the row on postgres. Negative deltas
// fail when the balance would go below zero.
func (r *AccountRepository) AddPartnerBalanceTx(tx *gorm.DB, partnerID int64, delta int64, lock bool) (int64, error) {
	var m partnerModel
	if err := lockIf(tx, lock).First(&m, partnerID).Error; err != nil {
		return 0, err
	}

	next := m.Balance + delta
	if next < 0 {
		return m.Balance, ErrBalanceBelowZero
	}
	if err := tx.Model(&partnerModel{}).Where("id = ?", partnerID).Update("balance", next).Error; err != nil {
		return 0, err
	}
	return next, nil
}
