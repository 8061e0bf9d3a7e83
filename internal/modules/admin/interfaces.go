package admin

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

type AccountStore interface {
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	ListAccounts(ctx context.Context, f repository.AccountFilters) ([]domain.Account, int64, error)
	UpdateAccountStatus(ctx context.Context, id int64, status domain.AccountStatus) error
	GetPartnerByID(ctx context.Context, id int64) (*domain.Partner, error)
	ListPartnersByStatus(ctx context.Context, status domain.PartnerStatus) ([]domain.Partner, error)
	UpdatePartnerStatus(ctx context.Context, id int64, status domain.PartnerStatus) error
	AddPartnerBalanceTx(tx *gorm.DB, partnerID int64, delta int64, lock bool) (int64, error)
}

type WithdrawStore interface {
	GetByIDTx(tx *gorm.DB, id int64, lock bool) (*domain.Withdraw, error)
	FinishTx(tx *gorm.DB, id int64, status domain.WithdrawStatus, finishedAt time.Time) error
	List(ctx context.Context, status string, limit, offset int) ([]domain.Withdraw, int64, error)
}
