package admin

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

// Service implements the admin back office: account moderation,
// partner onboarding decisions and withdraw payouts.
type Service struct {
	db        *gorm.DB
	accounts  AccountStore
	withdraws WithdrawStore
}

func NewService(db *gorm.DB, accounts AccountStore, withdraws WithdrawStore) *Service {
	return &Service{db: db, accounts: accounts, withdraws: withdraws}
}

type AccountPage struct {
	Accounts []domain.Account `json:"accounts"`
	Total    int64            `json:"total"`
}

func (s *Service) ListAccounts(ctx context.Context, role, status string, limit, offset int) (*AccountPage, error) {
	accounts, total, err := s.accounts.ListAccounts(ctx, repository.AccountFilters{
		Role:   role,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return &AccountPage{Accounts: accounts, Total: total}, nil
}

func (s *Service) setAccountStatus(ctx context.Context, accountID int64, status domain.AccountStatus) error {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if account.Role == domain.RoleAdmin {
		return ErrCannotDisableAdmin
	}
	return s.accounts.UpdateAccountStatus(ctx, accountID, status)
}

// DisableAccount locks a customer or partner out. Existing tokens keep
// verifying but login and the auth middleware reject the account.
func (s *Service) DisableAccount(ctx context.Context, accountID int64) error {
	return s.setAccountStatus(ctx, accountID, domain.AccountDisabled)
}

func (s *Service) EnableAccount(ctx context.Context, accountID int64) error {
	return s.setAccountStatus(ctx, accountID, domain.AccountActive)
}

func (s *Service) ListPartners(ctx context.Context, status domain.PartnerStatus) ([]domain.Partner, error) {
	return s.accounts.ListPartnersByStatus(ctx, status)
}

func (s *Service) decidePartner(ctx context.Context, partnerID int64, status domain.PartnerStatus) error {
	partner, err := s.accounts.GetPartnerByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPartnerNotFound
		}
		return err
	}
	if partner.Status != domain.PartnerPending {
		return ErrPartnerAlreadyFinal
	}
	return s.accounts.UpdatePartnerStatus(ctx, partnerID, status)
}

func (s *Service) ApprovePartner(ctx context.Context, partnerID int64) error {
	return s.decidePartner(ctx, partnerID, domain.PartnerApproved)
}

func (s *Service) RejectPartner(ctx context.Context, partnerID int64) error {
	return s.decidePartner(ctx, partnerID, domain.PartnerRejected)
}

type WithdrawPage struct {
	Withdraws []domain.Withdraw `json:"withdraws"`
	Total     int64             `json:"total"`
}

func (s *Service) ListWithdraws(ctx context.Context, status string, limit, offset int) (*WithdrawPage, error) {
	withdraws, total, err := s.withdraws.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return &WithdrawPage{Withdraws: withdraws, Total: total}, nil
}

// ApproveWithdraw finalizes a payout. The balance was already debited
// when the partner filed the request, so approval only flips status.
func (s *Service) ApproveWithdraw(ctx context.Context, withdrawID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		withdraw, err := s.pendingWithdrawTx(tx, withdrawID)
		if err != nil {
			return err
		}
		return s.withdraws.FinishTx(tx, withdraw.ID, domain.WithdrawApproved, time.Now())
	})
}

// RejectWithdraw refunds the held amount back to the partner balance
// in the same transaction that closes the request.
func (s *Service) RejectWithdraw(ctx context.Context, withdrawID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		withdraw, err := s.pendingWithdrawTx(tx, withdrawID)
		if err != nil {
			return err
		}
		if err := s.withdraws.FinishTx(tx, withdraw.ID, domain.WithdrawRejected, time.Now()); err != nil {
			return err
		}
		_, err = s.accounts.AddPartnerBalanceTx(tx, withdraw.PartnerID, withdraw.TransactionAmount, true)
		return err
	})
}

func (s *Service) pendingWithdrawTx(tx *gorm.DB, withdrawID int64) (*domain.Withdraw, error) {
	withdraw, err := s.withdraws.GetByIDTx(tx, withdrawID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawNotFound
		}
		return nil, err
	}
	if withdraw.Status != domain.WithdrawPending {
		return nil, ErrWithdrawAlreadyFinal
	}
	return withdraw, nil
}
