package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type WithdrawRepository struct {
	db *gorm.DB
}

func NewWithdrawRepository(db *gorm.DB) *WithdrawRepository {
	return &WithdrawRepository{db: db}
}

type withdrawModel struct {
	ID                int64      `gorm:"column:id;primaryKey"`
	PartnerID         int64      `gorm:"column:partner_id;index"`
	TransactionAmount int64      `gorm:"column:transaction_amount"`
	Status            string     `gorm:"column:status;index"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	FinishedAt        *time.Time `gorm:"column:finished_at"`
}

func (withdrawModel) TableName() string { return "withdraws" }

func toDomainWithdraw(m withdrawModel) *domain.Withdraw {
	return &domain.Withdraw{
		ID:                m.ID,
		PartnerID:         m.PartnerID,
		TransactionAmount: m.TransactionAmount,
		Status:            domain.WithdrawStatus(m.Status),
		CreatedAt:         m.CreatedAt,
		FinishedAt:        m.FinishedAt,
	}
}

func (r *WithdrawRepository) CreateTx(tx *gorm.DB, w *domain.Withdraw) error {
	m := withdrawModel{
		PartnerID:         w.PartnerID,
		TransactionAmount: w.TransactionAmount,
		Status:            string(w.Status),
	}
	if err := tx.Create(&m).Error; err != nil {
		return err
	}
	*w = *toDomainWithdraw(m)
	return nil
}

func (r *WithdrawRepository) GetByIDTx(tx *gorm.DB, id int64, lock bool) (*domain.Withdraw, error) {
	var m withdrawModel
	if err := lockIf(tx, lock).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainWithdraw(m), nil
}

// FinishTx moves a withdraw into a terminal status and stamps the
// decision time.
func (r *WithdrawRepository) FinishTx(tx *gorm.DB, id int64, status domain.WithdrawStatus, finishedAt time.Time) error {
	return tx.Model(&withdrawModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      string(status),
			"finished_at": finishedAt,
		}).Error
}

func (r *WithdrawRepository) ListByPartner(ctx context.Context, partnerID int64, limit, offset int) ([]domain.Withdraw, error) {
	var rows []withdrawModel
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Withdraw, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainWithdraw(m))
	}
	return out, nil
}

func (r *WithdrawRepository) List(ctx context.Context, status string, limit, offset int) ([]domain.Withdraw, int64, error) {
	q := r.db.WithContext(ctx).Model(&withdrawModel{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []withdrawModel
	if err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Withdraw, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainWithdraw(m))
	}
	return out, total, nil
}
