package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type ResortRepository struct {
	db *gorm.DB
}

func NewResortRepository(db *gorm.DB) *ResortRepository {
	return &ResortRepository{db: db}
}

type resortModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	PartnerID   int64     `gorm:"column:partner_id;index"`
	Name        string    `gorm:"column:name"`
	Address     string    `gorm:"column:address"`
	Description string    `gorm:"column:description"`
	Rating      float64   `gorm:"column:rating"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (resortModel) TableName() string { return "resorts" }

func toDomainResort(m resortModel) *domain.Resort {
	return &domain.Resort{
		ID:          m.ID,
		PartnerID:   m.PartnerID,
		Name:        m.Name,
		Address:     m.Address,
		Description: m.Description,
		Rating:      m.Rating,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *ResortRepository) Create(ctx context.Context, resort *domain.Resort) error {
	m := resortModel{
		PartnerID:   resort.PartnerID,
		Name:        resort.Name,
		Address:     resort.Address,
		Description: resort.Description,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*resort = *toDomainResort(m)
	return nil
}

func (r *ResortRepository) Update(ctx context.Context, resort *domain.Resort) error {
	return r.db.WithContext(ctx).Model(&resortModel{}).
		Where("id = ?", resort.ID).
		Updates(map[string]any{
			"name":        resort.Name,
			"address":     resort.Address,
			"description": resort.Description,
		}).Error
}

func (r *ResortRepository) GetByID(ctx context.Context, id int64) (*domain.Resort, error) {
	var m resortModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainResort(m), nil
}

func (r *ResortRepository) List(ctx context.Context, limit, offset int) ([]domain.Resort, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&resortModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []resortModel
	if err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Resort, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainResort(m))
	}
	return out, total, nil
}

func (r *ResortRepository) ListByPartner(ctx context.Context, partnerID int64) ([]domain.Resort, error) {
	var rows []resortModel
	if err := r.db.WithContext(ctx).Where("partner_id = ?", partnerID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Resort, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainResort(m))
	}
	return out, nil
}

// SearchByName matches resorts whose name or address contains the query,
// case-insensitively.
func (r *ResortRepository) SearchByName(ctx context.Context, query string, limit, offset int) ([]domain.Resort, error) {
	pattern := "%" + query + "%"
	var rows []resortModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)", pattern, pattern).
		Order("id ASC").Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Resort, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainResort(m))
	}
	return out, nil
}
