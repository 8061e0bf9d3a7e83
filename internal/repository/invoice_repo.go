package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

type invoiceModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	CustomerID      int64     `gorm:"column:customer_id;index"`
	PartnerID       int64     `gorm:"column:partner_id;index"`
	BookingDetailID int64     `gorm:"column:booking_detail_id;index"`
	Cost            int64     `gorm:"column:cost"`
	PaymentMethod   string    `gorm:"column:payment_method"`
	FinishedTime    time.Time `gorm:"column:finished_time"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (invoiceModel) TableName() string { return "invoices" }

func toDomainInvoice(m invoiceModel) *domain.Invoice {
	return &domain.Invoice{
		ID:              m.ID,
		CustomerID:      m.CustomerID,
		PartnerID:       m.PartnerID,
		BookingDetailID: m.BookingDetailID,
		Cost:            m.Cost,
		PaymentMethod:   domain.PaymentMethod(m.PaymentMethod),
		FinishedTime:    m.FinishedTime,
		CreatedAt:       m.CreatedAt,
	}
}

func (r *InvoiceRepository) CreateTx(tx *gorm.DB, inv *domain.Invoice) error {
	m := invoiceModel{
		CustomerID:      inv.CustomerID,
		PartnerID:       inv.PartnerID,
		BookingDetailID: inv.BookingDetailID,
		Cost:            inv.Cost,
		PaymentMethod:   string(inv.PaymentMethod),
		FinishedTime:    inv.FinishedTime,
	}
	if err := tx.Create(&m).Error; err != nil {
		return err
	}
	*inv = *toDomainInvoice(m)
	return nil
}

// InvoiceIDsForDetailTx collects invoice ids attached to a booking
// detail, used to release the detail's time slots.
func (r *InvoiceRepository) InvoiceIDsForDetailTx(tx *gorm.DB, detailID int64) ([]int64, error) {
	var ids []int64
	err := tx.Model(&invoiceModel{}).
		Where("booking_detail_id = ?", detailID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *InvoiceRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Invoice, error) {
	var rows []invoiceModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Invoice, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainInvoice(m))
	}
	return out, nil
}

func (r *InvoiceRepository) ListByPartner(ctx context.Context, partnerID int64, limit, offset int) ([]domain.Invoice, error) {
	var rows []invoiceModel
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Invoice, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainInvoice(m))
	}
	return out, nil
}

// RevenuePoint is one month of a partner's invoiced revenue.
type RevenuePoint struct {
	Year  int   `gorm:"column:year"`
	Month int   `gorm:"column:month"`
	Total int64 `gorm:"column:total"`
}

// RevenueByMonth sums a partner's invoices per calendar month within
// [from, to).
func (r *InvoiceRepository) RevenueByMonth(ctx context.Context, partnerID int64, from, to time.Time) ([]RevenuePoint, error) {
	sel := "CAST(strftime('%Y', created_at) AS INTEGER) AS year, CAST(strftime('%m', created_at) AS INTEGER) AS month, SUM(cost) AS total"
	if r.db.Dialector.Name() == "postgres" {
		sel = "CAST(EXTRACT(YEAR FROM created_at) AS INTEGER) AS year, CAST(EXTRACT(MONTH FROM created_at) AS INTEGER) AS month, SUM(cost) AS total"
	}

	var points []RevenuePoint
	err := r.db.WithContext(ctx).Model(&invoiceModel{}).
		Select(sel).
		Where("partner_id = ? AND created_at >= ? AND created_at < ?", partnerID, from, to).
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&points).Error
	return points, err
}
