package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

// ErrRoomInUse is returned when deleting a room that still has
// reserved time slots.
var ErrRoomInUse = errors.New("room has reserved time slots")

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomTypeModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	ResortID     int64     `gorm:"column:resort_id;index"`
	Name         string    `gorm:"column:name"`
	Area         float64   `gorm:"column:area"`
	BedAmount    int       `gorm:"column:bed_amount"`
	PeopleAmount int       `gorm:"column:people_amount"`
	Price        int64     `gorm:"column:price"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (roomTypeModel) TableName() string { return "room_types" }

type roomModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	RoomTypeID int64     `gorm:"column:room_type_id;index"`
	Number     string    `gorm:"column:number"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (roomModel) TableName() string { return "rooms" }

type offerModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	RoomTypeID  int64     `gorm:"column:room_type_id;index"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	Cost        *int64    `gorm:"column:cost"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (offerModel) TableName() string { return "offers" }

func toDomainRoomType(m roomTypeModel) *domain.RoomType {
	return &domain.RoomType{
		ID:           m.ID,
		ResortID:     m.ResortID,
		Name:         m.Name,
		Area:         m.Area,
		BedAmount:    m.BedAmount,
		PeopleAmount: m.PeopleAmount,
		Price:        m.Price,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainRoom(m roomModel) *domain.Room {
	return &domain.Room{
		ID:         m.ID,
		RoomTypeID: m.RoomTypeID,
		Number:     m.Number,
		CreatedAt:  m.CreatedAt,
	}
}

func toDomainOffer(m offerModel) *domain.Offer {
	return &domain.Offer{
		ID:          m.ID,
		RoomTypeID:  m.RoomTypeID,
		Name:        m.Name,
		Description: m.Description,
		Cost:        m.Cost,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *RoomRepository) CreateRoomType(ctx context.Context, rt *domain.RoomType) error {
	m := roomTypeModel{
		ResortID:     rt.ResortID,
		Name:         rt.Name,
		Area:         rt.Area,
		BedAmount:    rt.BedAmount,
		PeopleAmount: rt.PeopleAmount,
		Price:        rt.Price,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*rt = *toDomainRoomType(m)
	return nil
}

func (r *RoomRepository) UpdateRoomType(ctx context.Context, rt *domain.RoomType) error {
	return r.db.WithContext(ctx).Model(&roomTypeModel{}).
		Where("id = ?", rt.ID).
		Updates(map[string]any{
			"name":          rt.Name,
			"area":          rt.Area,
			"bed_amount":    rt.BedAmount,
			"people_amount": rt.PeopleAmount,
			"price":         rt.Price,
		}).Error
}

func (r *RoomRepository) GetRoomType(ctx context.Context, id int64) (*domain.RoomType, error) {
	var m roomTypeModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainRoomType(m), nil
}

func (r *RoomRepository) ListRoomTypesByResort(ctx context.Context, resortID int64) ([]domain.RoomType, error) {
	var rows []roomTypeModel
	if err := r.db.WithContext(ctx).Where("resort_id = ?", resortID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.RoomType, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoomType(m))
	}
	return out, nil
}

func (r *RoomRepository) CreateRoom(ctx context.Context, room *domain.Room) error {
	m := roomModel{RoomTypeID: room.RoomTypeID, Number: room.Number}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*room = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainRoom(m), nil
}

func (r *RoomRepository) ListRoomsByType(ctx context.Context, roomTypeID int64) ([]domain.Room, error) {
	var rows []roomModel
	if err := r.db.WithContext(ctx).Where("room_type_id = ?", roomTypeID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRoom(m))
	}
	return out, nil
}

// DeleteRoom removes a room unless it still has booked time slots.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slots int64
		if err := tx.Model(&timeSlotModel{}).Where("room_id = ?", id).Count(&slots).Error; err != nil {
			return err
		}
		if slots > 0 {
			return ErrRoomInUse
		}
		return tx.Delete(&roomModel{}, id).Error
	})
}

func (r *RoomRepository) CreateOffer(ctx context.Context, o *domain.Offer) error {
	m := offerModel{
		RoomTypeID:  o.RoomTypeID,
		Name:        o.Name,
		Description: o.Description,
		Cost:        o.Cost,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*o = *toDomainOffer(m)
	return nil
}

func (r *RoomRepository) UpdateOffer(ctx context.Context, o *domain.Offer) error {
	return r.db.WithContext(ctx).Model(&offerModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"cost":        o.Cost,
		}).Error
}

func (r *RoomRepository) GetOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	var m offerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainOffer(m), nil
}

func (r *RoomRepository) ListOffersByRoomType(ctx context.Context, roomTypeID int64) ([]domain.Offer, error) {
	var rows []offerModel
	if err := r.db.WithContext(ctx).Where("room_type_id = ?", roomTypeID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Offer, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainOffer(m))
	}
	return out, nil
}

// OfferPricing bundles everything the booking flow needs to price an
// offer and route money: the offer, its room type, and the partner who
// owns the resort.
type OfferPricing struct {
	Offer     domain.Offer
	RoomType  domain.RoomType
	PartnerID int64
}

// UnitPrice is the offer's cost when set, the room type's base price
// otherwise.
func (p OfferPricing) UnitPrice() int64 {
	if p.Offer.Cost != nil {
		return *p.Offer.Cost
	}
	return p.RoomType.Price
}

func (r *RoomRepository) GetOfferPricing(ctx context.Context, offerID int64) (*OfferPricing, error) {
	return getOfferPricing(r.db.WithContext(ctx), offerID)
}

// GetOfferPricingTx is the in-transaction variant used by settlement.
func (r *RoomRepository) GetOfferPricingTx(tx *gorm.DB, offerID int64) (*OfferPricing, error) {
	return getOfferPricing(tx, offerID)
}

func getOfferPricing(db *gorm.DB, offerID int64) (*OfferPricing, error) {
	var om offerModel
	if err := db.First(&om, offerID).Error; err != nil {
		return nil, err
	}
	var rtm roomTypeModel
	if err := db.First(&rtm, om.RoomTypeID).Error; err != nil {
		return nil, err
	}
	var rm resortModel
	if err := db.First(&rm, rtm.ResortID).Error; err != nil {
		return nil, err
	}
	return &OfferPricing{
		Offer:     *toDomainOffer(om),
		RoomType:  *toDomainRoomType(rtm),
		PartnerID: rm.PartnerID,
	}, nil
}
