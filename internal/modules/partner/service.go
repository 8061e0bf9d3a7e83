package partner

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/catalog"
	"resortbooking/internal/pkg/validator"
	"resortbooking/internal/repository"
)

func validated(v any) error {
	if fields := validator.Validate(v); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Service is the partner back office: resort and inventory management,
// the occupation schedule, revenue and withdraw requests. Every
// operation is scoped to the calling partner; nothing here can touch
// another partner's data.
type Service struct {
	db        *gorm.DB
	partners  PartnerStore
	resorts   ResortStore
	rooms     RoomStore
	schedule  ScheduleStore
	invoices  InvoiceStore
	withdraws WithdrawStore
	cache     CacheEvictor
}

func NewService(
	db *gorm.DB,
	partners PartnerStore,
	resorts ResortStore,
	rooms RoomStore,
	schedule ScheduleStore,
	invoices InvoiceStore,
	withdraws WithdrawStore,
	cache CacheEvictor,
) *Service {
	return &Service{
		db:        db,
		partners:  partners,
		resorts:   resorts,
		rooms:     rooms,
		schedule:  schedule,
		invoices:  invoices,
		withdraws: withdraws,
		cache:     cache,
	}
}

// requireApproved gates inventory mutations on admin approval.
func (s *Service) requireApproved(ctx context.Context, partnerID int64) error {
	partner, err := s.partners.GetPartnerByID(ctx, partnerID)
	if err != nil {
		return err
	}
	if partner.Status != domain.PartnerApproved {
		return ErrNotApproved
	}
	return nil
}

func (s *Service) ownedResort(ctx context.Context, partnerID, resortID int64) (*domain.Resort, error) {
	resort, err := s.resorts.GetByID(ctx, resortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResortNotFound
		}
		return nil, err
	}
	if resort.PartnerID != partnerID {
		return nil, ErrNotOwner
	}
	return resort, nil
}

func (s *Service) ownedRoomType(ctx context.Context, partnerID, roomTypeID int64) (*domain.RoomType, error) {
	rt, err := s.rooms.GetRoomType(ctx, roomTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}
	if _, err := s.ownedResort(ctx, partnerID, rt.ResortID); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *Service) ListResorts(ctx context.Context, partnerID int64) ([]domain.Resort, error) {
	return s.resorts.ListByPartner(ctx, partnerID)
}

func (s *Service) CreateResort(ctx context.Context, partnerID int64, resort *domain.Resort) error {
	if err := s.requireApproved(ctx, partnerID); err != nil {
		return err
	}
	if err := validated(resort); err != nil {
		return err
	}
	resort.PartnerID = partnerID
	return s.resorts.Create(ctx, resort)
}

func (s *Service) UpdateResort(ctx context.Context, partnerID int64, resort *domain.Resort) error {
	if _, err := s.ownedResort(ctx, partnerID, resort.ID); err != nil {
		return err
	}
	if err := s.resorts.Update(ctx, resort); err != nil {
		return err
	}
	s.cache.Del(ctx, catalog.ResortCacheKey(resort.ID))
	return nil
}

func (s *Service) CreateRoomType(ctx context.Context, partnerID int64, rt *domain.RoomType) error {
	if err := s.requireApproved(ctx, partnerID); err != nil {
		return err
	}
	if _, err := s.ownedResort(ctx, partnerID, rt.ResortID); err != nil {
		return err
	}
	if err := validated(rt); err != nil {
		return err
	}
	if err := s.rooms.CreateRoomType(ctx, rt); err != nil {
		return err
	}
	s.cache.Del(ctx, catalog.ResortCacheKey(rt.ResortID))
	return nil
}

func (s *Service) UpdateRoomType(ctx context.Context, partnerID int64, rt *domain.RoomType) error {
	current, err := s.ownedRoomType(ctx, partnerID, rt.ID)
	if err != nil {
		return err
	}
	rt.ResortID = current.ResortID
	if err := validated(rt); err != nil {
		return err
	}
	if err := s.rooms.UpdateRoomType(ctx, rt); err != nil {
		return err
	}
	s.cache.Del(ctx, catalog.ResortCacheKey(current.ResortID))
	return nil
}

func (s *Service) ListRoomTypes(ctx context.Context, partnerID, resortID int64) ([]domain.RoomType, error) {
	if _, err := s.ownedResort(ctx, partnerID, resortID); err != nil {
		return nil, err
	}
	return s.rooms.ListRoomTypesByResort(ctx, resortID)
}

func (s *Service) CreateRoom(ctx context.Context, partnerID int64, room *domain.Room) error {
	if err := s.requireApproved(ctx, partnerID); err != nil {
		return err
	}
	if _, err := s.ownedRoomType(ctx, partnerID, room.RoomTypeID); err != nil {
		return err
	}
	return s.rooms.CreateRoom(ctx, room)
}

func (s *Service) ListRooms(ctx context.Context, partnerID, roomTypeID int64) ([]domain.Room, error) {
	if _, err := s.ownedRoomType(ctx, partnerID, roomTypeID); err != nil {
		return nil, err
	}
	return s.rooms.ListRoomsByType(ctx, roomTypeID)
}

// DeleteRoom removes a room as long as no reservation ever claimed it.
func (s *Service) DeleteRoom(ctx context.Context, partnerID, roomID int64) error {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if _, err := s.ownedRoomType(ctx, partnerID, room.RoomTypeID); err != nil {
		return err
	}

	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomInUse) {
			return ErrRoomInUse
		}
		return err
	}
	return nil
}

func (s *Service) CreateOffer(ctx context.Context, partnerID int64, offer *domain.Offer) error {
	if err := s.requireApproved(ctx, partnerID); err != nil {
		return err
	}
	rt, err := s.ownedRoomType(ctx, partnerID, offer.RoomTypeID)
	if err != nil {
		return err
	}
	if err := s.rooms.CreateOffer(ctx, offer); err != nil {
		return err
	}
	s.cache.Del(ctx, catalog.ResortCacheKey(rt.ResortID))
	return nil
}

func (s *Service) UpdateOffer(ctx context.Context, partnerID int64, offer *domain.Offer) error {
	current, err := s.rooms.GetOffer(ctx, offer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfferNotFound
		}
		return err
	}
	rt, err := s.ownedRoomType(ctx, partnerID, current.RoomTypeID)
	if err != nil {
		return err
	}

	offer.RoomTypeID = current.RoomTypeID
	if err := s.rooms.UpdateOffer(ctx, offer); err != nil {
		return err
	}
	s.cache.Del(ctx, catalog.ResortCacheKey(rt.ResortID))
	return nil
}

// Schedule lists room occupations across the partner's resorts within
// [from, to).
func (s *Service) Schedule(ctx context.Context, partnerID int64, from, to time.Time) ([]repository.ScheduleEntry, error) {
	return s.schedule.ListScheduleForPartner(ctx, partnerID, from, to)
}

// Revenue sums invoiced amounts per month of the given year.
func (s *Service) Revenue(ctx context.Context, partnerID int64, year int) ([]repository.RevenuePoint, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return s.invoices.RevenueByMonth(ctx, partnerID, from, from.AddDate(1, 0, 0))
}

func (s *Service) Invoices(ctx context.Context, partnerID int64, limit, offset int) ([]domain.Invoice, error) {
	return s.invoices.ListByPartner(ctx, partnerID, limit, offset)
}

func (s *Service) Balance(ctx context.Context, partnerID int64) (int64, error) {
	partner, err := s.partners.GetPartnerByID(ctx, partnerID)
	if err != nil {
		return 0, err
	}
	return partner.Balance, nil
}

// RequestWithdraw debits the amount from the balance and opens a
// PENDING request in one transaction. The money is held until an admin
// decides; rejection refunds it.
func (s *Service) RequestWithdraw(ctx context.Context, partnerID int64, amount int64) (*domain.Withdraw, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	withdraw := &domain.Withdraw{
		PartnerID:         partnerID,
		TransactionAmount: amount,
		Status:            domain.WithdrawPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.partners.AddPartnerBalanceTx(tx, partnerID, -amount, true); err != nil {
			if errors.Is(err, repository.ErrBalanceBelowZero) {
				return ErrInsufficientBalance
			}
			return err
		}
		return s.withdraws.CreateTx(tx, withdraw)
	})
	if err != nil {
		return nil, err
	}
	return withdraw, nil
}

func (s *Service) ListWithdraws(ctx context.Context, partnerID int64, limit, offset int) ([]domain.Withdraw, error) {
	return s.withdraws.ListByPartner(ctx, partnerID, limit, offset)
}
