package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

const resortCacheTTL = 5 * time.Minute

// Service is the public, read-only face of the catalog: resorts, room
// types, offers and live availability. Resort details are cached in
// redis; ResortCacheKey is shared with the partner module so edits
// evict the stale entry.
type Service struct {
	resorts   ResortStore
	roomTypes RoomTypeStore
	ledger    AvailabilityReader
	cache     Cache
}

func NewService(resorts ResortStore, roomTypes RoomTypeStore, ledger AvailabilityReader, cache Cache) *Service {
	return &Service{resorts: resorts, roomTypes: roomTypes, ledger: ledger, cache: cache}
}

func ResortCacheKey(resortID int64) string {
	return fmt.Sprintf("resortbooking:catalog:resort:%d", resortID)
}

func (s *Service) ListResorts(ctx context.Context, limit, offset int) ([]domain.Resort, int64, error) {
	return s.resorts.List(ctx, limit, offset)
}

// GetResort returns a resort with its room types and their offers.
func (s *Service) GetResort(ctx context.Context, id int64) (*domain.Resort, error) {
	key := ResortCacheKey(id)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var resort domain.Resort
		if err := json.Unmarshal([]byte(cached), &resort); err == nil {
			return &resort, nil
		}
	}

	resort, err := s.resorts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResortNotFound
		}
		return nil, err
	}

	roomTypes, err := s.roomTypes.ListRoomTypesByResort(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range roomTypes {
		offers, err := s.roomTypes.ListOffersByRoomType(ctx, roomTypes[i].ID)
		if err != nil {
			return nil, err
		}
		roomTypes[i].Offers = offers
	}
	resort.RoomTypes = roomTypes

	if encoded, err := json.Marshal(resort); err == nil {
		s.cache.Set(ctx, key, string(encoded), resortCacheTTL)
	}
	return resort, nil
}

// RoomTypeAvailability answers how many rooms of a type are free for
// an interval.
func (s *Service) RoomTypeAvailability(ctx context.Context, roomTypeID int64, start, end time.Time) (total, available int64, err error) {
	if _, err := s.roomTypes.GetRoomType(ctx, roomTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrRoomTypeNotFound
		}
		return 0, 0, err
	}
	return s.ledger.Availability(ctx, roomTypeID, start, end)
}

// SearchResult is one resort matching a search, along with the room
// types that can host the requested stay.
type SearchResult struct {
	Resort    domain.Resort   `json:"resort"`
	RoomTypes []RoomTypeMatch `json:"room_types,omitempty"`
}

type RoomTypeMatch struct {
	RoomType  domain.RoomType `json:"room_type"`
	Available int64           `json:"available"`
}

// SearchParams captures a resort search. A zero Start/End pair means
// name-only matching; People filters room types by capacity.
type SearchParams struct {
	Query  string
	Start  time.Time
	End    time.Time
	Rooms  int
	People int
	Limit  int
	Offset int
}

// Search finds resorts by name or address. When a stay interval is
// given only resorts with at least Rooms free rooms in some room type
// large enough for People guests are returned, with the matching room
// types attached.
func (s *Service) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	resorts, err := s.resorts.SearchByName(ctx, p.Query, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}

	withStay := !p.Start.IsZero() && !p.End.IsZero()
	if p.Rooms < 1 {
		p.Rooms = 1
	}

	results := make([]SearchResult, 0, len(resorts))
	for _, resort := range resorts {
		if !withStay {
			results = append(results, SearchResult{Resort: resort})
			continue
		}

		roomTypes, err := s.roomTypes.ListRoomTypesByResort(ctx, resort.ID)
		if err != nil {
			return nil, err
		}

		var matches []RoomTypeMatch
		for _, rt := range roomTypes {
			if p.People > 0 && rt.PeopleAmount < p.People {
				continue
			}
			_, available, err := s.ledger.Availability(ctx, rt.ID, p.Start, p.End)
			if err != nil {
				return nil, err
			}
			if available >= int64(p.Rooms) {
				matches = append(matches, RoomTypeMatch{RoomType: rt, Available: available})
			}
		}
		if len(matches) > 0 {
			results = append(results, SearchResult{Resort: resort, RoomTypes: matches})
		}
	}
	return results, nil
}
