package domain

import "time"

type Resort struct {
	ID          int64     `json:"id"`
	PartnerID   int64     `json:"partner_id"`
	Name        string    `json:"name" validate:"required"`
	Address     string    `json:"address"`
	Description string    `json:"description,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	RoomTypes []RoomType `json:"room_types,omitempty" gorm:"-"`
}

// RoomType is a bookable category of room at a resort. Total inventory
// for a room type is the count of its Room rows.
type RoomType struct {
	ID           int64     `json:"id"`
	ResortID     int64     `json:"resort_id"`
	Name         string    `json:"name" validate:"required"`
	Area         float64   `json:"area,omitempty"`
	BedAmount    int       `json:"bed_amount"`
	PeopleAmount int       `json:"people_amount" validate:"gt=0"`
	Price        int64     `json:"price" validate:"gte=0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Offers []Offer `json:"offers,omitempty" gorm:"-"`
}

// Room is one physical unit. Rooms are never deleted while reservation
// slots reference them.
type Room struct {
	ID         int64     `json:"id"`
	RoomTypeID int64     `json:"room_type_id"`
	Number     string    `json:"number"`
	CreatedAt  time.Time `json:"created_at"`
}

// Offer is a priced package for a room type. Cost nil means the room
// type's base price applies.
type Offer struct {
	ID          int64     `json:"id"`
	RoomTypeID  int64     `json:"room_type_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Cost        *int64    `json:"cost,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
