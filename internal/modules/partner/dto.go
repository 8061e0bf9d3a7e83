package partner

type CreateResortRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type UpdateResortRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type CreateRoomTypeRequest struct {
	ResortID     int64   `json:"resort_id" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Area         float64 `json:"area"`
	BedAmount    int     `json:"bed_amount" binding:"min=0"`
	PeopleAmount int     `json:"people_amount" binding:"required,gt=0"`
	Price        int64   `json:"price" binding:"required,gt=0"`
}

type UpdateRoomTypeRequest struct {
	Name         string  `json:"name" binding:"required"`
	Area         float64 `json:"area"`
	BedAmount    int     `json:"bed_amount" binding:"min=0"`
	PeopleAmount int     `json:"people_amount" binding:"required,gt=0"`
	Price        int64   `json:"price" binding:"required,gt=0"`
}

type CreateRoomRequest struct {
	RoomTypeID int64  `json:"room_type_id" binding:"required"`
	Number     string `json:"number" binding:"required"`
}

type CreateOfferRequest struct {
	RoomTypeID  int64  `json:"room_type_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Cost        *int64 `json:"cost" binding:"omitempty,gt=0"`
}

type UpdateOfferRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Cost        *int64 `json:"cost" binding:"omitempty,gt=0"`
}

type WithdrawRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}
