package partner

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/domain"
	"resortbooking/internal/middleware"
	"resortbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/partner/resorts", h.ListResorts)
	rg.POST("/partner/resorts", h.CreateResort)
	rg.PUT("/partner/resorts/:id", h.UpdateResort)
	rg.GET("/partner/resorts/:id/room-types", h.ListRoomTypes)

	rg.POST("/partner/room-types", h.CreateRoomType)
	rg.PUT("/partner/room-types/:id", h.UpdateRoomType)
	rg.GET("/partner/room-types/:id/rooms", h.ListRooms)

	rg.POST("/partner/rooms", h.CreateRoom)
	rg.DELETE("/partner/rooms/:id", h.DeleteRoom)

	rg.POST("/partner/offers", h.CreateOffer)
	rg.PUT("/partner/offers/:id", h.UpdateOffer)

	rg.GET("/partner/schedule", h.Schedule)
	rg.GET("/partner/revenue", h.Revenue)
	rg.GET("/partner/invoices", h.Invoices)
	rg.GET("/partner/balance", h.Balance)
	rg.GET("/partner/withdraws", h.ListWithdraws)
	rg.POST("/partner/withdraws", h.RequestWithdraw)
}

func (h *Handler) ListResorts(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	resorts, err := h.service.ListResorts(c.Request.Context(), p.ProfileID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resorts)
}

func (h *Handler) CreateResort(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req CreateResortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	resort := domain.Resort{Name: req.Name, Address: req.Address, Description: req.Description}
	if err := h.service.CreateResort(c.Request.Context(), p.ProfileID, &resort); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resort)
}

func (h *Handler) UpdateResort(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	id, err := pathID(c)
	if err != nil {
		return
	}

	var req UpdateResortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	resort := domain.Resort{ID: id, Name: req.Name, Address: req.Address, Description: req.Description}
	if err := h.service.UpdateResort(c.Request.Context(), p.ProfileID, &resort); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resort)
}

func (h *Handler) ListRoomTypes(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	id, err := pathID(c)
	if err != nil {
		return
	}

	roomTypes, err := h.service.ListRoomTypes(c.Request.Context(), p.ProfileID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, roomTypes)
}

func (h *Handler) CreateRoomType(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	rt := domain.RoomType{
		ResortID:     req.ResortID,
		Name:         req.Name,
		Area:         req.Area,
		BedAmount:    req.BedAmount,
		PeopleAmount: req.PeopleAmount,
		Price:        req.Price,
	}
	if err := h.service.CreateRoomType(c.Request.Context(), p.ProfileID, &rt); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rt)
}

func (h *Handler) UpdateRoomType(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	id, err := pathID(c)
	if err != nil {
		return
	}

	var req UpdateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	rt := domain.RoomType{
		ID:           id,
		Name:         req.Name,
		Area:         req.Area,
		BedAmount:    req.BedAmount,
		PeopleAmount: req.PeopleAmount,
		Price:        req.Price,
	}
	if err := h.service.UpdateRoomType(c.Request.Context(), p.ProfileID, &rt); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rt)
}

func (h *Handler) ListRooms(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	id, err := pathID(c)
	if err != nil {
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), p.ProfileID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	room := domain.Room{RoomTypeID: req.RoomTypeID, Number: req.Number}
	if err := h.service.CreateRoom(c.Request.Context(), p.ProfileID, &room); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, room)
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	id, err := pathID(c)
	if err != nil {
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), p.ProfileID, id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) CreateOffer(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	offer := domain.Offer{
		RoomTypeID:  req.RoomTypeID,
		Name:        req.Name,
		Description: req.Description,
		Cost:        req.Cost,
	}
	if err := h.service.CreateOffer(c.Request.Context(), p.ProfileID, &offer); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, offer)
}

func (h *Handler) UpdateOffer(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	id, err := pathID(c)
	if err != nil {
		return
	}

	var req UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	offer := domain.Offer{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Cost:        req.Cost,
	}
	if err := h.service.UpdateOffer(c.Request.Context(), p.ProfileID, &offer); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, offer)
}

func (h *Handler) Schedule(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be RFC3339")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be RFC3339")
		return
	}

	entries, err := h.service.Schedule(c.Request.Context(), p.ProfileID, from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}

func (h *Handler) Revenue(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid year")
		return
	}

	points, err := h.service.Revenue(c.Request.Context(), p.ProfileID, year)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"year": year, "months": points})
}

func (h *Handler) Invoices(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	limit, offset := pagination(c)

	invoices, err := h.service.Invoices(c.Request.Context(), p.ProfileID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, invoices)
}

func (h *Handler) Balance(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	balance, err := h.service.Balance(c.Request.Context(), p.ProfileID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"balance": balance})
}

func (h *Handler) ListWithdraws(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	limit, offset := pagination(c)

	withdraws, err := h.service.ListWithdraws(c.Request.Context(), p.ProfileID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, withdraws)
}

func (h *Handler) RequestWithdraw(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	withdraw, err := h.service.RequestWithdraw(c.Request.Context(), p.ProfileID, req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, withdraw)
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return 0, err
	}
	return id, nil
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid input", ve.Fields)
		return
	}

	switch {
	case errors.Is(err, ErrResortNotFound),
		errors.Is(err, ErrRoomTypeNotFound),
		errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrOfferNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrNotApproved):
		response.Error(c, http.StatusForbidden, "NOT_APPROVED", err.Error())
	case errors.Is(err, ErrRoomInUse):
		response.Error(c, http.StatusConflict, "ROOM_IN_USE", err.Error())
	case errors.Is(err, ErrInsufficientBalance):
		response.Error(c, http.StatusConflict, "INSUFFICIENT_BALANCE", err.Error())
	case errors.Is(err, ErrInvalidAmount):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "partner operation failed")
	}
}
