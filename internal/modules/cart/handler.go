package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/middleware"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cart", h.GetCart)
	rg.POST("/cart/items", h.AddItem)
	rg.PUT("/cart/items/:id", h.UpdateItem)
	rg.DELETE("/cart/items/:id", h.RemoveItem)
}

func (h *Handler) GetCart(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	booking, err := h.service.GetCart(c.Request.Context(), p.ProfileID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCartResponse(booking))
}

func (h *Handler) AddItem(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	detail, err := h.service.AddItem(c.Request.Context(), p.ProfileID, req.OfferID, req.NumberOfRooms, req.StartedAt, req.FinishedAt)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toItemResponse(*detail))
}

func (h *Handler) UpdateItem(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	detailID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid cart item id")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	detail, err := h.service.UpdateItem(c.Request.Context(), p.ProfileID, detailID, req.NumberOfRooms)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toItemResponse(*detail))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	detailID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid cart item id")
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), p.ProfileID, detailID); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var insufficient *availability.InsufficientInventoryError
	switch {
	case errors.Is(err, ErrCartNotFound), errors.Is(err, ErrOfferNotFound), errors.Is(err, ErrDetailNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrPastStart),
		errors.Is(err, ErrInvalidRooms),
		errors.Is(err, availability.ErrInvalidInterval):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.As(err, &insufficient):
		response.ErrorWithDetails(c, http.StatusConflict, "INSUFFICIENT_INVENTORY", "not enough rooms available", gin.H{
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "cart operation failed")
	}
}
