package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

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
	rg.GET("/resorts", h.ListResorts)
	rg.GET("/resorts/search", h.Search)
	rg.GET("/resorts/:id", h.GetResort)
	rg.GET("/room-types/:id/availability", h.RoomTypeAvailability)
}

func (h *Handler) ListResorts(c *gin.Context) {
	limit, offset := pagination(c)
	resorts, total, err := h.service.ListResorts(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to list resorts")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"resorts": resorts, "total": total})
}

func (h *Handler) GetResort(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid resort id")
		return
	}

	resort, err := h.service.GetResort(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrResortNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load resort")
		return
	}
	response.Success(c, http.StatusOK, resort)
}

func (h *Handler) RoomTypeAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid room type id")
		return
	}

	start, end, err := stayParams(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	total, available, err := h.service.RoomTypeAvailability(c.Request.Context(), id, start, end)
	if err != nil {
		switch {
		case errors.Is(err, ErrRoomTypeNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, availability.ErrInvalidInterval):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to compute availability")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"total": total, "available": available})
}

func (h *Handler) Search(c *gin.Context) {
	var start, end time.Time
	if c.Query("started_at") != "" || c.Query("finished_at") != "" {
		var err error
		start, end, err = stayParams(c)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}

	wantRooms, _ := strconv.Atoi(c.DefaultQuery("rooms", "1"))
	people, _ := strconv.Atoi(c.DefaultQuery("people", "0"))
	limit, offset := pagination(c)

	results, err := h.service.Search(c.Request.Context(), SearchParams{
		Query:  c.Query("q"),
		Start:  start,
		End:    end,
		Rooms:  wantRooms,
		People: people,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		if errors.Is(err, availability.ErrInvalidInterval) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "search failed")
		return
	}
	response.Success(c, http.StatusOK, results)
}

func stayParams(c *gin.Context) (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, c.Query("started_at"))
	if err != nil {
		return start, end, errors.New("started_at must be RFC3339")
	}
	end, err = time.Parse(time.RFC3339, c.Query("finished_at"))
	if err != nil {
		return start, end, errors.New("finished_at must be RFC3339")
	}
	return start, end, nil
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
