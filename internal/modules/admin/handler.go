package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/domain"
	"resortbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/accounts", h.ListAccounts)
	rg.POST("/admin/accounts/:id/disable", h.DisableAccount)
	rg.POST("/admin/accounts/:id/enable", h.EnableAccount)

	rg.GET("/admin/partners", h.ListPartners)
	rg.POST("/admin/partners/:id/approve", h.ApprovePartner)
	rg.POST("/admin/partners/:id/reject", h.RejectPartner)

	rg.GET("/admin/withdraws", h.ListWithdraws)
	rg.POST("/admin/withdraws/:id/approve", h.ApproveWithdraw)
	rg.POST("/admin/withdraws/:id/reject", h.RejectWithdraw)
}

func (h *Handler) ListAccounts(c *gin.Context) {
	limit, offset := pagination(c)
	page, err := h.service.ListAccounts(c.Request.Context(), c.Query("role"), c.Query("status"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) DisableAccount(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.service.DisableAccount(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": domain.AccountDisabled})
}

func (h *Handler) EnableAccount(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.service.EnableAccount(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": domain.AccountActive})
}

func (h *Handler) ListPartners(c *gin.Context) {
	status := domain.PartnerStatus(c.DefaultQuery("status", string(domain.PartnerPending)))
	partners, err := h.service.ListPartners(c.Request.Context(), status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, partners)
}

func (h *Handler) ApprovePartner(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.service.ApprovePartner(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": domain.PartnerApproved})
}

func (h *Handler) RejectPartner(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.service.RejectPartner(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": domain.PartnerRejected})
}

func (h *Handler) ListWithdraws(c *gin.Context) {
	limit, offset := pagination(c)
	page, err := h.service.ListWithdraws(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) ApproveWithdraw(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.service.ApproveWithdraw(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": domain.WithdrawApproved})
}

func (h *Handler) RejectWithdraw(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.service.RejectWithdraw(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": domain.WithdrawRejected})
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
	switch {
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrPartnerNotFound),
		errors.Is(err, ErrWithdrawNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrPartnerAlreadyFinal),
		errors.Is(err, ErrWithdrawAlreadyFinal):
		response.Error(c, http.StatusConflict, "ALREADY_DECIDED", err.Error())
	case errors.Is(err, ErrCannotDisableAdmin):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "admin operation failed")
	}
}
