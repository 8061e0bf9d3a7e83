package payment

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resortbooking/internal/domain"
	"resortbooking/internal/middleware"
	"resortbooking/internal/modules/availability"
	"resortbooking/internal/pkg/logger"
	"resortbooking/internal/pkg/response"
)

// Gateway is the payment gateway surface the handler needs.
type Gateway interface {
	Enabled() bool
	CreateOrder(ctx context.Context, bookingID, amount int64, description string) (*CreateOrderResult, error)
	VerifyCallback(data, mac string) (*CallbackData, error)
	QueryOrder(ctx context.Context, appTransID string) (*QueryResult, error)
}

type Handler struct {
	service *Service
	gateway Gateway
}

func NewHandler(service *Service, gateway Gateway) *Handler {
	return &Handler{service: service, gateway: gateway}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/payment", h.DirectPayment)
	rg.POST("/payment/cancel", h.Cancel)
	rg.POST("/payments/zalopay/create", h.CreateZaloPayOrder)
	rg.GET("/payments/zalopay/query/:app_trans_id", h.QueryZaloPayOrder)
	rg.GET("/payments/histories", h.Histories)
	rg.GET("/payments/invoices", h.Invoices)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/zalopay/callback", h.ZaloPayCallback)
}

// DirectPayment settles one cart line paid outside the gateway.
func (h *Handler) DirectPayment(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req DirectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	result, err := h.service.Settle(c.Request.Context(), p.ProfileID, req.BookingDetailID, domain.MethodDirect)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSettlementResponse(result))
}

func (h *Handler) Cancel(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	if err := h.service.Cancel(c.Request.Context(), p.ProfileID, req.BookingDetailID); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

func (h *Handler) CreateZaloPayOrder(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err.Error())
		return
	}

	booking, err := h.service.BookingForOrder(c.Request.Context(), p.ProfileID, req.BookingID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	order, err := h.gateway.CreateOrder(c.Request.Context(), booking.ID, booking.Cost, "Resort booking payment")
	if err != nil {
		if errors.Is(err, ErrGatewayDisabled) {
			response.Error(c, http.StatusServiceUnavailable, "GATEWAY_DISABLED", "payment gateway is not configured")
			return
		}
		logger.Log.WithError(err).Error("zalopay create order failed")
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "failed to create payment order")
		return
	}
	response.Success(c, http.StatusOK, order)
}

// ZaloPayCallback is called by the gateway after the customer pays.
// The gateway retries on return_code other than 1, so an already
// settled booking reports success to stop the retries.
func (h *Handler) ZaloPayCallback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"return_code": -1, "return_message": "malformed callback"})
		return
	}

	payload, err := h.gateway.VerifyCallback(req.Data, req.Mac)
	if err != nil {
		logger.Log.WithError(err).Warn("rejected zalopay callback")
		c.JSON(http.StatusOK, gin.H{"return_code": -1, "return_message": "mac not equal"})
		return
	}

	bookingID, err := BookingIDFromAppTransID(payload.AppTransID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"return_code": -1, "return_message": "bad app_trans_id"})
		return
	}

	zpTransID := strconv.FormatInt(payload.ZpTransID, 10)
	_, err = h.service.SettleBooking(c.Request.Context(), bookingID, payload.Amount, domain.MethodZaloPay, zpTransID)
	switch {
	case err == nil, errors.Is(err, ErrAlreadySettled):
		c.JSON(http.StatusOK, gin.H{"return_code": 1, "return_message": "success"})
	case errors.Is(err, ErrAmountMismatch):
		// A wrong amount will never become right, so tell the gateway
		// not to retry.
		logger.Log.WithError(err).Error("zalopay callback amount mismatch")
		c.JSON(http.StatusOK, gin.H{"return_code": -1, "return_message": "amount mismatch"})
	default:
		logger.Log.WithError(err).Error("zalopay settlement failed")
		c.JSON(http.StatusOK, gin.H{"return_code": 0, "return_message": err.Error()})
	}
}

// QueryZaloPayOrder re-checks an order with the gateway and settles
// the booking when the payment went through but the callback was
// missed.
func (h *Handler) QueryZaloPayOrder(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	appTransID := c.Param("app_trans_id")

	result, err := h.gateway.QueryOrder(c.Request.Context(), appTransID)
	if err != nil {
		if errors.Is(err, ErrGatewayDisabled) {
			response.Error(c, http.StatusServiceUnavailable, "GATEWAY_DISABLED", "payment gateway is not configured")
			return
		}
		logger.Log.WithError(err).Error("zalopay query failed")
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "failed to query payment order")
		return
	}

	if result.ReturnCode == 1 && !result.IsProcessing {
		bookingID, err := BookingIDFromAppTransID(appTransID)
		if err == nil {
			if _, err := h.service.BookingForOrder(c.Request.Context(), p.ProfileID, bookingID); err == nil {
				zpTransID := strconv.FormatInt(result.ZpTransID, 10)
				if _, err := h.service.SettleBooking(c.Request.Context(), bookingID, result.Amount, domain.MethodZaloPay, zpTransID); err != nil {
					logger.Log.WithError(err).Error("settlement after query failed")
				}
			}
		}
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Histories(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	limit, offset := pagination(c)
	bookings, err := h.service.Histories(c.Request.Context(), p.ProfileID, c.Query("status"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load booking history")
		return
	}

	out := make([]HistoryResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toHistoryResponse(b))
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Invoices(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)

	limit, offset := pagination(c)
	invoices, err := h.service.Invoices(c.Request.Context(), p.ProfileID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "failed to load invoices")
		return
	}

	out := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv))
	}
	response.Success(c, http.StatusOK, out)
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
	var detailErr *DetailSettlementError
	var insufficient *availability.InsufficientInventoryError
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrDetailNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrAlreadySettled), errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrEmptyBooking):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrNotSettled), errors.Is(err, ErrAmountMismatch):
		response.Error(c, http.StatusBadRequest, "INVALID_STATE", err.Error())
	case errors.As(err, &insufficient):
		details := gin.H{"requested": insufficient.Requested, "available": insufficient.Available}
		if errors.As(err, &detailErr) {
			details["booking_detail_id"] = detailErr.DetailID
		}
		response.ErrorWithDetails(c, http.StatusConflict, "INSUFFICIENT_INVENTORY", "not enough rooms available", details)
	case errors.Is(err, availability.ErrTransactionConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		logger.Log.WithError(err).Error("payment operation failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "payment operation failed")
	}
}
