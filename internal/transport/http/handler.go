package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dto "guardianearth/internal/entity"
	"guardianearth/internal/repository"
	"guardianearth/internal/usecase"
	"guardianearth/internal/usecase/service"
)

type PaymentHandler struct {
	service usecase.Payment
	logger  *zap.Logger
}

func NewPaymentHandler(svc usecase.Payment, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: svc,
		logger:  logger.With(zap.String("component", "payment_handler")),
	}
}

type cardPaymentRequest struct {
	DonorID       string  `json:"donorId" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Currency      string  `json:"currency"`
	DisasterID    string  `json:"disasterId"`
	PaymentMethod string  `json:"paymentMethodId" binding:"required"`
}

func (h *PaymentHandler) CreateCardPayment(c *gin.Context) {
	var req cardPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payment, err := h.service.CreateCardPayment(c.Request.Context(), service.CardPaymentInput{
		DonorID:       req.DonorID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		DisasterID:    req.DisasterID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"paymentId":      payment.ID,
		"status":         payment.Status,
		"transactionRef": payment.TruncatedTransactionID(),
	})
}

func (h *PaymentHandler) SubmitBankTransfer(c *gin.Context) {
	file, err := c.FormFile("file")

	input := service.BankTransferInput{
		DonorID:    c.PostForm("user_ID"),
		FullName:   c.PostForm("username"),
		BankName:   c.PostForm("bankname"),
		Branch:     c.PostForm("branch"),
		Amount:     c.PostForm("amount"),
		Currency:   c.PostForm("currency"),
		DisasterID: c.PostForm("disasterId"),
	}

	if err == nil && file != nil {
		f, openErr := file.Open()
		if openErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}
		defer f.Close()
		input.FileName = file.Filename
		input.FileSize = file.Size
		input.File = f
	}

	result, err := h.service.SubmitBankTransfer(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"paymentId":        result.PaymentID,
		"status":           result.Status,
		"notificationSent": result.NotificationSent,
	})
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *PaymentHandler) ListDonorPayments(c *gin.Context) {
	payments, err := h.service.ListPayments(c.Request.Context(), repository.ListFilter{
		DonorID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

type reviewRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *PaymentHandler) ReviewPayment(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	target, ok := dto.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	payment, err := h.service.ReviewPayment(c.Request.Context(), c.Param("id"), target)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	if err := h.service.DeletePayment(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *PaymentHandler) Summary(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	period, valid := service.ParsePeriod(c.Query("period"))
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown period"})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), filter, period)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *PaymentHandler) parseFilter(c *gin.Context) (repository.ListFilter, bool) {
	filter := repository.ListFilter{
		DonorID:    c.Query("donorId"),
		DisasterID: c.Query("disasterId"),
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := dto.ParseStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return repository.ListFilter{}, false
		}
		filter.Status = status
	}

	for _, q := range []struct {
		name   string
		target *time.Time
	}{
		{"dateFrom", &filter.DateFrom},
		{"dateTo", &filter.DateTo},
	} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		t, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + q.name})
			return repository.ListFilter{}, false
		}
		*q.target = t
	}

	return filter, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// respondError maps the error taxonomy onto status codes. Validation problems
// come back with the offending field so the form can highlight it.
func (h *PaymentHandler) respondError(c *gin.Context, err error) {
	var validationErr *dto.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason, "field": validationErr.Field})
	case errors.Is(err, dto.ErrInvalidAmount), errors.Is(err, dto.ErrAmountTooLow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dto.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, dto.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "already processed"})
	case errors.Is(err, dto.ErrGatewayUnavailable), errors.Is(err, dto.ErrUploadFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
