package billing

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/account"
	"gymdesk/internal/api"
	"gymdesk/internal/gym"
	"gymdesk/internal/logger"
	"gymdesk/internal/notify"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	gyms    gym.Service
	notify  notify.Sender
}

func NewHandler(service Service, gyms gym.Service, notifier notify.Sender) *Handler {
	return &Handler{service: service, gyms: gyms, notify: notifier}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvoiceNotFound), errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, ErrGymNotFound), errors.Is(err, ErrMemberNotFound),
		errors.Is(err, account.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidPaymentMethod),
		errors.Is(err, account.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvoiceClosed), errors.Is(err, ErrOverpayment),
		errors.Is(err, ErrInvoiceHasPayments), errors.Is(err, ErrInconsistentPayments),
		errors.Is(err, account.ErrAccountInactive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) gymContext(c *gin.Context) (gym.Context, bool) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid gym id"})
		return gym.Context{}, false
	}

	gctx, err := h.gyms.ContextFor(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "gym not found"})
		return gym.Context{}, false
	}
	return gctx, true
}

// @Summary      Create an invoice
// @Description  Manual invoice; subscription signup creates its own
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body billing.CreateInvoiceRequest true "Invoice payload"
// @Success      201 {object} billing.Invoice
// @Failure      400 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/invoices [post]
func (h *Handler) CreateInvoice(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	inv, err := h.service.CreateInvoice(c.Request.Context(), gctx, req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// @Summary      Get an invoice with its payments
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        invoiceID path int true "Invoice ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} api.ErrorResponse
// @Router       /invoices/{invoiceID} [get]
func (h *Handler) GetInvoice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("invoiceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid invoice id"})
		return
	}

	inv, payments, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": inv, "payments": payments})
}

// @Summary      List invoices
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        member_id query int false "Member filter"
// @Param        status query string false "Status filter"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {array} billing.Invoice
// @Router       /gyms/{gymID}/invoices [get]
func (h *Handler) ListInvoices(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	filter := InvoiceFilter{}
	if v := c.Query("member_id"); v != "" {
		memberID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid member id"})
			return
		}
		filter.MemberID = &memberID
	}
	if v := c.Query("status"); v != "" {
		status := InvoiceStatus(v)
		filter.Status = &status
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid from date"})
			return
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid to date"})
			return
		}
		filter.To = &t
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	invoices, err := h.service.ListInvoices(c.Request.Context(), gctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch invoices"})
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// @Summary      Record a payment against an invoice
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        invoiceID path int true "Invoice ID"
// @Param        request body billing.RecordPaymentRequest true "Payment payload"
// @Success      201 {object} billing.Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/invoices/{invoiceID}/payments [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	invoiceID, err := strconv.Atoi(c.Param("invoiceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid invoice id"})
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if errs := api.ValidateStruct(req); errs != nil {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	payment, err := h.service.RecordPayment(c.Request.Context(), gctx, invoiceID, req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	if req.ReceiptEmail != "" && h.notify != nil {
		inv, _, invErr := h.service.GetInvoice(c.Request.Context(), invoiceID)
		if invErr == nil {
			if err := h.notify.SendPaymentReceipt(c.Request.Context(), req.ReceiptEmail, inv.InvoiceNumber, payment.Amount, gctx.Settings.Currency); err != nil {
				logger.Errorf("failed to queue payment receipt for invoice %s: %v", inv.InvoiceNumber, err)
			}
		}
	}

	c.JSON(http.StatusCreated, payment)
}

// @Summary      Delete a payment
// @Description  Reverses the ledger posting and walks the invoice status backward
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        paymentID path int true "Payment ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/payments/{paymentID} [delete]
func (h *Handler) DeletePayment(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	paymentID, err := strconv.Atoi(c.Param("paymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid payment id"})
		return
	}

	if _, err := h.service.DeletePayment(c.Request.Context(), gctx, paymentID); err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "payment deleted"})
}

// @Summary      Cancel an invoice
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        invoiceID path int true "Invoice ID"
// @Success      200 {object} billing.Invoice
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/invoices/{invoiceID}/cancel [post]
func (h *Handler) CancelInvoice(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	invoiceID, err := strconv.Atoi(c.Param("invoiceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid invoice id"})
		return
	}

	inv, err := h.service.CancelInvoice(c.Request.Context(), gctx, invoiceID)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, inv)
}
