package payroll

import (
	"errors"
	"net/http"
	"strconv"

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
	case errors.Is(err, ErrNoSalaryConfig), errors.Is(err, ErrSlipNotFound),
		errors.Is(err, account.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidPeriod), errors.Is(err, ErrInvalidSalary),
		errors.Is(err, account.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, ErrSlipExists), errors.Is(err, ErrSlipAlreadyPaid), errors.Is(err, ErrSlipNotPaid),
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

// @Summary      Set a trainer's salary config
// @Description  Supersedes the current active config; history is kept
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body payroll.SetConfigRequest true "Config payload"
// @Success      201 {object} payroll.SalaryConfig
// @Failure      400 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/salary-configs [post]
func (h *Handler) SetConfig(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	var req SetConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	cfg, err := h.service.SetConfig(c.Request.Context(), gctx, req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, cfg)
}

// @Summary      List a trainer's salary config history
// @Tags         payroll
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        trainerID path int true "Trainer ID"
// @Success      200 {array} payroll.SalaryConfig
// @Router       /gyms/{gymID}/trainers/{trainerID}/salary-configs [get]
func (h *Handler) ListConfigs(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	trainerID, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid trainer id"})
		return
	}

	configs, err := h.service.ListConfigs(c.Request.Context(), gctx, trainerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch salary configs"})
		return
	}

	c.JSON(http.StatusOK, configs)
}

// @Summary      Generate a monthly salary slip
// @Description  One slip per trainer and month; a duplicate attempt conflicts
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body payroll.GenerateSlipRequest true "Slip period"
// @Success      201 {object} payroll.SalarySlip
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/salary-slips [post]
func (h *Handler) GenerateSlip(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	var req GenerateSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	slip, err := h.service.GenerateSlip(c.Request.Context(), gctx, req.TrainerID, req.Month, req.Year)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, slip)
}

// @Summary      Get a salary slip
// @Tags         payroll
// @Produce      json
// @Security     BearerAuth
// @Param        slipID path int true "Slip ID"
// @Success      200 {object} payroll.SalarySlip
// @Failure      404 {object} api.ErrorResponse
// @Router       /salary-slips/{slipID} [get]
func (h *Handler) GetSlip(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("slipID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid slip id"})
		return
	}

	slip, err := h.service.GetSlip(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, slip)
}

// @Summary      List salary slips
// @Tags         payroll
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        trainer_id query int false "Trainer filter"
// @Param        year query int false "Year filter"
// @Param        status query string false "Payment status filter"
// @Success      200 {array} payroll.SalarySlip
// @Router       /gyms/{gymID}/salary-slips [get]
func (h *Handler) ListSlips(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	filter := SlipFilter{}
	if v := c.Query("trainer_id"); v != "" {
		trainerID, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid trainer id"})
			return
		}
		filter.TrainerID = &trainerID
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid year"})
			return
		}
		filter.Year = &year
	}
	if v := c.Query("status"); v != "" {
		status := PaymentStatus(v)
		filter.Status = &status
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	slips, err := h.service.ListSlips(c.Request.Context(), gctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch salary slips"})
		return
	}

	c.JSON(http.StatusOK, slips)
}

// @Summary      Mark a salary slip paid
// @Description  Posts the salary debit to the chosen account
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        slipID path int true "Slip ID"
// @Param        request body payroll.MarkPaidRequest true "Payout account"
// @Success      200 {object} payroll.SalarySlip
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/salary-slips/{slipID}/pay [post]
func (h *Handler) MarkSlipPaid(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	slipID, err := strconv.Atoi(c.Param("slipID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid slip id"})
		return
	}

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	slip, err := h.service.MarkSlipPaid(c.Request.Context(), gctx, slipID, req.AccountID)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	if req.NoticeEmail != "" && h.notify != nil {
		if err := h.notify.SendSalarySlipNotice(c.Request.Context(), req.NoticeEmail, slip.Month, slip.Year, slip.GrossSalary, gctx.Settings.Currency); err != nil {
			logger.Errorf("failed to queue salary slip notice for slip %d: %v", slip.ID, err)
		}
	}

	c.JSON(http.StatusOK, slip)
}

// @Summary      Mark a salary slip unpaid
// @Description  Reverses the salary ledger posting
// @Tags         payroll
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        slipID path int true "Slip ID"
// @Success      200 {object} payroll.SalarySlip
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/salary-slips/{slipID}/unpay [post]
func (h *Handler) MarkSlipUnpaid(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	slipID, err := strconv.Atoi(c.Param("slipID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid slip id"})
		return
	}

	slip, err := h.service.MarkSlipUnpaid(c.Request.Context(), gctx, slipID)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, slip)
}
