package account

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidAccount):
		return http.StatusBadRequest
	case errors.Is(err, ErrAccountInactive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// @Summary      Create an account
// @Tags         admin,accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body account.CreateAccountRequest true "Account payload"
// @Success      201 {object} account.Account
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/accounts [post]
func (h *Handler) CreateAccount(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid gym id"})
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	acc, err := h.service.CreateAccount(c.Request.Context(), gymID, req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, acc)
}

// @Summary      List accounts for a gym
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Success      200 {array} account.Account
// @Router       /gyms/{gymID}/accounts [get]
func (h *Handler) ListAccounts(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid gym id"})
		return
	}

	accounts, err := h.service.ListAccounts(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch accounts"})
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// @Summary      Get an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        accountID path int true "Account ID"
// @Success      200 {object} account.Account
// @Failure      404 {object} api.ErrorResponse
// @Router       /accounts/{accountID} [get]
func (h *Handler) GetAccount(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("accountID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid account id"})
		return
	}

	acc, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, acc)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// @Summary      Activate or deactivate an account
// @Tags         admin,accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        accountID path int true "Account ID"
// @Param        request body account.setActiveRequest true "Active flag"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/accounts/{accountID}/active [put]
func (h *Handler) SetAccountActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("accountID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid account id"})
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.SetAccountActive(c.Request.Context(), id, *req.IsActive); err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "account updated"})
}

// @Summary      Make an account the gym default
// @Tags         admin,accounts
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        accountID path int true "Account ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/accounts/{accountID}/default [put]
func (h *Handler) SetDefaultAccount(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid gym id"})
		return
	}
	id, err := strconv.Atoi(c.Param("accountID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid account id"})
		return
	}

	if err := h.service.SetDefaultAccount(c.Request.Context(), gymID, id); err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "default account updated"})
}

// @Summary      Post a manual ledger entry
// @Description  Expense or adjustment posting against an account
// @Tags         admin,ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        accountID path int true "Account ID"
// @Param        request body account.PostEntryRequest true "Posting payload"
// @Success      201 {object} account.LedgerEntry
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/accounts/{accountID}/entries [post]
func (h *Handler) PostEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("accountID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid account id"})
		return
	}

	var req PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	entry, err := h.service.Post(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// @Summary      Reverse a ledger entry
// @Tags         admin,ledger
// @Produce      json
// @Security     BearerAuth
// @Param        entryID path int true "Ledger entry ID"
// @Success      201 {object} account.LedgerEntry
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/ledger-entries/{entryID}/reverse [post]
func (h *Handler) ReverseEntry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("entryID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid entry id"})
		return
	}

	entry, err := h.service.Reverse(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// @Summary      Account ledger statement
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        accountID path int true "Account ID"
// @Param        from query string false "From date (RFC3339)"
// @Param        to query string false "To date (RFC3339)"
// @Param        reference_type query string false "Reference type filter"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {array} account.LedgerEntry
// @Failure      404 {object} api.ErrorResponse
// @Router       /accounts/{accountID}/ledger [get]
func (h *Handler) Ledger(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("accountID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid account id"})
		return
	}

	filter := LedgerFilter{}
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
	if v := c.Query("reference_type"); v != "" {
		rt := ReferenceType(v)
		if !rt.Valid() {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid reference type"})
			return
		}
		filter.ReferenceType = &rt
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.service.Ledger(c.Request.Context(), id, filter)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// @Summary      Verify the cached balance against the ledger
// @Tags         admin,ledger
// @Produce      json
// @Security     BearerAuth
// @Param        accountID path int true "Account ID"
// @Success      200 {object} account.BalanceCheck
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/accounts/{accountID}/verify [get]
func (h *Handler) VerifyBalance(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("accountID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid account id"})
		return
	}

	check, err := h.service.VerifyBalance(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, check)
}
