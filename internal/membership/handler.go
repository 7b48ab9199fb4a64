package membership

import (
	"errors"
	"net/http"
	"strconv"

	"gymdesk/internal/api"
	"gymdesk/internal/gym"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	gyms    gym.Service
}

func NewHandler(service Service, gyms gym.Service) *Handler {
	return &Handler{service: service, gyms: gyms}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrPackageNotFound), errors.Is(err, ErrSubscriptionNotFound),
		errors.Is(err, ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPackageInactive), errors.Is(err, ErrTrainerAddonNotAllowed),
		errors.Is(err, ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, ErrSubscriptionNotActive), errors.Is(err, ErrSubscriptionNotRenewable):
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

// @Summary      Create a membership package
// @Tags         membership
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body membership.CreatePackageRequest true "Package payload"
// @Success      201 {object} membership.Package
// @Failure      400 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/packages [post]
func (h *Handler) CreatePackage(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	pkg, err := h.service.CreatePackage(c.Request.Context(), gctx, req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

// @Summary      List membership packages
// @Tags         membership
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        active query bool false "Only active packages"
// @Success      200 {array} membership.Package
// @Router       /gyms/{gymID}/packages [get]
func (h *Handler) ListPackages(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	activeOnly := c.Query("active") == "true"
	packages, err := h.service.ListPackages(c.Request.Context(), gctx, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch packages"})
		return
	}

	c.JSON(http.StatusOK, packages)
}

// @Summary      Get a package
// @Tags         membership
// @Produce      json
// @Security     BearerAuth
// @Param        packageID path int true "Package ID"
// @Success      200 {object} membership.Package
// @Failure      404 {object} api.ErrorResponse
// @Router       /packages/{packageID} [get]
func (h *Handler) GetPackage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("packageID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid package id"})
		return
	}

	pkg, err := h.service.GetPackage(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// @Summary      Update a package
// @Description  Existing subscriptions keep their snapshotted price
// @Tags         membership
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        packageID path int true "Package ID"
// @Param        request body membership.CreatePackageRequest true "Package payload"
// @Success      200 {object} membership.Package
// @Failure      404 {object} api.ErrorResponse
// @Router       /packages/{packageID} [put]
func (h *Handler) UpdatePackage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("packageID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid package id"})
		return
	}

	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	pkg, err := h.service.UpdatePackage(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// @Summary      Activate or deactivate a package
// @Tags         membership
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        packageID path int true "Package ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /packages/{packageID}/active [patch]
func (h *Handler) SetPackageActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("packageID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid package id"})
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.SetPackageActive(c.Request.Context(), id, req.Active); err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "package updated"})
}

// @Summary      Sign up a member
// @Description  Creates the subscription and its signup invoice together
// @Tags         membership
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body membership.CreateSubscriptionRequest true "Subscription payload"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/subscriptions [post]
func (h *Handler) CreateSubscription(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sub, inv, err := h.service.CreateSubscription(c.Request.Context(), gctx, req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": sub, "invoice": inv})
}

// @Summary      Renew a subscription
// @Description  Expires the old period and opens a new one with a fresh invoice
// @Tags         membership
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        subscriptionID path int true "Subscription ID"
// @Param        request body membership.RenewSubscriptionRequest true "Renewal payload"
// @Success      201 {object} map[string]interface{}
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/subscriptions/{subscriptionID}/renew [post]
func (h *Handler) RenewSubscription(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	oldID, err := strconv.Atoi(c.Param("subscriptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid subscription id"})
		return
	}

	var req RenewSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sub, inv, err := h.service.RenewSubscription(c.Request.Context(), gctx, oldID, req)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": sub, "invoice": inv})
}

// @Summary      Cancel a subscription
// @Tags         membership
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        subscriptionID path int true "Subscription ID"
// @Success      200 {object} membership.Subscription
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/subscriptions/{subscriptionID}/cancel [post]
func (h *Handler) CancelSubscription(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("subscriptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid subscription id"})
		return
	}

	sub, err := h.service.CancelSubscription(c.Request.Context(), gctx, id)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Get a subscription
// @Tags         membership
// @Produce      json
// @Security     BearerAuth
// @Param        subscriptionID path int true "Subscription ID"
// @Success      200 {object} membership.Subscription
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions/{subscriptionID} [get]
func (h *Handler) GetSubscription(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("subscriptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid subscription id"})
		return
	}

	sub, err := h.service.GetSubscription(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      List a member's subscriptions
// @Tags         membership
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Success      200 {array} membership.Subscription
// @Router       /gyms/{gymID}/members/{memberID}/subscriptions [get]
func (h *Handler) ListMemberSubscriptions(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid member id"})
		return
	}

	subs, err := h.service.ListMemberSubscriptions(c.Request.Context(), gctx, memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}

// @Summary      Get a member's current active subscription
// @Tags         membership
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        memberID path int true "Member ID"
// @Success      200 {object} membership.Subscription
// @Failure      404 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/members/{memberID}/subscriptions/active [get]
func (h *Handler) GetActiveSubscription(c *gin.Context) {
	gctx, ok := h.gymContext(c)
	if !ok {
		return
	}

	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid member id"})
		return
	}

	sub, err := h.service.GetActiveSubscription(c.Request.Context(), gctx, memberID)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sub)
}
