package handlers

import (
	"errors"
	"net/http"
	"time"

	"vivare/middleware"
	"vivare/models"
	"vivare/services/checkout"
	"vivare/utils"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler exposes the checkout flow to the UI. All flow state is
// derived server-side; the UI only ever sees a FlowState.
type CheckoutHandler struct {
	Manager         *checkout.Manager
	FinalizeMaxWait time.Duration
}

func NewCheckoutHandler(manager *checkout.Manager, finalizeMaxWait time.Duration) *CheckoutHandler {
	if finalizeMaxWait <= 0 {
		finalizeMaxWait = 10 * time.Second
	}
	return &CheckoutHandler{Manager: manager, FinalizeMaxWait: finalizeMaxWait}
}

type stayInput struct {
	ListingID string        `json:"listingId" binding:"required"`
	CheckIn   string        `json:"checkIn" binding:"required"`
	CheckOut  string        `json:"checkOut" binding:"required"`
	Guests    models.Guests `json:"guests"`
}

func (in stayInput) stay() models.StayContext {
	return models.StayContext{CheckIn: in.CheckIn, CheckOut: in.CheckOut, Guests: in.Guests}
}

// Resume mounts (or re-reports) the flow for a listing and returns its state.
func (h *CheckoutHandler) Resume(c *gin.Context) {
	var input stayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	flow := h.Manager.Flow(middleware.DeviceID(c), input.ListingID, input.stay())
	state, err := flow.Resume(c.Request.Context())
	respondFlow(c, state, err)
}

// SubmitGuest runs the forward four-step progression.
func (h *CheckoutHandler) SubmitGuest(c *gin.Context) {
	var input struct {
		stayInput
		Guest models.GuestInfo `json:"guest" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	flow := h.Manager.Flow(middleware.DeviceID(c), input.ListingID, input.stay())
	state, err := flow.SubmitGuest(c.Request.Context(), input.Guest)
	respondFlow(c, state, err)
}

// RetryRecovery re-attempts payment session recovery within the mount budget.
func (h *CheckoutHandler) RetryRecovery(c *gin.Context) {
	var input stayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	flow := h.Manager.Flow(middleware.DeviceID(c), input.ListingID, input.stay())
	state, err := flow.RetryRecovery(c.Request.Context())
	respondFlow(c, state, err)
}

// Finalize confirms the booking after payment capture.
func (h *CheckoutHandler) Finalize(c *gin.Context) {
	var input struct {
		stayInput
		MaxWaitMs int `json:"maxWaitMs"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	flow := h.Manager.Flow(middleware.DeviceID(c), input.ListingID, input.stay())
	result, err := flow.Finalize(c.Request.Context(), h.finalizeWait(input.MaxWaitMs))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// finalizeWait bounds the client-requested wait by the configured maximum.
func (h *CheckoutHandler) finalizeWait(requestedMs int) time.Duration {
	if requestedMs <= 0 {
		return h.FinalizeMaxWait
	}
	requested := time.Duration(requestedMs) * time.Millisecond
	if requested > h.FinalizeMaxWait {
		return h.FinalizeMaxWait
	}
	return requested
}

// Cancel abandons the checkout attempt.
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	var input struct {
		stayInput
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	deviceID := middleware.DeviceID(c)
	flow := h.Manager.Flow(deviceID, input.ListingID, input.stay())
	if err := flow.Cancel(c.Request.Context(), input.Reason); err != nil {
		respondFlowError(c, err)
		return
	}
	h.Manager.Drop(deviceID, input.ListingID)
	c.JSON(http.StatusOK, gin.H{"canceled": true})
}

// respondFlow reports flow state; errors are already converted to user-facing
// messages at the service layer.
func respondFlow(c *gin.Context, state models.FlowState, err error) {
	if err != nil {
		var validationErr *checkout.ValidationError
		if errors.As(err, &validationErr) {
			utils.JSONError(c, http.StatusBadRequest, validationErr.Message, validationErr.Field)
			return
		}
		var flowErr *checkout.FlowError
		if errors.As(err, &flowErr) {
			status := http.StatusBadGateway
			if !flowErr.Recoverable {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"message": flowErr.Message, "state": state})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong. Please try again.", "")
		return
	}
	c.JSON(http.StatusOK, state)
}

func respondFlowError(c *gin.Context, err error) {
	var flowErr *checkout.FlowError
	if errors.As(err, &flowErr) {
		status := http.StatusBadGateway
		if !flowErr.Recoverable {
			status = http.StatusConflict
		}
		utils.JSONError(c, status, flowErr.Message, "")
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "Something went wrong. Please try again.", "")
}
