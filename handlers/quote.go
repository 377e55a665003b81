package handlers

import (
	"net/http"

	"vivare/middleware"
	"vivare/models"
	"vivare/services/quote"
	"vivare/utils"

	"github.com/gin-gonic/gin"
)

// QuoteHandler feeds selection changes into the per-device quote engines and
// reports the displayed quote back to the sidebar.
type QuoteHandler struct {
	Service *quote.Service
}

func NewQuoteHandler(service *quote.Service) *QuoteHandler {
	return &QuoteHandler{Service: service}
}

// Select records a date/guest selection change. The engine debounces; the
// response acknowledges scheduling, not completion.
func (h *QuoteHandler) Select(c *gin.Context) {
	var input struct {
		ListingID string        `json:"listingId" binding:"required"`
		CheckIn   string        `json:"checkIn"`
		CheckOut  string        `json:"checkOut"`
		Guests    models.Guests `json:"guests"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	h.Service.Select(middleware.DeviceID(c), input.ListingID, input.CheckIn, input.CheckOut, input.Guests)
	c.JSON(http.StatusAccepted, gin.H{"scheduled": true})
}

// Current returns the quote currently displayed for a listing.
func (h *QuoteHandler) Current(c *gin.Context) {
	listingID := c.Query("listingId")
	if listingID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "listingId is required")
		return
	}

	q, notice, pending := h.Service.Current(middleware.DeviceID(c), listingID)
	c.JSON(http.StatusOK, gin.H{
		"quote":   q,
		"notice":  notice,
		"pending": pending,
	})
}
