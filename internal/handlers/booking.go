// internal/handlers/booking.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fortexuz/fortex-backend/internal/i18n"
	"github.com/fortexuz/fortex-backend/internal/services"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// POST /bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBookingCreated),
		"booking": booking,
	})
}

// GET /admin/bookings
func (h *BookingHandler) GetBookings(c *gin.Context) {
	bookings, err := h.bookingService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"bookings": bookings,
	})
}
