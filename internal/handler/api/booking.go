package api

import (
	"net/http"

	"stayfinder/internal/domain/booking"
	reqdto "stayfinder/internal/handler/dto/request"
	resdto "stayfinder/internal/handler/dto/response"
	"stayfinder/internal/handler/httperr"
	"stayfinder/internal/handler/middleware"
	"stayfinder/internal/pkg/errs"
	"stayfinder/internal/usecase/commands"
	"stayfinder/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Book a listing for a half-open range of nights [checkInDate, checkOutDate)
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.BookingCreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	guestID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.cmds.Create(c.Request.Context(), req, guestID)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.BookingCreatedResponse{
		Message: "Booking created successfully",
		Booking: resdto.FromBookingView(view),
	})
}

// @Summary Quote a stay
// @Description Price a stay without booking it; conflicts with existing bookings are reported as 409
// @Tags bookings
// @Produce json
// @Param id path string true "Listing ID"
// @Param checkIn query string true "Check-in date (YYYY-MM-DD)"
// @Param checkOut query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/listings/{id}/quote [get]
func (h *BookingHandler) Quote(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid listing ID format", nil)
		return
	}
	var req reqdto.QuoteBookingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", nil)
		return
	}

	quote, err := h.cmds.Quote(c.Request.Context(), listingID, req)
	if err != nil {
		abortWithBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuoteResult(quote))
}

// @Summary My bookings
// @Description List the authenticated user's bookings with listing details
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingResponse
// @Failure 401 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/bookings/my-bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	guestID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized, nil, "Unauthorized", nil)
		return
	}
	views, err := h.q.ListByGuest(c.Request.Context(), guestID)
	if err != nil {
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeStorageFailure, err, "Failed to load bookings", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

func abortWithBookingError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, booking.ErrListingNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, httperr.CodeNotFound, err, "Listing not found", nil)
	case errs.Is(err, booking.ErrInvalidRange):
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRange, err, "Check-out date must be after check-in date", nil)
	case errs.Is(err, booking.ErrInvalidDate):
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRange, err, "Dates must be formatted as YYYY-MM-DD", nil)
	case errs.Is(err, booking.ErrTotalTooLarge):
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRange, err, "Total price for the selected dates is too large", nil)
	case errs.Is(err, booking.ErrUnavailable):
		httperr.AbortWithCode(c, http.StatusConflict, httperr.CodeUnavailable, err, "Listing is unavailable for the selected dates", nil)
	default:
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeStorageFailure, err, "Internal server error", nil)
	}
}
