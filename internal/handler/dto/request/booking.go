package request

import (
	"time"

	"stayfinder/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ListingID    uuid.UUID `json:"listingId" binding:"required"`
	CheckInDate  string    `json:"checkInDate" binding:"required"`
	CheckOutDate string    `json:"checkOutDate" binding:"required"`
}

func (r CreateBookingRequest) Dates() (time.Time, time.Time, error) {
	return parseStayDates(r.CheckInDate, r.CheckOutDate)
}

type QuoteBookingRequest struct {
	CheckIn  string `form:"checkIn" binding:"required"`
	CheckOut string `form:"checkOut" binding:"required"`
}

func (r QuoteBookingRequest) Dates() (time.Time, time.Time, error) {
	return parseStayDates(r.CheckIn, r.CheckOut)
}

func parseStayDates(in, out string) (time.Time, time.Time, error) {
	checkIn, err := booking.ParseDate(in)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	checkOut, err := booking.ParseDate(out)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}
