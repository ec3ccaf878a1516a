package booking

import (
	"errors"
	"time"

	"stayfinder/internal/domain/listing"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidRange    = errors.New("check-out date must be after check-in date")
	ErrInvalidDate     = errors.New("dates must be formatted as YYYY-MM-DD")
	ErrUnavailable     = errors.New("listing is unavailable for the selected dates")
	ErrTotalTooLarge   = errors.New("total price for the selected dates is too large")
)

// MaxTotalCents caps a single booking at 1,000,000,000 currency units.
const MaxTotalCents int64 = 100_000_000_000

type Quote struct {
	Nights           int
	NightlyRateCents int64
	TotalCents       int64
}

// Evaluate decides whether [checkIn, checkOut) can be booked on l given the bookings
// already accepted for it, and prices the stay. Bookings of other listings are ignored.
// Nothing is persisted; callers must hold the listing lock until the new booking is saved.
func Evaluate(l *listing.Listing, checkIn, checkOut time.Time, existing []*Booking) (Stay, Quote, error) {
	if l == nil || l.IsDeleted() {
		return Stay{}, Quote{}, ErrListingNotFound
	}

	stay, err := NewStay(checkIn, checkOut)
	if err != nil {
		return Stay{}, Quote{}, err
	}

	for _, b := range existing {
		if b == nil || b.ListingID() != l.ID() {
			continue
		}
		if stay.Overlaps(b.Stay()) {
			return Stay{}, Quote{}, ErrUnavailable
		}
	}

	nights := stay.Nights()
	rate := l.Price().Cents()
	if rate <= 0 || int64(nights) > MaxTotalCents/rate {
		return Stay{}, Quote{}, ErrTotalTooLarge
	}
	return stay, Quote{
		Nights:           nights,
		NightlyRateCents: rate,
		TotalCents:       int64(nights) * rate,
	}, nil
}

// HasUpcoming reports whether any booking is still running or starts after today.
func HasUpcoming(bookings []*Booking, today time.Time) bool {
	for _, b := range bookings {
		if b.Stay().EndsAfter(today) {
			return true
		}
	}
	return false
}
