//go:build unit || e2e

package builder

import (
	"time"

	"stayfinder/internal/domain/booking"
	reqdto "stayfinder/internal/handler/dto/request"
	"stayfinder/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ListingID  uuid.UUID
	GuestID    uuid.UUID
	CheckIn    string
	CheckOut   string
	TotalCents int64
	CreatedAt  time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ListingID:  uuid.New(),
		GuestID:    uuid.New(),
		CheckIn:    "2025-07-10",
		CheckOut:   "2025-07-13",
		TotalCents: 30000,
		CreatedAt:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	stay, err := b.stay()
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(uuid.New(), b.ListingID, b.GuestID, stay, b.TotalCents, b.CreatedAt), nil
}

func (b *BookingBuilder) MustBuildDomain() *booking.Booking {
	built, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return built
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		ListingID:    b.ListingID,
		CheckInDate:  b.CheckIn,
		CheckOutDate: b.CheckOut,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	stay, err := b.stay()
	if err != nil {
		panic(err)
	}
	return &queries.BookingView{
		ID:         uuid.New(),
		ListingID:  b.ListingID,
		GuestID:    b.GuestID,
		CheckIn:    stay.CheckIn(),
		CheckOut:   stay.CheckOut(),
		Nights:     stay.Nights(),
		TotalCents: b.TotalCents,
		CreatedAt:  b.CreatedAt,
	}
}

func (b *BookingBuilder) stay() (booking.Stay, error) {
	in, err := booking.ParseDate(b.CheckIn)
	if err != nil {
		return booking.Stay{}, err
	}
	out, err := booking.ParseDate(b.CheckOut)
	if err != nil {
		return booking.Stay{}, err
	}
	return booking.NewStay(in, out)
}

// Fluent builder methods
func (b *BookingBuilder) WithListing(listingID uuid.UUID) *BookingBuilder {
	b.ListingID = listingID
	return b
}

func (b *BookingBuilder) WithGuest(guestID uuid.UUID) *BookingBuilder {
	b.GuestID = guestID
	return b
}

func (b *BookingBuilder) WithDates(checkIn, checkOut string) *BookingBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}
