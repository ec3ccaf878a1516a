package booking

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	id         uuid.UUID
	listingID  uuid.UUID
	guestID    uuid.UUID
	stay       Stay
	totalCents int64
	createdAt  time.Time
}

func NewBooking(listingID, guestID uuid.UUID, stay Stay, quote Quote, now time.Time) *Booking {
	return &Booking{
		id:         uuid.New(),
		listingID:  listingID,
		guestID:    guestID,
		stay:       stay,
		totalCents: quote.TotalCents,
		createdAt:  now,
	}
}

func ReconstructBooking(id, listingID, guestID uuid.UUID, stay Stay, totalCents int64, createdAt time.Time) *Booking {
	return &Booking{
		id:         id,
		listingID:  listingID,
		guestID:    guestID,
		stay:       stay,
		totalCents: totalCents,
		createdAt:  createdAt,
	}
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) ListingID() uuid.UUID { return b.listingID }
func (b *Booking) GuestID() uuid.UUID   { return b.guestID }
func (b *Booking) Stay() Stay           { return b.stay }
func (b *Booking) Nights() int          { return b.stay.Nights() }
func (b *Booking) TotalCents() int64    { return b.totalCents }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
