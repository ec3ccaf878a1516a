package queries

import (
	"time"

	"github.com/google/uuid"
)

type ListingView struct {
	ID          uuid.UUID
	HostID      uuid.UUID
	HostName    string
	Title       string
	Description string
	Location    string
	PriceCents  int64
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListingSummary is the listing as shown next to a booking. Deleted listings still resolve.
type ListingSummary struct {
	ID         uuid.UUID
	Title      string
	Location   string
	PriceCents int64
	Images     []string
	Deleted    bool
}

type BookingView struct {
	ID         uuid.UUID
	ListingID  uuid.UUID
	GuestID    uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	Nights     int
	TotalCents int64
	CreatedAt  time.Time
	Listing    *ListingSummary
}

type UserView struct {
	ID           uuid.UUID
	Username     string
	Email        string
	ProfileImage *string
	CreatedAt    time.Time
}
