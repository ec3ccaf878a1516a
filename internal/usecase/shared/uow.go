package shared

import (
	"context"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for consistent multi-table reads; LockByID is not available
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Listings() ListingRepository
	Bookings() BookingRepository
	Users() UserRepository
	Outbox() OutboxRepository
}

// Soft-deleted listings are reported as not found by every lookup.
type ListingRepository interface {
	// LockByID loads the listing and holds it exclusively until the unit of work ends.
	LockByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
	FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
	Create(ctx context.Context, l *listing.Listing) error
	Update(ctx context.Context, l *listing.Listing) error
}

type BookingRepository interface {
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]*booking.Booking, error)
	Create(ctx context.Context, b *booking.Booking) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email user.Email) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
}

type OutboxRepository interface {
	Append(ctx context.Context, event OutboxEvent) error
}

const (
	EventBookingCreated = "booking.created"
	EventListingDeleted = "listing.deleted"
)

// OutboxEvent is recorded in the same transaction as the change it describes.
type OutboxEvent struct {
	ID          uuid.UUID
	AggregateID uuid.UUID
	Name        string
	Payload     []byte
	OccurredAt  time.Time
}
