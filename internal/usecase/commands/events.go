package commands

import (
	"encoding/json"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/listing"
	"stayfinder/internal/pkg/errs"
	"stayfinder/internal/usecase/shared"

	"github.com/google/uuid"
)

type bookingCreatedPayload struct {
	BookingID  uuid.UUID `json:"bookingId"`
	ListingID  uuid.UUID `json:"listingId"`
	GuestID    uuid.UUID `json:"guestId"`
	CheckIn    string    `json:"checkInDate"`
	CheckOut   string    `json:"checkOutDate"`
	Nights     int       `json:"nights"`
	TotalCents int64     `json:"totalCents"`
}

type listingDeletedPayload struct {
	ListingID uuid.UUID `json:"listingId"`
	HostID    uuid.UUID `json:"hostId"`
	DeletedAt time.Time `json:"deletedAt"`
}

func bookingCreatedEvent(b *booking.Booking) (shared.OutboxEvent, error) {
	return newOutboxEvent(b.ID(), shared.EventBookingCreated, b.CreatedAt(), bookingCreatedPayload{
		BookingID:  b.ID(),
		ListingID:  b.ListingID(),
		GuestID:    b.GuestID(),
		CheckIn:    b.Stay().CheckIn().Format(booking.DateLayout),
		CheckOut:   b.Stay().CheckOut().Format(booking.DateLayout),
		Nights:     b.Nights(),
		TotalCents: b.TotalCents(),
	})
}

func listingDeletedEvent(l *listing.Listing) (shared.OutboxEvent, error) {
	deletedAt := l.UpdatedAt()
	if l.DeletedAt() != nil {
		deletedAt = *l.DeletedAt()
	}
	return newOutboxEvent(l.ID(), shared.EventListingDeleted, deletedAt, listingDeletedPayload{
		ListingID: l.ID(),
		HostID:    l.HostID(),
		DeletedAt: deletedAt,
	})
}

func newOutboxEvent(aggregateID uuid.UUID, name string, at time.Time, payload any) (shared.OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return shared.OutboxEvent{}, errs.Wrap(err, "marshal "+name+" payload")
	}
	return shared.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: aggregateID,
		Name:        name,
		Payload:     body,
		OccurredAt:  at,
	}, nil
}

// asStorageFailure passes through the outcomes a caller can act on and marks the rest.
func asStorageFailure(err error, known ...error) error {
	if err == nil {
		return nil
	}
	for _, k := range known {
		if errs.Is(err, k) {
			return err
		}
	}
	if errs.Is(err, ErrStorageFailure) {
		return err
	}
	return errs.Mark(err, ErrStorageFailure)
}
