package commands

import (
	"context"
	"log/slog"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/listing"
	reqdto "stayfinder/internal/handler/dto/request"
	"stayfinder/internal/infra"
	"stayfinder/internal/pkg/clock"
	"stayfinder/internal/usecase/queries"
	"stayfinder/internal/usecase/shared"

	"github.com/google/uuid"
)

// bookingOutcomes are the results a booking request can end with besides success.
var bookingOutcomes = []error{
	booking.ErrListingNotFound,
	booking.ErrInvalidRange,
	booking.ErrInvalidDate,
	booking.ErrUnavailable,
	booking.ErrTotalTooLarge,
}

type QuoteResult struct {
	ListingID        uuid.UUID
	CheckIn          time.Time
	CheckOut         time.Time
	Nights           int
	NightlyRateCents int64
	TotalCents       int64
}

type BookingCommands interface {
	Create(ctx context.Context, req reqdto.CreateBookingRequest, guestID uuid.UUID) (*queries.BookingView, error)
	Quote(ctx context.Context, listingID uuid.UUID, req reqdto.QuoteBookingRequest) (*QuoteResult, error)
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, clock clock.Clock) BookingCommands {
	return &bookingCommandsImpl{
		uow:   uow,
		clock: clock,
	}
}

// Create runs the availability check and the insert under the listing lock,
// so of several overlapping requests for one listing at most one is stored.
func (c *bookingCommandsImpl) Create(ctx context.Context, req reqdto.CreateBookingRequest, guestID uuid.UUID) (*queries.BookingView, error) {
	checkIn, checkOut, err := req.Dates()
	if err != nil {
		return nil, err
	}

	var (
		created *booking.Booking
		target  *listing.Listing
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Listings().LockByID(ctx, req.ListingID)
		if err != nil {
			return listingLookupErr(err)
		}

		existing, err := tx.Bookings().ListByListing(ctx, l.ID())
		if err != nil {
			return err
		}

		stay, quote, err := booking.Evaluate(l, checkIn, checkOut, existing)
		if err != nil {
			return err
		}

		b := booking.NewBooking(l.ID(), guestID, stay, quote, c.clock.Now())
		if err := tx.Bookings().Create(ctx, b); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return booking.ErrUnavailable
			}
			return err
		}

		event, err := bookingCreatedEvent(b)
		if err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, event); err != nil {
			return err
		}

		created, target = b, l
		return nil
	})
	if err != nil {
		return nil, asStorageFailure(err, bookingOutcomes...)
	}

	slog.Info("booking created",
		"booking_id", created.ID(),
		"listing_id", created.ListingID(),
		"nights", created.Nights())

	return toBookingView(created, target), nil
}

func (c *bookingCommandsImpl) Quote(ctx context.Context, listingID uuid.UUID, req reqdto.QuoteBookingRequest) (*QuoteResult, error) {
	checkIn, checkOut, err := req.Dates()
	if err != nil {
		return nil, err
	}

	var result *QuoteResult
	err = c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return listingLookupErr(err)
		}
		existing, err := tx.Bookings().ListByListing(ctx, l.ID())
		if err != nil {
			return err
		}
		stay, quote, err := booking.Evaluate(l, checkIn, checkOut, existing)
		if err != nil {
			return err
		}
		result = &QuoteResult{
			ListingID:        l.ID(),
			CheckIn:          stay.CheckIn(),
			CheckOut:         stay.CheckOut(),
			Nights:           quote.Nights,
			NightlyRateCents: quote.NightlyRateCents,
			TotalCents:       quote.TotalCents,
		}
		return nil
	})
	if err != nil {
		return nil, asStorageFailure(err, bookingOutcomes...)
	}
	return result, nil
}

func listingLookupErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return booking.ErrListingNotFound
	}
	return err
}

func toBookingView(b *booking.Booking, l *listing.Listing) *queries.BookingView {
	return &queries.BookingView{
		ID:         b.ID(),
		ListingID:  b.ListingID(),
		GuestID:    b.GuestID(),
		CheckIn:    b.Stay().CheckIn(),
		CheckOut:   b.Stay().CheckOut(),
		Nights:     b.Nights(),
		TotalCents: b.TotalCents(),
		CreatedAt:  b.CreatedAt(),
		Listing: &queries.ListingSummary{
			ID:         l.ID(),
			Title:      l.Title(),
			Location:   l.Location(),
			PriceCents: l.Price().Cents(),
			Images:     l.Images(),
			Deleted:    l.IsDeleted(),
		},
	}
}
