package commands

import (
	"context"
	"log/slog"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/listing"
	reqdto "stayfinder/internal/handler/dto/request"
	"stayfinder/internal/infra"
	"stayfinder/internal/pkg/clock"
	"stayfinder/internal/pkg/errs"
	"stayfinder/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrListingNotFound     = errs.New("listing not found")
	ErrListingForbidden    = errs.New("you can only modify your own listings")
	ErrHasUpcomingBookings = errs.New("listing has upcoming bookings and cannot be deleted")
)

var listingOutcomes = []error{
	ErrListingNotFound,
	ErrListingForbidden,
	ErrHasUpcomingBookings,
	listing.ErrInvalidPrice,
	listing.ErrInvalidTitle,
	listing.ErrInvalidText,
	listing.ErrTooManyImages,
}

type ListingCommands interface {
	Create(ctx context.Context, req reqdto.CreateListingRequest, hostID uuid.UUID) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, req reqdto.UpdateListingRequest, actorID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
}

type listingCommandsImpl struct {
	uow    shared.UnitOfWork
	images ImageStore
	clock  clock.Clock
}

func NewListingCommands(uow shared.UnitOfWork, images ImageStore, clock clock.Clock) ListingCommands {
	return &listingCommandsImpl{
		uow:    uow,
		images: images,
		clock:  clock,
	}
}

func (c *listingCommandsImpl) Create(ctx context.Context, req reqdto.CreateListingRequest, hostID uuid.UUID) (uuid.UUID, error) {
	details, price, err := req.ToDomain()
	if err != nil {
		return uuid.Nil, err
	}
	if err := validateImages(req.Images); err != nil {
		return uuid.Nil, err
	}

	// validate before touching the object store
	if _, err := listing.NewListing(hostID, details, price, nil, c.clock.Now()); err != nil {
		return uuid.Nil, err
	}

	urls, err := uploadImages(ctx, c.images, "listings/"+hostID.String(), req.Images)
	if err != nil {
		return uuid.Nil, err
	}

	l, err := listing.NewListing(hostID, details, price, urls, c.clock.Now())
	if err != nil {
		removeImages(ctx, c.images, urls)
		return uuid.Nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Listings().Create(ctx, l)
	})
	if err != nil {
		removeImages(ctx, c.images, urls)
		return uuid.Nil, asStorageFailure(err)
	}

	slog.Info("listing created", "listing_id", l.ID(), "host_id", hostID, "images", len(urls))
	return l.ID(), nil
}

func (c *listingCommandsImpl) Update(ctx context.Context, id uuid.UUID, req reqdto.UpdateListingRequest, actorID uuid.UUID) error {
	remove, err := req.RemovedImages()
	if err != nil {
		return err
	}
	if err := validateImages(req.Images); err != nil {
		return err
	}

	// ownership is checked before anything is uploaded, and again under the lock
	err = c.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Listings().FindByID(ctx, id)
		if err != nil {
			return ownedListingErr(err)
		}
		return ensureOwner(l, actorID)
	})
	if err != nil {
		return asStorageFailure(err, listingOutcomes...)
	}

	added, err := uploadImages(ctx, c.images, "listings/"+actorID.String(), req.Images)
	if err != nil {
		return err
	}

	var dropped []string
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Listings().LockByID(ctx, id)
		if err != nil {
			return ownedListingErr(err)
		}
		if err := ensureOwner(l, actorID); err != nil {
			return err
		}

		details, price, err := req.MergeInto(l)
		if err != nil {
			return err
		}
		dropped, err = l.Revise(details, price, remove, added, c.clock.Now())
		if err != nil {
			return err
		}
		return tx.Listings().Update(ctx, l)
	})
	if err != nil {
		removeImages(ctx, c.images, added)
		return asStorageFailure(err, listingOutcomes...)
	}

	removeImages(ctx, c.images, dropped)
	slog.Info("listing updated", "listing_id", id, "added_images", len(added), "removed_images", len(dropped))
	return nil
}

// Delete soft-deletes the listing so past bookings keep resolving it. A listing
// with a booking that has not checked out yet cannot be deleted.
func (c *listingCommandsImpl) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	var images []string
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Listings().LockByID(ctx, id)
		if err != nil {
			return ownedListingErr(err)
		}
		if err := ensureOwner(l, actorID); err != nil {
			return err
		}

		bookings, err := tx.Bookings().ListByListing(ctx, l.ID())
		if err != nil {
			return err
		}
		if booking.HasUpcoming(bookings, clock.Today(c.clock)) {
			return ErrHasUpcomingBookings
		}

		l.MarkDeleted(c.clock.Now())
		if err := tx.Listings().Update(ctx, l); err != nil {
			return err
		}

		event, err := listingDeletedEvent(l)
		if err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, event); err != nil {
			return err
		}

		images = l.Images()
		return nil
	})
	if err != nil {
		return asStorageFailure(err, listingOutcomes...)
	}

	removeImages(ctx, c.images, images)
	slog.Info("listing deleted", "listing_id", id, "host_id", actorID)
	return nil
}

func ownedListingErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrListingNotFound
	}
	return err
}

func ensureOwner(l *listing.Listing, actorID uuid.UUID) error {
	if err := l.EnsureOwnedBy(actorID); err != nil {
		return errs.Mark(err, ErrListingForbidden)
	}
	return nil
}
