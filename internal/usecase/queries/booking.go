package queries

import (
	"context"

	"stayfinder/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingQueryFailed = errs.New("booking query failed")

type BookingQueries interface {
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*BookingView, error)
}

// FindByGuest returns newest first with Listing populated.
type BookingReadStore interface {
	FindByGuest(ctx context.Context, guestID uuid.UUID) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	readStore BookingReadStore
}

func NewBookingQueries(readStore BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{readStore: readStore}
}

func (q *bookingQueriesImpl) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*BookingView, error) {
	views, err := q.readStore.FindByGuest(ctx, guestID)
	if err != nil {
		return nil, errs.Mark(err, ErrBookingQueryFailed)
	}
	return views, nil
}
