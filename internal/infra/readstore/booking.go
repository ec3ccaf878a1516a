package readstore

import (
	"context"
	"log/slog"

	"stayfinder/internal/infra"
	"stayfinder/internal/infra/db"
	"stayfinder/internal/pkg/pgconv"
	"stayfinder/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Deleted listings are joined too; a guest's history must not lose them.
const bookingsByGuestSQL = `
SELECT b.id, b.listing_id, b.guest_id, b.check_in, b.check_out, b.total_cents, b.created_at,
       l.title, l.location, l.price_cents, l.images, l.deleted_at IS NOT NULL
FROM bookings b
JOIN listings l ON l.id = b.listing_id
WHERE b.guest_id = $1
ORDER BY b.created_at DESC, b.id DESC`

type BookingReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookingReadStore(dbtx db.DBTX, logger *slog.Logger) *BookingReadStore {
	return &BookingReadStore{
		db:     dbtx,
		logger: logger,
	}
}

func (s *BookingReadStore) FindByGuest(ctx context.Context, guestID uuid.UUID) ([]*queries.BookingView, error) {
	rows, err := s.db.Query(ctx, bookingsByGuestSQL, guestID)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to list guest bookings", err)
	}
	views, err := pgx.CollectRows(rows, scanBookingView)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to scan guest bookings", err)
	}
	return views, nil
}

func scanBookingView(row pgx.CollectableRow) (*queries.BookingView, error) {
	var (
		v                 queries.BookingView
		l                 queries.ListingSummary
		checkIn, checkOut pgtype.Date
		createdAt         pgtype.Timestamptz
	)
	err := row.Scan(&v.ID, &v.ListingID, &v.GuestID, &checkIn, &checkOut, &v.TotalCents, &createdAt,
		&l.Title, &l.Location, &l.PriceCents, &l.Images, &l.Deleted)
	if err != nil {
		return nil, err
	}

	v.CheckIn = pgconv.DateFromPgtype(checkIn)
	v.CheckOut = pgconv.DateFromPgtype(checkOut)
	v.Nights = int(v.CheckOut.Sub(v.CheckIn).Hours() / 24)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	l.ID = v.ListingID
	v.Listing = &l
	return &v, nil
}
