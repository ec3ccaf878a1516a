package repository

import (
	"context"
	"log/slog"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/infra"
	"stayfinder/internal/infra/db"
	"stayfinder/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	listBookingsByListingSQL = `
SELECT id, listing_id, guest_id, check_in, check_out, total_cents, created_at
FROM bookings
WHERE listing_id = $1
ORDER BY check_in`

	// bookings_no_overlap rejects overlapping stays with SQLSTATE 23P01
	insertBookingSQL = `
INSERT INTO bookings (id, listing_id, guest_id, check_in, check_out, total_cents, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
)

type BookingRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookingRepository(dbtx db.DBTX, logger *slog.Logger) *BookingRepository {
	return &BookingRepository{
		db:     dbtx,
		logger: logger,
	}
}

func (r *BookingRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, listBookingsByListingSQL, listingID)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list bookings", err)
	}

	bookings, err := pgx.CollectRows(rows, scanBooking)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to scan bookings", err)
	}
	return bookings, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, insertBookingSQL,
		b.ID(),
		b.ListingID(),
		b.GuestID(),
		pgconv.DateToPgtype(b.Stay().CheckIn()),
		pgconv.DateToPgtype(b.Stay().CheckOut()),
		b.TotalCents(),
		pgconv.TimeToPgtype(b.CreatedAt()),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to create booking", err)
	}
	return nil
}

func scanBooking(row pgx.CollectableRow) (*booking.Booking, error) {
	var (
		id, listingID, guestID uuid.UUID
		checkIn, checkOut      pgtype.Date
		totalCents             int64
		createdAt              pgtype.Timestamptz
	)
	if err := row.Scan(&id, &listingID, &guestID, &checkIn, &checkOut, &totalCents, &createdAt); err != nil {
		return nil, err
	}

	stay, err := booking.NewStay(pgconv.DateFromPgtype(checkIn), pgconv.DateFromPgtype(checkOut))
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(id, listingID, guestID, stay, totalCents, pgconv.TimeFromPgtype(createdAt)), nil
}
