package repository

import (
	"context"
	"log/slog"

	"stayfinder/internal/domain/listing"
	"stayfinder/internal/infra"
	"stayfinder/internal/infra/db"
	"stayfinder/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const listingColumns = `id, host_id, title, description, location, price_cents, images, created_at, updated_at, deleted_at`

const (
	lockListingSQL = `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	findListingSQL = `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 AND deleted_at IS NULL`

	insertListingSQL = `
INSERT INTO listings (id, host_id, title, description, location, price_cents, images, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	updateListingSQL = `
UPDATE listings
SET title = $2, description = $3, location = $4, price_cents = $5, images = $6, updated_at = $7, deleted_at = $8
WHERE id = $1`
)

type ListingRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewListingRepository(dbtx db.DBTX, logger *slog.Logger) *ListingRepository {
	return &ListingRepository{
		db:     dbtx,
		logger: logger,
	}
}

// LockByID takes a row lock that is held until the surrounding transaction ends.
func (r *ListingRepository) LockByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, err := scanListing(r.db.QueryRow(ctx, lockListingSQL, id))
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to lock listing", err)
	}
	return l, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, err := scanListing(r.db.QueryRow(ctx, findListingSQL, id))
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find listing", err)
	}
	return l, nil
}

func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	_, err := r.db.Exec(ctx, insertListingSQL,
		l.ID(),
		l.HostID(),
		l.Title(),
		l.Description(),
		l.Location(),
		l.Price().Cents(),
		l.Images(),
		pgconv.TimeToPgtype(l.CreatedAt()),
		pgconv.TimeToPgtype(l.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to create listing", err)
	}
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	tag, err := r.db.Exec(ctx, updateListingSQL,
		l.ID(),
		l.Title(),
		l.Description(),
		l.Location(),
		l.Price().Cents(),
		l.Images(),
		pgconv.TimeToPgtype(l.UpdatedAt()),
		pgconv.TimePtrToPgtype(l.DeletedAt()),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to update listing", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "listing not found", nil)
	}
	return nil
}

func scanListing(row pgx.Row) (*listing.Listing, error) {
	var (
		id, hostID                      uuid.UUID
		title, description, location    string
		priceCents                      int64
		images                          []string
		createdAt, updatedAt, deletedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &hostID, &title, &description, &location, &priceCents, &images, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	price, err := listing.NewPrice(priceCents)
	if err != nil {
		return nil, err
	}
	details := listing.Details{Title: title, Description: description, Location: location}
	return listing.ReconstructListing(id, hostID, details, price, images,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt), pgconv.TimePtrFromPgtype(deletedAt)), nil
}
