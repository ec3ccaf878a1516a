package readstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stayfinder/internal/infra"
	"stayfinder/internal/infra/db"
	"stayfinder/internal/pkg/pgconv"
	"stayfinder/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const listingViewSelect = `
SELECT l.id, l.host_id, u.username, l.title, l.description, l.location, l.price_cents, l.images, l.created_at, l.updated_at
FROM listings l
JOIN users u ON u.id = l.host_id`

type ListingReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewListingReadStore(dbtx db.DBTX, logger *slog.Logger) *ListingReadStore {
	return &ListingReadStore{
		db:     dbtx,
		logger: logger,
	}
}

// Search pages newest first by (created_at, id).
func (s *ListingReadStore) Search(ctx context.Context, filter queries.SearchFilter, after *queries.PageKey, limit int) ([]*queries.ListingView, error) {
	sql, args := buildSearchSQL(filter, after, limit)
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to search listings", err)
	}
	views, err := pgx.CollectRows(rows, scanListingView)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to scan listings", err)
	}
	return views, nil
}

func (s *ListingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ListingView, error) {
	rows, err := s.db.Query(ctx, listingViewSelect+` WHERE l.id = $1 AND l.deleted_at IS NULL`, id)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to find listing", err)
	}
	view, err := pgx.CollectExactlyOneRow(rows, scanListingView)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to find listing", err)
	}
	return view, nil
}

func (s *ListingReadStore) FindByHost(ctx context.Context, hostID uuid.UUID) ([]*queries.ListingView, error) {
	rows, err := s.db.Query(ctx,
		listingViewSelect+` WHERE l.host_id = $1 AND l.deleted_at IS NULL ORDER BY l.created_at DESC, l.id DESC`, hostID)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to list host listings", err)
	}
	views, err := pgx.CollectRows(rows, scanListingView)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to scan host listings", err)
	}
	return views, nil
}

func buildSearchSQL(filter queries.SearchFilter, after *queries.PageKey, limit int) (string, []any) {
	var (
		conds = []string{"l.deleted_at IS NULL"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		conds = append(conds, "l.title ILIKE "+arg(containsPattern(filter.Search)))
	}
	if filter.Location != "" {
		conds = append(conds, "l.location ILIKE "+arg(containsPattern(filter.Location)))
	}
	if filter.MinPriceCents != nil {
		conds = append(conds, "l.price_cents >= "+arg(*filter.MinPriceCents))
	}
	if filter.MaxPriceCents != nil {
		conds = append(conds, "l.price_cents <= "+arg(*filter.MaxPriceCents))
	}
	if after != nil {
		createdAt := arg(pgconv.TimeToPgtype(after.CreatedAt))
		conds = append(conds, fmt.Sprintf("(l.created_at, l.id) < (%s, %s)", createdAt, arg(after.ID)))
	}

	sql := listingViewSelect +
		" WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY l.created_at DESC, l.id DESC LIMIT " + arg(limit)
	return sql, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func scanListingView(row pgx.CollectableRow) (*queries.ListingView, error) {
	var (
		v                    queries.ListingView
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&v.ID, &v.HostID, &v.HostName, &v.Title, &v.Description, &v.Location, &v.PriceCents, &v.Images, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &v, nil
}
