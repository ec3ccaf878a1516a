package queries

import (
	"context"

	"stayfinder/internal/infra"
	"stayfinder/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrListingNotFound    = errs.New("listing not found")
	ErrInvalidCursor      = errs.New("invalid cursor")
	ErrInvalidPriceFilter = errs.New("minimum price exceeds maximum price")
	ErrListingQueryFailed = errs.New("listing query failed")
)

// Prices are in minor units. Search and Location match case-insensitive substrings.
type SearchFilter struct {
	Search        string
	Location      string
	MinPriceCents *int64
	MaxPriceCents *int64
}

type ListingQueries interface {
	Search(ctx context.Context, filter SearchFilter, after *Cursor, limit int) ([]*ListingView, *Cursor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ListingView, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]*ListingView, error)
}

type ListingReadStore interface {
	Search(ctx context.Context, filter SearchFilter, after *PageKey, limit int) ([]*ListingView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*ListingView, error)
	FindByHost(ctx context.Context, hostID uuid.UUID) ([]*ListingView, error)
}

type listingQueriesImpl struct {
	readStore ListingReadStore
}

func NewListingQueries(readStore ListingReadStore) ListingQueries {
	return &listingQueriesImpl{readStore: readStore}
}

func (q *listingQueriesImpl) Search(ctx context.Context, filter SearchFilter, after *Cursor, limit int) ([]*ListingView, *Cursor, error) {
	if filter.MinPriceCents != nil && filter.MaxPriceCents != nil && *filter.MinPriceCents > *filter.MaxPriceCents {
		return nil, nil, ErrInvalidPriceFilter
	}
	key, err := DecodeCursor(after)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)

	// one extra row tells whether another page exists
	rows, err := q.readStore.Search(ctx, filter, key, limit+1)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrListingQueryFailed)
	}
	if len(rows) <= limit {
		return rows, nil, nil
	}

	page := rows[:limit]
	last := page[len(page)-1]
	return page, EncodeCursor(PageKey{CreatedAt: last.CreatedAt, ID: last.ID}), nil
}

func (q *listingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ListingView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, errs.Mark(err, ErrListingQueryFailed)
	}
	return view, nil
}

func (q *listingQueriesImpl) ListByHost(ctx context.Context, hostID uuid.UUID) ([]*ListingView, error) {
	views, err := q.readStore.FindByHost(ctx, hostID)
	if err != nil {
		return nil, errs.Mark(err, ErrListingQueryFailed)
	}
	return views, nil
}
