package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"stayfinder/internal/infra"
	"stayfinder/internal/usecase/queries"

	"github.com/google/uuid"
)

type ListingReadStore struct{ store *Store }

func NewListingReadStore(store *Store) *ListingReadStore {
	return &ListingReadStore{store: store}
}

func (r *ListingReadStore) Search(_ context.Context, filter queries.SearchFilter, after *queries.PageKey, limit int) ([]*queries.ListingView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []listingRow
	for _, l := range s.listings {
		if l.deletedAt == nil && matches(l, filter) && isAfter(l, after) {
			rows = append(rows, l)
		}
	}
	slices.SortFunc(rows, newestFirst)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return s.listingViews(rows), nil
}

func (r *ListingReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ListingView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok || l.deletedAt != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "listing not found", nil)
	}
	return s.listingView(l), nil
}

func (r *ListingReadStore) FindByHost(_ context.Context, hostID uuid.UUID) ([]*queries.ListingView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []listingRow
	for _, l := range s.listings {
		if l.hostID == hostID && l.deletedAt == nil {
			rows = append(rows, l)
		}
	}
	slices.SortFunc(rows, newestFirst)
	return s.listingViews(rows), nil
}

func matches(l listingRow, f queries.SearchFilter) bool {
	if f.Search != "" && !containsFold(l.title, f.Search) {
		return false
	}
	if f.Location != "" && !containsFold(l.location, f.Location) {
		return false
	}
	if f.MinPriceCents != nil && l.price.Cents() < *f.MinPriceCents {
		return false
	}
	if f.MaxPriceCents != nil && l.price.Cents() > *f.MaxPriceCents {
		return false
	}
	return true
}

func isAfter(l listingRow, key *queries.PageKey) bool {
	if key == nil {
		return true
	}
	if c := l.createdAt.Compare(key.CreatedAt); c != 0 {
		return c < 0
	}
	return strings.Compare(l.id.String(), key.ID.String()) < 0
}

func newestFirst(a, b listingRow) int {
	if c := b.createdAt.Compare(a.createdAt); c != 0 {
		return c
	}
	return cmp.Compare(b.id.String(), a.id.String())
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (s *Store) listingViews(rows []listingRow) []*queries.ListingView {
	views := make([]*queries.ListingView, 0, len(rows))
	for _, l := range rows {
		views = append(views, s.listingView(l))
	}
	return views
}

func (s *Store) listingView(l listingRow) *queries.ListingView {
	return &queries.ListingView{
		ID:          l.id,
		HostID:      l.hostID,
		HostName:    s.users[l.hostID].username,
		Title:       l.title,
		Description: l.description,
		Location:    l.location,
		PriceCents:  l.price.Cents(),
		Images:      slices.Clone(l.images),
		CreatedAt:   l.createdAt,
		UpdatedAt:   l.updatedAt,
	}
}

type BookingReadStore struct{ store *Store }

func NewBookingReadStore(store *Store) *BookingReadStore {
	return &BookingReadStore{store: store}
}

func (r *BookingReadStore) FindByGuest(_ context.Context, guestID uuid.UUID) ([]*queries.BookingView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []bookingRow
	for _, b := range s.bookings {
		if b.guestID == guestID {
			rows = append(rows, b)
		}
	}
	slices.SortFunc(rows, func(a, b bookingRow) int {
		if c := b.createdAt.Compare(a.createdAt); c != 0 {
			return c
		}
		return cmp.Compare(b.id.String(), a.id.String())
	})

	views := make([]*queries.BookingView, 0, len(rows))
	for _, b := range rows {
		l := s.listings[b.listingID]
		views = append(views, &queries.BookingView{
			ID:         b.id,
			ListingID:  b.listingID,
			GuestID:    b.guestID,
			CheckIn:    b.stay.CheckIn(),
			CheckOut:   b.stay.CheckOut(),
			Nights:     b.stay.Nights(),
			TotalCents: b.totalCents,
			CreatedAt:  b.createdAt,
			Listing: &queries.ListingSummary{
				ID:         l.id,
				Title:      l.title,
				Location:   l.location,
				PriceCents: l.price.Cents(),
				Images:     slices.Clone(l.images),
				Deleted:    l.deletedAt != nil,
			},
		})
	}
	return views, nil
}

type UserReadStore struct{ store *Store }

func NewUserReadStore(store *Store) *UserReadStore {
	return &UserReadStore{store: store}
}

func (r *UserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.UserView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "user not found", nil)
	}
	return &queries.UserView{
		ID:           u.id,
		Username:     u.username,
		Email:        u.email.Value(),
		ProfileImage: u.profileImage,
		CreatedAt:    u.createdAt,
	}, nil
}
