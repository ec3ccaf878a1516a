package memory

import (
	"context"
	"errors"
	"slices"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/user"
	"stayfinder/internal/infra"
	"stayfinder/internal/usecase/shared"

	"github.com/google/uuid"
)

var errReadOnly = errors.New("memory: write or lock attempted in a read-only unit of work")

type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// Within applies the staged writes only if fn succeeds. Listing locks taken
// through LockByID are held until it returns.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	t := newTx(u.store, false)
	defer t.releaseLocks()

	if err := fn(ctx, t); err != nil {
		return err
	}
	return t.commit()
}

func (u *UnitOfWork) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	t := newTx(u.store, true)
	defer t.releaseLocks()
	return fn(ctx, t)
}

type tx struct {
	store    *Store
	readOnly bool
	locked   []uuid.UUID

	users    map[uuid.UUID]userRow
	listings map[uuid.UUID]listingRow
	bookings []bookingRow
	outbox   []outboxRow
}

func newTx(store *Store, readOnly bool) *tx {
	return &tx{
		store:    store,
		readOnly: readOnly,
		users:    make(map[uuid.UUID]userRow),
		listings: make(map[uuid.UUID]listingRow),
	}
}

func (t *tx) Listings() shared.ListingRepository { return listingRepo{t} }
func (t *tx) Bookings() shared.BookingRepository { return bookingRepo{t} }
func (t *tx) Users() shared.UserRepository       { return userRepo{t} }
func (t *tx) Outbox() shared.OutboxRepository    { return outboxRepo{t} }

func (t *tx) releaseLocks() {
	for _, id := range t.locked {
		t.store.unlockListing(id)
	}
	t.locked = nil
}

// commit re-checks the constraints Postgres would enforce, then publishes the staged rows.
func (t *tx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range t.users {
		if other, ok := s.userByEmail(u.email); ok && other.id != u.id {
			return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "email already registered", nil)
		}
	}
	for _, b := range t.bookings {
		for _, existing := range s.bookingsOf(b.listingID) {
			if existing.stay.Overlaps(b.stay) {
				return infra.WrapRepoErr(s.logger, infra.KindConflict, "booking overlaps an existing stay", nil)
			}
		}
	}

	for id, u := range t.users {
		s.users[id] = u
	}
	for id, l := range t.listings {
		s.listings[id] = l
	}
	for _, b := range t.bookings {
		s.bookings[b.id] = b
	}
	for i := range t.outbox {
		row := t.outbox[i]
		s.outbox[row.id] = &row
	}
	return nil
}

func (t *tx) listing(id uuid.UUID) (listingRow, bool) {
	if row, ok := t.listings[id]; ok {
		return row, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	row, ok := t.store.listings[id]
	return row, ok
}

func (t *tx) bookingsOf(listingID uuid.UUID) []bookingRow {
	t.store.mu.RLock()
	rows := t.store.bookingsOf(listingID)
	t.store.mu.RUnlock()

	for _, b := range t.bookings {
		if b.listingID == listingID {
			rows = append(rows, b)
		}
	}
	return rows
}

func (t *tx) user(match func(userRow) bool) (userRow, bool) {
	for _, u := range t.users {
		if match(u) {
			return u, true
		}
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	for id, u := range t.store.users {
		if _, staged := t.users[id]; staged {
			continue
		}
		if match(u) {
			return u, true
		}
	}
	return userRow{}, false
}

type listingRepo struct{ t *tx }

func (r listingRepo) LockByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	if r.t.readOnly {
		return nil, infra.WrapRepoErr(r.t.store.logger, infra.KindDBFailure, "failed to lock listing", errReadOnly)
	}
	if !slices.Contains(r.t.locked, id) {
		if err := r.t.store.lockListing(ctx, id); err != nil {
			return nil, infra.WrapRepoErr(r.t.store.logger, infra.KindDBFailure, "failed to lock listing", err)
		}
		r.t.locked = append(r.t.locked, id)
	}
	return r.FindByID(ctx, id)
}

func (r listingRepo) FindByID(_ context.Context, id uuid.UUID) (*listing.Listing, error) {
	row, ok := r.t.listing(id)
	if !ok || row.deletedAt != nil {
		return nil, infra.WrapRepoErr(r.t.store.logger, infra.KindNotFound, "listing not found", nil)
	}
	return row.toDomain(), nil
}

func (r listingRepo) Create(_ context.Context, l *listing.Listing) error {
	if r.t.readOnly {
		return infra.WrapRepoErr(r.t.store.logger, infra.KindDBFailure, "failed to create listing", errReadOnly)
	}
	if _, exists := r.t.listing(l.ID()); exists {
		return infra.WrapRepoErr(r.t.store.logger, infra.KindDuplicateKey, "listing already exists", nil)
	}
	r.t.listings[l.ID()] = toListingRow(l)
	return nil
}

func (r listingRepo) Update(_ context.Context, l *listing.Listing) error {
	if r.t.readOnly {
		return infra.WrapRepoErr(r.t.store.logger, infra.KindDBFailure, "failed to update listing", errReadOnly)
	}
	if _, exists := r.t.listing(l.ID()); !exists {
		return infra.WrapRepoErr(r.t.store.logger, infra.KindNotFound, "listing not found", nil)
	}
	r.t.listings[l.ID()] = toListingRow(l)
	return nil
}

type bookingRepo struct{ t *tx }

func (r bookingRepo) ListByListing(_ context.Context, listingID uuid.UUID) ([]*booking.Booking, error) {
	rows := r.t.bookingsOf(listingID)
	bookings := make([]*booking.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toDomain())
	}
	return bookings, nil
}

func (r bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	logger := r.t.store.logger
	if r.t.readOnly {
		return infra.WrapRepoErr(logger, infra.KindDBFailure, "failed to create booking", errReadOnly)
	}
	if _, ok := r.t.listing(b.ListingID()); !ok {
		return infra.WrapRepoErr(logger, infra.KindForeignKeyViolated, "booking references a missing listing", nil)
	}
	for _, existing := range r.t.bookingsOf(b.ListingID()) {
		if existing.stay.Overlaps(b.Stay()) {
			return infra.WrapRepoErr(logger, infra.KindConflict, "booking overlaps an existing stay", nil)
		}
	}
	r.t.bookings = append(r.t.bookings, toBookingRow(b))
	return nil
}

type userRepo struct{ t *tx }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	if r.t.readOnly {
		return infra.WrapRepoErr(r.t.store.logger, infra.KindDBFailure, "failed to create user", errReadOnly)
	}
	if _, taken := r.t.user(func(row userRow) bool { return row.email == u.Email() }); taken {
		return infra.WrapRepoErr(r.t.store.logger, infra.KindDuplicateKey, "email already registered", nil)
	}
	r.t.users[u.ID()] = toUserRow(u)
	return nil
}

func (r userRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	row, ok := r.t.user(func(row userRow) bool { return row.id == id })
	if !ok {
		return nil, infra.WrapRepoErr(r.t.store.logger, infra.KindNotFound, "user not found", nil)
	}
	return row.toDomain(), nil
}

func (r userRepo) FindByEmail(_ context.Context, email user.Email) (*user.User, error) {
	row, ok := r.t.user(func(row userRow) bool { return row.email == email })
	if !ok {
		return nil, infra.WrapRepoErr(r.t.store.logger, infra.KindNotFound, "user not found", nil)
	}
	return row.toDomain(), nil
}

func (r userRepo) Update(_ context.Context, u *user.User) error {
	if r.t.readOnly {
		return infra.WrapRepoErr(r.t.store.logger, infra.KindDBFailure, "failed to update user", errReadOnly)
	}
	if _, ok := r.t.user(func(row userRow) bool { return row.id == u.ID() }); !ok {
		return infra.WrapRepoErr(r.t.store.logger, infra.KindNotFound, "user not found", nil)
	}
	if _, taken := r.t.user(func(row userRow) bool { return row.email == u.Email() && row.id != u.ID() }); taken {
		return infra.WrapRepoErr(r.t.store.logger, infra.KindDuplicateKey, "email already registered", nil)
	}
	r.t.users[u.ID()] = toUserRow(u)
	return nil
}

type outboxRepo struct{ t *tx }

func (r outboxRepo) Append(_ context.Context, event shared.OutboxEvent) error {
	if r.t.readOnly {
		return infra.WrapRepoErr(r.t.store.logger, infra.KindDBFailure, "failed to append outbox event", errReadOnly)
	}
	r.t.outbox = append(r.t.outbox, outboxRow{
		id:          event.ID,
		aggregateID: event.AggregateID,
		name:        event.Name,
		payload:     event.Payload,
		occurredAt:  event.OccurredAt,
		nextAttempt: event.OccurredAt,
	})
	return nil
}
