package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/user"

	"github.com/google/uuid"
)

// Store keeps committed state in maps. Writers stage changes in a unit of work
// and apply them under mu on commit.
type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]userRow
	listings map[uuid.UUID]listingRow
	bookings map[uuid.UUID]bookingRow
	outbox   map[uuid.UUID]*outboxRow

	locksMu sync.Mutex
	locks   map[uuid.UUID]*listingLock

	logger *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		users:    make(map[uuid.UUID]userRow),
		listings: make(map[uuid.UUID]listingRow),
		bookings: make(map[uuid.UUID]bookingRow),
		outbox:   make(map[uuid.UUID]*outboxRow),
		locks:    make(map[uuid.UUID]*listingLock),
		logger:   logger,
	}
}

type userRow struct {
	id           uuid.UUID
	username     string
	email        user.Email
	passwordHash string
	profileImage *string
	createdAt    time.Time
	updatedAt    time.Time
}

type listingRow struct {
	id          uuid.UUID
	hostID      uuid.UUID
	title       string
	description string
	location    string
	price       listing.Price
	images      []string
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

type bookingRow struct {
	id         uuid.UUID
	listingID  uuid.UUID
	guestID    uuid.UUID
	stay       booking.Stay
	totalCents int64
	createdAt  time.Time
}

type outboxRow struct {
	id          uuid.UUID
	aggregateID uuid.UUID
	name        string
	payload     []byte
	occurredAt  time.Time
	attempts    int
	nextAttempt time.Time
	lockedUntil *time.Time
	sentAt      *time.Time
	lastError   string
}

// listingLock is a one-slot semaphore. refs counts holders and waiters so the
// entry can be dropped once nobody needs it.
type listingLock struct {
	ch   chan struct{}
	refs int
}

// lockListing blocks until the listing's lock is free or ctx is done.
func (s *Store) lockListing(ctx context.Context, id uuid.UUID) error {
	s.locksMu.Lock()
	lk, ok := s.locks[id]
	if !ok {
		lk = &listingLock{ch: make(chan struct{}, 1)}
		s.locks[id] = lk
	}
	lk.refs++
	s.locksMu.Unlock()

	select {
	case lk.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		s.releaseLockRef(id, lk)
		return ctx.Err()
	}
}

func (s *Store) unlockListing(id uuid.UUID) {
	s.locksMu.Lock()
	lk := s.locks[id]
	s.locksMu.Unlock()
	<-lk.ch
	s.releaseLockRef(id, lk)
}

func (s *Store) releaseLockRef(id uuid.UUID, lk *listingLock) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(s.locks, id)
	}
}

func (s *Store) bookingsOf(listingID uuid.UUID) []bookingRow {
	var rows []bookingRow
	for _, b := range s.bookings {
		if b.listingID == listingID {
			rows = append(rows, b)
		}
	}
	slices.SortFunc(rows, func(a, b bookingRow) int {
		return a.stay.CheckIn().Compare(b.stay.CheckIn())
	})
	return rows
}

func (s *Store) userByEmail(email user.Email) (userRow, bool) {
	for _, u := range s.users {
		if u.email == email {
			return u, true
		}
	}
	return userRow{}, false
}

func toUserRow(u *user.User) userRow {
	return userRow{
		id:           u.ID(),
		username:     u.Username(),
		email:        u.Email(),
		passwordHash: u.PasswordHash(),
		profileImage: u.ProfileImage(),
		createdAt:    u.CreatedAt(),
		updatedAt:    u.UpdatedAt(),
	}
}

func (r userRow) toDomain() *user.User {
	return user.ReconstructUser(r.id, r.username, r.email, r.passwordHash, r.profileImage, r.createdAt, r.updatedAt)
}

func toListingRow(l *listing.Listing) listingRow {
	return listingRow{
		id:          l.ID(),
		hostID:      l.HostID(),
		title:       l.Title(),
		description: l.Description(),
		location:    l.Location(),
		price:       l.Price(),
		images:      l.Images(),
		createdAt:   l.CreatedAt(),
		updatedAt:   l.UpdatedAt(),
		deletedAt:   l.DeletedAt(),
	}
}

func (r listingRow) toDomain() *listing.Listing {
	details := listing.Details{Title: r.title, Description: r.description, Location: r.location}
	return listing.ReconstructListing(r.id, r.hostID, details, r.price, r.images, r.createdAt, r.updatedAt, r.deletedAt)
}

func toBookingRow(b *booking.Booking) bookingRow {
	return bookingRow{
		id:         b.ID(),
		listingID:  b.ListingID(),
		guestID:    b.GuestID(),
		stay:       b.Stay(),
		totalCents: b.TotalCents(),
		createdAt:  b.CreatedAt(),
	}
}

func (r bookingRow) toDomain() *booking.Booking {
	return booking.ReconstructBooking(r.id, r.listingID, r.guestID, r.stay, r.totalCents, r.createdAt)
}
