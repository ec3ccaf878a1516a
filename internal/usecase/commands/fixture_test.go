//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/listing"
	"stayfinder/internal/domain/user"
	reqdto "stayfinder/internal/handler/dto/request"
	"stayfinder/internal/infra/memory"
	"stayfinder/internal/pkg/clock"
	"stayfinder/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memory.Store
	uow    *memory.UnitOfWork
	outbox *memory.OutboxStore
	clock  *clock.MockClock
	images *fakeImageStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore(slog.New(slog.DiscardHandler))
	return &fixture{
		store:  store,
		uow:    memory.NewUnitOfWork(store),
		outbox: memory.NewOutboxStore(store),
		clock:  clock.NewMockClock(fixedNow),
		images: newFakeImageStore(),
	}
}

func (f *fixture) seedListing(t *testing.T, l *listing.Listing) *listing.Listing {
	t.Helper()
	require.NoError(t, f.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Listings().Create(ctx, l)
	}))
	return l
}

func (f *fixture) seedBooking(t *testing.T, b *booking.Booking) {
	t.Helper()
	require.NoError(t, f.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().Create(ctx, b)
	}))
}

func (f *fixture) findUser(t *testing.T, id uuid.UUID) *user.User {
	t.Helper()
	var found *user.User
	require.NoError(t, f.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		found, err = tx.Users().FindByID(ctx, id)
		return err
	}))
	return found
}

func (f *fixture) seedUser(t *testing.T, u *user.User) *user.User {
	t.Helper()
	require.NoError(t, f.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Create(ctx, u)
	}))
	return u
}

func (f *fixture) bookingsOf(t *testing.T, l *listing.Listing) []*booking.Booking {
	t.Helper()
	var out []*booking.Booking
	require.NoError(t, f.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		out, err = tx.Bookings().ListByListing(ctx, l.ID())
		return err
	}))
	return out
}

func (f *fixture) findListing(t *testing.T, id uuid.UUID) (*listing.Listing, error) {
	t.Helper()
	var found *listing.Listing
	err := f.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		found, err = tx.Listings().FindByID(ctx, id)
		return err
	})
	return found, err
}

// fakeImageStore hands out predictable URLs and remembers what was removed.
type fakeImageStore struct {
	mu        sync.Mutex
	uploaded  map[string][]byte
	removed   []string
	failAfter int // uploads allowed before failing; -1 never fails
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{uploaded: make(map[string][]byte), failAfter: -1}
}

func (s *fakeImageStore) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter == 0 {
		return "", errors.New("bucket unavailable")
	}
	if s.failAfter > 0 {
		s.failAfter--
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "https://cdn.test/" + key
	s.uploaded[url] = body
	return url, nil
}

func (s *fakeImageStore) Remove(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, url)
	delete(s.uploaded, url)
	return nil
}

func (s *fakeImageStore) uploadedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploaded)
}

func (s *fakeImageStore) removedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removed...)
}

func imageFile(name, contentType string, content []byte) reqdto.ImageFile {
	return reqdto.ImageFile{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// brokenUnitOfWork fails every transaction the way a lost connection would.
type brokenUnitOfWork struct{}

var errConnectionLost = errors.New("connection refused")

func (brokenUnitOfWork) Within(context.Context, func(context.Context, shared.Tx) error) error {
	return errConnectionLost
}

func (brokenUnitOfWork) WithinReadOnly(context.Context, func(context.Context, shared.Tx) error) error {
	return errConnectionLost
}
