//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/handler/dto/request"
	resdto "stayfinder/internal/handler/dto/response"
	"stayfinder/tests/common/authtest"
	"stayfinder/tests/common/dbtest"
	"stayfinder/tests/common/httptest"
	"stayfinder/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL   = "/api/bookings"
	myBookingsURL = "/api/bookings/my-bookings"
)

type bookingSuite struct {
	e2e.SharedSuite
	hostID    uuid.UUID
	listingID uuid.UUID
	guest     authtest.Session
	base      time.Time
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(bookingSuite))
}

func (s *bookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	s.hostID = dbtest.CreateTestUser(s.T(), s.DB, "host", "host@example.com")
	s.listingID = dbtest.CreateTestListing(s.T(), s.DB, s.hostID, "Harbour loft", "Lisbon", 12500)
	s.guest = authtest.RegisterUser(s.T(), s.Router, "guest", "guest@example.com", "password123")
	s.base = time.Now().UTC().AddDate(0, 1, 0).Truncate(24 * time.Hour)
}

// day formats base+offset days as a stay date.
func (s *bookingSuite) day(offset int) string {
	return s.base.AddDate(0, 0, offset).Format(booking.DateLayout)
}

func (s *bookingSuite) book(token string, listingID uuid.UUID, in, out int) (int, string) {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, request.CreateBookingRequest{
		ListingID:    listingID,
		CheckInDate:  s.day(in),
		CheckOutDate: s.day(out),
	}, token)
	return w.Code, w.Body.String()
}

func (s *bookingSuite) TestCreate() {
	s.Run("books and prices the stay", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, request.CreateBookingRequest{
			ListingID:    s.listingID,
			CheckInDate:  s.day(0),
			CheckOutDate: s.day(3),
		}, s.guest.Token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var res resdto.BookingCreatedResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, 3, res.Booking.Nights)
		require.InDelta(t, 375.0, res.Booking.TotalPrice, 0.001)
		require.Equal(t, s.guest.UserID, res.Booking.UserID)

		var totalCents int64
		require.NoError(t, s.DB.QueryRow(t.Context(),
			"SELECT total_cents FROM bookings WHERE id = $1", res.Booking.ID).Scan(&totalCents))
		require.Equal(t, int64(37500), totalCents)
	})

	s.Run("overlap rules against an existing stay", func() {
		code, body := s.book(s.guest.Token, s.listingID, 10, 13)
		require.Equal(s.T(), http.StatusCreated, code, body)

		tests := []struct {
			name     string
			in, out  int
			expected int
		}{
			{name: "same dates", in: 10, out: 13, expected: http.StatusConflict},
			{name: "starts inside", in: 12, out: 15, expected: http.StatusConflict},
			{name: "ends inside", in: 8, out: 11, expected: http.StatusConflict},
			{name: "encloses", in: 9, out: 14, expected: http.StatusConflict},
			{name: "checks out on check-in day", in: 7, out: 10, expected: http.StatusCreated},
			{name: "checks in on check-out day", in: 13, out: 16, expected: http.StatusCreated},
		}
		for _, tt := range tests {
			code, body := s.book(s.guest.Token, s.listingID, tt.in, tt.out)
			require.Equal(s.T(), tt.expected, code, "%s: %s", tt.name, body)
		}
		require.Equal(s.T(), 3, dbtest.CountBookings(s.T(), s.DB, s.listingID))
	})

	s.Run("rejected requests", func() {
		tests := []struct {
			name     string
			req      request.CreateBookingRequest
			token    string
			expected int
		}{
			{name: "unknown listing", req: request.CreateBookingRequest{ListingID: uuid.New(), CheckInDate: s.day(0), CheckOutDate: s.day(2)}, token: s.guest.Token, expected: http.StatusNotFound},
			{name: "check-out equals check-in", req: request.CreateBookingRequest{ListingID: s.listingID, CheckInDate: s.day(2), CheckOutDate: s.day(2)}, token: s.guest.Token, expected: http.StatusBadRequest},
			{name: "check-out before check-in", req: request.CreateBookingRequest{ListingID: s.listingID, CheckInDate: s.day(4), CheckOutDate: s.day(2)}, token: s.guest.Token, expected: http.StatusBadRequest},
			{name: "malformed date", req: request.CreateBookingRequest{ListingID: s.listingID, CheckInDate: "2026/01/01", CheckOutDate: s.day(2)}, token: s.guest.Token, expected: http.StatusBadRequest},
			{name: "anonymous", req: request.CreateBookingRequest{ListingID: s.listingID, CheckInDate: s.day(0), CheckOutDate: s.day(2)}, token: "", expected: http.StatusUnauthorized},
		}
		for _, tt := range tests {
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, tt.req, tt.token)
			require.Equal(s.T(), tt.expected, w.Code, "%s: %s", tt.name, w.Body.String())
		}
		require.Zero(s.T(), dbtest.CountBookings(s.T(), s.DB, s.listingID))
	})

	s.Run("deleted listing cannot be booked", func() {
		_, err := s.DB.Exec(s.T().Context(), "UPDATE listings SET deleted_at = now() WHERE id = $1", s.listingID)
		require.NoError(s.T(), err)

		code, body := s.book(s.guest.Token, s.listingID, 0, 2)
		require.Equal(s.T(), http.StatusNotFound, code, body)
	})
}

func (s *bookingSuite) TestCreateConcurrent() {
	s.Run("exactly one of many overlapping requests wins", func() {
		t := s.T()
		const workers = 24

		sessions := make([]authtest.Session, workers)
		for i := range sessions {
			sessions[i] = authtest.RegisterUser(t, s.Router, fmt.Sprintf("racer%d", i), fmt.Sprintf("racer%d@example.com", i), "password123")
		}

		var (
			wg      sync.WaitGroup
			start   = make(chan struct{})
			codes   = make([]int, workers)
			bodies  = make([]string, workers)
			reqBody = func(i int) request.CreateBookingRequest {
				return request.CreateBookingRequest{
					ListingID:    s.listingID,
					CheckInDate:  s.day(20 + i%3),
					CheckOutDate: s.day(24),
				}
			}
		)
		for i := range workers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody(i), sessions[i].Token)
				codes[i] = w.Code
				bodies[i] = w.Body.String()
			}(i)
		}
		close(start)
		wg.Wait()

		created := 0
		for i, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
			default:
				t.Fatalf("request %d: unexpected status %d: %s", i, code, bodies[i])
			}
		}
		require.Equal(t, 1, created)
		require.Equal(t, 1, dbtest.CountBookings(t, s.DB, s.listingID))

		var events int
		require.NoError(t, s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM outbox_events WHERE name = 'booking.created'").Scan(&events))
		require.Equal(t, 1, events)
	})

	s.Run("disjoint stays all succeed", func() {
		t := s.T()
		const weeks = 6

		var wg sync.WaitGroup
		codes := make([]int, weeks)
		for i := range weeks {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				codes[i], _ = s.book(s.guest.Token, s.listingID, i*7, i*7+7)
			}(i)
		}
		wg.Wait()

		for _, code := range codes {
			require.Equal(t, http.StatusCreated, code)
		}
		require.Equal(t, weeks, dbtest.CountBookings(t, s.DB, s.listingID))
	})
}

func (s *bookingSuite) TestQuote() {
	s.Run("prices without booking", func() {
		t := s.T()
		url := fmt.Sprintf("/api/listings/%s/quote?checkIn=%s&checkOut=%s", s.listingID, s.day(0), s.day(4))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res resdto.QuoteResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, 4, res.Nights)
		require.InDelta(t, 125.0, res.NightlyRate, 0.001)
		require.InDelta(t, 500.0, res.TotalPrice, 0.001)
		require.Zero(t, dbtest.CountBookings(t, s.DB, s.listingID))
	})

	s.Run("reports booked dates as unavailable", func() {
		t := s.T()
		code, body := s.book(s.guest.Token, s.listingID, 1, 3)
		require.Equal(t, http.StatusCreated, code, body)

		url := fmt.Sprintf("/api/listings/%s/quote?checkIn=%s&checkOut=%s", s.listingID, s.day(0), s.day(4))
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, "")
		require.Equal(t, http.StatusConflict, w.Code)
	})
}

func (s *bookingSuite) TestListMine() {
	s.Run("newest first and only the caller's stays", func() {
		t := s.T()
		other := authtest.RegisterUser(t, s.Router, "other", "other@example.com", "password123")

		code, body := s.book(s.guest.Token, s.listingID, 0, 2)
		require.Equal(t, http.StatusCreated, code, body)
		code, body = s.book(s.guest.Token, s.listingID, 5, 7)
		require.Equal(t, http.StatusCreated, code, body)
		code, body = s.book(other.Token, s.listingID, 10, 12)
		require.Equal(t, http.StatusCreated, code, body)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, myBookingsURL, nil, s.guest.Token)
		require.Equal(t, http.StatusOK, w.Code)

		var res []resdto.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Len(t, res, 2)
		for _, b := range res {
			require.Equal(t, s.guest.UserID, b.UserID)
			require.NotNil(t, b.Listing)
			require.Equal(t, "Harbour loft", b.Listing.Title)
		}
	})
}

func (s *bookingSuite) TestOutboxRelay() {
	s.Run("booking events are marked sent by the relay", func() {
		t := s.T()
		code, body := s.book(s.guest.Token, s.listingID, 0, 2)
		require.Equal(t, http.StatusCreated, code, body)

		require.Eventually(t, func() bool {
			var pending int
			if err := s.DB.QueryRow(t.Context(),
				"SELECT count(*) FROM outbox_events WHERE sent_at IS NULL").Scan(&pending); err != nil {
				return false
			}
			return pending == 0
		}, 5*time.Second, 100*time.Millisecond)
	})
}
