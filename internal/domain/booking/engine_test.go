//go:build unit

package booking_test

import (
	"testing"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/listing"
	"stayfinder/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := booking.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEvaluate(t *testing.T) {
	l := builder.NewListingBuilder().WithPriceCents(10000).MustBuildDomain()

	existingFor := func(in, out string) *booking.Booking {
		return builder.NewBookingBuilder().WithListing(l.ID()).WithDates(in, out).MustBuildDomain()
	}

	t.Run("prices an open range as nights times nightly rate", func(t *testing.T) {
		stay, quote, err := booking.Evaluate(l, day("2025-07-10"), day("2025-07-13"), nil)
		require.NoError(t, err)

		assert.Equal(t, 3, stay.Nights())
		assert.Equal(t, 3, quote.Nights)
		assert.Equal(t, int64(10000), quote.NightlyRateCents)
		assert.Equal(t, int64(30000), quote.TotalCents)
	})

	t.Run("single night", func(t *testing.T) {
		_, quote, err := booking.Evaluate(l, day("2025-07-10"), day("2025-07-11"), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), quote.TotalCents)
	})

	t.Run("range errors", func(t *testing.T) {
		cases := []struct {
			name     string
			in, out  string
			expected error
		}{
			{name: "same day", in: "2025-07-10", out: "2025-07-10", expected: booking.ErrInvalidRange},
			{name: "reversed", in: "2025-07-12", out: "2025-07-10", expected: booking.ErrInvalidRange},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, _, err := booking.Evaluate(l, day(tc.in), day(tc.out), nil)
				assert.ErrorIs(t, err, tc.expected)
			})
		}
	})

	t.Run("missing or deleted listing", func(t *testing.T) {
		_, _, err := booking.Evaluate(nil, day("2025-07-10"), day("2025-07-12"), nil)
		assert.ErrorIs(t, err, booking.ErrListingNotFound)

		deleted := builder.NewListingBuilder().MustBuildDomain()
		deleted.MarkDeleted(time.Now())
		_, _, err = booking.Evaluate(deleted, day("2025-07-10"), day("2025-07-12"), nil)
		assert.ErrorIs(t, err, booking.ErrListingNotFound)
	})

	t.Run("not found wins over an invalid range", func(t *testing.T) {
		_, _, err := booking.Evaluate(nil, day("2025-07-12"), day("2025-07-10"), nil)
		assert.ErrorIs(t, err, booking.ErrListingNotFound)
	})

	t.Run("overlap against an existing 10th-13th stay", func(t *testing.T) {
		existing := []*booking.Booking{existingFor("2025-07-10", "2025-07-13")}

		cases := []struct {
			name        string
			in, out     string
			unavailable bool
		}{
			{name: "identical", in: "2025-07-10", out: "2025-07-13", unavailable: true},
			{name: "starts inside", in: "2025-07-12", out: "2025-07-15", unavailable: true},
			{name: "ends inside", in: "2025-07-08", out: "2025-07-11", unavailable: true},
			{name: "encloses", in: "2025-07-09", out: "2025-07-14", unavailable: true},
			{name: "enclosed", in: "2025-07-11", out: "2025-07-12", unavailable: true},
			{name: "checks in on check-out day", in: "2025-07-13", out: "2025-07-15"},
			{name: "checks out on check-in day", in: "2025-07-07", out: "2025-07-10"},
			{name: "well before", in: "2025-07-01", out: "2025-07-03"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, _, err := booking.Evaluate(l, day(tc.in), day(tc.out), existing)
				if tc.unavailable {
					assert.ErrorIs(t, err, booking.ErrUnavailable)
					return
				}
				assert.NoError(t, err)
			})
		}
	})

	t.Run("invalid range reported before availability", func(t *testing.T) {
		existing := []*booking.Booking{existingFor("2025-07-10", "2025-07-13")}
		_, _, err := booking.Evaluate(l, day("2025-07-12"), day("2025-07-11"), existing)
		assert.ErrorIs(t, err, booking.ErrInvalidRange)
	})

	t.Run("bookings of other listings are ignored", func(t *testing.T) {
		other := builder.NewBookingBuilder().WithListing(uuid.New()).WithDates("2025-07-10", "2025-07-13").MustBuildDomain()
		_, _, err := booking.Evaluate(l, day("2025-07-10"), day("2025-07-13"), []*booking.Booking{other})
		assert.NoError(t, err)
	})

	t.Run("total is capped", func(t *testing.T) {
		priciest := builder.NewListingBuilder().WithPriceCents(listing.MaxPriceCents).MustBuildDomain()

		_, quote, err := booking.Evaluate(priciest, day("2025-01-01"), day("2027-09-28"), nil)
		require.NoError(t, err)
		assert.Equal(t, 1000, quote.Nights)
		assert.Equal(t, booking.MaxTotalCents, quote.TotalCents)

		_, _, err = booking.Evaluate(priciest, day("2025-01-01"), day("2027-09-29"), nil)
		assert.ErrorIs(t, err, booking.ErrTotalTooLarge)

		_, _, err = booking.Evaluate(priciest, day("2025-01-01"), day("2400-01-01"), nil)
		assert.ErrorIs(t, err, booking.ErrTotalTooLarge)
	})

	t.Run("total follows the listing price", func(t *testing.T) {
		half, err := listing.NewPriceFromDecimal(0.5)
		require.NoError(t, err)
		cheap, err := listing.NewListing(uuid.New(), listing.Details{Title: "Tent", Description: "Field", Location: "Wales"}, half, nil, time.Now())
		require.NoError(t, err)

		_, quote, err := booking.Evaluate(cheap, day("2025-07-10"), day("2025-07-14"), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(200), quote.TotalCents)
	})
}

func TestHasUpcoming(t *testing.T) {
	listingID := uuid.New()
	past := builder.NewBookingBuilder().WithListing(listingID).WithDates("2025-05-01", "2025-05-04").MustBuildDomain()
	endsToday := builder.NewBookingBuilder().WithListing(listingID).WithDates("2025-05-28", "2025-06-01").MustBuildDomain()
	running := builder.NewBookingBuilder().WithListing(listingID).WithDates("2025-05-30", "2025-06-03").MustBuildDomain()
	future := builder.NewBookingBuilder().WithListing(listingID).WithDates("2025-07-01", "2025-07-03").MustBuildDomain()

	today := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)

	assert.False(t, booking.HasUpcoming(nil, today))
	assert.False(t, booking.HasUpcoming([]*booking.Booking{past, endsToday}, today))
	assert.True(t, booking.HasUpcoming([]*booking.Booking{past, running}, today))
	assert.True(t, booking.HasUpcoming([]*booking.Booking{future}, today))
}
