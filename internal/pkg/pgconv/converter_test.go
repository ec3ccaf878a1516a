//go:build unit

package pgconv_test

import (
	"testing"
	"time"

	"stayfinder/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestDateRoundTrip(t *testing.T) {
	in := time.Date(2025, 7, 1, 23, 59, 0, 0, time.UTC)

	d := pgconv.DateToPgtype(in)
	assert.True(t, d.Valid)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), pgconv.DateFromPgtype(d))
}

func TestNullableConversions(t *testing.T) {
	assert.Nil(t, pgconv.StringPtrFromPgtype(pgtype.Text{}))
	assert.False(t, pgconv.StringPtrToPgtype(nil).Valid)
	assert.Nil(t, pgconv.TimePtrFromPgtype(pgtype.Timestamptz{}))

	s := "https://cdn.example.com/a.png"
	assert.Equal(t, &s, pgconv.StringPtrFromPgtype(pgconv.StringPtrToPgtype(&s)))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.False(t, pgconv.IsNoRows(assert.AnError))
}
