//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"stayfinder/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor(t *testing.T) {
	t.Run("round trip keeps microsecond precision", func(t *testing.T) {
		key := queries.PageKey{
			CreatedAt: time.Date(2025, 6, 1, 9, 30, 0, 123456789, time.UTC),
			ID:        uuid.New(),
		}

		decoded, err := queries.DecodeCursor(queries.EncodeCursor(key))

		require.NoError(t, err)
		assert.Equal(t, key.ID, decoded.ID)
		assert.Equal(t, key.CreatedAt.Truncate(time.Microsecond), decoded.CreatedAt)
	})

	t.Run("empty cursor means first page", func(t *testing.T) {
		for _, c := range []*queries.Cursor{nil, {}} {
			key, err := queries.DecodeCursor(c)
			assert.NoError(t, err)
			assert.Nil(t, key)
		}
	})

	t.Run("error: malformed cursors", func(t *testing.T) {
		encode := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }
		tests := []struct {
			name  string
			after string
		}{
			{name: "not base64", after: "%%%"},
			{name: "unknown version", after: encode("v2:1717234200000000-" + uuid.NewString())},
			{name: "missing separator", after: encode("v1:1717234200000000")},
			{name: "timestamp not a number", after: encode("v1:yesterday-" + uuid.NewString())},
			{name: "bad id", after: encode("v1:1717234200000000-not-a-uuid")},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := queries.DecodeCursor(&queries.Cursor{After: tt.after})
				assert.ErrorIs(t, err, queries.ErrInvalidCursor)
			})
		}
	})
}

func TestValidateLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{in: -1, want: queries.DefaultListLimit},
		{in: 0, want: queries.DefaultListLimit},
		{in: 1, want: 1},
		{in: queries.MaxListLimit, want: queries.MaxListLimit},
		{in: queries.MaxListLimit + 1, want: queries.MaxListLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, queries.ValidateLimit(tt.in), "limit %d", tt.in)
	}
}
