//go:build unit

package queries_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"stayfinder/internal/infra"
	"stayfinder/internal/pkg/errs"
	"stayfinder/internal/usecase/queries"
	"stayfinder/tests/common/builder"
	queriesmock "stayfinder/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func views(n int) []*queries.ListingView {
	out := make([]*queries.ListingView, n)
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = builder.NewListingBuilder().WithNow(base.Add(-time.Duration(i) * time.Minute)).BuildView()
	}
	return out
}

func TestListingSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("full page returns a cursor at its last row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockListingReadStore(ctrl)
		rows := views(3)
		store.EXPECT().Search(gomock.Any(), queries.SearchFilter{}, nil, 3).Return(rows, nil)

		page, next, err := queries.NewListingQueries(store).Search(ctx, queries.SearchFilter{}, nil, 2)

		require.NoError(t, err)
		assert.Len(t, page, 2)
		require.NotNil(t, next)
		key, err := queries.DecodeCursor(next)
		require.NoError(t, err)
		assert.Equal(t, rows[1].ID, key.ID)
		assert.True(t, rows[1].CreatedAt.Equal(key.CreatedAt))
	})

	t.Run("last page has no cursor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockListingReadStore(ctrl)
		after := queries.EncodeCursor(queries.PageKey{CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), ID: uuid.New()})
		key, _ := queries.DecodeCursor(after)
		store.EXPECT().Search(gomock.Any(), gomock.Any(), key, queries.DefaultListLimit+1).Return(views(1), nil)

		page, next, err := queries.NewListingQueries(store).Search(ctx, queries.SearchFilter{Location: "brighton"}, after, 0)

		require.NoError(t, err)
		assert.Len(t, page, 1)
		assert.Nil(t, next)
	})

	t.Run("error: rejected before reaching the store", func(t *testing.T) {
		low, high := int64(5000), int64(1000)
		tests := []struct {
			name     string
			filter   queries.SearchFilter
			after    *queries.Cursor
			expected error
		}{
			{name: "min above max", filter: queries.SearchFilter{MinPriceCents: &low, MaxPriceCents: &high}, expected: queries.ErrInvalidPriceFilter},
			{name: "bad cursor", after: &queries.Cursor{After: "garbage"}, expected: queries.ErrInvalidCursor},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				store := queriesmock.NewMockListingReadStore(ctrl)

				_, _, err := queries.NewListingQueries(store).Search(ctx, tt.filter, tt.after, 10)

				assert.ErrorIs(t, err, tt.expected)
			})
		}
	})

	t.Run("error: store failure is marked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockListingReadStore(ctrl)
		store.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		_, _, err := queries.NewListingQueries(store).Search(ctx, queries.SearchFilter{}, nil, 10)

		assert.True(t, errs.Is(err, queries.ErrListingQueryFailed))
	})
}

func TestListingGetByID(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	view := builder.NewListingBuilder().BuildView()

	tests := []struct {
		name     string
		storeErr error
		expected error
	}{
		{name: "found"},
		{name: "not found", storeErr: infra.WrapRepoErr(logger, infra.KindNotFound, "listing not found", nil), expected: queries.ErrListingNotFound},
		{name: "db failure", storeErr: infra.WrapRepoErr(logger, infra.KindDBFailure, "query failed", errors.New("boom")), expected: queries.ErrListingQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockListingReadStore(ctrl)
			if tt.storeErr != nil {
				store.EXPECT().FindByID(gomock.Any(), view.ID).Return(nil, tt.storeErr)
			} else {
				store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)
			}

			got, err := queries.NewListingQueries(store).GetByID(context.Background(), view.ID)

			if tt.expected != nil {
				assert.True(t, errs.Is(err, tt.expected), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view, got)
		})
	}
}
