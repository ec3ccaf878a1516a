//go:build unit || e2e

package builder

import (
	"strconv"
	"time"

	"stayfinder/internal/domain/listing"
	reqdto "stayfinder/internal/handler/dto/request"
	"stayfinder/internal/usecase/queries"

	"github.com/google/uuid"
)

type ListingBuilder struct {
	HostID      uuid.UUID
	Title       string
	Description string
	Location    string
	PriceCents  int64
	Images      []string
	Now         time.Time
}

func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		HostID:      uuid.New(),
		Title:       "Seaside cottage",
		Description: "Two bedrooms, five minutes from the beach",
		Location:    "Brighton",
		PriceCents:  10000,
		Now:         time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (l *ListingBuilder) With(mutate func(*ListingBuilder)) *ListingBuilder {
	mutate(l)
	return l
}

// Build methods
func (l *ListingBuilder) BuildDomain() (*listing.Listing, error) {
	price, err := listing.NewPrice(l.PriceCents)
	if err != nil {
		return nil, err
	}
	return listing.NewListing(l.HostID, l.details(), price, l.Images, l.Now)
}

// MustBuildDomain is for fixtures whose values are known to be valid.
func (l *ListingBuilder) MustBuildDomain() *listing.Listing {
	built, err := l.BuildDomain()
	if err != nil {
		panic(err)
	}
	return built
}

func (l *ListingBuilder) BuildCreateRequestDTO() reqdto.CreateListingRequest {
	return reqdto.CreateListingRequest{
		Title:       l.Title,
		Description: l.Description,
		Location:    l.Location,
		Price:       strconv.FormatFloat(float64(l.PriceCents)/100, 'f', 2, 64),
	}
}

func (l *ListingBuilder) BuildView() *queries.ListingView {
	return &queries.ListingView{
		ID:          uuid.New(),
		HostID:      l.HostID,
		HostName:    "host",
		Title:       l.Title,
		Description: l.Description,
		Location:    l.Location,
		PriceCents:  l.PriceCents,
		Images:      l.Images,
		CreatedAt:   l.Now,
		UpdatedAt:   l.Now,
	}
}

func (l *ListingBuilder) details() listing.Details {
	return listing.Details{
		Title:       l.Title,
		Description: l.Description,
		Location:    l.Location,
	}
}

// Fluent builder methods
func (l *ListingBuilder) WithHost(hostID uuid.UUID) *ListingBuilder {
	l.HostID = hostID
	return l
}

func (l *ListingBuilder) WithTitle(title string) *ListingBuilder {
	l.Title = title
	return l
}

func (l *ListingBuilder) WithLocation(location string) *ListingBuilder {
	l.Location = location
	return l
}

func (l *ListingBuilder) WithPriceCents(cents int64) *ListingBuilder {
	l.PriceCents = cents
	return l
}

func (l *ListingBuilder) WithImages(images ...string) *ListingBuilder {
	l.Images = images
	return l
}

func (l *ListingBuilder) WithNow(now time.Time) *ListingBuilder {
	l.Now = now
	return l
}
