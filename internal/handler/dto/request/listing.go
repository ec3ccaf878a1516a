package request

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"stayfinder/internal/domain/listing"
	"stayfinder/internal/pkg/patch"
	"stayfinder/internal/usecase/queries"
)

var ErrInvalidImagesToRemove = errors.New("imagesToRemove must be a JSON array of image URLs")

type CreateListingRequest struct {
	Title       string      `form:"title" binding:"required"`
	Description string      `form:"description" binding:"required"`
	Location    string      `form:"location" binding:"required"`
	Price       string      `form:"price" binding:"required"`
	Images      []ImageFile `form:"-"`
}

func (r *CreateListingRequest) ToDomain() (listing.Details, listing.Price, error) {
	price, err := listing.ParsePrice(r.Price)
	if err != nil {
		return listing.Details{}, listing.Price{}, err
	}
	details := listing.Details{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
	}
	return details, price, nil
}

// Blank fields keep the listing's current values.
type UpdateListingRequest struct {
	Title          *string     `form:"title"`
	Description    *string     `form:"description"`
	Location       *string     `form:"location"`
	Price          *string     `form:"price"`
	ImagesToRemove string      `form:"imagesToRemove"`
	Images         []ImageFile `form:"-"`
}

func (r *UpdateListingRequest) RemovedImages() ([]string, error) {
	raw := strings.TrimSpace(r.ImagesToRemove)
	if raw == "" {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, ErrInvalidImagesToRemove
	}
	return urls, nil
}

func (r *UpdateListingRequest) MergeInto(current *listing.Listing) (listing.Details, listing.Price, error) {
	details := listing.Details{
		Title:       patch.NonBlank(r.Title, current.Title()),
		Description: patch.NonBlank(r.Description, current.Description()),
		Location:    patch.NonBlank(r.Location, current.Location()),
	}
	if r.Price == nil || strings.TrimSpace(*r.Price) == "" {
		return details, current.Price(), nil
	}
	price, err := listing.ParsePrice(*r.Price)
	if err != nil {
		return listing.Details{}, listing.Price{}, err
	}
	return details, price, nil
}

type SearchListingsRequest struct {
	Search   string   `form:"search"`
	Location string   `form:"location"`
	MinPrice *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	Limit    int      `form:"limit" binding:"omitempty,min=1,max=100"`
	After    string   `form:"after"`
}

func (r *SearchListingsRequest) ToFilter() queries.SearchFilter {
	return queries.SearchFilter{
		Search:        strings.TrimSpace(r.Search),
		Location:      strings.TrimSpace(r.Location),
		MinPriceCents: toCents(r.MinPrice),
		MaxPriceCents: toCents(r.MaxPrice),
	}
}

func (r *SearchListingsRequest) Cursor() *queries.Cursor {
	if r.After == "" {
		return nil
	}
	return &queries.Cursor{After: r.After}
}

func toCents(amount *float64) *int64 {
	if amount == nil {
		return nil
	}
	cents := int64(math.Round(*amount * 100))
	return &cents
}
