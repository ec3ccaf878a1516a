package response

import (
	"time"

	"stayfinder/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ListingResponse struct {
	ID          uuid.UUID `json:"id"`
	HostID      uuid.UUID `json:"hostId"`
	HostName    string    `json:"hostName,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	PriceCents  int64     `json:"priceCents"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func FromListingView(v *queries.ListingView) (*ListingResponse, error) {
	var res ListingResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	res.Price = centsToUnits(v.PriceCents)
	if res.Images == nil {
		res.Images = []string{}
	}
	return &res, nil
}

func FromListingViews(views []*queries.ListingView) ([]*ListingResponse, error) {
	res := make([]*ListingResponse, 0, len(views))
	for _, v := range views {
		item, err := FromListingView(v)
		if err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	return res, nil
}

type ListingPageResponse struct {
	Listings   []*ListingResponse `json:"listings"`
	NextCursor *string            `json:"nextCursor"`
}

type ListingMessageResponse struct {
	Message string           `json:"message"`
	Listing *ListingResponse `json:"listing,omitempty"`
}

func centsToUnits(cents int64) float64 {
	return float64(cents) / 100
}
