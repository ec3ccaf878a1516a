package response

import (
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/usecase/commands"
	"stayfinder/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingListingResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Price    float64   `json:"price"`
	Images   []string  `json:"images"`
	Deleted  bool      `json:"deleted,omitempty"`
}

type BookingResponse struct {
	ID           uuid.UUID               `json:"id"`
	ListingID    uuid.UUID               `json:"listingId"`
	UserID       uuid.UUID               `json:"userId"`
	CheckInDate  string                  `json:"checkInDate"`
	CheckOutDate string                  `json:"checkOutDate"`
	Nights       int                     `json:"nights"`
	TotalPrice   float64                 `json:"totalPrice"`
	CreatedAt    time.Time               `json:"createdAt"`
	Listing      *BookingListingResponse `json:"listing,omitempty"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	res := &BookingResponse{
		ID:           v.ID,
		ListingID:    v.ListingID,
		UserID:       v.GuestID,
		CheckInDate:  v.CheckIn.Format(booking.DateLayout),
		CheckOutDate: v.CheckOut.Format(booking.DateLayout),
		Nights:       v.Nights,
		TotalPrice:   centsToUnits(v.TotalCents),
		CreatedAt:    v.CreatedAt,
	}
	if l := v.Listing; l != nil {
		images := l.Images
		if images == nil {
			images = []string{}
		}
		res.Listing = &BookingListingResponse{
			ID:       l.ID,
			Title:    l.Title,
			Location: l.Location,
			Price:    centsToUnits(l.PriceCents),
			Images:   images,
			Deleted:  l.Deleted,
		}
	}
	return res
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	res := make([]*BookingResponse, len(views))
	for i, v := range views {
		res[i] = FromBookingView(v)
	}
	return res
}

type BookingCreatedResponse struct {
	Message string           `json:"message"`
	Booking *BookingResponse `json:"booking"`
}

type QuoteResponse struct {
	ListingID    uuid.UUID `json:"listingId"`
	CheckInDate  string    `json:"checkInDate"`
	CheckOutDate string    `json:"checkOutDate"`
	Nights       int       `json:"nights"`
	NightlyRate  float64   `json:"nightlyRate"`
	TotalPrice   float64   `json:"totalPrice"`
}

func FromQuoteResult(q *commands.QuoteResult) *QuoteResponse {
	return &QuoteResponse{
		ListingID:    q.ListingID,
		CheckInDate:  q.CheckIn.Format(booking.DateLayout),
		CheckOutDate: q.CheckOut.Format(booking.DateLayout),
		Nights:       q.Nights,
		NightlyRate:  centsToUnits(q.NightlyRateCents),
		TotalPrice:   centsToUnits(q.TotalCents),
	}
}
