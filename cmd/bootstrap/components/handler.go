package components

import (
	"stayfinder/internal/handler"
	"stayfinder/internal/handler/api"
	"stayfinder/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewListingHandler,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
		func(auth *api.AuthHandler, listing *api.ListingHandler, booking *api.BookingHandler) handler.Handlers {
			return handler.Handlers{Auth: auth, Listing: listing, Booking: booking}
		},
	),
	fx.Invoke(handler.NewRouter),
)
