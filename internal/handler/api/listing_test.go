//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"stayfinder/internal/domain/listing"
	"stayfinder/internal/handler/api"
	reqdto "stayfinder/internal/handler/dto/request"
	resdto "stayfinder/internal/handler/dto/response"
	"stayfinder/internal/handler/httperr"
	"stayfinder/internal/pkg/errs"
	"stayfinder/internal/usecase/commands"
	"stayfinder/internal/usecase/queries"
	"stayfinder/tests/common/builder"
	"stayfinder/tests/common/httptest"
	commandsmock "stayfinder/tests/mock/commands"
	queriesmock "stayfinder/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ListingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockListingCommands
	mockQueries  *queriesmock.MockListingQueries
	userID       uuid.UUID
}

func (s *ListingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.userID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockListingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockListingQueries(s.mockCtrl)
	handler := api.NewListingHandler(s.mockCommands, s.mockQueries)

	auth := fakeAuth(s.userID)
	s.router.GET("/listings", handler.Search)
	s.router.GET("/listings/user/my-listings", auth, handler.ListMine)
	s.router.GET("/listings/:id", handler.Get)
	s.router.POST("/listings", auth, handler.Create)
	s.router.PUT("/listings/:id", auth, handler.Update)
	s.router.DELETE("/listings/:id", auth, handler.Delete)
}

func (s *ListingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestListingHandlerSuite(t *testing.T) {
	suite.Run(t, new(ListingHandlerTestSuite))
}

func listingFields() map[string]string {
	return map[string]string{
		"title":       "Seaside cottage",
		"description": "Two bedrooms, five minutes from the beach",
		"location":    "Brighton",
		"price":       "100",
	}
}

func (s *ListingHandlerTestSuite) TestSearch() {
	s.Run("success: passes filters and returns the next cursor", func() {
		views := []*queries.ListingView{builder.NewListingBuilder().BuildView(), builder.NewListingBuilder().WithPriceCents(9999).BuildView()}
		minCents := int64(5000)
		filter := queries.SearchFilter{Location: "brighton", MinPriceCents: &minCents}
		next := &queries.Cursor{After: "next-page"}
		s.mockQueries.EXPECT().Search(gomock.Any(), filter, &queries.Cursor{After: "prev"}, 2).Return(views, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings?location=%20brighton%20&minPrice=50&limit=2&after=prev", nil, "")

		var response resdto.ListingPageResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response.Listings, 2)
		s.InDelta(99.99, response.Listings[1].Price, 1e-9)
		s.Equal(int64(9999), response.Listings[1].PriceCents)
		s.Require().NotNil(response.NextCursor)
		s.Equal("next-page", *response.NextCursor)
	})

	s.Run("success: last page has no cursor", func() {
		s.mockQueries.EXPECT().Search(gomock.Any(), queries.SearchFilter{}, nil, 0).Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings", nil, "")

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"listings":[],"nextCursor":null}`, rec.Body.String())
	})

	s.Run("error: 400 on bad query", func() {
		for _, path := range []string{"/listings?minPrice=-1", "/listings?limit=101", "/listings?maxPrice=cheap"} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, path, nil, "")
			httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeInvalidRequest)
		}
	})

	s.Run("error: 400 for rejected cursor and price range", func() {
		for _, err := range []error{queries.ErrInvalidCursor, queries.ErrInvalidPriceFilter} {
			s.mockQueries.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil, err).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings", nil, "")

			httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeInvalidRequest)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, err.Error())
		}
	})
}

func (s *ListingHandlerTestSuite) TestGet() {
	view := builder.NewListingBuilder().WithImages("https://cdn.test/a.jpg").BuildView()

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings/"+view.ID.String(), nil, "")

		var response resdto.ListingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.ID, response.ID)
		s.Equal(view.HostName, response.HostName)
		s.Equal([]string{"https://cdn.test/a.jpg"}, response.Images)
		s.InDelta(100.0, response.Price, 1e-9)
	})

	s.Run("error: 400 for a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings/123", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid listing ID format")
	})

	s.Run("error: 404 for an unknown id", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(nil, queries.ErrListingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings/"+view.ID.String(), nil, "")

		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound)
	})
}

func (s *ListingHandlerTestSuite) TestCreate() {
	url := "/listings"

	s.Run("success: 201 with uploaded images handed to the command", func() {
		view := builder.NewListingBuilder().WithHost(s.userID).BuildView()
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.userID).
			DoAndReturn(func(_ any, req reqdto.CreateListingRequest, _ uuid.UUID) (uuid.UUID, error) {
				s.Equal("Seaside cottage", req.Title)
				s.Equal("100", req.Price)
				s.Require().Len(req.Images, 1)
				s.Equal("front.jpg", req.Images[0].Filename)
				s.Equal("image/jpeg", req.Images[0].ContentType)
				s.Equal(int64(4), req.Images[0].Size)
				return view.ID, nil
			}).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformMultipartRequest(s.T(), s.router, http.MethodPost, url, listingFields(),
			[]httptest.File{{Field: "images", Filename: "front.jpg", ContentType: "image/jpeg", Content: []byte("jpeg")}}, testToken)

		var response resdto.ListingMessageResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("Listing created successfully", response.Message)
		s.Require().NotNil(response.Listing)
		s.Equal(view.ID, response.Listing.ID)
	})

	s.Run("error: 400 when a required field is missing", func() {
		for _, field := range []string{"title", "description", "location", "price"} {
			fields := listingFields()
			delete(fields, field)

			rec := httptest.PerformMultipartRequest(s.T(), s.router, http.MethodPost, url, fields, nil, testToken)

			httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeInvalidRequest)
		}
	})

	s.Run("error: maps command outcomes", func() {
		tests := []struct {
			name    string
			err     error
			status  int
			message string
		}{
			{name: "invalid price", err: listing.ErrInvalidPrice, status: http.StatusBadRequest, message: listing.ErrInvalidPrice.Error()},
			{name: "invalid image", err: commands.ErrInvalidImage, status: http.StatusBadRequest, message: commands.ErrInvalidImage.Error()},
			{name: "too many uploads", err: commands.ErrTooManyUploads, status: http.StatusBadRequest, message: commands.ErrTooManyUploads.Error()},
			{name: "upload failed", err: errs.Mark(errors.New("s3: 503"), commands.ErrImageUploadFailed), status: http.StatusBadGateway, message: "Image upload failed"},
			{name: "storage failure", err: errs.Mark(errors.New("db down"), commands.ErrStorageFailure), status: http.StatusInternalServerError, message: "Internal server error"},
		}
		for _, tc := range tests {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.userID).Return(uuid.Nil, tc.err).Times(1)

				rec := httptest.PerformMultipartRequest(s.T(), s.router, http.MethodPost, url, listingFields(), nil, testToken)

				httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.message)
			})
		}
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformMultipartRequest(s.T(), s.router, http.MethodPost, url, listingFields(), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})
}

func (s *ListingHandlerTestSuite) TestUpdate() {
	id := uuid.New()
	url := "/listings/" + id.String()

	s.Run("success: only sent fields are set", func() {
		view := builder.NewListingBuilder().WithTitle("Renovated cottage").BuildView()
		view.ID = id
		s.mockCommands.EXPECT().Update(gomock.Any(), id, gomock.Any(), s.userID).
			DoAndReturn(func(_ any, _ uuid.UUID, req reqdto.UpdateListingRequest, _ uuid.UUID) error {
				s.Require().NotNil(req.Title)
				s.Equal("Renovated cottage", *req.Title)
				s.Nil(req.Price)
				s.Equal(`["https://cdn.test/a.jpg"]`, req.ImagesToRemove)
				s.Empty(req.Images)
				return nil
			}).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).Return(view, nil).Times(1)

		rec := httptest.PerformMultipartRequest(s.T(), s.router, http.MethodPut, url, map[string]string{
			"title":          "Renovated cottage",
			"imagesToRemove": `["https://cdn.test/a.jpg"]`,
		}, nil, testToken)

		var response resdto.ListingMessageResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("Listing updated successfully", response.Message)
		s.Equal("Renovated cottage", response.Listing.Title)
	})

	s.Run("error: maps command outcomes", func() {
		tests := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{name: "not found", err: commands.ErrListingNotFound, status: http.StatusNotFound, code: httperr.CodeNotFound},
			{name: "not the owner", err: errs.Mark(listing.ErrNotOwnedByActor, commands.ErrListingForbidden), status: http.StatusForbidden, code: httperr.CodeForbidden},
			{name: "bad imagesToRemove", err: reqdto.ErrInvalidImagesToRemove, status: http.StatusBadRequest, code: httperr.CodeInvalidRequest},
			{name: "too many images", err: listing.ErrTooManyImages, status: http.StatusBadRequest, code: httperr.CodeInvalidRequest},
		}
		for _, tc := range tests {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Update(gomock.Any(), id, gomock.Any(), s.userID).Return(tc.err).Times(1)

				rec := httptest.PerformMultipartRequest(s.T(), s.router, http.MethodPut, url, map[string]string{"title": "x"}, nil, testToken)

				httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
			})
		}
	})
}

func (s *ListingHandlerTestSuite) TestDelete() {
	id := uuid.New()
	url := "/listings/" + id.String()

	s.Run("success", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), id, s.userID).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, testToken)

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"message":"Listing deleted successfully"}`, rec.Body.String())
	})

	s.Run("error: maps command outcomes", func() {
		tests := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{name: "upcoming bookings", err: commands.ErrHasUpcomingBookings, status: http.StatusConflict, code: httperr.CodeConflict},
			{name: "not the owner", err: errs.Mark(listing.ErrNotOwnedByActor, commands.ErrListingForbidden), status: http.StatusForbidden, code: httperr.CodeForbidden},
			{name: "not found", err: commands.ErrListingNotFound, status: http.StatusNotFound, code: httperr.CodeNotFound},
		}
		for _, tc := range tests {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Delete(gomock.Any(), id, s.userID).Return(tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, testToken)

				httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
			})
		}
	})
}

func (s *ListingHandlerTestSuite) TestListMine() {
	s.Run("success", func() {
		views := []*queries.ListingView{builder.NewListingBuilder().WithHost(s.userID).BuildView()}
		s.mockQueries.EXPECT().ListByHost(gomock.Any(), s.userID).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings/user/my-listings", nil, testToken)

		var response []resdto.ListingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 1)
		s.Equal(s.userID, response[0].HostID)
	})
}
