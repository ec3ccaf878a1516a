package api

import (
	"net/http"

	"stayfinder/internal/domain/listing"
	reqdto "stayfinder/internal/handler/dto/request"
	resdto "stayfinder/internal/handler/dto/response"
	"stayfinder/internal/handler/httperr"
	"stayfinder/internal/handler/middleware"
	"stayfinder/internal/pkg/errs"
	"stayfinder/internal/usecase/commands"
	"stayfinder/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListingHandler struct {
	cmds commands.ListingCommands
	q    queries.ListingQueries
}

func NewListingHandler(cmds commands.ListingCommands, q queries.ListingQueries) *ListingHandler {
	return &ListingHandler{cmds: cmds, q: q}
}

// @Summary Search listings
// @Description Newest first. Pass nextCursor back as "after" to get the following page.
// @Tags listings
// @Produce json
// @Param search query string false "Title contains (case-insensitive)"
// @Param location query string false "Location contains (case-insensitive)"
// @Param minPrice query number false "Minimum price per night"
// @Param maxPrice query number false "Maximum price per night"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.ListingPageResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/listings [get]
func (h *ListingHandler) Search(c *gin.Context) {
	var req reqdto.SearchListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid query parameters", nil)
		return
	}

	views, next, err := h.q.Search(c.Request.Context(), req.ToFilter(), req.Cursor(), req.Limit)
	if err != nil {
		if target, ok := matchOutcome(err, queries.ErrInvalidCursor, queries.ErrInvalidPriceFilter); ok {
			httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, target.Error(), nil)
			return
		}
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeStorageFailure, err, "Failed to load listings", nil)
		return
	}

	items, err := resdto.FromListingViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	page := resdto.ListingPageResponse{Listings: items}
	if next != nil {
		page.NextCursor = &next.After
	}
	c.JSON(http.StatusOK, page)
}

// @Summary My listings
// @Description List the authenticated host's listings
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ListingResponse
// @Failure 401 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/listings/user/my-listings [get]
func (h *ListingHandler) ListMine(c *gin.Context) {
	hostID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized, nil, "Unauthorized", nil)
		return
	}
	views, err := h.q.ListByHost(c.Request.Context(), hostID)
	if err != nil {
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeStorageFailure, err, "Failed to load listings", nil)
		return
	}
	items, err := resdto.FromListingViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Get listing
// @Description Get a listing by ID
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} resdto.ListingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid listing ID format", nil)
		return
	}
	res, err := h.load(c, id)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Create listing
// @Description Create a listing; up to 5 images in the multipart field "images"
// @Tags listings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param location formData string true "Location"
// @Param price formData number true "Price per night"
// @Param images formData file false "Images (.jpg, .jpeg, .png)"
// @Success 201 {object} resdto.ListingMessageResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	hostID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", nil)
		return
	}
	req.Images = formImages(c)

	id, err := h.cmds.Create(c.Request.Context(), req, hostID)
	if err != nil {
		abortWithListingError(c, err)
		return
	}

	res, err := h.load(c, id)
	if err != nil {
		return
	}
	c.JSON(http.StatusCreated, resdto.ListingMessageResponse{
		Message: "Listing created successfully",
		Listing: res,
	})
}

// @Summary Update listing
// @Description Owner only. Blank fields keep their values; imagesToRemove is a JSON array of image URLs.
// @Tags listings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param location formData string false "Location"
// @Param price formData number false "Price per night"
// @Param imagesToRemove formData string false "JSON array of image URLs to remove"
// @Param images formData file false "Images to add"
// @Success 200 {object} resdto.ListingMessageResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/listings/{id} [put]
func (h *ListingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid listing ID format", nil)
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.UpdateListingRequest
	if bindErr := c.ShouldBind(&req); bindErr != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, bindErr, "Invalid request", nil)
		return
	}
	req.Images = formImages(c)

	if err = h.cmds.Update(c.Request.Context(), id, req, actorID); err != nil {
		abortWithListingError(c, err)
		return
	}

	res, err := h.load(c, id)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, resdto.ListingMessageResponse{
		Message: "Listing updated successfully",
		Listing: res,
	})
}

// @Summary Delete listing
// @Description Owner only. Refused while a booking has not checked out yet.
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 200 {object} resdto.ListingMessageResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid listing ID format", nil)
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized, nil, "Unauthorized", nil)
		return
	}

	if err := h.cmds.Delete(c.Request.Context(), id, actorID); err != nil {
		abortWithListingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.ListingMessageResponse{Message: "Listing deleted successfully"})
}

// load aborts the request itself when it returns an error.
func (h *ListingHandler) load(c *gin.Context, id uuid.UUID) (*resdto.ListingResponse, error) {
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		if errs.Is(err, queries.ErrListingNotFound) {
			httperr.AbortWithCode(c, http.StatusNotFound, httperr.CodeNotFound, err, "Listing not found", nil)
		} else {
			httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeStorageFailure, err, "Failed to load listing", nil)
		}
		return nil, err
	}
	res, err := resdto.FromListingView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return nil, err
	}
	return res, nil
}

func formImages(c *gin.Context) []reqdto.ImageFile {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return reqdto.FromFileHeaders(form.File["images"])
}

func abortWithListingError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrListingNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, httperr.CodeNotFound, err, "Listing not found", nil)
	case errs.Is(err, commands.ErrListingForbidden):
		httperr.AbortWithCode(c, http.StatusForbidden, httperr.CodeForbidden, err, "You can only modify your own listings", nil)
	case errs.Is(err, commands.ErrHasUpcomingBookings):
		httperr.AbortWithCode(c, http.StatusConflict, httperr.CodeConflict, err, "Listing has upcoming bookings and cannot be deleted", nil)
	case errs.Is(err, commands.ErrImageUploadFailed):
		httperr.AbortWithCode(c, http.StatusBadGateway, httperr.CodeStorageFailure, err, "Image upload failed", nil)
	case errs.Is(err, reqdto.ErrInvalidImagesToRemove):
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, reqdto.ErrInvalidImagesToRemove.Error(), nil)
	default:
		if target, ok := matchOutcome(err,
			listing.ErrInvalidPrice,
			listing.ErrInvalidTitle,
			listing.ErrInvalidText,
			listing.ErrTooManyImages,
			commands.ErrInvalidImage,
			commands.ErrTooManyUploads,
		); ok {
			httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, target.Error(), nil)
			return
		}
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeStorageFailure, err, "Internal server error", nil)
	}
}
