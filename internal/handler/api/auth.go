package api

import (
	"net/http"

	"stayfinder/internal/domain/user"
	reqdto "stayfinder/internal/handler/dto/request"
	resdto "stayfinder/internal/handler/dto/response"
	"stayfinder/internal/handler/httperr"
	"stayfinder/internal/handler/middleware"
	"stayfinder/internal/pkg/config"
	"stayfinder/internal/pkg/cookie"
	"stayfinder/internal/pkg/errs"
	"stayfinder/internal/usecase/commands"
	"stayfinder/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	cmds      commands.AuthCommands
	q         queries.UserQueries
	cookieCfg config.CookieConfig
}

func NewAuthHandler(cmds commands.AuthCommands, q queries.UserQueries, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		cmds:      cmds,
		q:         q,
		cookieCfg: cfg.Cookie,
	}
}

// @Summary Register
// @Description Create an account and receive an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Register request"
// @Success 201 {object} resdto.AuthResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Register(c.Request.Context(), req)
	if err != nil {
		h.abortWithAuthError(c, err)
		return
	}

	cookie.SetTokenCookie(c, h.cookieCfg, result.AccessToken, result.TTL)
	c.JSON(http.StatusCreated, resdto.FromAuthResult(result, "User registered successfully"))
}

// @Summary Login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.AuthResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req)
	if err != nil {
		h.abortWithAuthError(c, err)
		return
	}

	cookie.SetTokenCookie(c, h.cookieCfg, result.AccessToken, result.TTL)
	c.JSON(http.StatusOK, resdto.FromAuthResult(result, ""))
}

// @Summary Get profile
// @Description Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.UserResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized, nil, "Unauthorized", nil)
		return
	}

	res, err := h.loadProfile(c, userID)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Update profile
// @Description Update username, email or profile image (multipart field "image")
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param username formData string false "Username"
// @Param email formData string false "Email"
// @Param image formData file false "Profile image (.jpg, .jpeg, .png)"
// @Success 200 {object} resdto.ProfileUpdatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", nil)
		return
	}
	if fh, err := c.FormFile("image"); err == nil {
		img := reqdto.FromFileHeader(fh)
		req.Image = &img
	}

	if err := h.cmds.UpdateProfile(c.Request.Context(), userID, req); err != nil {
		h.abortWithAuthError(c, err)
		return
	}

	res, err := h.loadProfile(c, userID)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, resdto.ProfileUpdatedResponse{
		Message: "Profile updated successfully",
		User:    res,
	})
}

// loadProfile aborts the request itself when it returns an error.
func (h *AuthHandler) loadProfile(c *gin.Context, userID uuid.UUID) (*resdto.UserResponse, error) {
	view, err := h.q.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errs.Is(err, queries.ErrUserNotFound) {
			httperr.AbortWithCode(c, http.StatusNotFound, httperr.CodeNotFound, err, "User not found", nil)
		} else {
			httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeStorageFailure, err, "Internal server error", nil)
		}
		return nil, err
	}
	res, err := resdto.FromUserView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return nil, err
	}
	return res, nil
}

func (h *AuthHandler) abortWithAuthError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrEmailTaken):
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeConflict, err, "User already exists", nil)
	case errs.Is(err, commands.ErrInvalidCredentials):
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeUnauthorized, err, "Invalid credentials", nil)
	case errs.Is(err, commands.ErrUserNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, httperr.CodeNotFound, err, "User not found", nil)
	default:
		if target, ok := matchOutcome(err,
			user.ErrInvalidEmail,
			user.ErrInvalidUsername,
			user.ErrPasswordTooWeak,
			commands.ErrInvalidImage,
		); ok {
			httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, target.Error(), nil)
			return
		}
		if errs.Is(err, commands.ErrImageUploadFailed) {
			httperr.AbortWithCode(c, http.StatusBadGateway, httperr.CodeStorageFailure, err, "Image upload failed", nil)
			return
		}
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeStorageFailure, err, "Internal server error", nil)
	}
}
