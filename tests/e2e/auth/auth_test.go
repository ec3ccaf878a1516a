//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"stayfinder/internal/handler/dto/request"
	resdto "stayfinder/internal/handler/dto/response"
	"stayfinder/tests/common/authtest"
	"stayfinder/tests/common/dbtest"
	"stayfinder/tests/common/httptest"
	"stayfinder/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	profileURL  = "/api/auth/profile"
)

type authSuite struct {
	e2e.SharedSuite
	jwtHelper *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	dbtest.CreateTestUser(s.T(), s.DB, "host", "host@example.com")
}

func (s *authSuite) TestRegister() {
	tests := []struct {
		name           string
		req            request.RegisterRequest
		expectedStatus int
		description    string
	}{
		{
			name:           "new account",
			req:            request.RegisterRequest{Username: "guest", Email: "Guest@Example.com", Password: "password123"},
			expectedStatus: http.StatusCreated,
			description:    "a new email can register",
		},
		{
			name:           "email already taken",
			req:            request.RegisterRequest{Username: "other", Email: "HOST@example.com", Password: "password123"},
			expectedStatus: http.StatusBadRequest,
			description:    "emails are unique regardless of case",
		},
		{
			name:           "short password",
			req:            request.RegisterRequest{Username: "guest", Email: "guest@example.com", Password: "short"},
			expectedStatus: http.StatusBadRequest,
			description:    "passwords under 8 characters are rejected",
		},
		{
			name:           "invalid email",
			req:            request.RegisterRequest{Username: "guest", Email: "not-an-email", Password: "password123"},
			expectedStatus: http.StatusBadRequest,
			description:    "malformed emails are rejected",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, tt.req, "")
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)

			if tt.expectedStatus == http.StatusCreated {
				var res resdto.AuthResponse
				require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
				require.NotEmpty(t, res.Token)
				require.NotNil(t, httptest.ExtractCookie(w, "access_token"))

				var stored string
				require.NoError(t, s.DB.QueryRow(t.Context(), "SELECT email FROM users WHERE id = $1", res.UserID).Scan(&stored))
				require.Equal(t, "guest@example.com", stored)
			}
		})
	}
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
		description    string
	}{
		{
			name:           "valid credentials",
			email:          "host@example.com",
			password:       "password123",
			expectedStatus: http.StatusOK,
			description:    "valid credentials log in",
		},
		{
			name:           "email in another case",
			email:          "Host@Example.COM",
			password:       "password123",
			expectedStatus: http.StatusOK,
			description:    "email lookup ignores case",
		},
		{
			name:           "unknown user",
			email:          "nobody@example.com",
			password:       "password123",
			expectedStatus: http.StatusBadRequest,
			description:    "unknown emails cannot log in",
		},
		{
			name:           "wrong password",
			email:          "host@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusBadRequest,
			description:    "a wrong password cannot log in",
		},
		{
			name:           "empty password",
			email:          "host@example.com",
			password:       "",
			expectedStatus: http.StatusBadRequest,
			description:    "an empty password is rejected",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)

			if tt.expectedStatus == http.StatusOK {
				require.NotNil(t, httptest.ExtractCookie(w, "access_token"))
			} else {
				require.Nil(t, httptest.ExtractCookie(w, "access_token"))
			}
		})
	}

	s.Run("unknown user and wrong password look the same", func() {
		t := s.T()

		unknown := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "nobody@example.com", Password: "password123"}, "")
		wrong := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "host@example.com", Password: "wrongpassword"}, "")

		require.Equal(t, unknown.Code, wrong.Code)
		require.JSONEq(t, unknown.Body.String(), wrong.Body.String())
	})
}

func (s *authSuite) TestProfile() {
	s.Run("registered user reads their profile with the issued token", func() {
		t := s.T()
		session := authtest.RegisterUser(t, s.Router, "guest", "guest@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, profileURL, nil, session.Token)
		require.Equal(t, http.StatusOK, w.Code)

		var res resdto.UserResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, session.UserID, res.ID)
		require.Equal(t, "guest", res.Username)
		require.NotContains(t, w.Body.String(), "password")
	})

	s.Run("cookie from login authenticates", func() {
		t := s.T()
		login := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "host@example.com", Password: "password123"}, "")
		require.Equal(t, http.StatusOK, login.Code)

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodGet, profileURL, nil, httptest.ExtractCookies(login), "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	tokens := []struct {
		name  string
		token func() string
	}{
		{name: "no token", token: func() string { return "" }},
		{name: "garbage token", token: func() string { return "not-a-jwt" }},
		{name: "expired token", token: func() string { return s.jwtHelper.CreateExpiredToken(s.T(), uuid.New()) }},
		{name: "forged token", token: func() string { return s.jwtHelper.CreateForgedToken(s.T(), uuid.New()) }},
	}
	for _, tt := range tokens {
		s.Run("401 with "+tt.name, func() {
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, profileURL, nil, tt.token())
			require.Equal(s.T(), http.StatusUnauthorized, w.Code)
		})
	}

	s.Run("valid token for a user that no longer exists", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, profileURL, nil, s.jwtHelper.GenerateToken(t, uuid.New()))
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *authSuite) TestUpdateProfile() {
	s.Run("changes username and email", func() {
		t := s.T()
		session := authtest.RegisterUser(t, s.Router, "guest", "guest@example.com", "password123")

		w := httptest.PerformMultipartRequest(t, s.Router, http.MethodPut, profileURL,
			map[string]string{"username": "renamed", "email": "Renamed@Example.com"}, nil, session.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res resdto.ProfileUpdatedResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, "renamed", res.User.Username)
		require.Equal(t, "renamed@example.com", res.User.Email)

		authtest.LoginUser(t, s.Router, "renamed@example.com", "password123")
	})

	s.Run("cannot take another user's email", func() {
		t := s.T()
		session := authtest.RegisterUser(t, s.Router, "guest", "guest@example.com", "password123")

		w := httptest.PerformMultipartRequest(t, s.Router, http.MethodPut, profileURL,
			map[string]string{"email": "host@example.com"}, nil, session.Token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "User already exists")
	})

	s.Run("image upload fails when storage is not configured", func() {
		t := s.T()
		session := authtest.RegisterUser(t, s.Router, "guest", "guest@example.com", "password123")

		w := httptest.PerformMultipartRequest(t, s.Router, http.MethodPut, profileURL, nil,
			[]httptest.File{{Field: "image", Filename: "me.png", ContentType: "image/png", Content: []byte("png")}},
			session.Token)
		require.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())
	})
}
