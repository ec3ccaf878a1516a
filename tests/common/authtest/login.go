//go:build unit || e2e

package authtest

import (
	"encoding/json"
	"net/http"
	"testing"

	"stayfinder/internal/handler/dto/request"
	"stayfinder/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Session struct {
	UserID uuid.UUID
	Token  string
}

func RegisterUser(t *testing.T, router *gin.Engine, username, email, password string) Session {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/register",
		request.RegisterRequest{Username: username, Email: email, Password: password}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeSession(t, w.Body.Bytes())
}

func LoginUser(t *testing.T, router *gin.Engine, email, password string) Session {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	accessCookie := httptest.ExtractCookie(w, "access_token")
	require.NotNil(t, accessCookie, "Access token not found in cookies")
	require.NotEmpty(t, accessCookie.Value, "Access token cookie is empty")

	return decodeSession(t, w.Body.Bytes())
}

func decodeSession(t *testing.T, body []byte) Session {
	t.Helper()

	var res struct {
		Token  string    `json:"token"`
		UserID uuid.UUID `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	require.NotEmpty(t, res.Token)
	return Session{UserID: res.UserID, Token: res.Token}
}
