//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"stayfinder/internal/pkg/config"
	"stayfinder/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, h.cfg.Duration)
	token, err := service.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, -time.Minute)
	token, err := service.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

// CreateForgedToken signs with a different secret.
func (h *JWTHelper) CreateForgedToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret+"-forged", h.cfg.Duration)
	token, err := service.GenerateToken(userID)
	require.NoError(t, err)
	return token
}
