package response

import (
	"time"

	"stayfinder/internal/usecase/commands"
	"stayfinder/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type AuthResponse struct {
	Message   string    `json:"message,omitempty"`
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func FromAuthResult(r *commands.AuthResult, message string) *AuthResponse {
	return &AuthResponse{
		Message:   message,
		Token:     r.AccessToken,
		UserID:    r.UserID,
		ExpiresAt: r.ExpiresAt,
	}
}

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage *string   `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func FromUserView(v *queries.UserView) (*UserResponse, error) {
	var res UserResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

type ProfileUpdatedResponse struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}
