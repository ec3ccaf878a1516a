package request

import (
	"stayfinder/internal/domain/user"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r *RegisterRequest) ToDomain() (user.Email, user.Password, error) {
	email, err := user.NewEmail(r.Email)
	if err != nil {
		return user.Email{}, user.Password{}, err
	}
	pw, err := user.NewPassword(r.Password)
	if err != nil {
		return user.Email{}, user.Password{}, err
	}
	return email, pw, nil
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username *string    `form:"username"`
	Email    *string    `form:"email"`
	Image    *ImageFile `form:"-"`
}

// NewEmail returns nil when the email is left unchanged.
func (r *UpdateProfileRequest) NewEmail() (*user.Email, error) {
	if r.Email == nil || *r.Email == "" {
		return nil, nil
	}
	email, err := user.NewEmail(*r.Email)
	if err != nil {
		return nil, err
	}
	return &email, nil
}
