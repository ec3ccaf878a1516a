package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stayfinder/internal/domain/user"
	reqdto "stayfinder/internal/handler/dto/request"
	"stayfinder/internal/infra"
	"stayfinder/internal/pkg/clock"
	"stayfinder/internal/pkg/errs"
	"stayfinder/internal/pkg/jwt"
	"stayfinder/internal/pkg/password"
	"stayfinder/internal/usecase/shared"
)

var (
	ErrUserNotFound       = errs.New("user not found")
	ErrEmailTaken         = errs.New("user already exists")
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrTokenGeneration    = errs.New("token generation failed")
)

var authOutcomes = []error{
	ErrUserNotFound,
	ErrEmailTaken,
	ErrInvalidCredentials,
	ErrTokenGeneration,
	ErrInvalidImage,
	ErrImageUploadFailed,
	user.ErrInvalidEmail,
	user.ErrInvalidUsername,
	user.ErrPasswordTooWeak,
}

type AuthResult struct {
	UserID      uuid.UUID
	AccessToken string
	ExpiresAt   time.Time
	TTL         time.Duration
}

type AuthCommands interface {
	Register(ctx context.Context, req reqdto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req reqdto.LoginRequest) (*AuthResult, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req reqdto.UpdateProfileRequest) error
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
	images     ImageStore
	clock      clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service, images ImageStore, clock clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		jwtService: jwtService,
		images:     images,
		clock:      clock,
	}
}

func (a *authCommandsImpl) Register(ctx context.Context, req reqdto.RegisterRequest) (*AuthResult, error) {
	email, pw, err := req.ToDomain()
	if err != nil {
		return nil, err
	}

	hash, err := password.HashPassword(pw.Value())
	if err != nil {
		// bcrypt refuses input longer than 72 bytes
		return nil, errs.Mark(err, user.ErrPasswordTooWeak)
	}

	u, err := user.NewUser(req.Username, email, hash, a.clock.Now())
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, findErr := tx.Users().FindByEmail(ctx, email); findErr == nil {
			return ErrEmailTaken
		} else if !infra.IsKind(findErr, infra.KindNotFound) {
			return findErr
		}

		if createErr := tx.Users().Create(ctx, u); createErr != nil {
			// lost a race with a concurrent registration
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				return ErrEmailTaken
			}
			return createErr
		}
		return nil
	})
	if infra.IsKind(err, infra.KindDuplicateKey) {
		err = ErrEmailTaken
	}
	if err != nil {
		return nil, asStorageFailure(err, authOutcomes...)
	}

	slog.Info("user registered", "user_id", u.ID())
	return a.issueToken(u.ID())
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*AuthResult, error) {
	email, err := user.NewEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var found *user.User
	err = a.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, findErr := tx.Users().FindByEmail(ctx, email)
		if findErr != nil {
			// Return same error as password mismatch to prevent user enumeration attacks
			if infra.IsKind(findErr, infra.KindNotFound) {
				return ErrInvalidCredentials
			}
			return findErr
		}
		found = u
		return nil
	})
	if err != nil {
		return nil, asStorageFailure(err, authOutcomes...)
	}

	if err := password.ComparePassword(found.PasswordHash(), req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return a.issueToken(found.ID())
}

func (a *authCommandsImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req reqdto.UpdateProfileRequest) error {
	email, err := req.NewEmail()
	if err != nil {
		return err
	}

	var imageURL *string
	if req.Image != nil {
		url, uploadErr := uploadImage(ctx, a.images, "users/"+userID.String(), *req.Image)
		if uploadErr != nil {
			return uploadErr
		}
		imageURL = &url
	}

	var previousImage *string
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, findErr := tx.Users().FindByID(ctx, userID)
		if findErr != nil {
			if infra.IsKind(findErr, infra.KindNotFound) {
				return ErrUserNotFound
			}
			return findErr
		}

		if email != nil && *email != u.Email() {
			other, findErr := tx.Users().FindByEmail(ctx, *email)
			switch {
			case findErr == nil && other.ID() != u.ID():
				return ErrEmailTaken
			case findErr != nil && !infra.IsKind(findErr, infra.KindNotFound):
				return findErr
			}
		}

		previousImage = u.ProfileImage()
		if updErr := u.UpdateProfile(req.Username, email, imageURL, a.clock.Now()); updErr != nil {
			return updErr
		}
		if updErr := tx.Users().Update(ctx, u); updErr != nil {
			if infra.IsKind(updErr, infra.KindDuplicateKey) {
				return ErrEmailTaken
			}
			return updErr
		}
		return nil
	})
	if err != nil {
		if imageURL != nil {
			removeImages(ctx, a.images, []string{*imageURL})
		}
		return asStorageFailure(err, authOutcomes...)
	}

	if imageURL != nil && previousImage != nil {
		removeImages(ctx, a.images, []string{*previousImage})
	}
	return nil
}

func (a *authCommandsImpl) issueToken(userID uuid.UUID) (*AuthResult, error) {
	token, err := a.jwtService.GenerateToken(userID)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	ttl := a.jwtService.TokenDuration()
	return &AuthResult{
		UserID:      userID,
		AccessToken: token,
		ExpiresAt:   a.clock.Now().Add(ttl),
		TTL:         ttl,
	}, nil
}
