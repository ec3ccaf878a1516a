package readstore

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"stayfinder/internal/infra"
	"stayfinder/internal/infra/db"
	"stayfinder/internal/pkg/pgconv"
	"stayfinder/internal/usecase/queries"
)

const findUserViewSQL = `SELECT id, username, email, profile_image, created_at FROM users WHERE id = $1`

type UserReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewUserReadStore(dbtx db.DBTX, logger *slog.Logger) *UserReadStore {
	return &UserReadStore{
		db:     dbtx,
		logger: logger,
	}
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	var (
		v            queries.UserView
		profileImage pgtype.Text
		createdAt    pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, findUserViewSQL, id).Scan(&v.ID, &v.Username, &v.Email, &profileImage, &createdAt)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to find user by ID", err)
	}

	v.ProfileImage = pgconv.StringPtrFromPgtype(profileImage)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &v, nil
}
