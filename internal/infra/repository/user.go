package repository

import (
	"context"
	"log/slog"

	"stayfinder/internal/domain/user"
	"stayfinder/internal/infra"
	"stayfinder/internal/infra/db"
	"stayfinder/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	userColumns = `id, username, email, password_hash, profile_image, created_at, updated_at`

	findUserByIDSQL    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	findUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	insertUserSQL = `
INSERT INTO users (id, username, email, password_hash, profile_image, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateUserSQL = `
UPDATE users SET username = $2, email = $3, profile_image = $4, updated_at = $5
WHERE id = $1`
)

type UserRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewUserRepository(dbtx db.DBTX, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		db:     dbtx,
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx, insertUserSQL,
		u.ID(),
		u.Username(),
		u.Email().Value(),
		u.PasswordHash(),
		pgconv.StringPtrToPgtype(u.ProfileImage()),
		pgconv.TimeToPgtype(u.CreatedAt()),
		pgconv.TimeToPgtype(u.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, findUserByIDSQL, id))
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find user by ID", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, findUserByEmailSQL, email.Value()))
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to find user by email", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	tag, err := r.db.Exec(ctx, updateUserSQL,
		u.ID(),
		u.Username(),
		u.Email().Value(),
		pgconv.StringPtrToPgtype(u.ProfileImage()),
		pgconv.TimeToPgtype(u.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", nil)
	}
	return nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		id                   uuid.UUID
		username, rawEmail   string
		passwordHash         string
		profileImage         pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &username, &rawEmail, &passwordHash, &profileImage, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	email, err := user.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	return user.ReconstructUser(id, username, email, passwordHash, pgconv.StringPtrFromPgtype(profileImage),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt)), nil
}
