package repository

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"stayfinder/internal/infra"
	"stayfinder/internal/infra/db"
	"stayfinder/internal/infra/outbox"
	"stayfinder/internal/pkg/pgconv"
	"stayfinder/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	appendOutboxSQL = `
INSERT INTO outbox_events (id, aggregate_id, name, payload, occurred_at, next_attempt_at)
VALUES ($1, $2, $3, $4, $5, $5)`

	// SKIP LOCKED lets several relays share the table without claiming the same row
	claimOutboxSQL = `
UPDATE outbox_events SET locked_until = $2
WHERE id IN (
	SELECT id FROM outbox_events
	WHERE sent_at IS NULL
	  AND next_attempt_at <= $1
	  AND (locked_until IS NULL OR locked_until <= $1)
	ORDER BY occurred_at
	LIMIT $3
	FOR UPDATE SKIP LOCKED
)
RETURNING id, aggregate_id, name, payload, occurred_at, attempts`

	markOutboxSentSQL = `UPDATE outbox_events SET sent_at = $2, locked_until = NULL WHERE id = $1`

	markOutboxFailedSQL = `
UPDATE outbox_events
SET attempts = attempts + 1, next_attempt_at = $2, last_error = $3, locked_until = NULL
WHERE id = $1`
)

// OutboxRepository appends events inside the caller's transaction.
type OutboxRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewOutboxRepository(dbtx db.DBTX, logger *slog.Logger) *OutboxRepository {
	return &OutboxRepository{
		db:     dbtx,
		logger: logger,
	}
}

func (r *OutboxRepository) Append(ctx context.Context, event shared.OutboxEvent) error {
	_, err := r.db.Exec(ctx, appendOutboxSQL,
		event.ID,
		event.AggregateID,
		event.Name,
		event.Payload,
		pgconv.TimeToPgtype(event.OccurredAt),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to append outbox event", err)
	}
	return nil
}

// OutboxStore is the relay side of the outbox; each call is its own statement.
type OutboxStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewOutboxStore(dbtx db.DBTX, logger *slog.Logger) *OutboxStore {
	return &OutboxStore{
		db:     dbtx,
		logger: logger,
	}
}

func (s *OutboxStore) Claim(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]outbox.Record, error) {
	rows, err := s.db.Query(ctx, claimOutboxSQL,
		pgconv.TimeToPgtype(now),
		pgconv.TimeToPgtype(now.Add(lease)),
		limit,
	)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to claim outbox events", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (outbox.Record, error) {
		var (
			rec        outbox.Record
			occurredAt pgtype.Timestamptz
		)
		err := row.Scan(&rec.ID, &rec.AggregateID, &rec.Name, &rec.Payload, &occurredAt, &rec.Attempts)
		rec.OccurredAt = pgconv.TimeFromPgtype(occurredAt)
		return rec, err
	})
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to scan outbox events", err)
	}

	slices.SortFunc(records, func(a, b outbox.Record) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
	return records, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := s.db.Exec(ctx, markOutboxSentSQL, id, pgconv.TimeToPgtype(at)); err != nil {
		return infra.WrapPgErr(s.logger, "failed to mark outbox event sent", err)
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id uuid.UUID, next time.Time, reason string) error {
	if _, err := s.db.Exec(ctx, markOutboxFailedSQL, id, pgconv.TimeToPgtype(next), reason); err != nil {
		return infra.WrapPgErr(s.logger, "failed to mark outbox event failed", err)
	}
	return nil
}
