package memory

import (
	"context"
	"slices"
	"time"

	"stayfinder/internal/infra"
	"stayfinder/internal/infra/outbox"

	"github.com/google/uuid"
)

// OutboxStore exposes the committed outbox rows to the relay.
type OutboxStore struct{ store *Store }

func NewOutboxStore(store *Store) *OutboxStore {
	return &OutboxStore{store: store}
}

func (o *OutboxStore) Claim(_ context.Context, now time.Time, limit int, lease time.Duration) ([]outbox.Record, error) {
	s := o.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*outboxRow
	for _, row := range s.outbox {
		if row.sentAt != nil || row.nextAttempt.After(now) {
			continue
		}
		if row.lockedUntil != nil && row.lockedUntil.After(now) {
			continue
		}
		due = append(due, row)
	}
	slices.SortFunc(due, func(a, b *outboxRow) int {
		return a.occurredAt.Compare(b.occurredAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	until := now.Add(lease)
	records := make([]outbox.Record, 0, len(due))
	for _, row := range due {
		row.lockedUntil = &until
		records = append(records, outbox.Record{
			ID:          row.id,
			AggregateID: row.aggregateID,
			Name:        row.name,
			Payload:     slices.Clone(row.payload),
			OccurredAt:  row.occurredAt,
			Attempts:    row.attempts,
		})
	}
	return records, nil
}

func (o *OutboxStore) MarkSent(_ context.Context, id uuid.UUID, at time.Time) error {
	return o.update(id, func(row *outboxRow) {
		row.sentAt = &at
		row.lockedUntil = nil
	})
}

func (o *OutboxStore) MarkFailed(_ context.Context, id uuid.UUID, next time.Time, reason string) error {
	return o.update(id, func(row *outboxRow) {
		row.attempts++
		row.nextAttempt = next
		row.lastError = reason
		row.lockedUntil = nil
	})
}

// Pending counts events not yet delivered.
func (o *OutboxStore) Pending() int {
	s := o.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, row := range s.outbox {
		if row.sentAt == nil {
			n++
		}
	}
	return n
}

func (o *OutboxStore) update(id uuid.UUID, apply func(*outboxRow)) error {
	s := o.store
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[id]
	if !ok {
		return infra.WrapRepoErr(s.logger, infra.KindNotFound, "outbox event not found", nil)
	}
	apply(row)
	return nil
}
