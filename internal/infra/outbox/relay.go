package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stayfinder/internal/pkg/clock"

	"github.com/google/uuid"
)

var ErrRelayNotConfigured = errors.New("outbox: relay missing dependencies")

// Record is an outbox row claimed for publishing.
type Record struct {
	ID          uuid.UUID
	AggregateID uuid.UUID
	Name        string
	Payload     []byte
	OccurredAt  time.Time
	Attempts    int
}

type Store interface {
	// Claim leases up to limit due records so no other relay picks them up until the lease ends.
	Claim(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]Record, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, next time.Time, reason string) error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

type RelayConfig struct {
	Interval    time.Duration
	BatchSize   int
	Lease       time.Duration
	TopicPrefix string
	Source      string
	Backoff     []time.Duration
}

type Relay struct {
	store     Store
	publisher Publisher
	cfg       RelayConfig
	clock     clock.Clock
	logger    *slog.Logger
}

func NewRelay(store Store, publisher Publisher, cfg RelayConfig, clock clock.Clock, logger *slog.Logger) *Relay {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 30 * time.Second
	}
	if cfg.Source == "" {
		cfg.Source = "app://stayfinder"
	}
	if len(cfg.Backoff) == 0 {
		cfg.Backoff = []time.Duration{time.Second, 5 * time.Second, 30 * time.Second, 2 * time.Minute}
	}
	return &Relay{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
	}
}

// Run polls until ctx is cancelled. Store errors are logged and retried on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	if r.store == nil || r.publisher == nil {
		return ErrRelayNotConfigured
	}
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("outbox relay tick failed", "error", err.Error())
			}
		}
	}
}

// ProcessOnce publishes one batch and reports how many records were sent.
func (r *Relay) ProcessOnce(ctx context.Context) (int, error) {
	records, err := r.store.Claim(ctx, r.clock.Now(), r.cfg.BatchSize, r.cfg.Lease)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, rec := range records {
		if err := r.publish(ctx, rec); err != nil {
			next := r.clock.Now().Add(r.nextRetry(rec.Attempts))
			r.logger.Warn("outbox publish failed",
				"event_id", rec.ID,
				"event", rec.Name,
				"attempts", rec.Attempts+1,
				"retry_at", next,
				"error", err.Error())
			if markErr := r.store.MarkFailed(ctx, rec.ID, next, err.Error()); markErr != nil {
				return sent, markErr
			}
			continue
		}
		if err := r.store.MarkSent(ctx, rec.ID, r.clock.Now()); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (r *Relay) publish(ctx context.Context, rec Record) error {
	payload, err := r.envelope(rec)
	if err != nil {
		return err
	}
	headers := map[string]string{
		"content-type": "application/cloudevents+json",
		"ce-type":      rec.Name + ".v1",
	}
	return r.publisher.Publish(ctx, r.TopicFor(rec.Name), rec.AggregateID.String(), payload, headers)
}

func (r *Relay) envelope(rec Record) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(rec.Payload, &data); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{
		"specversion":     "1.0",
		"id":              rec.ID.String(),
		"type":            rec.Name + ".v1",
		"source":          r.cfg.Source,
		"subject":         rec.AggregateID.String(),
		"time":            rec.OccurredAt.UTC(),
		"datacontenttype": "application/json",
		"data":            data,
	})
}

// TopicFor maps "booking.created" to "<prefix>booking.events.v1".
func (r *Relay) TopicFor(name string) string {
	base, _, _ := strings.Cut(name, ".")
	return r.cfg.TopicPrefix + base + ".events.v1"
}

func (r *Relay) nextRetry(attempts int) time.Duration {
	if attempts < len(r.cfg.Backoff) {
		return r.cfg.Backoff[attempts]
	}
	return r.cfg.Backoff[len(r.cfg.Backoff)-1]
}
