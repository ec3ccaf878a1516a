package outbox

import (
	"context"
	"log/slog"
)

// LogPublisher stands in for a broker when none is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, key string, payload []byte, _ map[string]string) error {
	p.logger.Info("event published", "topic", topic, "key", key, "bytes", len(payload))
	return nil
}
