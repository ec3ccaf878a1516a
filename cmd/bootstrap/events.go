package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"stayfinder/internal/infra/broker/kafka"
	"stayfinder/internal/infra/outbox"
	"stayfinder/internal/pkg/clock"
	"stayfinder/internal/pkg/config"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		NewPublisher,
		NewRelay,
	),
	fx.Invoke(StartRelay),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (outbox.Publisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("KAFKA_BROKERS is empty; outbox events are logged only")
		return outbox.NewLogPublisher(logger), nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, kafka.NewConfig(cfg.Kafka.ClientID))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})
	return producer, nil
}

func NewRelay(store outbox.Store, publisher outbox.Publisher, clock clock.Clock, cfg config.Config, logger *slog.Logger) *outbox.Relay {
	return outbox.NewRelay(store, publisher, outbox.RelayConfig{
		Interval:    cfg.Outbox.PollInterval,
		BatchSize:   cfg.Outbox.BatchSize,
		TopicPrefix: cfg.Kafka.TopicPrefix,
	}, clock, logger)
}

func StartRelay(lc fx.Lifecycle, relay *outbox.Relay, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("outbox relay stopped", "error", err.Error())
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
