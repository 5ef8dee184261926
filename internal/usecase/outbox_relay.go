package usecase

import (
	"context"
	"log/slog"
	"time"

	"candidate-service/internal/domain"
	"candidate-service/pkg/metrics"
)

// OutboxRelay publishes staged events in commit order. A batch stops at the
// first failure so later events of the same aggregate never overtake it; the
// failed row is retried on the next tick.
type OutboxRelay struct {
	txm       domain.Transactor
	outbox    domain.OutboxRepository
	publisher domain.EventPublisher
	interval  time.Duration
	batchSize int
	metrics   *metrics.Metrics
	log       *slog.Logger
}

func NewOutboxRelay(
	txm domain.Transactor,
	outbox domain.OutboxRepository,
	publisher domain.EventPublisher,
	interval time.Duration,
	batchSize int,
	m *metrics.Metrics,
	log *slog.Logger,
) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &OutboxRelay{
		txm:       txm,
		outbox:    outbox,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		metrics:   m,
		log:       log.With("component", "outbox_relay"),
	}
}

// Run polls until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) error {
	r.log.Info("outbox relay started", "interval", r.interval.String(), "batch_size", r.batchSize)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
			r.log.Error("outbox relay tick failed", "error", err)
		}

		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RelayOnce claims one batch and returns how many events were published.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	published := 0

	err := r.txm.WithinTx(ctx, func(ctx context.Context) error {
		entries, err := r.outbox.Claim(ctx, r.batchSize)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if err := r.publisher.Publish(ctx, e.Topic, e.Key, e.Payload); err != nil {
				r.metrics.IncrementFailed(e.Topic)
				r.log.Warn("outbox publish failed",
					"outbox_id", e.ID.String(),
					"topic", e.Topic,
					"attempts", e.Attempts+1,
					"error", err,
				)
				return r.outbox.MarkFailed(ctx, e.ID, err.Error())
			}
			if err := r.outbox.MarkPublished(ctx, e.ID); err != nil {
				return err
			}
			r.metrics.IncrementPublished(e.Topic)
			published++
		}
		return nil
	})
	if err != nil {
		return published, err
	}

	if backlog, err := r.outbox.Pending(ctx); err == nil {
		r.metrics.SetOutboxBacklog(backlog)
	}
	return published, nil
}
