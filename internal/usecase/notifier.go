package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"candidate-service/internal/domain"
	"candidate-service/pkg/metrics"
)

// ChangeNotifier emits change events for committed mutations.
//
// With an outbox, Stage writes events into the mutation transaction and the
// relay delivers them; Publish and PublishDeferred do nothing. Without one,
// Stage does nothing and events are published after commit. Publish failures
// are logged and counted but never returned: the mutation already committed.
type ChangeNotifier struct {
	publisher domain.EventPublisher
	outbox    domain.OutboxRepository
	metrics   *metrics.Metrics
	log       *slog.Logger
	timeout   time.Duration

	wg sync.WaitGroup
}

type NotifierOption func(*ChangeNotifier)

// WithPublishTimeout bounds each publish attempt. Non-positive values keep the default of 10s.
func WithPublishTimeout(d time.Duration) NotifierOption {
	return func(n *ChangeNotifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// NewChangeNotifier builds a notifier. Pass a nil outbox for direct delivery.
func NewChangeNotifier(publisher domain.EventPublisher, outbox domain.OutboxRepository, m *metrics.Metrics, log *slog.Logger, opts ...NotifierOption) *ChangeNotifier {
	n := &ChangeNotifier{
		publisher: publisher,
		outbox:    outbox,
		metrics:   m,
		log:       log.With("component", "change_notifier"),
		timeout:   10 * time.Second,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Stage must be called inside the mutation transaction.
func (n *ChangeNotifier) Stage(ctx context.Context, events ...domain.Event) error {
	if n.outbox == nil {
		return nil
	}
	for _, e := range events {
		if err := n.outbox.Append(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Publish delivers events synchronously after commit.
func (n *ChangeNotifier) Publish(ctx context.Context, events ...domain.Event) {
	if n.outbox != nil {
		return
	}
	for _, e := range events {
		n.publish(ctx, e)
	}
}

// PublishDeferred delivers events in the background on a context detached
// from the caller, so a finished request does not cancel them.
func (n *ChangeNotifier) PublishDeferred(ctx context.Context, events ...domain.Event) {
	if n.outbox != nil || len(events) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for _, e := range events {
			n.publish(detached, e)
		}
	}()
}

// Wait blocks until every deferred publish has finished or ctx is done.
func (n *ChangeNotifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *ChangeNotifier) publish(ctx context.Context, e domain.Event) {
	pubCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.publisher.Publish(pubCtx, e.Topic, e.Key, e.Payload); err != nil {
		n.metrics.IncrementFailed(e.Topic)
		n.log.ErrorContext(ctx, "notification failure",
			"topic", e.Topic,
			"key", string(e.Key),
			"error", err,
		)
		return
	}
	n.metrics.IncrementPublished(e.Topic)
}

// =================================================================================================
// Event builders
// =================================================================================================

// candidateEvent carries the full read model of the aggregate.
func candidateEvent(topic string, c *domain.Candidate) (domain.Event, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return domain.Event{}, fmt.Errorf("encode %s payload: %w", topic, err)
	}
	return domain.Event{Topic: topic, Key: []byte(c.ID.String()), Payload: payload}, nil
}

func candidateDeletedEvent(c *domain.Candidate) (domain.Event, error) {
	payload, err := json.Marshal(domain.CandidateDeletedPayload{ID: c.ID})
	if err != nil {
		return domain.Event{}, fmt.Errorf("encode %s payload: %w", domain.TopicCandidateDeleted, err)
	}
	return domain.Event{Topic: domain.TopicCandidateDeleted, Key: []byte(c.ID.String()), Payload: payload}, nil
}

// fileCleanupEvent asks the file service to drop an object the candidate no
// longer references.
func fileCleanupEvent(kind domain.AssetKind, fileID string, owner *domain.Candidate) (domain.Event, error) {
	topic := domain.FileDeletedTopic(kind)
	payload, err := json.Marshal(domain.FileCleanupPayload{
		FileID:          fileID,
		OwnerID:         owner.ID,
		OwnerTelegramID: owner.TelegramID,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("encode %s payload: %w", topic, err)
	}
	return domain.Event{Topic: topic, Key: []byte(owner.ID.String()), Payload: payload}, nil
}
