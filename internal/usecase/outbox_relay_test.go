package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"candidate-service/internal/domain"
	"candidate-service/internal/usecase"
	"candidate-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func outboxEntry(topic string) domain.OutboxEntry {
	id := uuid.New()
	return domain.OutboxEntry{ID: id, Topic: topic, Key: []byte("k"), Payload: []byte(`{}`), CreatedAt: time.Now()}
}

func TestOutboxRelay_RelayOnce(t *testing.T) {
	t.Run("Should publish and mark every claimed entry", func(t *testing.T) {
		outbox := new(MockOutboxRepo)
		publisher := new(MockPublisher)
		m := metrics.New(prometheus.NewRegistry())
		relay := usecase.NewOutboxRelay(inlineTx{}, outbox, publisher, time.Second, 10, m, discardLog)

		first, second := outboxEntry(domain.TopicCandidateCreated), outboxEntry(domain.TopicCandidateUpdated)
		outbox.On("Claim", mock.Anything, 10).Return([]domain.OutboxEntry{first, second}, nil)
		publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		outbox.On("MarkPublished", mock.Anything, first.ID).Return(nil)
		outbox.On("MarkPublished", mock.Anything, second.ID).Return(nil)
		outbox.On("Pending", mock.Anything).Return(int64(0), nil)

		n, err := relay.RelayOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		outbox.AssertExpectations(t)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues(domain.TopicCandidateCreated)))
	})

	t.Run("Should stop the batch at the first failure", func(t *testing.T) {
		outbox := new(MockOutboxRepo)
		publisher := new(MockPublisher)
		m := metrics.New(prometheus.NewRegistry())
		relay := usecase.NewOutboxRelay(inlineTx{}, outbox, publisher, time.Second, 10, m, discardLog)

		ok, failing, later := outboxEntry("candidate.created"), outboxEntry("candidate.updated"), outboxEntry("candidate.deleted")
		outbox.On("Claim", mock.Anything, 10).Return([]domain.OutboxEntry{ok, failing, later}, nil)
		publisher.On("Publish", mock.Anything, "candidate.created", mock.Anything, mock.Anything).Return(nil)
		publisher.On("Publish", mock.Anything, "candidate.updated", mock.Anything, mock.Anything).Return(errors.New("leader not available"))
		outbox.On("MarkPublished", mock.Anything, ok.ID).Return(nil)
		outbox.On("MarkFailed", mock.Anything, failing.ID, "leader not available").Return(nil)
		outbox.On("Pending", mock.Anything).Return(int64(2), nil)

		n, err := relay.RelayOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		publisher.AssertNotCalled(t, "Publish", mock.Anything, "candidate.deleted", mock.Anything, mock.Anything)
		outbox.AssertNotCalled(t, "MarkPublished", mock.Anything, later.ID)
		assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxBacklog))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsFailed.WithLabelValues("candidate.updated")))
	})

	t.Run("Should return claim errors", func(t *testing.T) {
		outbox := new(MockOutboxRepo)
		relay := usecase.NewOutboxRelay(inlineTx{}, outbox, new(MockPublisher), time.Second, 5, nil, discardLog)
		outbox.On("Claim", mock.Anything, 5).Return(nil, errors.New("relation \"outbox\" does not exist"))

		_, err := relay.RelayOnce(context.Background())
		assert.Error(t, err)
		outbox.AssertNotCalled(t, "Pending", mock.Anything)
	})
}

func TestOutboxRelay_RunStopsOnCancel(t *testing.T) {
	outbox := new(MockOutboxRepo)
	outbox.On("Claim", mock.Anything, 100).Return([]domain.OutboxEntry{}, nil)
	outbox.On("Pending", mock.Anything).Return(int64(0), nil)
	relay := usecase.NewOutboxRelay(inlineTx{}, outbox, new(MockPublisher), 10*time.Millisecond, 0, nil, discardLog)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
