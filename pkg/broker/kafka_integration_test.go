//go:build integration

package broker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredpanda "github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestProducer_PublishRoundTrip(t *testing.T) {
	ctx := context.Background()

	container, err := tcredpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.1.7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	seed, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	p := NewProducer(Config{Brokers: []string{seed}, ClientID: "candidate-service-test", Partitions: 3, Replication: 1},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, p.Open(ctx))
	t.Cleanup(p.Close)

	require.NoError(t, p.EnsureTopics(ctx, "candidate.created", "file.avatar.deleted"))
	// A second call finds the topics and succeeds.
	require.NoError(t, p.EnsureTopics(ctx, "candidate.created"))

	require.NoError(t, p.Publish(ctx, "candidate.created", []byte("c-1"), []byte(`{"id":"c-1"}`)))
	require.NoError(t, p.Ping(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(seed),
		kgo.ConsumeTopics("candidate.created"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	pollCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var records []*kgo.Record
	for len(records) == 0 && pollCtx.Err() == nil {
		fetches := consumer.PollFetches(pollCtx)
		fetches.EachRecord(func(r *kgo.Record) { records = append(records, r) })
	}

	require.Len(t, records, 1)
	assert.Equal(t, "c-1", string(records[0].Key))
	assert.JSONEq(t, `{"id":"c-1"}`, string(records[0].Value))
}
