package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// ErrNotConnected is returned by Publish before Open succeeded or after Close.
var ErrNotConnected = errors.New("kafka producer is not connected")

const defaultPublishTimeout = 10 * time.Second

type Config struct {
	Brokers     []string
	ClientID    string
	Partitions  int
	Replication int
	// PublishTimeout bounds how long a record may wait for acknowledgement,
	// retries included. Zero means 10s.
	PublishTimeout time.Duration
}

// Producer publishes keyed records. Records sharing a key land on the same
// partition, so events of one aggregate stay ordered.
type Producer struct {
	cfg Config
	log *slog.Logger

	mu     sync.RWMutex
	client *kgo.Client
}

func NewProducer(cfg Config, log *slog.Logger) *Producer {
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	return &Producer{cfg: cfg, log: log.With("component", "kafka_producer")}
}

// Open connects to the seed brokers and verifies at least one answers.
func (p *Producer) Open(ctx context.Context) error {
	if len(p.cfg.Brokers) == 0 {
		return fmt.Errorf("open kafka producer: no brokers configured")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(p.cfg.Brokers...),
		kgo.ClientID(p.cfg.ClientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
		// Without a bound the client retries forever while the cluster is down.
		kgo.RecordDeliveryTimeout(p.cfg.PublishTimeout),
	)
	if err != nil {
		return fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return fmt.Errorf("ping kafka: %w", err)
	}

	p.mu.Lock()
	p.client = client
	p.mu.Unlock()

	p.log.Info("kafka producer connected", "brokers", p.cfg.Brokers)
	return nil
}

// EnsureTopics creates missing topics with the configured partition count and
// replication factor. Existing topics are left as they are.
func (p *Producer) EnsureTopics(ctx context.Context, topics ...string) error {
	client, err := p.current()
	if err != nil {
		return err
	}

	partitions := int32(p.cfg.Partitions)
	if partitions <= 0 {
		partitions = 1
	}
	replication := int16(p.cfg.Replication)
	if replication <= 0 {
		replication = 1
	}

	adm := kadm.NewClient(client)
	responses, err := adm.CreateTopics(ctx, partitions, replication, nil, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, r := range responses.Sorted() {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Publish blocks until the record is acknowledged by all in-sync replicas or
// PublishTimeout elapses.
func (p *Producer) Publish(ctx context.Context, topic string, key, payload []byte) error {
	client, err := p.current()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
	defer cancel()

	record := &kgo.Record{Topic: topic, Key: key, Value: payload}
	if err := client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) Ping(ctx context.Context) error {
	client, err := p.current()
	if err != nil {
		return err
	}
	return client.Ping(ctx)
}

// Close waits up to PublishTimeout for buffered records, then releases the
// connection. Records still unacknowledged after that are failed.
func (p *Producer) Close() {
	p.mu.Lock()
	client := p.client
	p.client = nil
	p.mu.Unlock()

	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.PublishTimeout)
	defer cancel()
	if err := client.Flush(ctx); err != nil {
		p.log.Warn("kafka flush incomplete on close", "error", err)
	}
	client.Close()
}

func (p *Producer) current() (*kgo.Client, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.client == nil {
		return nil, ErrNotConnected
	}
	return p.client, nil
}
