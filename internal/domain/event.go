package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TopicCandidateCreated = "candidate.created"
	TopicCandidateUpdated = "candidate.updated"
	TopicCandidateDeleted = "candidate.deleted"
)

// FileDeletedTopic is the cleanup topic for an orphaned file of the given kind,
// e.g. file.avatar.deleted.
func FileDeletedTopic(kind AssetKind) string {
	return "file." + string(kind) + ".deleted"
}

// AllTopics lists every topic this service produces to.
func AllTopics() []string {
	topics := []string{TopicCandidateCreated, TopicCandidateUpdated, TopicCandidateDeleted}
	for _, kind := range ValidAssetKinds() {
		topics = append(topics, FileDeletedTopic(kind))
	}
	return topics
}

// Event is one message bound for the transport. Key groups events of the same
// aggregate onto one partition.
type Event struct {
	Topic   string
	Key     []byte
	Payload []byte
}

type CandidateDeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

// FileCleanupPayload asks the file service to reclaim an object no row references anymore.
type FileCleanupPayload struct {
	FileID          string    `json:"file_id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	OwnerTelegramID int64     `json:"owner_telegram_id"`
}

// EventPublisher is the message transport: publish(topic, payload) -> success/failure.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key, payload []byte) error
}

type OutboxEntry struct {
	ID        uuid.UUID
	Topic     string
	Key       []byte
	Payload   []byte
	Attempts  int
	CreatedAt time.Time
}

// OutboxRepository stages events in the mutation transaction and lets the
// relay claim them later. Append and Claim must run inside a transaction.
type OutboxRepository interface {
	Append(ctx context.Context, event Event) error
	Claim(ctx context.Context, limit int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	Pending(ctx context.Context) (int64, error)
}
