package postgres

import (
	"context"
	"fmt"

	"candidate-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// outboxRepository stages change events in the same transaction as the
// mutation they describe. The relay publishes them later.
type outboxRepository struct {
	db *pgxpool.Pool
}

func NewOutboxRepository(db *pgxpool.Pool) domain.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Append(ctx context.Context, event domain.Event) error {
	query := `
		INSERT INTO outbox (id, topic, event_key, payload, created_at)
		VALUES ($1, $2, $3, $4, NOW())`

	_, err := conn(ctx, r.db).Exec(ctx, query, uuid.New(), event.Topic, string(event.Key), event.Payload)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// Claim locks up to limit unpublished entries, oldest first. Rows held by
// another relay instance are skipped.
func (r *outboxRepository) Claim(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	query := `
		SELECT id, topic, event_key, payload, attempts, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`

	rows, err := conn(ctx, r.db).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("claim outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.OutboxEntry
	for rows.Next() {
		var e domain.OutboxEntry
		var key string
		if err := rows.Scan(&e.ID, &e.Topic, &key, &e.Payload, &e.Attempts, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		e.Key = []byte(key)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	_, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE outbox SET published_at = NOW(), attempts = attempts + 1, last_error = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark outbox entry published: %w", err)
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE outbox SET attempts = attempts + 1, last_error = $2 WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("mark outbox entry failed: %w", err)
	}
	return nil
}

func (r *outboxRepository) Pending(ctx context.Context) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count outbox backlog: %w", err)
	}
	return n, nil
}
