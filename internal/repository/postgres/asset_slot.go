package postgres

import (
	"context"
	"errors"
	"fmt"

	"candidate-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// assetTables maps each slot kind to its table. Each table has UNIQUE(candidate_id).
var assetTables = map[domain.AssetKind]string{
	domain.AssetResume: "resumes",
	domain.AssetAvatar: "avatars",
}

func assetTable(kind domain.AssetKind) (string, error) {
	table, ok := assetTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown asset kind %q", kind)
	}
	return table, nil
}

type assetSlotRepository struct {
	db *pgxpool.Pool
}

func NewAssetSlotRepository(db *pgxpool.Pool) domain.AssetSlotRepository {
	return &assetSlotRepository{db: db}
}

// Replace swaps the slot occupant. The old row is deleted before the new one
// is inserted, so UNIQUE(candidate_id) never sees two rows.
func (r *assetSlotRepository) Replace(ctx context.Context, kind domain.AssetKind, candidateID uuid.UUID, fileID string) (*domain.Asset, *string, error) {
	table, err := assetTable(kind)
	if err != nil {
		return nil, nil, err
	}

	var created *domain.Asset
	var oldFileID *string

	err = runInTx(ctx, r.db, func(tx pgx.Tx) error {
		found, err := lockCandidate(ctx, tx, candidateID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCandidateNotFound
		}

		previous, err := deleteAsset(ctx, tx, table, candidateID)
		if err != nil {
			return err
		}
		if previous != nil {
			oldFileID = &previous.FileID
		}

		asset := &domain.Asset{ID: uuid.New(), CandidateID: candidateID, FileID: fileID}
		query := fmt.Sprintf(`INSERT INTO %s (id, candidate_id, file_id) VALUES ($1, $2, $3) RETURNING created_at`, table)
		if err := tx.QueryRow(ctx, query, asset.ID, candidateID, fileID).Scan(&asset.CreatedAt); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
		asset.CreatedAt = asset.CreatedAt.UTC()
		created = asset
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return created, oldFileID, nil
}

// Remove empties the slot under the same candidate lock as Replace, so a
// concurrent replacement is either fully seen or not at all.
func (r *assetSlotRepository) Remove(ctx context.Context, kind domain.AssetKind, candidateID uuid.UUID) (*domain.Asset, error) {
	table, err := assetTable(kind)
	if err != nil {
		return nil, err
	}

	var removed *domain.Asset
	err = runInTx(ctx, r.db, func(tx pgx.Tx) error {
		found, err := lockCandidate(ctx, tx, candidateID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCandidateNotFound
		}
		removed, err = deleteAsset(ctx, tx, table, candidateID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *assetSlotRepository) Get(ctx context.Context, kind domain.AssetKind, candidateID uuid.UUID) (*domain.Asset, error) {
	assets, err := loadAssets(ctx, conn(ctx, r.db), kind, []uuid.UUID{candidateID})
	if err != nil {
		return nil, err
	}
	return assets[candidateID], nil
}

func deleteAsset(ctx context.Context, tx pgx.Tx, table string, candidateID uuid.UUID) (*domain.Asset, error) {
	var a domain.Asset
	query := fmt.Sprintf(`DELETE FROM %s WHERE candidate_id = $1 RETURNING id, candidate_id, file_id, created_at`, table)
	err := tx.QueryRow(ctx, query, candidateID).Scan(&a.ID, &a.CandidateID, &a.FileID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete %s: %w", table, err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

func loadAssets(ctx context.Context, q querier, kind domain.AssetKind, candidateIDs []uuid.UUID) (map[uuid.UUID]*domain.Asset, error) {
	table, err := assetTable(kind)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]*domain.Asset, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(candidateIDs))
	for i, id := range candidateIDs {
		ids[i] = id.String()
	}

	query := fmt.Sprintf(`SELECT id, candidate_id, file_id, created_at FROM %s WHERE candidate_id = ANY($1::uuid[])`, table)
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.ID, &a.CandidateID, &a.FileID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		a.CreatedAt = a.CreatedAt.UTC()
		out[a.CandidateID] = &a
	}
	return out, rows.Err()
}
