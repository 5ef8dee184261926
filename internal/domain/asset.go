package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssetKind names a single-slot child of the candidate (at most one row per candidate).
type AssetKind string

const (
	AssetResume AssetKind = "resume"
	AssetAvatar AssetKind = "avatar"
)

// ValidAssetKinds returns all slot kinds
func ValidAssetKinds() []AssetKind {
	return []AssetKind{AssetResume, AssetAvatar}
}

// IsValid checks if the asset kind is known
func (k AssetKind) IsValid() bool {
	for _, valid := range ValidAssetKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// Asset references an object held by the file-storage service. The service
// owns the bytes; this row only owns the reference.
type Asset struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	FileID      string    `json:"file_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type AssetInput struct {
	FileID string `json:"file_id" validate:"required,not_blank,max=255"`
}

type DownloadLink struct {
	FileID      string `json:"file_id"`
	DownloadURL string `json:"download_url"`
}

// AssetSlotRepository keeps the 0-or-1 cardinality of each asset kind.
type AssetSlotRepository interface {
	// Replace deletes the current occupant (if any) and inserts a new row in
	// one transaction. The previous file id is returned so it can be cleaned up.
	Replace(ctx context.Context, kind AssetKind, candidateID uuid.UUID, fileID string) (*Asset, *string, error)
	// Remove returns the deleted row, or nil when the slot was empty. It fails
	// with ErrCandidateNotFound for an unknown candidate.
	Remove(ctx context.Context, kind AssetKind, candidateID uuid.UUID) (*Asset, error)
	Get(ctx context.Context, kind AssetKind, candidateID uuid.UUID) (*Asset, error)
}

// DownloadURLResolver turns a stored object key into a retrievable URL.
// ok is false whenever the file service could not answer.
type DownloadURLResolver interface {
	ResolveDownloadURL(ctx context.Context, objectKey string) (url string, ok bool)
}

type AssetUsecase interface {
	Replace(ctx context.Context, kind AssetKind, candidateID uuid.UUID, in *AssetInput) (*Asset, error)
	Remove(ctx context.Context, kind AssetKind, candidateID uuid.UUID) error
	ResolveResumeDownloadURL(ctx context.Context, candidateID uuid.UUID) (*DownloadLink, error)
}
