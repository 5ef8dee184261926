package usecase

import (
	"context"
	"strings"

	"candidate-service/internal/domain"
	"candidate-service/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type assetUsecase struct {
	candidates domain.CandidateRepository
	slots      domain.AssetSlotRepository
	resolver   domain.DownloadURLResolver
	txm        domain.Transactor
	notifier   *ChangeNotifier
	validate   *validator.Validate
}

func NewAssetUsecase(
	candidates domain.CandidateRepository,
	slots domain.AssetSlotRepository,
	resolver domain.DownloadURLResolver,
	txm domain.Transactor,
	notifier *ChangeNotifier,
	validate *validator.Validate,
) domain.AssetUsecase {
	return &assetUsecase{
		candidates: candidates,
		slots:      slots,
		resolver:   resolver,
		txm:        txm,
		notifier:   notifier,
		validate:   validate,
	}
}

// Replace fills the slot, evicting the current occupant. Adding to an empty
// slot and replacing a full one are the same operation.
func (u *assetUsecase) Replace(ctx context.Context, kind domain.AssetKind, candidateID uuid.UUID, in *domain.AssetInput) (*domain.Asset, error) {
	if !kind.IsValid() {
		return nil, apperror.BadRequest("Unknown asset kind")
	}
	if err := u.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	fileID := strings.TrimSpace(in.FileID)

	var asset *domain.Asset
	var updated domain.Event
	var cleanup []domain.Event

	err := u.txm.WithinTx(ctx, func(ctx context.Context) error {
		created, oldFileID, err := u.slots.Replace(ctx, kind, candidateID, fileID)
		if err != nil {
			return err
		}
		asset = created

		c, err := u.loadCandidate(ctx, candidateID)
		if err != nil {
			return err
		}
		if updated, err = candidateEvent(domain.TopicCandidateUpdated, c); err != nil {
			return err
		}

		// Re-attaching the same file leaves nothing orphaned.
		if oldFileID != nil && *oldFileID != fileID {
			e, err := fileCleanupEvent(kind, *oldFileID, c)
			if err != nil {
				return err
			}
			cleanup = append(cleanup, e)
		}
		return u.notifier.Stage(ctx, append([]domain.Event{updated}, cleanup...)...)
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	u.notifier.Publish(ctx, updated)
	u.notifier.PublishDeferred(ctx, cleanup...)
	return asset, nil
}

// Remove empties the slot. The removed file is orphaned like a replaced one.
func (u *assetUsecase) Remove(ctx context.Context, kind domain.AssetKind, candidateID uuid.UUID) error {
	if !kind.IsValid() {
		return apperror.BadRequest("Unknown asset kind")
	}

	var updated domain.Event
	var cleanup domain.Event

	err := u.txm.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := u.loadCandidate(ctx, candidateID); err != nil {
			return err
		}

		removed, err := u.slots.Remove(ctx, kind, candidateID)
		if err != nil {
			return err
		}
		if removed == nil {
			return slotNotFound(kind)
		}

		c, err := u.loadCandidate(ctx, candidateID)
		if err != nil {
			return err
		}
		if updated, err = candidateEvent(domain.TopicCandidateUpdated, c); err != nil {
			return err
		}
		if cleanup, err = fileCleanupEvent(kind, removed.FileID, c); err != nil {
			return err
		}
		return u.notifier.Stage(ctx, updated, cleanup)
	})
	if err != nil {
		return mapStoreError(err)
	}

	u.notifier.Publish(ctx, updated)
	u.notifier.PublishDeferred(ctx, cleanup)
	return nil
}

// ResolveResumeDownloadURL asks the file service for a retrievable URL of the
// candidate's resume.
func (u *assetUsecase) ResolveResumeDownloadURL(ctx context.Context, candidateID uuid.UUID) (*domain.DownloadLink, error) {
	c, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if c == nil {
		return nil, apperror.NotFound("Candidate not found")
	}

	resume, err := u.slots.Get(ctx, domain.AssetResume, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if resume == nil {
		return nil, slotNotFound(domain.AssetResume)
	}

	url, ok := u.resolver.ResolveDownloadURL(ctx, resume.FileID)
	if !ok {
		return nil, apperror.ServiceUnavailable("File service is unavailable")
	}
	return &domain.DownloadLink{FileID: resume.FileID, DownloadURL: url}, nil
}

func (u *assetUsecase) loadCandidate(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	c, err := u.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCandidateNotFound
	}
	return c, nil
}

func slotNotFound(kind domain.AssetKind) *apperror.AppError {
	switch kind {
	case domain.AssetResume:
		return apperror.NotFound("Resume not found")
	case domain.AssetAvatar:
		return apperror.NotFound("Avatar not found")
	default:
		return apperror.NotFound("Asset not found")
	}
}
