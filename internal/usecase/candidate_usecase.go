package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"candidate-service/internal/domain"
	"candidate-service/pkg/apperror"
	"candidate-service/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type candidateUsecase struct {
	repo     domain.CandidateRepository
	txm      domain.Transactor
	notifier *ChangeNotifier
	validate *validator.Validate
	now      func() time.Time
}

func NewCandidateUsecase(
	repo domain.CandidateRepository,
	txm domain.Transactor,
	notifier *ChangeNotifier,
	validate *validator.Validate,
	now func() time.Time,
) domain.CandidateUsecase {
	if now == nil {
		now = time.Now
	}
	return &candidateUsecase{
		repo:     repo,
		txm:      txm,
		notifier: notifier,
		validate: validate,
		now:      now,
	}
}

// today is the reference date for ongoing experiences. Storage keeps
// microseconds, so the clock is truncated to match what a read returns.
func (u *candidateUsecase) today() time.Time {
	return u.now().UTC().Truncate(time.Microsecond)
}

// =================================================================================================
// Register
// =================================================================================================

func (u *candidateUsecase) Register(ctx context.Context, in *domain.CandidateCreate) (*domain.Candidate, error) {
	if err := u.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	now := u.today()
	c := &domain.Candidate{
		ID:                 uuid.New(),
		TelegramID:         in.TelegramID,
		DisplayName:        strings.TrimSpace(in.DisplayName),
		HeadlineRole:       strings.TrimSpace(in.HeadlineRole),
		Location:           in.Location,
		WorkModes:          normalizeWorkModes(in.WorkModes),
		ContactsVisibility: in.ContactsVisibility,
		Contacts:           in.Contacts,
		Status:             in.Status,
		Skills:             buildSkills(in.Skills),
		Projects:           buildProjects(in.Projects),
		Experiences:        buildExperiences(in.Experiences),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if c.ContactsVisibility == "" {
		c.ContactsVisibility = domain.ContactsOnRequest
	}
	if c.Status == "" {
		c.Status = domain.StatusActive
	}
	if c.Contacts == nil {
		c.Contacts = map[string]any{}
	}

	c.ExperienceYears = domain.RoundYears(in.ExperienceYears)
	if len(c.Experiences) > 0 {
		c.ExperienceYears = domain.TotalExperienceYears(c.Experiences, now)
	}
	if err := checkDerivedYears(c.ExperienceYears); err != nil {
		return nil, err
	}

	event, err := candidateEvent(domain.TopicCandidateCreated, c)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	err = u.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.repo.Create(ctx, c); err != nil {
			return err
		}
		return u.notifier.Stage(ctx, event)
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	u.notifier.Publish(ctx, event)
	return c, nil
}

// =================================================================================================
// Reads
// =================================================================================================

func (u *candidateUsecase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if c == nil {
		return nil, apperror.NotFound("Candidate not found")
	}
	return c, nil
}

func (u *candidateUsecase) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Candidate, error) {
	c, err := u.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if c == nil {
		return nil, apperror.NotFound("Candidate not found")
	}
	return c, nil
}

func (u *candidateUsecase) List(ctx context.Context) ([]domain.Candidate, error) {
	candidates, err := u.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return candidates, nil
}

// =================================================================================================
// Update
// =================================================================================================

func (u *candidateUsecase) Update(ctx context.Context, id uuid.UUID, in *domain.CandidateUpdate) (*domain.Candidate, error) {
	if err := u.validateUpdate(in); err != nil {
		return nil, err
	}
	return u.update(ctx, id, in)
}

func (u *candidateUsecase) UpdateByTelegramID(ctx context.Context, telegramID int64, in *domain.CandidateUpdate) (*domain.Candidate, error) {
	if err := u.validateUpdate(in); err != nil {
		return nil, err
	}
	c, err := u.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return u.update(ctx, c.ID, in)
}

func (u *candidateUsecase) update(ctx context.Context, id uuid.UUID, in *domain.CandidateUpdate) (*domain.Candidate, error) {
	m, err := u.buildMutation(in)
	if err != nil {
		return nil, err
	}

	var updated *domain.Candidate
	var event domain.Event
	err = u.txm.WithinTx(ctx, func(ctx context.Context) error {
		c, err := u.repo.Update(ctx, id, m)
		if err != nil {
			return err
		}
		if event, err = candidateEvent(domain.TopicCandidateUpdated, c); err != nil {
			return err
		}
		updated = c
		return u.notifier.Stage(ctx, event)
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	u.notifier.Publish(ctx, event)
	return updated, nil
}

// validateUpdate runs the struct rules, then the blank checks that
// omitempty skips on optional strings.
func (u *candidateUsecase) validateUpdate(in *domain.CandidateUpdate) error {
	if err := u.validate.Struct(in); err != nil {
		return validationError(err)
	}

	var details []string
	if in.DisplayName != nil && strings.TrimSpace(*in.DisplayName) == "" {
		details = append(details, validation.BlankFieldMessage("display_name"))
	}
	if in.HeadlineRole != nil && strings.TrimSpace(*in.HeadlineRole) == "" {
		details = append(details, validation.BlankFieldMessage("headline_role"))
	}
	if len(details) > 0 {
		return apperror.Validation("Validation failed", details)
	}
	return nil
}

// buildMutation converts the request into its storage form. When the request
// carries experiences, the derived years replace any literal value.
func (u *candidateUsecase) buildMutation(in *domain.CandidateUpdate) (*domain.CandidateMutation, error) {
	m := &domain.CandidateMutation{
		Location:           in.Location,
		ContactsVisibility: in.ContactsVisibility,
		Contacts:           in.Contacts,
		Status:             in.Status,
	}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		m.DisplayName = &name
	}
	if in.HeadlineRole != nil {
		role := strings.TrimSpace(*in.HeadlineRole)
		m.HeadlineRole = &role
	}
	if in.ExperienceYears != nil {
		years := domain.RoundYears(*in.ExperienceYears)
		m.ExperienceYears = &years
	}
	if in.WorkModes != nil {
		modes := normalizeWorkModes(*in.WorkModes)
		m.WorkModes = &modes
	}
	if in.Skills != nil {
		skills := buildSkills(*in.Skills)
		m.Skills = &skills
	}
	if in.Projects != nil {
		projects := buildProjects(*in.Projects)
		m.Projects = &projects
	}
	if in.Experiences != nil {
		experiences := buildExperiences(*in.Experiences)
		m.Experiences = &experiences

		years := domain.TotalExperienceYears(experiences, u.today())
		if err := checkDerivedYears(years); err != nil {
			return nil, err
		}
		m.ExperienceYears = &years
	}
	return m, nil
}

// =================================================================================================
// Delete
// =================================================================================================

func (u *candidateUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return u.delete(ctx, func(context.Context) (uuid.UUID, error) {
		return id, nil
	})
}

func (u *candidateUsecase) DeleteByTelegramID(ctx context.Context, telegramID int64) error {
	return u.delete(ctx, func(ctx context.Context) (uuid.UUID, error) {
		c, err := u.repo.GetByTelegramID(ctx, telegramID)
		if err != nil {
			return uuid.Nil, err
		}
		if c == nil {
			return uuid.Nil, domain.ErrCandidateNotFound
		}
		return c.ID, nil
	})
}

// delete removes the aggregate and announces it. Files referenced by the
// cascaded resume and avatar rows are orphaned, so cleanup events follow.
func (u *candidateUsecase) delete(ctx context.Context, resolve func(ctx context.Context) (uuid.UUID, error)) error {
	var deleted domain.Event
	var cleanup []domain.Event

	err := u.txm.WithinTx(ctx, func(ctx context.Context) error {
		id, err := resolve(ctx)
		if err != nil {
			return err
		}

		// Slot replacements take the same lock, so the snapshot read below
		// names exactly the files the cascade removes.
		found, err := u.repo.Lock(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCandidateNotFound
		}
		c, err := u.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrCandidateNotFound
		}

		if _, err := u.repo.Delete(ctx, id); err != nil {
			return err
		}

		if deleted, err = candidateDeletedEvent(c); err != nil {
			return err
		}
		if cleanup, err = orphanedAssetEvents(c); err != nil {
			return err
		}
		return u.notifier.Stage(ctx, append([]domain.Event{deleted}, cleanup...)...)
	})
	if err != nil {
		return mapStoreError(err)
	}

	u.notifier.Publish(ctx, deleted)
	u.notifier.PublishDeferred(ctx, cleanup...)
	return nil
}

func orphanedAssetEvents(c *domain.Candidate) ([]domain.Event, error) {
	var events []domain.Event
	slots := map[domain.AssetKind]*domain.Asset{
		domain.AssetResume: c.Resume,
		domain.AssetAvatar: c.Avatar,
	}
	for _, kind := range domain.ValidAssetKinds() {
		asset := slots[kind]
		if asset == nil {
			continue
		}
		e, err := fileCleanupEvent(kind, asset.FileID, c)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// =================================================================================================
// Helpers
// =================================================================================================

// normalizeWorkModes trims, drops duplicates keeping the first occurrence and
// falls back to the default mode when nothing remains.
func normalizeWorkModes(modes []string) []string {
	seen := make(map[string]struct{}, len(modes))
	out := make([]string, 0, len(modes))
	for _, mode := range modes {
		mode = strings.TrimSpace(mode)
		if mode == "" {
			continue
		}
		if _, dup := seen[mode]; dup {
			continue
		}
		seen[mode] = struct{}{}
		out = append(out, mode)
	}
	if len(out) == 0 {
		return []string{domain.DefaultWorkMode}
	}
	return out
}

func buildSkills(in []domain.SkillInput) []domain.Skill {
	out := make([]domain.Skill, len(in))
	for i, s := range in {
		out[i] = domain.Skill{ID: uuid.New(), Skill: strings.TrimSpace(s.Skill), Kind: s.Kind, Level: s.Level}
	}
	return out
}

func buildProjects(in []domain.ProjectInput) []domain.Project {
	out := make([]domain.Project, len(in))
	for i, p := range in {
		out[i] = domain.Project{ID: uuid.New(), Title: strings.TrimSpace(p.Title), Description: p.Description, Links: p.Links}
	}
	return out
}

func buildExperiences(in []domain.ExperienceInput) []domain.Experience {
	out := make([]domain.Experience, len(in))
	for i, e := range in {
		end := e.EndDate
		if end != nil && *end == "" {
			end = nil
		}
		out[i] = domain.Experience{
			ID:               uuid.New(),
			Company:          strings.TrimSpace(e.Company),
			Position:         strings.TrimSpace(e.Position),
			StartDate:        e.StartDate,
			EndDate:          end,
			Responsibilities: e.Responsibilities,
		}
	}
	return out
}

func checkDerivedYears(years float64) error {
	if years > domain.MaxExperienceYears {
		return apperror.Validation("Validation failed", []string{
			fmt.Sprintf("%s: must be at most %g", validation.FieldLabels["experience_years"], domain.MaxExperienceYears),
		})
	}
	return nil
}

func validationError(err error) error {
	return apperror.Validation("Validation failed", validation.FormatValidationErrors(err))
}

// mapStoreError turns storage sentinels into taxonomy errors. AppErrors
// raised inside a transaction pass through unchanged.
func mapStoreError(err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domain.ErrDuplicateTelegramID):
		return apperror.Conflict("Candidate with this Telegram ID already exists", err)
	case errors.Is(err, domain.ErrCandidateNotFound):
		return apperror.NotFound("Candidate not found")
	default:
		return apperror.Internal(err)
	}
}
