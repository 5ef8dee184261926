package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"candidate-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const candidateColumns = `
	id, telegram_id, display_name, headline_role, experience_years::float8,
	location, work_modes, contacts_visibility, contacts, status,
	created_at, updated_at`

type candidateRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db, now: time.Now}
}

// =================================================================================================
// Reads
// =================================================================================================

func (r *candidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	return r.getOne(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
}

func (r *candidateRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Candidate, error) {
	return r.getOne(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE telegram_id = $1`, telegramID)
}

func (r *candidateRepository) List(ctx context.Context) ([]domain.Candidate, error) {
	q := conn(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*domain.Candidate, len(candidates))
	for i := range candidates {
		ptrs[i] = &candidates[i]
	}
	if err := r.loadChildren(ctx, q, ptrs...); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *candidateRepository) getOne(ctx context.Context, query string, arg any) (*domain.Candidate, error) {
	q := conn(ctx, r.db)
	c, err := scanCandidate(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadChildren(ctx, q, c); err != nil {
		return nil, err
	}
	return c, nil
}

// loadChildren fills every owned collection and both asset slots.
func (r *candidateRepository) loadChildren(ctx context.Context, q querier, candidates ...*domain.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	skills, err := skillCollection.load(ctx, q, ids)
	if err != nil {
		return err
	}
	projects, err := projectCollection.load(ctx, q, ids)
	if err != nil {
		return err
	}
	experiences, err := experienceCollection.load(ctx, q, ids)
	if err != nil {
		return err
	}
	resumes, err := loadAssets(ctx, q, domain.AssetResume, ids)
	if err != nil {
		return err
	}
	avatars, err := loadAssets(ctx, q, domain.AssetAvatar, ids)
	if err != nil {
		return err
	}

	for _, c := range candidates {
		c.Skills = nonNil(skills[c.ID])
		c.Projects = nonNil(projects[c.ID])
		c.Experiences = nonNil(experiences[c.ID])
		c.Resume = resumes[c.ID]
		c.Avatar = avatars[c.ID]
	}
	return nil
}

// =================================================================================================
// Transactional writes
// =================================================================================================

func (r *candidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	contacts, err := marshalJSON(c.Contacts)
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}

	return runInTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO candidates (
				id, telegram_id, display_name, headline_role, experience_years,
				location, work_modes, contacts_visibility, contacts, status,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9::jsonb, '{}'::jsonb), $10, $11, $12)`

		_, err := tx.Exec(ctx, query,
			c.ID, c.TelegramID, c.DisplayName, c.HeadlineRole, c.ExperienceYears,
			c.Location, pq.Array(c.WorkModes), string(c.ContactsVisibility), contacts, string(c.Status),
			c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return domain.ErrDuplicateTelegramID
			}
			return fmt.Errorf("insert candidate: %w", err)
		}

		if err := skillCollection.insert(ctx, tx, c.ID, c.Skills); err != nil {
			return err
		}
		if err := projectCollection.insert(ctx, tx, c.ID, c.Projects); err != nil {
			return err
		}
		return experienceCollection.insert(ctx, tx, c.ID, c.Experiences)
	})
}

// Update applies a partial mutation: root fields, replaced collections and the
// experience_years value all commit together or not at all. The candidate row
// is locked first so concurrent updates of the same candidate serialize.
func (r *candidateRepository) Update(ctx context.Context, id uuid.UUID, m *domain.CandidateMutation) (*domain.Candidate, error) {
	var updated *domain.Candidate

	err := runInTx(ctx, r.db, func(tx pgx.Tx) error {
		found, err := lockCandidate(ctx, tx, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCandidateNotFound
		}

		// A literal experience_years cannot override the value derived from
		// stored experiences.
		if m.Experiences == nil && m.ExperienceYears != nil {
			stored, err := experienceCollection.load(ctx, tx, []uuid.UUID{id})
			if err != nil {
				return err
			}
			if existing := stored[id]; len(existing) > 0 {
				derived := domain.TotalExperienceYears(existing, r.now())
				m.ExperienceYears = &derived
			}
		}

		if err := updateRoot(ctx, tx, id, m); err != nil {
			return err
		}

		if m.Skills != nil {
			if err := skillCollection.replace(ctx, tx, id, *m.Skills); err != nil {
				return err
			}
		}
		if m.Projects != nil {
			if err := projectCollection.replace(ctx, tx, id, *m.Projects); err != nil {
				return err
			}
		}
		if m.Experiences != nil {
			if err := experienceCollection.replace(ctx, tx, id, *m.Experiences); err != nil {
				return err
			}
		}

		c, err := scanCandidate(tx.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
		if err != nil {
			return fmt.Errorf("reload candidate: %w", err)
		}
		if err := r.loadChildren(ctx, tx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the candidate; owned rows go with it through ON DELETE CASCADE.
func (r *candidateRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete candidate: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *candidateRepository) Lock(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, ok := txFrom(ctx)
	if !ok {
		return false, errors.New("lock candidate: no transaction in context")
	}
	return lockCandidate(ctx, tx, id)
}

// updateRoot writes only the supplied root columns and always bumps updated_at.
func updateRoot(ctx context.Context, tx pgx.Tx, id uuid.UUID, m *domain.CandidateMutation) error {
	sets := []string{}
	args := []any{}
	set := func(column string, value any, cast string) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d%s", column, len(args), cast))
	}

	if m.DisplayName != nil {
		set("display_name", *m.DisplayName, "")
	}
	if m.HeadlineRole != nil {
		set("headline_role", *m.HeadlineRole, "")
	}
	if m.ExperienceYears != nil {
		set("experience_years", *m.ExperienceYears, "")
	}
	if m.Location != nil {
		set("location", *m.Location, "")
	}
	if m.WorkModes != nil {
		set("work_modes", pq.Array(*m.WorkModes), "")
	}
	if m.ContactsVisibility != nil {
		set("contacts_visibility", string(*m.ContactsVisibility), "")
	}
	if m.Contacts != nil {
		contacts, err := marshalJSON(m.Contacts)
		if err != nil {
			return fmt.Errorf("encode contacts: %w", err)
		}
		set("contacts", contacts, "::jsonb")
	}
	if m.Status != nil {
		set("status", string(*m.Status), "")
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE candidates SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}
	return nil
}

// lockCandidate takes the row lock that serializes mutations of one aggregate.
func lockCandidate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	var locked uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM candidates WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lock candidate: %w", err)
	}
	return true, nil
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var c domain.Candidate
	var workModes []string
	var visibility, status string
	var contacts []byte

	err := row.Scan(
		&c.ID, &c.TelegramID, &c.DisplayName, &c.HeadlineRole, &c.ExperienceYears,
		&c.Location, pq.Array(&workModes), &visibility, &contacts, &status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.WorkModes = nonNil(workModes)
	c.ContactsVisibility = domain.ContactsVisibility(visibility)
	c.Status = domain.CandidateStatus(status)
	c.Contacts = map[string]any{}
	if err := unmarshalJSON(contacts, &c.Contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
