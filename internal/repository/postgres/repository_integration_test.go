//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"candidate-service/config"
	"candidate-service/internal/domain"
	"candidate-service/migrations"
	"candidate-service/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

type RepositorySuite struct {
	suite.Suite

	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool

	candidates domain.CandidateRepository
	slots      domain.AssetSlotRepository
	outbox     domain.OutboxRepository
	txm        *TxManager
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("candidates"),
		tcpostgres.WithUsername("candidates"),
		tcpostgres.WithPassword("candidates"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	pool, err := database.NewPostgresConnection(ctx, &config.Config{DBUrl: dsn, DBMaxConns: 4, DBMinConns: 1})
	s.Require().NoError(err)
	s.pool = pool

	ddl, err := migrations.FS.ReadFile("0001_candidates.sql")
	s.Require().NoError(err)
	_, err = pool.Exec(ctx, string(ddl))
	s.Require().NoError(err)

	s.candidates = NewCandidateRepository(pool)
	s.slots = NewAssetSlotRepository(pool)
	s.outbox = NewOutboxRepository(pool)
	s.txm = NewTxManager(pool)
}

func (s *RepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *RepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE candidates, outbox CASCADE`)
	s.Require().NoError(err)
}

func (s *RepositorySuite) newCandidate(telegramID int64) *domain.Candidate {
	now := time.Now().UTC().Truncate(time.Microsecond)
	level := 3
	end := "2021-01-01"
	return &domain.Candidate{
		ID:                 uuid.New(),
		TelegramID:         telegramID,
		DisplayName:        "Ada",
		HeadlineRole:       "Backend engineer",
		ExperienceYears:    1.0,
		WorkModes:          []string{"remote", "hybrid"},
		ContactsVisibility: domain.ContactsOnRequest,
		Contacts:           map[string]any{"email": "ada@example.com"},
		Status:             domain.StatusActive,
		Skills: []domain.Skill{
			{ID: uuid.New(), Skill: "Go", Kind: domain.SkillHard, Level: &level},
			{ID: uuid.New(), Skill: "Postgres", Kind: domain.SkillTool},
		},
		Projects: []domain.Project{
			{ID: uuid.New(), Title: "Ledger", Links: map[string]any{"repo": "https://example.com"}},
		},
		Experiences: []domain.Experience{
			{ID: uuid.New(), Company: "Acme", Position: "Dev", StartDate: "2020-01-01", EndDate: &end},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *RepositorySuite) count(table string, candidateID uuid.UUID) int {
	var n int
	err := s.pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table+` WHERE candidate_id = $1`, candidateID).Scan(&n)
	s.Require().NoError(err)
	return n
}

func (s *RepositorySuite) TestCreateAndGet() {
	ctx := context.Background()
	c := s.newCandidate(1001)
	s.Require().NoError(s.candidates.Create(ctx, c))

	got, err := s.candidates.GetByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(c, got)

	byTelegram, err := s.candidates.GetByTelegramID(ctx, 1001)
	s.Require().NoError(err)
	s.Equal(c.ID, byTelegram.ID)

	missing, err := s.candidates.GetByID(ctx, uuid.New())
	s.NoError(err)
	s.Nil(missing)
}

func (s *RepositorySuite) TestCreate_DuplicateTelegramID() {
	ctx := context.Background()
	first := s.newCandidate(2002)
	s.Require().NoError(s.candidates.Create(ctx, first))

	second := s.newCandidate(2002)
	second.DisplayName = "Impostor"
	err := s.candidates.Create(ctx, second)
	s.True(errors.Is(err, domain.ErrDuplicateTelegramID))

	stored, err := s.candidates.GetByTelegramID(ctx, 2002)
	s.Require().NoError(err)
	s.Equal(first.ID, stored.ID)
	s.Equal("Ada", stored.DisplayName)
	s.Len(stored.Skills, 2)
}

func (s *RepositorySuite) TestUpdate_CollectionReplacement() {
	ctx := context.Background()
	c := s.newCandidate(3003)
	s.Require().NoError(s.candidates.Create(ctx, c))

	name := "Ada L."
	updated, err := s.candidates.Update(ctx, c.ID, &domain.CandidateMutation{DisplayName: &name})
	s.Require().NoError(err)
	s.Equal("Ada L.", updated.DisplayName)
	s.Equal(c.Skills, updated.Skills)
	s.True(updated.UpdatedAt.After(c.UpdatedAt) || updated.UpdatedAt.Equal(c.UpdatedAt))

	replacement := []domain.Skill{{ID: uuid.New(), Skill: "Rust", Kind: domain.SkillHard}}
	updated, err = s.candidates.Update(ctx, c.ID, &domain.CandidateMutation{Skills: &replacement})
	s.Require().NoError(err)
	s.Equal(replacement, updated.Skills)
	s.Equal(c.Projects, updated.Projects)

	empty := []domain.Skill{}
	updated, err = s.candidates.Update(ctx, c.ID, &domain.CandidateMutation{Skills: &empty})
	s.Require().NoError(err)
	s.Empty(updated.Skills)
	s.Equal(0, s.count("candidate_skills", c.ID))
}

func (s *RepositorySuite) TestUpdate_LiteralYearsYieldToStoredExperiences() {
	ctx := context.Background()
	c := s.newCandidate(4004)
	s.Require().NoError(s.candidates.Create(ctx, c))

	literal := 30.0
	updated, err := s.candidates.Update(ctx, c.ID, &domain.CandidateMutation{ExperienceYears: &literal})
	s.Require().NoError(err)
	s.Equal(1.0, updated.ExperienceYears)
}

func (s *RepositorySuite) TestUpdate_NotFound() {
	status := domain.StatusHidden
	_, err := s.candidates.Update(context.Background(), uuid.New(), &domain.CandidateMutation{Status: &status})
	s.True(errors.Is(err, domain.ErrCandidateNotFound))
}

func (s *RepositorySuite) TestSlotReplaceTwice() {
	ctx := context.Background()
	c := s.newCandidate(5005)
	s.Require().NoError(s.candidates.Create(ctx, c))

	first, old, err := s.slots.Replace(ctx, domain.AssetAvatar, c.ID, "avatars/one.png")
	s.Require().NoError(err)
	s.Nil(old)
	s.Equal("avatars/one.png", first.FileID)

	_, old, err = s.slots.Replace(ctx, domain.AssetAvatar, c.ID, "avatars/two.png")
	s.Require().NoError(err)
	s.Require().NotNil(old)
	s.Equal("avatars/one.png", *old)
	s.Equal(1, s.count("avatars", c.ID))

	got, err := s.candidates.GetByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Avatar)
	s.Equal("avatars/two.png", got.Avatar.FileID)
	s.Nil(got.Resume)

	removed, err := s.slots.Remove(ctx, domain.AssetAvatar, c.ID)
	s.Require().NoError(err)
	s.Equal("avatars/two.png", removed.FileID)

	removed, err = s.slots.Remove(ctx, domain.AssetAvatar, c.ID)
	s.NoError(err)
	s.Nil(removed)
}

func (s *RepositorySuite) TestSlotReplace_UnknownCandidate() {
	_, _, err := s.slots.Replace(context.Background(), domain.AssetResume, uuid.New(), "cv.pdf")
	s.True(errors.Is(err, domain.ErrCandidateNotFound))
}

func (s *RepositorySuite) TestDeleteCascades() {
	ctx := context.Background()
	c := s.newCandidate(6006)
	s.Require().NoError(s.candidates.Create(ctx, c))
	_, _, err := s.slots.Replace(ctx, domain.AssetResume, c.ID, "cv.pdf")
	s.Require().NoError(err)
	_, _, err = s.slots.Replace(ctx, domain.AssetAvatar, c.ID, "avatars/a.png")
	s.Require().NoError(err)
	s.Equal(1, s.count("avatars", c.ID))

	found, err := s.candidates.Delete(ctx, c.ID)
	s.Require().NoError(err)
	s.True(found)

	got, err := s.candidates.GetByID(ctx, c.ID)
	s.NoError(err)
	s.Nil(got)

	byTelegram, err := s.candidates.GetByTelegramID(ctx, c.TelegramID)
	s.NoError(err)
	s.Nil(byTelegram)

	for _, table := range []string{"candidate_skills", "projects", "experiences", "resumes", "avatars"} {
		s.Equal(0, s.count(table, c.ID), table)
	}

	found, err = s.candidates.Delete(ctx, c.ID)
	s.NoError(err)
	s.False(found)
}

func (s *RepositorySuite) TestLock_RequiresTransaction() {
	_, err := s.candidates.Lock(context.Background(), uuid.New())
	s.Error(err)

	err = s.txm.WithinTx(context.Background(), func(ctx context.Context) error {
		found, err := s.candidates.Lock(ctx, uuid.New())
		s.NoError(err)
		s.False(found)
		return nil
	})
	s.NoError(err)
}

// holdSlotReplace replaces the avatar inside an open transaction and runs
// concurrent while the candidate row is still locked. The transaction commits
// once concurrent has had time to reach the lock.
func (s *RepositorySuite) holdSlotReplace(candidateID uuid.UUID, fileID string, concurrent func()) {
	ctx := context.Background()
	finished := make(chan struct{})

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if _, _, err := s.slots.Replace(ctx, domain.AssetAvatar, candidateID, fileID); err != nil {
			return err
		}
		go func() {
			defer close(finished)
			concurrent()
		}()

		select {
		case <-finished:
			s.Fail("concurrent mutation did not wait for the candidate lock")
		case <-time.After(300 * time.Millisecond):
		}
		return nil
	})
	s.Require().NoError(err)

	select {
	case <-finished:
	case <-time.After(10 * time.Second):
		s.FailNow("concurrent mutation never finished")
	}
}

func (s *RepositorySuite) TestSlotRemove_WaitsForConcurrentReplace() {
	c := s.newCandidate(8008)
	s.Require().NoError(s.candidates.Create(context.Background(), c))
	_, _, err := s.slots.Replace(context.Background(), domain.AssetAvatar, c.ID, "avatars/old.png")
	s.Require().NoError(err)

	var removed *domain.Asset
	var removeErr error
	s.holdSlotReplace(c.ID, "avatars/new.png", func() {
		removed, removeErr = s.slots.Remove(context.Background(), domain.AssetAvatar, c.ID)
	})

	s.Require().NoError(removeErr)
	s.Require().NotNil(removed)
	s.Equal("avatars/new.png", removed.FileID)
	s.Equal(0, s.count("avatars", c.ID))
}

func (s *RepositorySuite) TestLock_SnapshotSeesConcurrentReplace() {
	c := s.newCandidate(9009)
	s.Require().NoError(s.candidates.Create(context.Background(), c))
	_, _, err := s.slots.Replace(context.Background(), domain.AssetAvatar, c.ID, "avatars/old.png")
	s.Require().NoError(err)

	var snapshot *domain.Candidate
	var deleteErr error
	s.holdSlotReplace(c.ID, "avatars/new.png", func() {
		deleteErr = s.txm.WithinTx(context.Background(), func(ctx context.Context) error {
			found, err := s.candidates.Lock(ctx, c.ID)
			if err != nil {
				return err
			}
			if !found {
				return domain.ErrCandidateNotFound
			}
			if snapshot, err = s.candidates.GetByID(ctx, c.ID); err != nil {
				return err
			}
			_, err = s.candidates.Delete(ctx, c.ID)
			return err
		})
	})

	s.Require().NoError(deleteErr)
	s.Require().NotNil(snapshot)
	s.Require().NotNil(snapshot.Avatar)
	s.Equal("avatars/new.png", snapshot.Avatar.FileID)
}

func (s *RepositorySuite) TestSlotRemove_UnknownCandidate() {
	_, err := s.slots.Remove(context.Background(), domain.AssetResume, uuid.New())
	s.True(errors.Is(err, domain.ErrCandidateNotFound))
}

func (s *RepositorySuite) TestWithinTx_RollsBackEveryWrite() {
	ctx := context.Background()
	c := s.newCandidate(7007)

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.candidates.Create(ctx, c); err != nil {
			return err
		}
		if err := s.outbox.Append(ctx, domain.Event{Topic: domain.TopicCandidateCreated, Payload: []byte(`{}`)}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	s.EqualError(err, "abort")

	got, err := s.candidates.GetByID(ctx, c.ID)
	s.NoError(err)
	s.Nil(got)

	pending, err := s.outbox.Pending(ctx)
	s.NoError(err)
	s.Zero(pending)
}

func (s *RepositorySuite) TestOutboxClaimAndMark() {
	ctx := context.Background()
	for _, topic := range []string{domain.TopicCandidateCreated, domain.TopicCandidateUpdated} {
		s.Require().NoError(s.outbox.Append(ctx, domain.Event{Topic: topic, Key: []byte("k"), Payload: []byte(`{"n":1}`)}))
	}

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		entries, err := s.outbox.Claim(ctx, 10)
		s.Require().NoError(err)
		s.Require().Len(entries, 2)
		s.Equal(domain.TopicCandidateCreated, entries[0].Topic)
		s.Equal("k", string(entries[0].Key))

		s.Require().NoError(s.outbox.MarkPublished(ctx, entries[0].ID))
		return s.outbox.MarkFailed(ctx, entries[1].ID, "broker down")
	})
	s.Require().NoError(err)

	pending, err := s.outbox.Pending(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), pending)
}
