package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"candidate-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// Mock Repositories
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCandidateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Candidate, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) List(ctx context.Context) ([]domain.Candidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Update(ctx context.Context, id uuid.UUID, mutation *domain.CandidateMutation) (*domain.Candidate, error) {
	args := m.Called(ctx, id, mutation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCandidateRepo) Lock(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockSlotRepo struct {
	mock.Mock
}

func (m *MockSlotRepo) Replace(ctx context.Context, kind domain.AssetKind, candidateID uuid.UUID, fileID string) (*domain.Asset, *string, error) {
	args := m.Called(ctx, kind, candidateID, fileID)
	var asset *domain.Asset
	if a := args.Get(0); a != nil {
		asset = a.(*domain.Asset)
	}
	var old *string
	if o := args.Get(1); o != nil {
		old = o.(*string)
	}
	return asset, old, args.Error(2)
}

func (m *MockSlotRepo) Remove(ctx context.Context, kind domain.AssetKind, candidateID uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, kind, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockSlotRepo) Get(ctx context.Context, kind domain.AssetKind, candidateID uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, kind, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Append(ctx context.Context, event domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockOutboxRepo) Claim(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepo) MarkPublished(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockOutboxRepo) Pending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Mock collaborators
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, key, payload []byte) error {
	return m.Called(ctx, topic, key, payload).Error(0)
}

// published returns the payloads sent to topic, in call order.
func (m *MockPublisher) published(topic string) [][]byte {
	var out [][]byte
	for _, call := range m.Calls {
		if call.Method == "Publish" && call.Arguments.String(1) == topic {
			out = append(out, call.Arguments.Get(3).([]byte))
		}
	}
	return out
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveDownloadURL(ctx context.Context, objectKey string) (string, bool) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Bool(1)
}

// inlineTx runs fn on the caller's context, standing in for a database transaction.
type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
