package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Enumerations
// ============================================================================

type ContactsVisibility string

const (
	ContactsOnRequest ContactsVisibility = "on_request"
	ContactsPublic    ContactsVisibility = "public"
	ContactsHidden    ContactsVisibility = "hidden"
)

type CandidateStatus string

const (
	StatusActive  CandidateStatus = "active"
	StatusHidden  CandidateStatus = "hidden"
	StatusBlocked CandidateStatus = "blocked"
)

type SkillKind string

const (
	SkillHard     SkillKind = "hard"
	SkillTool     SkillKind = "tool"
	SkillLanguage SkillKind = "language"
)

const (
	DefaultWorkMode    = "remote"
	MaxExperienceYears = 65.0
)

// ============================================================================
// Aggregate
// ============================================================================

// Candidate is the aggregate root. Skills, projects, experiences, resume and
// avatar are owned by it and removed together with it.
type Candidate struct {
	ID                 uuid.UUID          `json:"id"`
	TelegramID         int64              `json:"telegram_id"`
	DisplayName        string             `json:"display_name"`
	HeadlineRole       string             `json:"headline_role"`
	ExperienceYears    float64            `json:"experience_years"`
	Location           *string            `json:"location"`
	WorkModes          []string           `json:"work_modes"`
	ContactsVisibility ContactsVisibility `json:"contacts_visibility"`
	Contacts           map[string]any     `json:"contacts"`
	Status             CandidateStatus    `json:"status"`
	Skills             []Skill            `json:"skills"`
	Projects           []Project          `json:"projects"`
	Experiences        []Experience       `json:"experiences"`
	Resume             *Asset             `json:"resume"`
	Avatar             *Asset             `json:"avatar"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type Skill struct {
	ID    uuid.UUID `json:"id"`
	Skill string    `json:"skill"`
	Kind  SkillKind `json:"kind"`
	Level *int      `json:"level"`
}

type Project struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Links       map[string]any `json:"links"`
}

// Experience dates use the YYYY-MM-DD layout. A nil EndDate means the role is ongoing.
type Experience struct {
	ID               uuid.UUID `json:"id"`
	Company          string    `json:"company"`
	Position         string    `json:"position"`
	StartDate        string    `json:"start_date"`
	EndDate          *string   `json:"end_date"`
	Responsibilities *string   `json:"responsibilities"`
}

// ============================================================================
// Input DTOs
// ============================================================================

type SkillInput struct {
	Skill string    `json:"skill" validate:"required,not_blank,max=255"`
	Kind  SkillKind `json:"kind" validate:"required,oneof=hard tool language"`
	Level *int      `json:"level,omitempty" validate:"omitempty,min=1,max=5"`
}

type ProjectInput struct {
	Title       string         `json:"title" validate:"required,not_blank,max=255"`
	Description *string        `json:"description,omitempty"`
	Links       map[string]any `json:"links,omitempty"`
}

type ExperienceInput struct {
	Company          string  `json:"company" validate:"required,not_blank,max=255"`
	Position         string  `json:"position" validate:"required,not_blank,max=255"`
	StartDate        string  `json:"start_date" validate:"required,iso_date"`
	EndDate          *string `json:"end_date,omitempty" validate:"omitempty,iso_date"`
	Responsibilities *string `json:"responsibilities,omitempty"`
}

type CandidateCreate struct {
	TelegramID         int64              `json:"telegram_id" validate:"required,gt=0"`
	DisplayName        string             `json:"display_name" validate:"required,not_blank,max=255"`
	HeadlineRole       string             `json:"headline_role" validate:"required,not_blank,max=255"`
	ExperienceYears    float64            `json:"experience_years" validate:"gte=0,lte=65"`
	Location           *string            `json:"location,omitempty" validate:"omitempty,max=255"`
	WorkModes          []string           `json:"work_modes,omitempty" validate:"omitempty,dive,not_blank,max=64"`
	ContactsVisibility ContactsVisibility `json:"contacts_visibility,omitempty" validate:"omitempty,oneof=on_request public hidden"`
	Contacts           map[string]any     `json:"contacts,omitempty"`
	Status             CandidateStatus    `json:"status,omitempty" validate:"omitempty,oneof=active hidden blocked"`
	Skills             []SkillInput       `json:"skills,omitempty" validate:"omitempty,dive"`
	Projects           []ProjectInput     `json:"projects,omitempty" validate:"omitempty,dive"`
	Experiences        []ExperienceInput  `json:"experiences,omitempty" validate:"omitempty,dive"`
}

// CandidateUpdate is a partial update. A nil field is left untouched. For the
// owned collections a nil pointer (field omitted or null) keeps the stored
// rows, while a non-nil pointer, even to an empty slice, replaces them all.
type CandidateUpdate struct {
	DisplayName        *string             `json:"display_name,omitempty" validate:"omitempty,max=255"`
	HeadlineRole       *string             `json:"headline_role,omitempty" validate:"omitempty,max=255"`
	ExperienceYears    *float64            `json:"experience_years,omitempty" validate:"omitempty,gte=0,lte=65"`
	Location           *string             `json:"location,omitempty" validate:"omitempty,max=255"`
	WorkModes          *[]string           `json:"work_modes,omitempty" validate:"omitempty,dive,not_blank,max=64"`
	ContactsVisibility *ContactsVisibility `json:"contacts_visibility,omitempty" validate:"omitempty,oneof=on_request public hidden"`
	Contacts           map[string]any      `json:"contacts,omitempty"`
	Status             *CandidateStatus    `json:"status,omitempty" validate:"omitempty,oneof=active hidden blocked"`
	Skills             *[]SkillInput       `json:"skills,omitempty" validate:"omitempty,dive"`
	Projects           *[]ProjectInput     `json:"projects,omitempty" validate:"omitempty,dive"`
	Experiences        *[]ExperienceInput  `json:"experiences,omitempty" validate:"omitempty,dive"`
}

// CandidateMutation is the storage-level form of a partial update: children
// already carry their ids and ExperienceYears already holds the derived value.
type CandidateMutation struct {
	DisplayName        *string
	HeadlineRole       *string
	ExperienceYears    *float64
	Location           *string
	WorkModes          *[]string
	ContactsVisibility *ContactsVisibility
	Contacts           map[string]any
	Status             *CandidateStatus
	Skills             *[]Skill
	Projects           *[]Project
	Experiences        *[]Experience
}

// ============================================================================
// Repository Interfaces
// ============================================================================

// CandidateRepository persists the aggregate. Getters return (nil, nil) when
// the candidate does not exist.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*Candidate, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*Candidate, error)
	List(ctx context.Context) ([]Candidate, error)
	Update(ctx context.Context, id uuid.UUID, mutation *CandidateMutation) (*Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// Lock takes the row lock that serializes mutations of one candidate until
	// the surrounding transaction ends. It must run inside Transactor.WithinTx.
	// false means the candidate does not exist.
	Lock(ctx context.Context, id uuid.UUID) (bool, error)
}

// Transactor runs fn inside one storage transaction carried by the context
// passed to fn. Nested calls join the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ============================================================================
// Usecase Interface
// ============================================================================

type CandidateUsecase interface {
	Register(ctx context.Context, in *CandidateCreate) (*Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Candidate, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*Candidate, error)
	List(ctx context.Context) ([]Candidate, error)
	Update(ctx context.Context, id uuid.UUID, in *CandidateUpdate) (*Candidate, error)
	UpdateByTelegramID(ctx context.Context, telegramID int64, in *CandidateUpdate) (*Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTelegramID(ctx context.Context, telegramID int64) error
}
