package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/referendum/api/internal/core/domain"
)

type ReferendumRepository interface {
	// NextNumber atomically increments and returns the shared
	// referendum sequence. Concurrent callers never see the same value.
	NextNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, ref *domain.Referendum) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Referendum, error)
	GetByNumber(ctx context.Context, number int64) (*domain.Referendum, error)
	// ReplaceContent updates title/description and fully replaces the
	// option set, guarded by has_ever_opened=false at the storage level.
	// Returns domain.ErrReferendumLocked when the guard fires.
	ReplaceContent(ctx context.Context, ref *domain.Referendum) error
	UpdateStatus(ctx context.Context, ref *domain.Referendum) error
	ListAll(ctx context.Context) ([]*domain.Referendum, error)
	ListEverOpened(ctx context.Context) ([]*domain.Referendum, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Referendum, error)
}

type CreateReferendumInput struct {
	Title       string
	Description string
	Options     []string
}

// EditReferendumInput fields left nil are not touched.
type EditReferendumInput struct {
	Title       *string
	Description *string
	Options     []string
}

type ReferendumService interface {
	Create(ctx context.Context, input CreateReferendumInput) (*domain.Referendum, error)
	Edit(ctx context.Context, id string, input EditReferendumInput) (*domain.Referendum, error)
	SetStatus(ctx context.Context, id string, status string) (*domain.Referendum, error)
	ListForEC(ctx context.Context) ([]*domain.Referendum, error)
	ListForVoter(ctx context.Context, voterID uuid.UUID) ([]domain.VoterReferendum, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Referendum, error)
	GetByNumber(ctx context.Context, number int64, status domain.Status) (*domain.Referendum, error)
}
