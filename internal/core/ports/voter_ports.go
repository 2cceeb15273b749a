package ports

import (
	"context"

	"github.com/referendum/api/internal/core/domain"
)

type VoterRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Voter, error)
	GetByID(ctx context.Context, id string) (*domain.Voter, error)
	GetAnyByRole(ctx context.Context, role domain.Role) (*domain.Voter, error)
	Create(ctx context.Context, voter *domain.Voter) error
	// CreateWithCode inserts the voter and consumes their admission code
	// in a single transaction. Returns domain.ErrEmailTaken or
	// domain.ErrCodeUsed when either uniqueness guard fires.
	CreateWithCode(ctx context.Context, voter *domain.Voter) error
	CountAll(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role domain.Role) (int, error)
}

type CodeRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.AdmissionCode, error)
	// Ensure upserts a code, leaving an existing row untouched.
	Ensure(ctx context.Context, code string, used bool) error
}

type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	DateOfBirth   string
	AdmissionCode string
}

type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Voter, error)
}
