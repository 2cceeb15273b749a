package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/referendum/api/internal/core/domain"
)

// Claims is the identity a verified bearer token carries.
type Claims struct {
	VoterID uuid.UUID
	Email   string
	Role    domain.Role
}

type AuthService interface {
	// Login returns a signed token and the authenticated role, or
	// domain.FieldErrors with an identical message on both fields so
	// accounts cannot be enumerated.
	Login(ctx context.Context, email, password string) (string, domain.Role, error)
	// Verify parses and validates a bearer token.
	Verify(token string) (*Claims, error)
}
