package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleVoter Role = "voter"
	RoleEC    Role = "ec"
)

type Voter struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	DateOfBirth   time.Time `json:"dob"`
	AdmissionCode string    `json:"-"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdmissionCode is a pre-seeded one-time code required to register.
// It transitions used=false to used=true exactly once.
type AdmissionCode struct {
	Code   string     `json:"code"`
	Used   bool       `json:"used"`
	UsedBy *uuid.UUID `json:"used_by,omitempty"`
}
