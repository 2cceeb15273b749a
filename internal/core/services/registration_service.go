package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type registrationService struct {
	voterRepo ports.VoterRepository
	codeRepo  ports.CodeRepository
	now       func() time.Time
}

func NewRegistrationService(voterRepo ports.VoterRepository, codeRepo ports.CodeRepository) ports.RegistrationService {
	return &registrationService{
		voterRepo: voterRepo,
		codeRepo:  codeRepo,
		now:       time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Voter, error) {
	errs := domain.FieldErrors{}

	if strings.TrimSpace(input.Name) == "" {
		errs["name"] = "Name is required."
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		errs["email"] = "Email is required."
	} else {
		existing, err := s.voterRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to look up email: %w", err)
		}
		if existing != nil {
			errs["email"] = "This email is already registered."
		}
	}

	if strings.TrimSpace(input.Password) == "" {
		errs["password"] = "Password is required."
	}

	var dob time.Time
	if input.DateOfBirth == "" {
		errs["dob"] = "Date of birth is required."
	} else {
		parsed, err := time.Parse("2006-01-02", input.DateOfBirth)
		if err != nil {
			errs["dob"] = "Please enter a valid date of birth."
		} else if ageAt(parsed, s.now()) < 18 {
			errs["dob"] = "You must be at least 18 years old to register to vote."
		} else {
			dob = parsed
		}
	}

	code := strings.ToUpper(strings.TrimSpace(input.AdmissionCode))
	if code == "" {
		errs["admissionCode"] = "Admission code is required."
	} else {
		existing, err := s.codeRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up admission code: %w", err)
		}
		if existing == nil {
			errs["admissionCode"] = "Invalid admission code."
		} else if existing.Used {
			errs["admissionCode"] = "This admission code has already been used."
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	voter := &domain.Voter{
		Name:          input.Name,
		Email:         email,
		PasswordHash:  string(hash),
		DateOfBirth:   dob,
		AdmissionCode: code,
		Role:          domain.RoleVoter,
	}

	// Voter insert and code consumption run in one transaction; losing
	// a race on either uniqueness guard comes back as the same error
	// the pre-checks above would have reported.
	if err := s.voterRepo.CreateWithCode(ctx, voter); err != nil {
		switch err {
		case domain.ErrEmailTaken:
			return nil, domain.FieldErrors{"email": "This email is already registered."}
		case domain.ErrCodeInvalid:
			return nil, domain.FieldErrors{"admissionCode": "Invalid admission code."}
		case domain.ErrCodeUsed:
			return nil, domain.FieldErrors{"admissionCode": "This admission code has already been used."}
		}
		return nil, fmt.Errorf("failed to create voter: %w", err)
	}

	return voter, nil
}

// ageAt computes whole calendar years between dob and now, accounting
// for whether the birthday has passed this year.
func ageAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
