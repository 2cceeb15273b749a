package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

// credentialErrors is deliberately identical for unknown email and bad
// password so the endpoint cannot be used to enumerate accounts.
var credentialErrors = domain.FieldErrors{
	"email":    "Invalid email or password.",
	"password": "Invalid email or password.",
}

type authService struct {
	voterRepo ports.VoterRepository
	jwtSecret []byte
}

func NewAuthService(voterRepo ports.VoterRepository, jwtSecret []byte) ports.AuthService {
	return &authService{
		voterRepo: voterRepo,
		jwtSecret: jwtSecret,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, domain.Role, error) {
	errs := domain.FieldErrors{}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		errs["email"] = "Email is required."
	}
	if password == "" {
		errs["password"] = "Password is required."
	}
	if len(errs) > 0 {
		return "", "", errs
	}

	voter, err := s.voterRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to get voter: %w", err)
	}
	if voter == nil {
		return "", "", credentialErrors
	}

	if err := bcrypt.CompareHashAndPassword([]byte(voter.PasswordHash), []byte(password)); err != nil {
		return "", "", credentialErrors
	}

	role := voter.Role
	if role == "" {
		role = domain.RoleVoter
	}

	claims := jwt.MapClaims{
		"sub":   voter.ID.String(),
		"email": voter.Email,
		"role":  string(role),
		"exp":   time.Now().Add(tokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, role, nil
}

func (s *authService) Verify(tokenString string) (*ports.Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	voterID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}

	email, _ := claims["email"].(string)
	roleStr, _ := claims["role"].(string)
	role := domain.Role(roleStr)
	if role != domain.RoleVoter && role != domain.RoleEC {
		return nil, errors.New("invalid role claim")
	}

	return &ports.Claims{
		VoterID: voterID,
		Email:   email,
		Role:    role,
	}, nil
}
