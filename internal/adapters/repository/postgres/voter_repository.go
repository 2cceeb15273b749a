package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
)

// uniqueViolation is the postgres error code for a broken unique index.
const uniqueViolation = "23505"

type voterRepository struct {
	db *sql.DB
}

func NewVoterRepository(db *sql.DB) ports.VoterRepository {
	return &voterRepository{db: db}
}

func (r *voterRepository) GetByEmail(ctx context.Context, email string) (*domain.Voter, error) {
	query := `
		SELECT id, name, email, password_hash, dob, admission_code, role, created_at
		FROM voters
		WHERE email = LOWER($1)
	`
	return r.scanVoter(r.db.QueryRowContext(ctx, query, email))
}

func (r *voterRepository) GetByID(ctx context.Context, id string) (*domain.Voter, error) {
	query := `
		SELECT id, name, email, password_hash, dob, admission_code, role, created_at
		FROM voters
		WHERE id = $1
	`
	return r.scanVoter(r.db.QueryRowContext(ctx, query, id))
}

func (r *voterRepository) GetAnyByRole(ctx context.Context, role domain.Role) (*domain.Voter, error) {
	query := `
		SELECT id, name, email, password_hash, dob, admission_code, role, created_at
		FROM voters
		WHERE role = $1
		LIMIT 1
	`
	return r.scanVoter(r.db.QueryRowContext(ctx, query, string(role)))
}

func (r *voterRepository) Create(ctx context.Context, voter *domain.Voter) error {
	query := `
		INSERT INTO voters (name, email, password_hash, dob, admission_code, role)
		VALUES ($1, LOWER($2), $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		voter.Name, voter.Email, voter.PasswordHash, voter.DateOfBirth, voter.AdmissionCode, string(voter.Role),
	).Scan(&voter.ID, &voter.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert voter: %w", err)
	}
	return nil
}

// CreateWithCode inserts the voter and marks their admission code used
// in one transaction. The conditional update on used=FALSE guarantees a
// code is never consumed twice, even under concurrent registrations.
func (r *voterRepository) CreateWithCode(ctx context.Context, voter *domain.Voter) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryVoter := `
		INSERT INTO voters (name, email, password_hash, dob, admission_code, role)
		VALUES ($1, LOWER($2), $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, queryVoter,
		voter.Name, voter.Email, voter.PasswordHash, voter.DateOfBirth, voter.AdmissionCode, string(voter.Role),
	).Scan(&voter.ID, &voter.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert voter: %w", err)
	}

	queryCode := `
		UPDATE admission_codes
		SET used = TRUE, used_by = $2
		WHERE code = $1 AND used = FALSE
	`
	result, err := tx.ExecContext(ctx, queryCode, voter.AdmissionCode, voter.ID)
	if err != nil {
		return fmt.Errorf("failed to consume admission code: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		// Distinguish a consumed code from one that never existed.
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM admission_codes WHERE code = $1)`, voter.AdmissionCode,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check admission code: %w", err)
		}
		if !exists {
			return domain.ErrCodeInvalid
		}
		return domain.ErrCodeUsed
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *voterRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return count, nil
}

func (r *voterRepository) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters WHERE role = $1`, string(role)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count voters by role: %w", err)
	}
	return count, nil
}

func (r *voterRepository) scanVoter(row *sql.Row) (*domain.Voter, error) {
	voter := &domain.Voter{}
	var role string
	err := row.Scan(
		&voter.ID, &voter.Name, &voter.Email, &voter.PasswordHash,
		&voter.DateOfBirth, &voter.AdmissionCode, &role, &voter.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan voter: %w", err)
	}
	voter.Role = domain.Role(role)
	return voter, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
