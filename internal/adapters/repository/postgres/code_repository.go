package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
)

type codeRepository struct {
	db *sql.DB
}

func NewCodeRepository(db *sql.DB) ports.CodeRepository {
	return &codeRepository{db: db}
}

func (r *codeRepository) GetByCode(ctx context.Context, code string) (*domain.AdmissionCode, error) {
	query := `SELECT code, used, used_by FROM admission_codes WHERE code = UPPER($1)`
	ac := &domain.AdmissionCode{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(&ac.Code, &ac.Used, &ac.UsedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admission code: %w", err)
	}
	return ac, nil
}

func (r *codeRepository) Ensure(ctx context.Context, code string, used bool) error {
	query := `
		INSERT INTO admission_codes (code, used)
		VALUES (UPPER($1), $2)
		ON CONFLICT (code) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, code, used); err != nil {
		return fmt.Errorf("failed to ensure admission code: %w", err)
	}
	return nil
}
