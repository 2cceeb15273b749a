package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
)

type referendumRepository struct {
	db *sql.DB
}

func NewReferendumRepository(db *sql.DB) ports.ReferendumRepository {
	return &referendumRepository{db: db}
}

// NextNumber bumps the shared referendum sequence. The upsert and
// increment happen in a single statement, so concurrent creators always
// receive distinct numbers.
func (r *referendumRepository) NextNumber(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO counters (name, seq)
		VALUES ('referendum_id', 1)
		ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq
	`
	var seq int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to increment referendum counter: %w", err)
	}
	return seq, nil
}

func (r *referendumRepository) Create(ctx context.Context, ref *domain.Referendum) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryRef := `
		INSERT INTO referendums (id, referendum_no, title, description, status, has_ever_opened)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, queryRef,
		ref.ID, ref.Number, ref.Title, ref.Description, string(ref.Status), ref.HasEverOpened,
	).Scan(&ref.CreatedAt, &ref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert referendum: %w", err)
	}

	if err := insertOptions(ctx, tx, ref.ID, ref.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *referendumRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Referendum, error) {
	query := `
		SELECT id, referendum_no, title, description, status, has_ever_opened,
		       opened_at, closed_at, created_at, updated_at
		FROM referendums
		WHERE id = $1
	`
	ref, err := r.scanReferendum(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	options, err := r.fetchOptions(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	ref.Options = options

	return ref, nil
}

func (r *referendumRepository) GetByNumber(ctx context.Context, number int64) (*domain.Referendum, error) {
	query := `
		SELECT id, referendum_no, title, description, status, has_ever_opened,
		       opened_at, closed_at, created_at, updated_at
		FROM referendums
		WHERE referendum_no = $1
	`
	ref, err := r.scanReferendum(r.db.QueryRowContext(ctx, query, number))
	if err != nil {
		return nil, err
	}

	options, err := r.fetchOptions(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	ref.Options = options

	return ref, nil
}

// ReplaceContent rewrites title, description and the full option set.
// The has_ever_opened guard is part of the UPDATE itself so an edit can
// never slip past a concurrent first opening.
func (r *referendumRepository) ReplaceContent(ctx context.Context, ref *domain.Referendum) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryRef := `
		UPDATE referendums
		SET title = $2, description = $3, updated_at = NOW()
		WHERE id = $1 AND has_ever_opened = FALSE
	`
	result, err := tx.ExecContext(ctx, queryRef, ref.ID, ref.Title, ref.Description)
	if err != nil {
		return fmt.Errorf("failed to update referendum: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrReferendumLocked
	}

	queryDelete := `DELETE FROM referendum_options WHERE referendum_id = $1`
	if _, err := tx.ExecContext(ctx, queryDelete, ref.ID); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}

	if err := insertOptions(ctx, tx, ref.ID, ref.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *referendumRepository) UpdateStatus(ctx context.Context, ref *domain.Referendum) error {
	query := `
		UPDATE referendums
		SET status = $2, has_ever_opened = $3, opened_at = $4, closed_at = $5, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		ref.ID, string(ref.Status), ref.HasEverOpened, ref.OpenedAt, ref.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update referendum status: %w", err)
	}
	return nil
}

func (r *referendumRepository) ListAll(ctx context.Context) ([]*domain.Referendum, error) {
	query := `
		SELECT id, referendum_no, title, description, status, has_ever_opened,
		       opened_at, closed_at, created_at, updated_at
		FROM referendums
		ORDER BY created_at DESC
	`
	return r.queryReferendums(ctx, query)
}

func (r *referendumRepository) ListEverOpened(ctx context.Context) ([]*domain.Referendum, error) {
	query := `
		SELECT id, referendum_no, title, description, status, has_ever_opened,
		       opened_at, closed_at, created_at, updated_at
		FROM referendums
		WHERE has_ever_opened = TRUE
		ORDER BY created_at ASC
	`
	return r.queryReferendums(ctx, query)
}

func (r *referendumRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Referendum, error) {
	query := `
		SELECT id, referendum_no, title, description, status, has_ever_opened,
		       opened_at, closed_at, created_at, updated_at
		FROM referendums
		WHERE status = $1
		ORDER BY referendum_no ASC
	`
	return r.queryReferendums(ctx, query, string(status))
}

func (r *referendumRepository) queryReferendums(ctx context.Context, query string, args ...any) ([]*domain.Referendum, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list referendums: %w", err)
	}
	defer rows.Close()

	var refs []*domain.Referendum
	for rows.Next() {
		ref := &domain.Referendum{}
		var status string
		err := rows.Scan(
			&ref.ID, &ref.Number, &ref.Title, &ref.Description, &status, &ref.HasEverOpened,
			&ref.OpenedAt, &ref.ClosedAt, &ref.CreatedAt, &ref.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan referendum: %w", err)
		}
		ref.Status = domain.Status(status)

		options, err := r.fetchOptions(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		ref.Options = options

		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating referendums: %w", err)
	}
	return refs, nil
}

func (r *referendumRepository) scanReferendum(row *sql.Row) (*domain.Referendum, error) {
	ref := &domain.Referendum{}
	var status string
	err := row.Scan(
		&ref.ID, &ref.Number, &ref.Title, &ref.Description, &status, &ref.HasEverOpened,
		&ref.OpenedAt, &ref.ClosedAt, &ref.CreatedAt, &ref.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReferendumNotFound
		}
		return nil, fmt.Errorf("failed to get referendum: %w", err)
	}
	ref.Status = domain.Status(status)
	return ref, nil
}

func (r *referendumRepository) fetchOptions(ctx context.Context, refID uuid.UUID) ([]domain.Option, error) {
	query := `
		SELECT option_id, text, votes_count
		FROM referendum_options
		WHERE referendum_id = $1
		ORDER BY option_id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, refID)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}
	defer rows.Close()

	var options []domain.Option
	for rows.Next() {
		var opt domain.Option
		if err := rows.Scan(&opt.OptionID, &opt.Text, &opt.VotesCount); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}

func insertOptions(ctx context.Context, tx *sql.Tx, refID uuid.UUID, options []domain.Option) error {
	query := `
		INSERT INTO referendum_options (referendum_id, option_id, text, votes_count)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for _, opt := range options {
		if _, err := stmt.ExecContext(ctx, refID, opt.OptionID, opt.Text, opt.VotesCount); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}
