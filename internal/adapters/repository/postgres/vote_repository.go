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

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) HasVoted(ctx context.Context, voterID, referendumID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM votes WHERE voter_id = $1 AND referendum_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, voterID, referendumID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (r *voteRepository) ListByVoter(ctx context.Context, voterID uuid.UUID) ([]domain.Vote, error) {
	query := `
		SELECT id, voter_id, referendum_id, referendum_no, option_id, voted_at
		FROM votes
		WHERE voter_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var v domain.Vote
		err := rows.Scan(&v.ID, &v.VoterID, &v.ReferendumID, &v.ReferendumNumber, &v.OptionID, &v.VotedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}

// Cast records the ballot and bumps the option counter in one
// transaction. The insert runs first: if the (voter, referendum) unique
// index rejects it, the increment is never applied.
func (r *voteRepository) Cast(ctx context.Context, vote *domain.Vote) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryVote := `
		INSERT INTO votes (id, voter_id, referendum_id, referendum_no, option_id, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, queryVote,
		vote.ID, vote.VoterID, vote.ReferendumID, vote.ReferendumNumber, vote.OptionID, vote.VotedAt,
	)
	if isUniqueViolation(err) {
		return 0, domain.ErrAlreadyVoted
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert vote: %w", err)
	}

	queryCount := `
		UPDATE referendum_options
		SET votes_count = votes_count + 1
		WHERE referendum_id = $1 AND option_id = $2
		RETURNING votes_count
	`
	var newCount int
	err = tx.QueryRowContext(ctx, queryCount, vote.ReferendumID, vote.OptionID).Scan(&newCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrOptionNotFound
		}
		return 0, fmt.Errorf("failed to increment vote count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newCount, nil
}

func (r *voteRepository) CountDistinctVoters(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT voter_id) FROM votes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct voters: %w", err)
	}
	return count, nil
}
