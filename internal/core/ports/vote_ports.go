package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/referendum/api/internal/core/domain"
)

type VoteRepository interface {
	HasVoted(ctx context.Context, voterID, referendumID uuid.UUID) (bool, error)
	ListByVoter(ctx context.Context, voterID uuid.UUID) ([]domain.Vote, error)
	// Cast inserts the vote record and increments the chosen option's
	// counter as one transaction, returning the new count. The unique
	// index on (voter, referendum) is the authoritative guard: a lost
	// race surfaces as domain.ErrAlreadyVoted and leaves the counter
	// untouched.
	Cast(ctx context.Context, vote *domain.Vote) (int, error)
	CountDistinctVoters(ctx context.Context) (int, error)
}

type CastVoteInput struct {
	VoterID      uuid.UUID
	ReferendumID string
	OptionID     int
}

type VoteService interface {
	CastVote(ctx context.Context, input CastVoteInput) (*domain.Referendum, error)
}
