package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
)

type voteService struct {
	refRepo   ports.ReferendumRepository
	voteRepo  ports.VoteRepository
	voterRepo ports.VoterRepository
}

func NewVoteService(refRepo ports.ReferendumRepository, voteRepo ports.VoteRepository, voterRepo ports.VoterRepository) ports.VoteService {
	return &voteService{
		refRepo:   refRepo,
		voteRepo:  voteRepo,
		voterRepo: voterRepo,
	}
}

func (s *voteService) CastVote(ctx context.Context, input ports.CastVoteInput) (*domain.Referendum, error) {
	refID, err := uuid.Parse(input.ReferendumID)
	if err != nil {
		return nil, domain.ErrInvalidReferendumID
	}

	ref, err := s.refRepo.GetByID(ctx, refID)
	if err != nil {
		return nil, err
	}

	if ref.Status != domain.StatusOpen {
		return nil, domain.ErrNotOpen
	}

	// Early exit only; the unique index inside Cast is the real guard.
	hasVoted, err := s.voteRepo.HasVoted(ctx, input.VoterID, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing vote: %w", err)
	}
	if hasVoted {
		return nil, domain.ErrAlreadyVoted
	}

	if ref.Option(input.OptionID) == nil {
		return nil, domain.ErrOptionNotFound
	}

	vote := &domain.Vote{
		ID:               uuid.New(),
		VoterID:          input.VoterID,
		ReferendumID:     ref.ID,
		ReferendumNumber: ref.Number,
		OptionID:         input.OptionID,
		VotedAt:          time.Now(),
	}

	newCount, err := s.voteRepo.Cast(ctx, vote)
	if err != nil {
		return nil, err
	}

	if err := s.autoClose(ctx, ref, newCount); err != nil {
		return nil, err
	}

	return s.refRepo.GetByID(ctx, ref.ID)
}

// autoClose closes the referendum once the option just voted for has
// reached half of the eligible electorate.
func (s *voteService) autoClose(ctx context.Context, ref *domain.Referendum, newCount int) error {
	eligible, err := s.voterRepo.CountByRole(ctx, domain.RoleVoter)
	if err != nil {
		return fmt.Errorf("failed to count eligible voters: %w", err)
	}

	if eligible == 0 || 2*newCount < eligible {
		return nil
	}

	now := time.Now()
	ref.Status = domain.StatusClosed
	ref.ClosedAt = &now
	if err := s.refRepo.UpdateStatus(ctx, ref); err != nil {
		return fmt.Errorf("failed to auto-close referendum: %w", err)
	}
	return nil
}
