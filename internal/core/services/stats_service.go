package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
)

type statsService struct {
	voterRepo ports.VoterRepository
	voteRepo  ports.VoteRepository
	refRepo   ports.ReferendumRepository
}

func NewStatsService(voterRepo ports.VoterRepository, voteRepo ports.VoteRepository, refRepo ports.ReferendumRepository) ports.StatsService {
	return &statsService{
		voterRepo: voterRepo,
		voteRepo:  voteRepo,
		refRepo:   refRepo,
	}
}

func (s *statsService) Stats(ctx context.Context) (*domain.Stats, error) {
	total, err := s.voterRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count population: %w", err)
	}

	eligible, err := s.voterRepo.CountByRole(ctx, domain.RoleVoter)
	if err != nil {
		return nil, fmt.Errorf("failed to count eligible voters: %w", err)
	}

	voted, err := s.voteRepo.CountDistinctVoters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count participating voters: %w", err)
	}

	percent := 0
	if eligible > 0 {
		percent = int(math.Round(float64(voted) / float64(eligible) * 100))
	}

	return &domain.Stats{
		TotalPopulation: total,
		EligibleVoters:  eligible,
		PercentVoted:    percent,
	}, nil
}

func (s *statsService) Overview(ctx context.Context) ([]domain.OverviewEntry, error) {
	refs, err := s.refRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list referendums: %w", err)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Number < refs[j].Number })

	overview := make([]domain.OverviewEntry, 0, len(refs))
	for _, ref := range refs {
		entry := domain.OverviewEntry{
			Number:     ref.Number,
			Title:      ref.Title,
			Status:     ref.Status,
			TotalVotes: ref.TotalVotes(),
		}
		if leader := ref.Leader(); leader != nil {
			entry.Leader = &domain.OptionResult{Text: leader.Text, Votes: leader.VotesCount}
		}
		overview = append(overview, entry)
	}

	return overview, nil
}
