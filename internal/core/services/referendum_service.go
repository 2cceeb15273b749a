package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
)

type referendumService struct {
	refRepo  ports.ReferendumRepository
	voteRepo ports.VoteRepository
}

func NewReferendumService(refRepo ports.ReferendumRepository, voteRepo ports.VoteRepository) ports.ReferendumService {
	return &referendumService{
		refRepo:  refRepo,
		voteRepo: voteRepo,
	}
}

func (s *referendumService) Create(ctx context.Context, input ports.CreateReferendumInput) (*domain.Referendum, error) {
	title := strings.TrimSpace(input.Title)
	options := cleanOptions(input.Options)

	if title == "" || len(options) < 2 {
		return nil, domain.FieldErrors{"form": "Title and at least two options are required."}
	}

	number, err := s.refRepo.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to assign referendum number: %w", err)
	}

	ref := &domain.Referendum{
		ID:            uuid.New(),
		Number:        number,
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		Options:       numberOptions(options),
		Status:        domain.StatusDraft,
		HasEverOpened: false,
	}

	if err := s.refRepo.Create(ctx, ref); err != nil {
		return nil, fmt.Errorf("failed to create referendum: %w", err)
	}

	return ref, nil
}

func (s *referendumService) Edit(ctx context.Context, id string, input ports.EditReferendumInput) (*domain.Referendum, error) {
	refID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidReferendumID
	}

	ref, err := s.refRepo.GetByID(ctx, refID)
	if err != nil {
		return nil, err
	}

	if ref.HasEverOpened {
		return nil, domain.ErrReferendumLocked
	}

	if input.Title != nil {
		ref.Title = *input.Title
	}
	if input.Description != nil {
		ref.Description = *input.Description
	}
	if input.Options != nil {
		options := cleanOptions(input.Options)
		if len(options) < 2 {
			return nil, domain.FieldErrors{"form": "Please provide at least two options."}
		}
		// Destructive replace: ids re-assigned from 1, counters reset.
		ref.Options = numberOptions(options)
	}

	if err := s.refRepo.ReplaceContent(ctx, ref); err != nil {
		return nil, err
	}

	return ref, nil
}

func (s *referendumService) SetStatus(ctx context.Context, id string, status string) (*domain.Referendum, error) {
	if status != string(domain.StatusOpen) && status != string(domain.StatusClosed) {
		return nil, domain.FieldErrors{"form": "Status must be 'open' or 'closed'."}
	}

	refID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidReferendumID
	}

	ref, err := s.refRepo.GetByID(ctx, refID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch domain.Status(status) {
	case domain.StatusOpen:
		ref.Status = domain.StatusOpen
		ref.OpenedAt = &now
		// One-way latch; re-opening never resets it.
		ref.HasEverOpened = true
	case domain.StatusClosed:
		ref.Status = domain.StatusClosed
		ref.ClosedAt = &now
	}

	if err := s.refRepo.UpdateStatus(ctx, ref); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return ref, nil
}

func (s *referendumService) ListForEC(ctx context.Context) ([]*domain.Referendum, error) {
	return s.refRepo.ListAll(ctx)
}

func (s *referendumService) ListForVoter(ctx context.Context, voterID uuid.UUID) ([]domain.VoterReferendum, error) {
	refs, err := s.refRepo.ListEverOpened(ctx)
	if err != nil {
		return nil, err
	}

	votes, err := s.voteRepo.ListByVoter(ctx, voterID)
	if err != nil {
		return nil, err
	}

	votedOption := make(map[uuid.UUID]int, len(votes))
	for _, v := range votes {
		votedOption[v.ReferendumID] = v.OptionID
	}

	result := make([]domain.VoterReferendum, 0, len(refs))
	for _, ref := range refs {
		vr := domain.VoterReferendum{Referendum: *ref}
		if optionID, ok := votedOption[ref.ID]; ok {
			vr.AlreadyVoted = true
			vr.VotedOptionID = &optionID
		}
		result = append(result, vr)
	}

	return result, nil
}

func (s *referendumService) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Referendum, error) {
	return s.refRepo.ListByStatus(ctx, status)
}

func (s *referendumService) GetByNumber(ctx context.Context, number int64, status domain.Status) (*domain.Referendum, error) {
	ref, err := s.refRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if status != domain.StatusDraft && ref.Status != status {
		return nil, domain.ErrReferendumNotFound
	}
	return ref, nil
}

func cleanOptions(options []string) []string {
	cleaned := make([]string, 0, len(options))
	for _, opt := range options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func numberOptions(texts []string) []domain.Option {
	options := make([]domain.Option, len(texts))
	for i, text := range texts {
		options[i] = domain.Option{
			OptionID:   i + 1,
			Text:       text,
			VotesCount: 0,
		}
	}
	return options
}
