package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReferendumFixture() (ports.ReferendumService, *fakeReferendumRepo, *fakeVoteRepo) {
	refRepo := newFakeReferendumRepo()
	voteRepo := newFakeVoteRepo(refRepo)
	return NewReferendumService(refRepo, voteRepo), refRepo, voteRepo
}

func TestCreateReferendum(t *testing.T) {
	svc, _, _ := newReferendumFixture()

	ref, err := svc.Create(context.Background(), ports.CreateReferendumInput{
		Title:       "  Adopt the new constitution?  ",
		Description: " Full text attached. ",
		Options:     []string{" Yes ", "", "No", "   "},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), ref.Number)
	assert.Equal(t, "Adopt the new constitution?", ref.Title)
	assert.Equal(t, "Full text attached.", ref.Description)
	assert.Equal(t, domain.StatusDraft, ref.Status)
	assert.False(t, ref.HasEverOpened)

	require.Len(t, ref.Options, 2)
	assert.Equal(t, domain.Option{OptionID: 1, Text: "Yes"}, ref.Options[0])
	assert.Equal(t, domain.Option{OptionID: 2, Text: "No"}, ref.Options[1])
}

func TestCreateReferendumAssignsIncreasingNumbers(t *testing.T) {
	svc, _, _ := newReferendumFixture()

	input := ports.CreateReferendumInput{Title: "T", Options: []string{"Yes", "No"}}
	first, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Number+1, second.Number)
}

func TestCreateReferendumValidation(t *testing.T) {
	svc, _, _ := newReferendumFixture()

	tests := []struct {
		name  string
		input ports.CreateReferendumInput
	}{
		{"empty title", ports.CreateReferendumInput{Options: []string{"Yes", "No"}}},
		{"blank title", ports.CreateReferendumInput{Title: "   ", Options: []string{"Yes", "No"}}},
		{"one option", ports.CreateReferendumInput{Title: "T", Options: []string{"Yes"}}},
		{"blank options", ports.CreateReferendumInput{Title: "T", Options: []string{"Yes", "  "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			var fieldErrs domain.FieldErrors
			require.True(t, errors.As(err, &fieldErrs))
			assert.Contains(t, fieldErrs, "form")
		})
	}
}

func TestEditReferendumBeforeOpening(t *testing.T) {
	svc, refRepo, _ := newReferendumFixture()

	ref, err := svc.Create(context.Background(), ports.CreateReferendumInput{
		Title:   "Original",
		Options: []string{"Yes", "No"},
	})
	require.NoError(t, err)

	// Simulate accumulated counts that must be wiped by a replace.
	refRepo.refs[ref.ID].Options[0].VotesCount = 7

	newTitle := "Amended"
	edited, err := svc.Edit(context.Background(), ref.ID.String(), ports.EditReferendumInput{
		Title:   &newTitle,
		Options: []string{"Approve", "Reject", "Abstain"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Amended", edited.Title)
	require.Len(t, edited.Options, 3)
	for i, opt := range edited.Options {
		assert.Equal(t, i+1, opt.OptionID)
		assert.Zero(t, opt.VotesCount)
	}
}

func TestEditReferendumLockedAfterFirstOpening(t *testing.T) {
	svc, _, _ := newReferendumFixture()

	ref, err := svc.Create(context.Background(), ports.CreateReferendumInput{
		Title:   "Locked",
		Options: []string{"Yes", "No"},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), ref.ID.String(), "open")
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), ref.ID.String(), "closed")
	require.NoError(t, err)

	// Closed again is not enough; the latch is permanent.
	newTitle := "Tampered"
	_, err = svc.Edit(context.Background(), ref.ID.String(), ports.EditReferendumInput{Title: &newTitle})
	assert.ErrorIs(t, err, domain.ErrReferendumLocked)

	_, err = svc.Edit(context.Background(), ref.ID.String(), ports.EditReferendumInput{
		Options: []string{"A", "B"},
	})
	assert.ErrorIs(t, err, domain.ErrReferendumLocked)
}

func TestEditReferendumTooFewOptions(t *testing.T) {
	svc, _, _ := newReferendumFixture()

	ref, err := svc.Create(context.Background(), ports.CreateReferendumInput{
		Title:   "T",
		Options: []string{"Yes", "No"},
	})
	require.NoError(t, err)

	_, err = svc.Edit(context.Background(), ref.ID.String(), ports.EditReferendumInput{
		Options: []string{"Only one", "  "},
	})
	var fieldErrs domain.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
}

func TestSetStatusOpenIsIdempotent(t *testing.T) {
	svc, refRepo, voteRepo := newReferendumFixture()

	ref, err := svc.Create(context.Background(), ports.CreateReferendumInput{
		Title:   "T",
		Options: []string{"Yes", "No"},
	})
	require.NoError(t, err)

	opened, err := svc.SetStatus(context.Background(), ref.ID.String(), "open")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, opened.Status)
	assert.True(t, opened.HasEverOpened)
	require.NotNil(t, opened.OpenedAt)

	_, err = voteRepo.Cast(context.Background(), &domain.Vote{
		ID:           uuid.New(),
		VoterID:      uuid.New(),
		ReferendumID: ref.ID,
		OptionID:     1,
	})
	require.NoError(t, err)

	again, err := svc.SetStatus(context.Background(), ref.ID.String(), "open")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, again.Status)
	assert.True(t, again.HasEverOpened)

	// Re-opening never resets accumulated counts.
	stored, err := refRepo.GetByID(context.Background(), ref.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Options[0].VotesCount)
}

func TestSetStatusCloseAndReopen(t *testing.T) {
	svc, _, _ := newReferendumFixture()

	ref, err := svc.Create(context.Background(), ports.CreateReferendumInput{
		Title:   "T",
		Options: []string{"Yes", "No"},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), ref.ID.String(), "open")
	require.NoError(t, err)

	closed, err := svc.SetStatus(context.Background(), ref.ID.String(), "closed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	reopened, err := svc.SetStatus(context.Background(), ref.ID.String(), "open")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, reopened.Status)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newReferendumFixture()

	ref, err := svc.Create(context.Background(), ports.CreateReferendumInput{
		Title:   "T",
		Options: []string{"Yes", "No"},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), ref.ID.String(), "paused")
	var fieldErrs domain.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
}

func TestListForVoterHidesNeverOpenedDrafts(t *testing.T) {
	svc, _, voteRepo := newReferendumFixture()

	draft, err := svc.Create(context.Background(), ports.CreateReferendumInput{
		Title:   "Draft",
		Options: []string{"Yes", "No"},
	})
	require.NoError(t, err)

	opened, err := svc.Create(context.Background(), ports.CreateReferendumInput{
		Title:   "Opened",
		Options: []string{"Yes", "No"},
	})
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), opened.ID.String(), "open")
	require.NoError(t, err)

	voterID := uuid.New()
	_, err = voteRepo.Cast(context.Background(), &domain.Vote{
		ID:           uuid.New(),
		VoterID:      voterID,
		ReferendumID: opened.ID,
		OptionID:     2,
	})
	require.NoError(t, err)

	visible, err := svc.ListForVoter(context.Background(), voterID)
	require.NoError(t, err)

	require.Len(t, visible, 1)
	assert.Equal(t, opened.ID, visible[0].ID)
	assert.NotEqual(t, draft.ID, visible[0].ID)
	assert.True(t, visible[0].AlreadyVoted)
	require.NotNil(t, visible[0].VotedOptionID)
	assert.Equal(t, 2, *visible[0].VotedOptionID)
}
