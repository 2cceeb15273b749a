package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/referendum/api/internal/core/domain"
)

// In-memory fakes mirroring the storage-level guarantees the postgres
// repositories provide: conditional code consumption, unique ballots,
// monotonic numbering.

type fakeCodeRepo struct {
	codes map[string]*domain.AdmissionCode
}

func newFakeCodeRepo(codes ...string) *fakeCodeRepo {
	repo := &fakeCodeRepo{codes: make(map[string]*domain.AdmissionCode)}
	for _, code := range codes {
		repo.codes[code] = &domain.AdmissionCode{Code: code}
	}
	return repo
}

func (f *fakeCodeRepo) GetByCode(_ context.Context, code string) (*domain.AdmissionCode, error) {
	ac, ok := f.codes[strings.ToUpper(code)]
	if !ok {
		return nil, nil
	}
	copied := *ac
	return &copied, nil
}

func (f *fakeCodeRepo) Ensure(_ context.Context, code string, used bool) error {
	code = strings.ToUpper(code)
	if _, ok := f.codes[code]; !ok {
		f.codes[code] = &domain.AdmissionCode{Code: code, Used: used}
	}
	return nil
}

type fakeVoterRepo struct {
	voters []*domain.Voter
	codes  *fakeCodeRepo
}

func newFakeVoterRepo(codes *fakeCodeRepo) *fakeVoterRepo {
	return &fakeVoterRepo{codes: codes}
}

func (f *fakeVoterRepo) GetByEmail(_ context.Context, email string) (*domain.Voter, error) {
	email = strings.ToLower(email)
	for _, v := range f.voters {
		if v.Email == email {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeVoterRepo) GetByID(_ context.Context, id string) (*domain.Voter, error) {
	for _, v := range f.voters {
		if v.ID.String() == id {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeVoterRepo) GetAnyByRole(_ context.Context, role domain.Role) (*domain.Voter, error) {
	for _, v := range f.voters {
		if v.Role == role {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeVoterRepo) Create(_ context.Context, voter *domain.Voter) error {
	voter.ID = uuid.New()
	voter.Email = strings.ToLower(voter.Email)
	voter.CreatedAt = time.Now()
	copied := *voter
	f.voters = append(f.voters, &copied)
	return nil
}

func (f *fakeVoterRepo) CreateWithCode(ctx context.Context, voter *domain.Voter) error {
	for _, v := range f.voters {
		if v.Email == strings.ToLower(voter.Email) {
			return domain.ErrEmailTaken
		}
	}

	code, ok := f.codes.codes[voter.AdmissionCode]
	if !ok {
		return domain.ErrCodeInvalid
	}
	if code.Used {
		return domain.ErrCodeUsed
	}

	if err := f.Create(ctx, voter); err != nil {
		return err
	}
	code.Used = true
	code.UsedBy = &voter.ID
	return nil
}

func (f *fakeVoterRepo) CountAll(_ context.Context) (int, error) {
	return len(f.voters), nil
}

func (f *fakeVoterRepo) CountByRole(_ context.Context, role domain.Role) (int, error) {
	count := 0
	for _, v := range f.voters {
		if v.Role == role {
			count++
		}
	}
	return count, nil
}

type fakeReferendumRepo struct {
	refs map[uuid.UUID]*domain.Referendum
	seq  int64
}

func newFakeReferendumRepo() *fakeReferendumRepo {
	return &fakeReferendumRepo{refs: make(map[uuid.UUID]*domain.Referendum)}
}

func copyReferendum(ref *domain.Referendum) *domain.Referendum {
	copied := *ref
	copied.Options = append([]domain.Option(nil), ref.Options...)
	return &copied
}

func (f *fakeReferendumRepo) NextNumber(_ context.Context) (int64, error) {
	f.seq++
	return f.seq, nil
}

func (f *fakeReferendumRepo) Create(_ context.Context, ref *domain.Referendum) error {
	ref.CreatedAt = time.Now()
	ref.UpdatedAt = ref.CreatedAt
	f.refs[ref.ID] = copyReferendum(ref)
	return nil
}

func (f *fakeReferendumRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Referendum, error) {
	ref, ok := f.refs[id]
	if !ok {
		return nil, domain.ErrReferendumNotFound
	}
	return copyReferendum(ref), nil
}

func (f *fakeReferendumRepo) GetByNumber(_ context.Context, number int64) (*domain.Referendum, error) {
	for _, ref := range f.refs {
		if ref.Number == number {
			return copyReferendum(ref), nil
		}
	}
	return nil, domain.ErrReferendumNotFound
}

func (f *fakeReferendumRepo) ReplaceContent(_ context.Context, ref *domain.Referendum) error {
	stored, ok := f.refs[ref.ID]
	if !ok {
		return domain.ErrReferendumNotFound
	}
	if stored.HasEverOpened {
		return domain.ErrReferendumLocked
	}
	stored.Title = ref.Title
	stored.Description = ref.Description
	stored.Options = append([]domain.Option(nil), ref.Options...)
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeReferendumRepo) UpdateStatus(_ context.Context, ref *domain.Referendum) error {
	stored, ok := f.refs[ref.ID]
	if !ok {
		return domain.ErrReferendumNotFound
	}
	stored.Status = ref.Status
	stored.HasEverOpened = ref.HasEverOpened
	stored.OpenedAt = ref.OpenedAt
	stored.ClosedAt = ref.ClosedAt
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeReferendumRepo) ListAll(_ context.Context) ([]*domain.Referendum, error) {
	refs := make([]*domain.Referendum, 0, len(f.refs))
	for _, ref := range f.refs {
		refs = append(refs, copyReferendum(ref))
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].CreatedAt.After(refs[j].CreatedAt) })
	return refs, nil
}

func (f *fakeReferendumRepo) ListEverOpened(_ context.Context) ([]*domain.Referendum, error) {
	var refs []*domain.Referendum
	for _, ref := range f.refs {
		if ref.HasEverOpened {
			refs = append(refs, copyReferendum(ref))
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].CreatedAt.Before(refs[j].CreatedAt) })
	return refs, nil
}

func (f *fakeReferendumRepo) ListByStatus(_ context.Context, status domain.Status) ([]*domain.Referendum, error) {
	var refs []*domain.Referendum
	for _, ref := range f.refs {
		if ref.Status == status {
			refs = append(refs, copyReferendum(ref))
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Number < refs[j].Number })
	return refs, nil
}

type fakeVoteRepo struct {
	votes []domain.Vote
	refs  *fakeReferendumRepo
}

func newFakeVoteRepo(refs *fakeReferendumRepo) *fakeVoteRepo {
	return &fakeVoteRepo{refs: refs}
}

func (f *fakeVoteRepo) HasVoted(_ context.Context, voterID, referendumID uuid.UUID) (bool, error) {
	for _, v := range f.votes {
		if v.VoterID == voterID && v.ReferendumID == referendumID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVoteRepo) ListByVoter(_ context.Context, voterID uuid.UUID) ([]domain.Vote, error) {
	var votes []domain.Vote
	for _, v := range f.votes {
		if v.VoterID == voterID {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

func (f *fakeVoteRepo) Cast(_ context.Context, vote *domain.Vote) (int, error) {
	for _, v := range f.votes {
		if v.VoterID == vote.VoterID && v.ReferendumID == vote.ReferendumID {
			return 0, domain.ErrAlreadyVoted
		}
	}

	ref, ok := f.refs.refs[vote.ReferendumID]
	if !ok {
		return 0, domain.ErrReferendumNotFound
	}
	opt := ref.Option(vote.OptionID)
	if opt == nil {
		return 0, domain.ErrOptionNotFound
	}

	f.votes = append(f.votes, *vote)
	opt.VotesCount++
	return opt.VotesCount, nil
}

func (f *fakeVoteRepo) CountDistinctVoters(_ context.Context) (int, error) {
	seen := make(map[uuid.UUID]bool)
	for _, v := range f.votes {
		seen[v.VoterID] = true
	}
	return len(seen), nil
}
