package domain

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft  Status = ""
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

type Referendum struct {
	ID          uuid.UUID  `json:"id"`
	Number      int64      `json:"referendum_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Options     []Option   `json:"options"`
	Status      Status     `json:"status"`
	// HasEverOpened latches true on first opening and permanently locks
	// title, description and options against edits.
	HasEverOpened bool       `json:"hasEverOpened"`
	OpenedAt      *time.Time `json:"openedAt,omitempty"`
	ClosedAt      *time.Time `json:"closedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Option ids are 1-based positional and unique within their referendum.
type Option struct {
	OptionID   int    `json:"option_id"`
	Text       string `json:"text"`
	VotesCount int    `json:"votesCount"`
}

// Option returns the option with the given id, or nil.
func (r *Referendum) Option(optionID int) *Option {
	for i := range r.Options {
		if r.Options[i].OptionID == optionID {
			return &r.Options[i]
		}
	}
	return nil
}

// TotalVotes sums the vote counters of all options.
func (r *Referendum) TotalVotes() int {
	total := 0
	for _, opt := range r.Options {
		total += opt.VotesCount
	}
	return total
}

// Leader returns the option with the highest count. Ties go to the
// option that appears first in option order.
func (r *Referendum) Leader() *Option {
	var leader *Option
	for i := range r.Options {
		if leader == nil || r.Options[i].VotesCount > leader.VotesCount {
			leader = &r.Options[i]
		}
	}
	return leader
}

// VoterReferendum is a referendum decorated with the calling voter's
// own ballot state.
type VoterReferendum struct {
	Referendum
	AlreadyVoted  bool `json:"alreadyVoted"`
	VotedOptionID *int `json:"votedOptionId"`
}

type OverviewEntry struct {
	Number     int64         `json:"referendum_id"`
	Title      string        `json:"title"`
	Status     Status        `json:"status"`
	TotalVotes int           `json:"totalVotes"`
	Leader     *OptionResult `json:"leader"`
}

type OptionResult struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type Stats struct {
	TotalPopulation int `json:"totalPopulation"`
	EligibleVoters  int `json:"eligibleVoters"`
	PercentVoted    int `json:"percentVoted"`
}
