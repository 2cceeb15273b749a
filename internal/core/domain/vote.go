package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is the append-only record that a voter cast a ballot on a
// referendum. Unique on (voter, referendum); never updated or deleted.
type Vote struct {
	ID               uuid.UUID `json:"id"`
	VoterID          uuid.UUID `json:"voter_id"`
	ReferendumID     uuid.UUID `json:"referendum_id"`
	ReferendumNumber int64     `json:"referendum_no"`
	OptionID         int       `json:"option_id"`
	VotedAt          time.Time `json:"votedAt"`
}
