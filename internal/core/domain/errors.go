package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrReferendumNotFound  = errors.New("referendum not found")
	ErrOptionNotFound      = errors.New("option not found")
	ErrInvalidReferendumID = errors.New("invalid referendum id")
	ErrAlreadyVoted        = errors.New("voter has already voted in this referendum")
	ErrNotOpen             = errors.New("referendum is not open for voting")
	ErrReferendumLocked    = errors.New("referendum has been opened to voters and can no longer be edited")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrCodeInvalid         = errors.New("invalid admission code")
	ErrCodeUsed            = errors.New("admission code has already been used")
)

// FieldErrors carries validation failures keyed by field name. All
// fields are validated before returning, not short-circuited.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(e[f])
	}
	return b.String()
}
