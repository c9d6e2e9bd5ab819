package votesrvc

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDuplicateKey is returned by CompareAndInsert when a vote by the same
// voter for the same submission already exists.
var ErrDuplicateKey = errors.New("duplicate key")

type VoteRepo interface {
	// CompareAndInsert atomically appends the vote fact unless one with
	// the same (voter, submission) key exists. The check and the insert
	// are one conditional write; a read-then-write here would let the
	// same voter through twice under concurrent requests.
	CompareAndInsert(ctx context.Context, v Vote) error
	// IncrementCount bumps the submission's cached vote counter and
	// returns the new total.
	IncrementCount(ctx context.Context, submissionID uuid.UUID) (int, error)
	Count(ctx context.Context, submissionID uuid.UUID) (int, error)
}
