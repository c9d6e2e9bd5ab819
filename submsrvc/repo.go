package submsrvc

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDuplicateKey is returned by CompareAndInsert when the participant
// already has a submission in the activity.
var ErrDuplicateKey = errors.New("duplicate key")

type SubmissionRepo interface {
	// CompareAndInsert atomically inserts the submission unless the
	// (activity, creator) pair already has one.
	CompareAndInsert(ctx context.Context, subm Submission) error
	Get(ctx context.Context, submissionID uuid.UUID) (*Submission, error)
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]Submission, error)
	Exists(ctx context.Context, activityID, creatorID uuid.UUID) (bool, error)
	// StoreRankingResult overwrites the cached rank/finalScore fields of
	// the given submissions and marks them scored. Called only by the
	// ranking engine after its snapshot is durable.
	StoreRankingResult(ctx context.Context, subs []Submission) error
}
