package actsrvc

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDuplicateKey is returned by conditional inserts when the key already
// exists. Repos translate their store-specific conflict error into this one.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrCapacityReached is returned by conditional inserts that would push an
// activity past its participant limit.
var ErrCapacityReached = errors.New("capacity reached")

type ActivityRepo interface {
	Store(ctx context.Context, act Activity) error
	Get(ctx context.Context, id uuid.UUID) (*Activity, error)
	List(ctx context.Context) ([]Activity, error)
}

type ParticipantRepo interface {
	// CompareAndInsert atomically inserts the participant unless one with
	// the same (activity, user) key exists (ErrDuplicateKey) or the
	// activity already has maxParticipants enrollments
	// (ErrCapacityReached). A maxParticipants of zero means unlimited.
	CompareAndInsert(ctx context.Context, p Participant, maxParticipants int) error
	Exists(ctx context.Context, activityID, userID uuid.UUID) (bool, error)
}
