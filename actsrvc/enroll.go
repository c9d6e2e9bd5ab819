package actsrvc

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Enroll registers a user as a participant of the activity. Only allowed
// during the registration window; both the duplicate-enrollment and the
// capacity check live in the conditional insert, not in a read-then-write,
// so concurrent enrollments cannot overshoot the limit.
func (s *ActivitySrvc) Enroll(ctx context.Context, activityID, userID uuid.UUID) error {
	act, err := s.GetActivity(ctx, activityID)
	if err != nil {
		return err
	}

	now := s.now()
	if !InWindow(act, PhaseRegistration, now) {
		return ErrNotInPhase(PhaseRegistration)
	}

	err = s.partRepo.CompareAndInsert(ctx, Participant{
		ActivityUUID: activityID,
		UserUUID:     userID,
		EnrolledAt:   now,
	}, act.MaxParticipants)
	switch {
	case errors.Is(err, ErrDuplicateKey):
		return ErrAlreadyEnrolled()
	case errors.Is(err, ErrCapacityReached):
		return ErrActivityFull()
	case err != nil:
		return ErrInternalSE().SetDebug(err)
	}

	return nil
}

// IsEnrolled reports whether the user registered for the activity.
func (s *ActivitySrvc) IsEnrolled(ctx context.Context, activityID, userID uuid.UUID) (bool, error) {
	ok, err := s.partRepo.Exists(ctx, activityID, userID)
	if err != nil {
		return false, ErrInternalSE().SetDebug(err)
	}
	return ok, nil
}
