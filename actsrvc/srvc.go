package actsrvc

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Recomputer triggers a ranking recomputation for an activity. The ranking
// service implements it; the lifecycle calls it when an activity completes
// and periodically while voting is open.
type Recomputer interface {
	RecomputeRanking(ctx context.Context, activityID uuid.UUID) error
}

type ActivitySrvc struct {
	actRepo  ActivityRepo
	partRepo ParticipantRepo

	recomputer Recomputer

	validate *validator.Validate
	now      func() time.Time
}

func NewActivitySrvc(actRepo ActivityRepo, partRepo ParticipantRepo) *ActivitySrvc {
	return &ActivitySrvc{
		actRepo:  actRepo,
		partRepo: partRepo,
		validate: validator.New(),
		now:      time.Now,
	}
}

// SetRecomputer wires the ranking service in after construction; the two
// services reference each other so one side has to be attached late.
func (s *ActivitySrvc) SetRecomputer(r Recomputer) {
	s.recomputer = r
}

// SetClock replaces the wall clock, for tests.
func (s *ActivitySrvc) SetClock(now func() time.Time) {
	s.now = now
}

// GetActivity returns the activity with its status reconciled against the
// clock. Entering the completed state triggers the final ranking pass.
func (s *ActivitySrvc) GetActivity(ctx context.Context, id uuid.UUID) (*Activity, error) {
	act, err := s.actRepo.Get(ctx, id)
	if err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}
	if act == nil {
		return nil, ErrActivityNotFound()
	}
	if err := s.reconcile(ctx, act); err != nil {
		return nil, err
	}
	return act, nil
}

func (s *ActivitySrvc) ListActivities(ctx context.Context, category string, status ActivityStatus) ([]Activity, error) {
	acts, err := s.actRepo.List(ctx)
	if err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}
	res := make([]Activity, 0, len(acts))
	now := s.now()
	for _, act := range acts {
		act.Status = act.StatusAt(now)
		if category != "" && act.Category != category {
			continue
		}
		if status != "" && act.Status != status {
			continue
		}
		res = append(res, act)
	}
	return res, nil
}
