package votesrvc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/submsrvc"
)

var votesCastTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "edustage_votes_cast_total",
	Help: "Number of successfully recorded public votes.",
})

// ActivityProvider is the slice of the activity service the vote ledger
// needs for phase gating.
type ActivityProvider interface {
	GetActivity(ctx context.Context, id uuid.UUID) (*actsrvc.Activity, error)
}

// SubmissionProvider resolves submissions so votes can only target
// existing works of the right activity.
type SubmissionProvider interface {
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*submsrvc.Submission, error)
}

type VoteSrvc struct {
	actSrvc  ActivityProvider
	submSrvc SubmissionProvider
	repo     VoteRepo

	now func() time.Time
}

func NewVoteSrvc(actSrvc ActivityProvider, submSrvc SubmissionProvider, repo VoteRepo) *VoteSrvc {
	return &VoteSrvc{
		actSrvc:  actSrvc,
		submSrvc: submSrvc,
		repo:     repo,
		now:      time.Now,
	}
}

// SetClock replaces the wall clock, for tests.
func (s *VoteSrvc) SetClock(now func() time.Time) {
	s.now = now
}

// CastVote appends a vote fact and returns the submission's new vote
// count. It does not recompute the final score; ranking refresh is batched
// by the activity lifecycle.
func (s *VoteSrvc) CastVote(ctx context.Context, activityID, submissionID, voterID uuid.UUID) (int, error) {
	act, err := s.actSrvc.GetActivity(ctx, activityID)
	if err != nil {
		return 0, err
	}

	if !actsrvc.InWindow(act, actsrvc.PhaseVoting, s.now()) {
		return 0, actsrvc.ErrNotInPhase(actsrvc.PhaseVoting)
	}

	subm, err := s.submSrvc.GetSubmission(ctx, submissionID)
	if err != nil {
		return 0, err
	}
	if subm.ActivityUUID != activityID {
		return 0, submsrvc.ErrSubmissionNotFound()
	}

	err = s.repo.CompareAndInsert(ctx, Vote{
		ActivityUUID:   activityID,
		SubmissionUUID: submissionID,
		VoterUUID:      voterID,
		CastAt:         s.now(),
	})
	if errors.Is(err, ErrDuplicateKey) {
		return 0, ErrDuplicateVote()
	}
	if err != nil {
		return 0, ErrInternalSE().SetDebug(err)
	}

	count, err := s.repo.IncrementCount(ctx, submissionID)
	if err != nil {
		// The fact is durable; only the cached counter lagged. The next
		// successful increment or a recount heals it.
		return 0, ErrInternalSE().SetDebug(err)
	}

	votesCastTotal.Inc()
	return count, nil
}

// VoteCount returns the submission's cached public vote count.
func (s *VoteSrvc) VoteCount(ctx context.Context, submissionID uuid.UUID) (int, error) {
	count, err := s.repo.Count(ctx, submissionID)
	if err != nil {
		return 0, ErrInternalSE().SetDebug(err)
	}
	return count, nil
}
