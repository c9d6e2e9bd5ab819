package expertsrvc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/submsrvc"
)

// ActivityProvider is the slice of the activity service the scorer needs
// for phase gating and panel membership.
type ActivityProvider interface {
	GetActivity(ctx context.Context, id uuid.UUID) (*actsrvc.Activity, error)
}

type SubmissionProvider interface {
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*submsrvc.Submission, error)
}

type ExpertSrvc struct {
	actSrvc  ActivityProvider
	submSrvc SubmissionProvider
	repo     ExpertScoreRepo

	now func() time.Time
}

func NewExpertSrvc(actSrvc ActivityProvider, submSrvc SubmissionProvider, repo ExpertScoreRepo) *ExpertSrvc {
	return &ExpertSrvc{
		actSrvc:  actSrvc,
		submSrvc: submSrvc,
		repo:     repo,
		now:      time.Now,
	}
}

// SetClock replaces the wall clock, for tests.
func (s *ExpertSrvc) SetClock(now func() time.Time) {
	s.now = now
}

type RecordScoreParams struct {
	ActivityID   uuid.UUID
	SubmissionID uuid.UUID
	ExpertID     uuid.UUID
	Scores       []CriterionScore
	Comment      string
}

// RecordScore upserts one expert's scoring of a submission and returns the
// submission's recomputed expert average. Panels are small, so the average
// is recomputed eagerly on every write.
func (s *ExpertSrvc) RecordScore(ctx context.Context, p RecordScoreParams) (float64, error) {
	act, err := s.actSrvc.GetActivity(ctx, p.ActivityID)
	if err != nil {
		return 0, err
	}

	if !actsrvc.InWindow(act, actsrvc.PhaseVoting, s.now()) {
		return 0, actsrvc.ErrNotInPhase(actsrvc.PhaseVoting)
	}

	if !act.IsJudge(p.ExpertID) {
		return 0, ErrNotOnJudgePanel()
	}

	subm, err := s.submSrvc.GetSubmission(ctx, p.SubmissionID)
	if err != nil {
		return 0, err
	}
	if subm.ActivityUUID != p.ActivityID {
		return 0, submsrvc.ErrSubmissionNotFound()
	}

	if err := validateScores(act, p.Scores); err != nil {
		return 0, err
	}

	err = s.repo.Upsert(ctx, ExpertScore{
		ActivityUUID:   p.ActivityID,
		SubmissionUUID: p.SubmissionID,
		ExpertUUID:     p.ExpertID,
		Scores:         p.Scores,
		Comment:        p.Comment,
		RecordedAt:     s.now(),
	})
	if err != nil {
		return 0, ErrInternalSE().SetDebug(err)
	}

	return s.ExpertAverage(ctx, act, p.SubmissionID)
}

// ExpertAverage is the arithmetic mean of each expert's weighted criteria
// sum for the submission, on the activity's expert scale. Zero if nobody
// scored it yet.
func (s *ExpertSrvc) ExpertAverage(ctx context.Context, act *actsrvc.Activity, submissionID uuid.UUID) (float64, error) {
	sums, err := s.WeightedSums(ctx, act, submissionID)
	if err != nil {
		return 0, err
	}
	if len(sums) == 0 {
		return 0, nil
	}
	total := 0.0
	for _, sum := range sums {
		total += sum
	}
	return total / float64(len(sums)), nil
}

// WeightedSums returns each expert's weighted criteria sum for the
// submission, one entry per expert that scored it.
func (s *ExpertSrvc) WeightedSums(ctx context.Context, act *actsrvc.Activity, submissionID uuid.UUID) ([]float64, error) {
	scores, err := s.repo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}
	sums := make([]float64, 0, len(scores))
	for _, score := range scores {
		sums = append(sums, score.WeightedSum(act.Criteria))
	}
	return sums, nil
}

func validateScores(act *actsrvc.Activity, scores []CriterionScore) error {
	declared := make(map[string]bool, len(act.Criteria))
	for _, c := range act.Criteria {
		declared[c.Name] = false
	}
	for _, cs := range scores {
		seen, ok := declared[cs.Criterion]
		if !ok {
			return ErrInvalidScore(fmt.Sprintf("criterion %q is not declared by the activity", cs.Criterion))
		}
		if seen {
			return ErrInvalidScore(fmt.Sprintf("criterion %q scored twice", cs.Criterion))
		}
		declared[cs.Criterion] = true
		if cs.Score < 0 || cs.Score > act.ExpertScaleMax {
			return ErrInvalidScore(fmt.Sprintf("score for %q is outside [0, %v]", cs.Criterion, act.ExpertScaleMax))
		}
	}
	for name, seen := range declared {
		if !seen {
			return ErrInvalidScore(fmt.Sprintf("criterion %q is missing a score", name))
		}
	}
	return nil
}
