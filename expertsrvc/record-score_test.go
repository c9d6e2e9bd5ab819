package expertsrvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/expertsrvc"
	"github.com/edustage/backend/srvcerror"
	"github.com/edustage/backend/submsrvc"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedActivities struct {
	act *actsrvc.Activity
}

func (f fixedActivities) GetActivity(ctx context.Context, id uuid.UUID) (*actsrvc.Activity, error) {
	if f.act == nil || f.act.UUID != id {
		return nil, actsrvc.ErrActivityNotFound()
	}
	return f.act, nil
}

type fixedSubmissions struct {
	subm *submsrvc.Submission
}

func (f fixedSubmissions) GetSubmission(ctx context.Context, id uuid.UUID) (*submsrvc.Submission, error) {
	if f.subm == nil || f.subm.UUID != id {
		return nil, submsrvc.ErrSubmissionNotFound()
	}
	return f.subm, nil
}

func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	var se *srvcerror.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, code, se.ErrorCode())
}

type fixture struct {
	srvc   *expertsrvc.ExpertSrvc
	act    *actsrvc.Activity
	subm   *submsrvc.Submission
	judges []uuid.UUID
}

func newFixture(t *testing.T, clock *time.Time) fixture {
	t.Helper()
	judges := []uuid.UUID{uuid.New(), uuid.New()}
	act := &actsrvc.Activity{
		UUID:           uuid.New(),
		Status:         actsrvc.StatusVoting,
		ExpertScaleMax: 10,
		Criteria: []actsrvc.ExpertCriterion{
			{Name: "creativity", Weight: 0.6},
			{Name: "technique", Weight: 0.4},
		},
		JudgePanel: judges,
		Windows: actsrvc.Windows{
			RegistrationStart: base,
			RegistrationEnd:   base.Add(1 * time.Hour),
			SubmissionStart:   base.Add(1 * time.Hour),
			SubmissionEnd:     base.Add(2 * time.Hour),
			VotingStart:       base.Add(2 * time.Hour),
			VotingEnd:         base.Add(3 * time.Hour),
			ResultAt:          base.Add(3 * time.Hour),
		},
	}
	subm := &submsrvc.Submission{UUID: uuid.New(), ActivityUUID: act.UUID}

	srvc := expertsrvc.NewExpertSrvc(
		fixedActivities{act: act},
		fixedSubmissions{subm: subm},
		expertsrvc.NewInMemExpertScoreRepo(),
	)
	srvc.SetClock(func() time.Time { return *clock })

	return fixture{srvc: srvc, act: act, subm: subm, judges: judges}
}

func TestRecordScore(t *testing.T) {
	clock := base.Add(150 * time.Minute)
	f := newFixture(t, &clock)
	ctx := context.Background()

	avg, err := f.srvc.RecordScore(ctx, expertsrvc.RecordScoreParams{
		ActivityID:   f.act.UUID,
		SubmissionID: f.subm.UUID,
		ExpertID:     f.judges[0],
		Scores: []expertsrvc.CriterionScore{
			{Criterion: "creativity", Score: 10},
			{Criterion: "technique", Score: 5},
		},
		Comment: "strong imagery, rough meter",
	})
	require.NoError(t, err)
	// 10*0.6 + 5*0.4 = 8, one expert so the average equals the sum
	assert.InDelta(t, 8.0, avg, 1e-9)
}

func TestRecordScoreAveragesAcrossPanel(t *testing.T) {
	clock := base.Add(150 * time.Minute)
	f := newFixture(t, &clock)
	ctx := context.Background()

	score := func(expert uuid.UUID, creativity, technique float64) float64 {
		avg, err := f.srvc.RecordScore(ctx, expertsrvc.RecordScoreParams{
			ActivityID:   f.act.UUID,
			SubmissionID: f.subm.UUID,
			ExpertID:     expert,
			Scores: []expertsrvc.CriterionScore{
				{Criterion: "creativity", Score: creativity},
				{Criterion: "technique", Score: technique},
			},
		})
		require.NoError(t, err)
		return avg
	}

	score(f.judges[0], 10, 10) // sum 10
	avg := score(f.judges[1], 5, 5) // sum 5
	assert.InDelta(t, 7.5, avg, 1e-9)
}

func TestRecordScoreReplacesWholesale(t *testing.T) {
	clock := base.Add(150 * time.Minute)
	f := newFixture(t, &clock)
	ctx := context.Background()

	record := func(creativity, technique float64) float64 {
		avg, err := f.srvc.RecordScore(ctx, expertsrvc.RecordScoreParams{
			ActivityID:   f.act.UUID,
			SubmissionID: f.subm.UUID,
			ExpertID:     f.judges[0],
			Scores: []expertsrvc.CriterionScore{
				{Criterion: "creativity", Score: creativity},
				{Criterion: "technique", Score: technique},
			},
		})
		require.NoError(t, err)
		return avg
	}

	record(10, 10)
	avg := record(2, 2)
	assert.InDelta(t, 2.0, avg, 1e-9, "the second scoring replaces the first, they do not accumulate")

	sums, err := f.srvc.WeightedSums(ctx, f.act, f.subm.UUID)
	require.NoError(t, err)
	assert.Len(t, sums, 1)
}

func TestRecordScoreRequiresPanelMembership(t *testing.T) {
	clock := base.Add(150 * time.Minute)
	f := newFixture(t, &clock)

	_, err := f.srvc.RecordScore(context.Background(), expertsrvc.RecordScoreParams{
		ActivityID:   f.act.UUID,
		SubmissionID: f.subm.UUID,
		ExpertID:     uuid.New(), // not on the panel
		Scores: []expertsrvc.CriterionScore{
			{Criterion: "creativity", Score: 5},
			{Criterion: "technique", Score: 5},
		},
	})
	assertErrCode(t, err, expertsrvc.ErrCodeNotAuthorized)
}

func TestRecordScoreValidatesCriteria(t *testing.T) {
	clock := base.Add(150 * time.Minute)
	f := newFixture(t, &clock)
	ctx := context.Background()

	record := func(scores []expertsrvc.CriterionScore) error {
		_, err := f.srvc.RecordScore(ctx, expertsrvc.RecordScoreParams{
			ActivityID:   f.act.UUID,
			SubmissionID: f.subm.UUID,
			ExpertID:     f.judges[0],
			Scores:       scores,
		})
		return err
	}

	assertErrCode(t, record([]expertsrvc.CriterionScore{
		{Criterion: "creativity", Score: 5},
	}), expertsrvc.ErrCodeInvalidScore) // technique missing

	assertErrCode(t, record([]expertsrvc.CriterionScore{
		{Criterion: "creativity", Score: 5},
		{Criterion: "technique", Score: 5},
		{Criterion: "vibes", Score: 5},
	}), expertsrvc.ErrCodeInvalidScore) // undeclared criterion

	assertErrCode(t, record([]expertsrvc.CriterionScore{
		{Criterion: "creativity", Score: 11}, // above the scale
		{Criterion: "technique", Score: 5},
	}), expertsrvc.ErrCodeInvalidScore)

	assertErrCode(t, record([]expertsrvc.CriterionScore{
		{Criterion: "creativity", Score: 5},
		{Criterion: "creativity", Score: 5},
	}), expertsrvc.ErrCodeInvalidScore) // scored twice
}

func TestRecordScoreOutsideVotingWindow(t *testing.T) {
	clock := base.Add(90 * time.Minute) // submission phase
	f := newFixture(t, &clock)

	_, err := f.srvc.RecordScore(context.Background(), expertsrvc.RecordScoreParams{
		ActivityID:   f.act.UUID,
		SubmissionID: f.subm.UUID,
		ExpertID:     f.judges[0],
		Scores: []expertsrvc.CriterionScore{
			{Criterion: "creativity", Score: 5},
			{Criterion: "technique", Score: 5},
		},
	})
	assertErrCode(t, err, actsrvc.ErrCodeNotInPhase)
}
