package votesrvc_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/srvcerror"
	"github.com/edustage/backend/submsrvc"
	"github.com/edustage/backend/votesrvc"
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
	subms map[uuid.UUID]*submsrvc.Submission
}

func (f fixedSubmissions) GetSubmission(ctx context.Context, id uuid.UUID) (*submsrvc.Submission, error) {
	if subm, ok := f.subms[id]; ok {
		return subm, nil
	}
	return nil, submsrvc.ErrSubmissionNotFound()
}

func votingActivity() *actsrvc.Activity {
	return &actsrvc.Activity{
		UUID:   uuid.New(),
		Status: actsrvc.StatusVoting,
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
}

func newTestVoteSrvc(t *testing.T, act *actsrvc.Activity, subm *submsrvc.Submission, clock *time.Time) *votesrvc.VoteSrvc {
	t.Helper()
	srvc := votesrvc.NewVoteSrvc(
		fixedActivities{act: act},
		fixedSubmissions{subms: map[uuid.UUID]*submsrvc.Submission{subm.UUID: subm}},
		votesrvc.NewInMemVoteRepo(),
	)
	srvc.SetClock(func() time.Time { return *clock })
	return srvc
}

func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	var se *srvcerror.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, code, se.ErrorCode())
}

func TestCastVote(t *testing.T) {
	act := votingActivity()
	subm := &submsrvc.Submission{UUID: uuid.New(), ActivityUUID: act.UUID}
	clock := base.Add(150 * time.Minute)
	srvc := newTestVoteSrvc(t, act, subm, &clock)
	ctx := context.Background()

	count, err := srvc.CastVote(ctx, act.UUID, subm.UUID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = srvc.CastVote(ctx, act.UUID, subm.UUID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCastVoteRejectsDuplicate(t *testing.T) {
	act := votingActivity()
	subm := &submsrvc.Submission{UUID: uuid.New(), ActivityUUID: act.UUID}
	clock := base.Add(150 * time.Minute)
	srvc := newTestVoteSrvc(t, act, subm, &clock)
	ctx := context.Background()

	voter := uuid.New()
	_, err := srvc.CastVote(ctx, act.UUID, subm.UUID, voter)
	require.NoError(t, err)

	_, err = srvc.CastVote(ctx, act.UUID, subm.UUID, voter)
	assertErrCode(t, err, votesrvc.ErrCodeDuplicateVote)

	count, err := srvc.VoteCount(ctx, subm.UUID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "the rejected attempt must not inflate the count")
}

func TestCastVoteOutsideVotingWindow(t *testing.T) {
	act := votingActivity()
	subm := &submsrvc.Submission{UUID: uuid.New(), ActivityUUID: act.UUID}
	clock := base.Add(90 * time.Minute) // submission phase
	srvc := newTestVoteSrvc(t, act, subm, &clock)

	_, err := srvc.CastVote(context.Background(), act.UUID, subm.UUID, uuid.New())
	assertErrCode(t, err, actsrvc.ErrCodeNotInPhase)

	clock = act.Windows.VotingEnd // exactly at the close, outside
	_, err = srvc.CastVote(context.Background(), act.UUID, subm.UUID, uuid.New())
	assertErrCode(t, err, actsrvc.ErrCodeNotInPhase)
}

func TestCastVoteTargetsOwnActivityOnly(t *testing.T) {
	act := votingActivity()
	foreign := &submsrvc.Submission{UUID: uuid.New(), ActivityUUID: uuid.New()}
	clock := base.Add(150 * time.Minute)
	srvc := newTestVoteSrvc(t, act, foreign, &clock)

	_, err := srvc.CastVote(context.Background(), act.UUID, foreign.UUID, uuid.New())
	assertErrCode(t, err, submsrvc.ErrCodeSubmissionNotFound)
}

func TestConcurrentIdenticalVotesRecordOnce(t *testing.T) {
	act := votingActivity()
	subm := &submsrvc.Submission{UUID: uuid.New(), ActivityUUID: act.UUID}
	clock := base.Add(150 * time.Minute)
	srvc := newTestVoteSrvc(t, act, subm, &clock)
	ctx := context.Background()

	voter := uuid.New()
	const attempts = 32

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = srvc.CastVote(ctx, act.UUID, subm.UUID, voter)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		assertErrCode(t, err, votesrvc.ErrCodeDuplicateVote)
	}
	assert.Equal(t, 1, successes, "exactly one of the racing votes lands")

	count, err := srvc.VoteCount(ctx, subm.UUID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
