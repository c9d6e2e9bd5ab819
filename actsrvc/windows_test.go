package actsrvc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustage/backend/actsrvc"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testWindows() actsrvc.Windows {
	return actsrvc.Windows{
		RegistrationStart: base,
		RegistrationEnd:   base.Add(1 * time.Hour),
		SubmissionStart:   base.Add(1 * time.Hour),
		SubmissionEnd:     base.Add(2 * time.Hour),
		VotingStart:       base.Add(2 * time.Hour),
		VotingEnd:         base.Add(3 * time.Hour),
		ResultAt:          base.Add(3 * time.Hour),
	}
}

func TestWindowsAreHalfOpen(t *testing.T) {
	act := &actsrvc.Activity{Windows: testWindows()}

	votingStart := act.Windows.VotingStart
	votingEnd := act.Windows.VotingEnd

	assert.True(t, actsrvc.InWindow(act, actsrvc.PhaseVoting, votingStart),
		"a vote exactly at the window start is inside")
	assert.True(t, actsrvc.InWindow(act, actsrvc.PhaseVoting, votingEnd.Add(-time.Millisecond)),
		"a vote one millisecond before the window end is inside")
	assert.False(t, actsrvc.InWindow(act, actsrvc.PhaseVoting, votingEnd),
		"a vote exactly at the window end is outside")
	assert.False(t, actsrvc.InWindow(act, actsrvc.PhaseVoting, votingStart.Add(-time.Millisecond)))
}

func TestWindowsValidate(t *testing.T) {
	require.NoError(t, testWindows().Validate())

	empty := testWindows()
	empty.SubmissionStart = time.Time{}
	empty.SubmissionEnd = time.Time{}
	assert.Error(t, empty.Validate(), "unset window")

	inverted := testWindows()
	inverted.RegistrationEnd = inverted.RegistrationStart.Add(-time.Minute)
	assert.Error(t, inverted.Validate(), "window ends before it starts")

	zeroLength := testWindows()
	zeroLength.VotingEnd = zeroLength.VotingStart
	assert.Error(t, zeroLength.Validate(), "empty window")

	overlapping := testWindows()
	overlapping.SubmissionStart = overlapping.RegistrationEnd.Add(-time.Minute)
	assert.Error(t, overlapping.Validate(), "submission overlaps registration")

	earlyResult := testWindows()
	earlyResult.ResultAt = earlyResult.VotingEnd.Add(-time.Minute)
	assert.Error(t, earlyResult.Validate(), "results before voting closes")
}

func TestStatusAtFollowsTheClock(t *testing.T) {
	act := &actsrvc.Activity{
		Windows: testWindows(),
		Status:  actsrvc.StatusRegistration,
	}

	assert.Equal(t, actsrvc.StatusRegistration, act.StatusAt(base.Add(30*time.Minute)))
	assert.Equal(t, actsrvc.StatusSubmissionOpen, act.StatusAt(base.Add(90*time.Minute)))
	assert.Equal(t, actsrvc.StatusVoting, act.StatusAt(base.Add(150*time.Minute)))
	assert.Equal(t, actsrvc.StatusCompleted, act.StatusAt(base.Add(4*time.Hour)))
}

func TestStatusAtDraftAndCompletedAreSticky(t *testing.T) {
	draft := &actsrvc.Activity{Windows: testWindows(), Status: actsrvc.StatusDraft}
	assert.Equal(t, actsrvc.StatusDraft, draft.StatusAt(base.Add(90*time.Minute)),
		"an unpublished activity never advances")

	done := &actsrvc.Activity{Windows: testWindows(), Status: actsrvc.StatusCompleted}
	assert.Equal(t, actsrvc.StatusCompleted, done.StatusAt(base),
		"a completed activity never reopens")
}
