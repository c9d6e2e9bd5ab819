package actsrvc

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseRegistration Phase = "registration"
	PhaseSubmission   Phase = "submission"
	PhaseVoting       Phase = "voting"
)

// InWindow reports whether now falls inside the named phase window of the
// activity. Windows are half-open [start, end): an action arriving exactly
// at end is outside the window. The caller supplies now so the check stays
// deterministic.
func InWindow(act *Activity, phase Phase, now time.Time) bool {
	var start, end time.Time
	switch phase {
	case PhaseRegistration:
		start, end = act.Windows.RegistrationStart, act.Windows.RegistrationEnd
	case PhaseSubmission:
		start, end = act.Windows.SubmissionStart, act.Windows.SubmissionEnd
	case PhaseVoting:
		start, end = act.Windows.VotingStart, act.Windows.VotingEnd
	default:
		return false
	}
	return !now.Before(start) && now.Before(end)
}

// Validate checks that the windows are non-empty, non-overlapping and
// strictly increasing: registration < submission < voting < result.
func (w Windows) Validate() error {
	type interval struct {
		name       string
		start, end time.Time
	}
	intervals := []interval{
		{"registration", w.RegistrationStart, w.RegistrationEnd},
		{"submission", w.SubmissionStart, w.SubmissionEnd},
		{"voting", w.VotingStart, w.VotingEnd},
	}
	for _, iv := range intervals {
		if iv.start.IsZero() || iv.end.IsZero() {
			return fmt.Errorf("%s window is not set", iv.name)
		}
		if !iv.start.Before(iv.end) {
			return fmt.Errorf("%s window must start before it ends", iv.name)
		}
	}
	for i := 1; i < len(intervals); i++ {
		if intervals[i].start.Before(intervals[i-1].end) {
			return fmt.Errorf("%s window overlaps %s window",
				intervals[i].name, intervals[i-1].name)
		}
	}
	if w.ResultAt.Before(w.VotingEnd) {
		return fmt.Errorf("result publish instant precedes voting end")
	}
	return nil
}

// StatusAt derives the lifecycle state from the clock. A draft activity
// stays draft until it is published; transitions past registration are
// purely time-driven and completed is terminal.
func (a *Activity) StatusAt(now time.Time) ActivityStatus {
	if a.Status == StatusDraft {
		return StatusDraft
	}
	if a.Status == StatusCompleted {
		return StatusCompleted
	}
	switch {
	case now.Before(a.Windows.RegistrationEnd):
		return StatusRegistration
	case now.Before(a.Windows.SubmissionEnd):
		return StatusSubmissionOpen
	case now.Before(a.Windows.VotingEnd):
		return StatusVoting
	default:
		return StatusCompleted
	}
}
