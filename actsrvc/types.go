package actsrvc

import (
	"time"

	"github.com/google/uuid"
)

type ActivityStatus string

const (
	StatusDraft          ActivityStatus = "draft"
	StatusRegistration   ActivityStatus = "registration"
	StatusSubmissionOpen ActivityStatus = "submission_open"
	StatusVoting         ActivityStatus = "voting"
	StatusCompleted      ActivityStatus = "completed"
)

// ScoreWeights configures how the three scoring components are combined.
// Weights are non-negative and need not sum to one; the aggregator
// normalizes by the weights that actually contribute.
type ScoreWeights struct {
	PublicVote float64 `json:"publicVote" validate:"gte=0"`
	Expert     float64 `json:"expert" validate:"gte=0"`
	AI         float64 `json:"ai" validate:"gte=0"`
}

// ExpertCriterion is one named judging dimension with its weight in the
// per-expert criteria sum.
type ExpertCriterion struct {
	Name   string  `json:"name" validate:"required"`
	Weight float64 `json:"weight" validate:"gt=0"`
}

// Windows holds the four phase intervals of an activity. Registration,
// submission and voting are half-open [start, end); ResultAt is the
// publish instant that closes the voting phase.
type Windows struct {
	RegistrationStart time.Time `json:"registrationStart"`
	RegistrationEnd   time.Time `json:"registrationEnd"`
	SubmissionStart   time.Time `json:"submissionStart"`
	SubmissionEnd     time.Time `json:"submissionEnd"`
	VotingStart       time.Time `json:"votingStart"`
	VotingEnd         time.Time `json:"votingEnd"`
	ResultAt          time.Time `json:"resultAt"`
}

type Activity struct {
	UUID            uuid.UUID
	Title           string
	Category        string
	Creator         uuid.UUID
	Weights         ScoreWeights
	ExpectedVoters  int     // 0 means unknown, 1 point per vote
	ExpertScaleMax  float64 // max value of an expert criteria sum
	Criteria        []ExpertCriterion
	JudgePanel      []uuid.UUID
	MaxParticipants int // 0 means unlimited
	Windows         Windows
	Status          ActivityStatus
	CreatedAt       time.Time
}

// IsJudge reports whether the given user sits on the activity's panel.
func (a *Activity) IsJudge(userID uuid.UUID) bool {
	for _, j := range a.JudgePanel {
		if j == userID {
			return true
		}
	}
	return false
}

// Participant is one enrolled user of an activity.
type Participant struct {
	ActivityUUID uuid.UUID
	UserUUID     uuid.UUID
	EnrolledAt   time.Time
}
