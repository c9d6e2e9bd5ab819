package submsrvc

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	StatusSubmitted   SubmissionStatus = "submitted"
	StatusUnderReview SubmissionStatus = "under_review"
	StatusScored      SubmissionStatus = "scored"
)

// Submission is one participant's entry into an activity. Rank and
// FinalScore are caches of the latest ranking snapshot; only the ranking
// engine writes them.
type Submission struct {
	UUID         uuid.UUID
	ActivityUUID uuid.UUID
	Creator      uuid.UUID
	Title        string
	ContentKey   string // S3 object key, opaque to the engine
	ContentURL   string
	CreatedAt    time.Time
	Status       SubmissionStatus
	Rank         *int     // nil until the first ranking pass
	FinalScore   *float64 // nil until scored
}
