package votesrvc

import (
	"time"

	"github.com/google/uuid"
)

// Vote is an immutable fact: this voter voted for this submission. The
// ledger never updates votes in place; uniqueness of (voter, submission)
// is the only constraint.
type Vote struct {
	ActivityUUID   uuid.UUID
	SubmissionUUID uuid.UUID
	VoterUUID      uuid.UUID
	CastAt         time.Time
}
