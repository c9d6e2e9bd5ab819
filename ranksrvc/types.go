package ranksrvc

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotEntry is one submission's position in a ranking snapshot.
type SnapshotEntry struct {
	SubmissionUUID uuid.UUID `json:"submissionUuid"`
	FinalScore     float64   `json:"finalScore"`
	Rank           int       `json:"rank"`
}

// RankingSnapshot is an immutable result of one ranking pass. Snapshots
// carry a monotonic per-activity sequence number; only the
// highest-numbered one is the authoritative current ranking, older ones
// are retained for audit.
type RankingSnapshot struct {
	ActivityUUID uuid.UUID       `json:"activityUuid"`
	Seq          int64           `json:"seq"`
	CreatedAt    time.Time       `json:"createdAt"`
	Entries      []SnapshotEntry `json:"entries"` // ordered by rank
}
