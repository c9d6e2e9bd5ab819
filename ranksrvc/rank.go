package ranksrvc

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// scoredSubm is one submission entering a ranking pass.
type scoredSubm struct {
	UUID        uuid.UUID
	SubmittedAt time.Time
	FinalScore  float64
}

// rankSubmissions orders submissions by final score descending and assigns
// dense ranks 1..N. Ties go to the earlier submission, then to the smaller
// uuid, so the order is a strict total order: two equal scores still get
// distinct sequential ranks, which keeps downstream reward allocation
// unambiguous.
func rankSubmissions(subs []scoredSubm) []SnapshotEntry {
	sorted := make([]scoredSubm, len(subs))
	copy(sorted, subs)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return strings.Compare(a.UUID.String(), b.UUID.String()) < 0
	})

	entries := make([]SnapshotEntry, 0, len(sorted))
	for i, sub := range sorted {
		entries = append(entries, SnapshotEntry{
			SubmissionUUID: sub.UUID,
			FinalScore:     sub.FinalScore,
			Rank:           i + 1,
		})
	}
	return entries
}
