package ranksrvc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/aieval"
	"github.com/edustage/backend/logger"
	"github.com/edustage/backend/submsrvc"
)

var (
	recomputePassesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edustage_ranking_recompute_passes_total",
		Help: "Number of completed ranking recomputation passes.",
	})
	snapshotWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edustage_ranking_snapshot_write_failures_total",
		Help: "Number of ranking snapshot write attempts that failed.",
	})
)

// ActivityProvider is the slice of the activity service the ranking
// engine needs.
type ActivityProvider interface {
	GetActivity(ctx context.Context, id uuid.UUID) (*actsrvc.Activity, error)
}

// SubmissionSource lists an activity's submissions and applies ranking
// results to their cached fields.
type SubmissionSource interface {
	ListSubmissions(ctx context.Context, activityID uuid.UUID) ([]submsrvc.Submission, error)
	ApplyRanking(ctx context.Context, ranked []submsrvc.Submission) error
}

// VoteCounter exposes the vote ledger's cached per-submission totals.
type VoteCounter interface {
	VoteCount(ctx context.Context, submissionID uuid.UUID) (int, error)
}

// ExpertScoreSource exposes the expert panel's weighted criteria sums.
type ExpertScoreSource interface {
	WeightedSums(ctx context.Context, act *actsrvc.Activity, submissionID uuid.UUID) ([]float64, error)
}

// AIScoreSource exposes the cached automated evaluations.
type AIScoreSource interface {
	Get(ctx context.Context, submissionID uuid.UUID) (*aieval.Evaluation, error)
}

type RankSrvc struct {
	actSrvc   ActivityProvider
	submSrvc  SubmissionSource
	votes     VoteCounter
	experts   ExpertScoreSource
	aiScores  AIScoreSource
	snapshots SnapshotRepo

	// storeAttempts bounds the snapshot write retry loop.
	storeAttempts int
	retryBackoff  time.Duration

	now func() time.Time
}

func NewRankSrvc(
	actSrvc ActivityProvider,
	submSrvc SubmissionSource,
	votes VoteCounter,
	experts ExpertScoreSource,
	aiScores AIScoreSource,
	snapshots SnapshotRepo,
) *RankSrvc {
	return &RankSrvc{
		actSrvc:       actSrvc,
		submSrvc:      submSrvc,
		votes:         votes,
		experts:       experts,
		aiScores:      aiScores,
		snapshots:     snapshots,
		storeAttempts: 4,
		retryBackoff:  100 * time.Millisecond,
		now:           time.Now,
	}
}

// SetClock replaces the wall clock, for tests.
func (s *RankSrvc) SetClock(now func() time.Time) {
	s.now = now
}

// RecomputeRanking scores every submission of the activity, orders them
// and persists a new ranking snapshot. The pass reads its facts once up
// front, so the snapshot reflects a consistent point in time even while
// votes keep arriving. A pass that loses the sequence race leaves the
// newer snapshot and the cached submission fields untouched.
func (s *RankSrvc) RecomputeRanking(ctx context.Context, activityID uuid.UUID) error {
	act, err := s.actSrvc.GetActivity(ctx, activityID)
	if err != nil {
		return err
	}

	seq, err := s.snapshots.NextSeq(ctx, activityID)
	if err != nil {
		return ErrInternalSE().SetDebug(err)
	}

	subs, err := s.submSrvc.ListSubmissions(ctx, activityID)
	if err != nil {
		return err
	}

	scored := make([]scoredSubm, 0, len(subs))
	scoreByID := make(map[uuid.UUID]float64, len(subs))
	for _, sub := range subs {
		facts, err := s.gatherFacts(ctx, act, sub.UUID)
		if err != nil {
			return err
		}
		final := ComputeFinalScore(act, facts)
		scored = append(scored, scoredSubm{
			UUID:        sub.UUID,
			SubmittedAt: sub.CreatedAt,
			FinalScore:  final,
		})
		scoreByID[sub.UUID] = final
	}

	snap := RankingSnapshot{
		ActivityUUID: activityID,
		Seq:          seq,
		CreatedAt:    s.now(),
		Entries:      rankSubmissions(scored),
	}

	becameCurrent, err := s.storeWithRetry(ctx, snap)
	if err != nil {
		return ErrSnapshotPersistence().SetDebug(err)
	}
	recomputePassesTotal.Inc()
	if !becameCurrent {
		logger.FromContext(ctx).Info("ranking pass superseded",
			"activity", activityID, "seq", seq)
		return nil
	}

	// Cached rank/finalScore updates happen only after the snapshot is
	// durable and current, so a failed write leaves submissions on the
	// previous authoritative ranking.
	rankByID := make(map[uuid.UUID]int, len(snap.Entries))
	for _, e := range snap.Entries {
		rankByID[e.SubmissionUUID] = e.Rank
	}
	ranked := make([]submsrvc.Submission, 0, len(subs))
	for _, sub := range subs {
		rank := rankByID[sub.UUID]
		score := scoreByID[sub.UUID]
		sub.Rank = &rank
		sub.FinalScore = &score
		ranked = append(ranked, sub)
	}
	if err := s.submSrvc.ApplyRanking(ctx, ranked); err != nil {
		return err
	}

	return nil
}

func (s *RankSrvc) gatherFacts(ctx context.Context, act *actsrvc.Activity, submissionID uuid.UUID) (ScoringFacts, error) {
	votes, err := s.votes.VoteCount(ctx, submissionID)
	if err != nil {
		return ScoringFacts{}, err
	}

	sums, err := s.experts.WeightedSums(ctx, act, submissionID)
	if err != nil {
		return ScoringFacts{}, err
	}

	var aiScore *float64
	ev, err := s.aiScores.Get(ctx, submissionID)
	if err != nil {
		// An unreachable score cache means "score absent", never a
		// ranking failure.
		logger.FromContext(ctx).Error("reading cached ai score failed",
			"submission", submissionID, "error", err)
	} else if ev != nil {
		aiScore = &ev.Score
	}

	return ScoringFacts{
		VoteCount:  votes,
		ExpertSums: sums,
		AIScore:    aiScore,
	}, nil
}

func (s *RankSrvc) storeWithRetry(ctx context.Context, snap RankingSnapshot) (bool, error) {
	backoff := s.retryBackoff
	var lastErr error
	for attempt := 0; attempt < s.storeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		becameCurrent, err := s.snapshots.Store(ctx, snap)
		if err == nil {
			return becameCurrent, nil
		}
		snapshotWriteFailuresTotal.Inc()
		lastErr = err
	}
	return false, lastErr
}

// GetCurrentRanking returns the authoritative ranking snapshot for the
// activity, or an empty one if no pass has completed yet.
func (s *RankSrvc) GetCurrentRanking(ctx context.Context, activityID uuid.UUID) (*RankingSnapshot, error) {
	snap, err := s.snapshots.GetCurrent(ctx, activityID)
	if err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}
	if snap == nil {
		return &RankingSnapshot{ActivityUUID: activityID, Entries: []SnapshotEntry{}}, nil
	}
	return snap, nil
}
