package actsrvc

import (
	"context"
	"time"

	"github.com/edustage/backend/logger"
)

// reconcile applies any clock-driven lifecycle transition to the activity
// and persists the new status. The transition into completed fires the
// final ranking pass before the status is stored: a failed pass leaves the
// stored status as is, so the next reconcile fires it again. Recomputation
// is idempotent, a second reconcile racing the first is harmless.
func (s *ActivitySrvc) reconcile(ctx context.Context, act *Activity) error {
	derived := act.StatusAt(s.now())
	if derived == act.Status {
		return nil
	}

	if derived == StatusCompleted && s.recomputer != nil {
		if err := s.recomputer.RecomputeRanking(ctx, act.UUID); err != nil {
			logger.FromContext(ctx).Error("final ranking recompute failed",
				"activity", act.UUID, "error", err)
			return err
		}
	}

	prev := act.Status
	act.Status = derived
	if err := s.actRepo.Store(ctx, *act); err != nil {
		act.Status = prev
		return ErrInternalSE().SetDebug(err)
	}

	return nil
}

// RunLifecycleTicker periodically reconciles all activities and refreshes
// rankings for those in their voting phase. Per-vote recomputation would be
// quadratic in vote volume; batching it here bounds the cost. Blocks until
// the context is cancelled.
func (s *ActivitySrvc) RunLifecycleTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *ActivitySrvc) tick(ctx context.Context) {
	log := logger.FromContext(ctx)

	acts, err := s.actRepo.List(ctx)
	if err != nil {
		log.Error("lifecycle tick: listing activities failed", "error", err)
		return
	}

	for i := range acts {
		act := acts[i]
		ctx := logger.WithActivityID(ctx, act.UUID.String())
		if err := s.reconcile(ctx, &act); err != nil {
			log.Error("lifecycle tick: reconcile failed",
				"activity", act.UUID, "error", err)
			continue
		}
		if act.Status == StatusVoting && s.recomputer != nil {
			if err := s.recomputer.RecomputeRanking(ctx, act.UUID); err != nil {
				log.Error("lifecycle tick: recompute failed",
					"activity", act.UUID, "error", err)
			}
		}
	}
}
