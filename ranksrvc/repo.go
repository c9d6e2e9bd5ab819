package ranksrvc

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var errTransientStore = errors.New("transient store failure")

type SnapshotRepo interface {
	// NextSeq atomically allocates the next snapshot sequence number for
	// the activity. Two overlapping ranking passes always get distinct
	// numbers.
	NextSeq(ctx context.Context, activityID uuid.UUID) (int64, error)
	// Store persists the snapshot and advances the activity's current
	// pointer only if this snapshot's sequence number exceeds the stored
	// one. Returns whether the snapshot became current; a superseded pass
	// reports false with no error.
	Store(ctx context.Context, snap RankingSnapshot) (becameCurrent bool, err error)
	// GetCurrent returns the authoritative snapshot, or nil if no ranking
	// pass has completed yet.
	GetCurrent(ctx context.Context, activityID uuid.UUID) (*RankingSnapshot, error)
}

type InMemSnapshotRepo struct {
	mu      sync.Mutex
	seqs    map[uuid.UUID]int64
	current map[uuid.UUID]RankingSnapshot
	// all retains every stored snapshot for audit, keyed by activity
	all map[uuid.UUID][]RankingSnapshot

	// FailStores makes the next N Store calls fail, for retry tests.
	FailStores int
}

func NewInMemSnapshotRepo() *InMemSnapshotRepo {
	return &InMemSnapshotRepo{
		seqs:    make(map[uuid.UUID]int64),
		current: make(map[uuid.UUID]RankingSnapshot),
		all:     make(map[uuid.UUID][]RankingSnapshot),
	}
}

func (r *InMemSnapshotRepo) NextSeq(ctx context.Context, activityID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seqs[activityID]++
	return r.seqs[activityID], nil
}

func (r *InMemSnapshotRepo) Store(ctx context.Context, snap RankingSnapshot) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailStores > 0 {
		r.FailStores--
		return false, errTransientStore
	}
	r.all[snap.ActivityUUID] = append(r.all[snap.ActivityUUID], snap)
	cur, ok := r.current[snap.ActivityUUID]
	if ok && cur.Seq >= snap.Seq {
		return false, nil
	}
	r.current[snap.ActivityUUID] = snap
	return true, nil
}

func (r *InMemSnapshotRepo) GetCurrent(ctx context.Context, activityID uuid.UUID) (*RankingSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snap, ok := r.current[activityID]; ok {
		return &snap, nil
	}
	return nil, nil
}
