package submsrvc

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type InMemSubmissionRepo struct {
	mu    sync.Mutex
	subms map[uuid.UUID]Submission
	// byOwner guards the one-submission-per-participant rule
	byOwner map[ownerKey]uuid.UUID
}

type ownerKey struct {
	activity uuid.UUID
	creator  uuid.UUID
}

func NewInMemSubmissionRepo() *InMemSubmissionRepo {
	return &InMemSubmissionRepo{
		subms:   make(map[uuid.UUID]Submission),
		byOwner: make(map[ownerKey]uuid.UUID),
	}
}

func (r *InMemSubmissionRepo) CompareAndInsert(ctx context.Context, subm Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ownerKey{activity: subm.ActivityUUID, creator: subm.Creator}
	if _, ok := r.byOwner[key]; ok {
		return ErrDuplicateKey
	}
	r.byOwner[key] = subm.UUID
	r.subms[subm.UUID] = subm
	return nil
}

func (r *InMemSubmissionRepo) Get(ctx context.Context, submissionID uuid.UUID) (*Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if subm, ok := r.subms[submissionID]; ok {
		return &subm, nil
	}
	return nil, nil
}

func (r *InMemSubmissionRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Submission, 0)
	for _, subm := range r.subms {
		if subm.ActivityUUID == activityID {
			res = append(res, subm)
		}
	}
	return res, nil
}

func (r *InMemSubmissionRepo) Exists(ctx context.Context, activityID, creatorID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byOwner[ownerKey{activity: activityID, creator: creatorID}]
	return ok, nil
}

func (r *InMemSubmissionRepo) StoreRankingResult(ctx context.Context, subs []Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, subm := range subs {
		stored, ok := r.subms[subm.UUID]
		if !ok {
			continue
		}
		stored.Rank = subm.Rank
		stored.FinalScore = subm.FinalScore
		stored.Status = StatusScored
		r.subms[subm.UUID] = stored
	}
	return nil
}
