package votesrvc

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type voteKey struct {
	submission uuid.UUID
	voter      uuid.UUID
}

type InMemVoteRepo struct {
	mu     sync.Mutex
	votes  map[voteKey]Vote
	counts map[uuid.UUID]int
}

func NewInMemVoteRepo() *InMemVoteRepo {
	return &InMemVoteRepo{
		votes:  make(map[voteKey]Vote),
		counts: make(map[uuid.UUID]int),
	}
}

func (r *InMemVoteRepo) CompareAndInsert(ctx context.Context, v Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey{submission: v.SubmissionUUID, voter: v.VoterUUID}
	if _, ok := r.votes[key]; ok {
		return ErrDuplicateKey
	}
	r.votes[key] = v
	return nil
}

func (r *InMemVoteRepo) IncrementCount(ctx context.Context, submissionID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[submissionID]++
	return r.counts[submissionID], nil
}

func (r *InMemVoteRepo) Count(ctx context.Context, submissionID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[submissionID], nil
}
