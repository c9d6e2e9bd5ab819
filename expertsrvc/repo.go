package expertsrvc

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type ExpertScoreRepo interface {
	// Upsert replaces the (expert, submission) record wholesale.
	Upsert(ctx context.Context, score ExpertScore) error
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]ExpertScore, error)
}

type scoreKey struct {
	submission uuid.UUID
	expert     uuid.UUID
}

type InMemExpertScoreRepo struct {
	mu     sync.Mutex
	scores map[scoreKey]ExpertScore
}

func NewInMemExpertScoreRepo() *InMemExpertScoreRepo {
	return &InMemExpertScoreRepo{scores: make(map[scoreKey]ExpertScore)}
}

func (r *InMemExpertScoreRepo) Upsert(ctx context.Context, score ExpertScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[scoreKey{submission: score.SubmissionUUID, expert: score.ExpertUUID}] = score
	return nil
}

func (r *InMemExpertScoreRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]ExpertScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]ExpertScore, 0)
	for key, score := range r.scores {
		if key.submission == submissionID {
			res = append(res, score)
		}
	}
	return res, nil
}
