// Package aieval is the boundary to the automated content evaluator. The
// ranking engine only ever sees a cached 0..100 score; evaluation happens
// asynchronously and a transport failure leaves the score absent rather
// than poisoning the ranking.
package aieval

import (
	"context"

	"github.com/google/uuid"
)

// Evaluation is the fixed contract with the evaluator: a quality score on
// a 0..100 scale plus optional free-text feedback.
type Evaluation struct {
	Score    float64
	Feedback string
}

// Evaluator produces a quality evaluation for submission content.
type Evaluator interface {
	Evaluate(ctx context.Context, content string) (Evaluation, error)
}

// Moderator decides whether submitted content is acceptable for
// publication on the platform.
type Moderator interface {
	Moderate(ctx context.Context, content string) (approved bool, err error)
}

// ContentFetcher resolves an opaque content reference to the content
// itself. The S3 bucket helper implements it.
type ContentFetcher interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// ScoreRepo caches evaluator results per submission. The insert is
// conditional so a submission is evaluated at most once even if two
// consumers race on the same request.
type ScoreRepo interface {
	Get(ctx context.Context, submissionID uuid.UUID) (*Evaluation, error)
	CompareAndInsert(ctx context.Context, submissionID uuid.UUID, ev Evaluation) error
}
