package submsrvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/aieval"
)

// ActivityProvider is the slice of the activity service the submission
// service needs.
type ActivityProvider interface {
	GetActivity(ctx context.Context, id uuid.UUID) (*actsrvc.Activity, error)
	IsEnrolled(ctx context.Context, activityID, userID uuid.UUID) (bool, error)
}

// ContentUploader stores submission content and returns its public URL.
type ContentUploader interface {
	Upload(ctx context.Context, content []byte, key string, mediaType string) (string, error)
}

type SubmissionSrvc struct {
	actSrvc   ActivityProvider
	repo      SubmissionRepo
	uploader  ContentUploader
	moderator aieval.Moderator
	evalQueue aieval.RequestQueue

	now func() time.Time
}

func NewSubmissionSrvc(
	actSrvc ActivityProvider,
	repo SubmissionRepo,
	uploader ContentUploader,
	moderator aieval.Moderator,
	evalQueue aieval.RequestQueue,
) *SubmissionSrvc {
	return &SubmissionSrvc{
		actSrvc:   actSrvc,
		repo:      repo,
		uploader:  uploader,
		moderator: moderator,
		evalQueue: evalQueue,
		now:       time.Now,
	}
}

// SetClock replaces the wall clock, for tests.
func (s *SubmissionSrvc) SetClock(now func() time.Time) {
	s.now = now
}

func (s *SubmissionSrvc) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*Submission, error) {
	subm, err := s.repo.Get(ctx, submissionID)
	if err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}
	if subm == nil {
		return nil, ErrSubmissionNotFound()
	}
	return subm, nil
}

func (s *SubmissionSrvc) ListSubmissions(ctx context.Context, activityID uuid.UUID) ([]Submission, error) {
	subs, err := s.repo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}
	return subs, nil
}

// ApplyRanking overwrites the cached rank/finalScore fields of the given
// submissions. Only the ranking engine calls this, after its snapshot is
// durable; nothing else writes these fields.
func (s *SubmissionSrvc) ApplyRanking(ctx context.Context, ranked []Submission) error {
	if err := s.repo.StoreRankingResult(ctx, ranked); err != nil {
		return ErrInternalSE().SetDebug(err)
	}
	return nil
}

// HasSubmitted reports whether the user already entered a work into the
// activity.
func (s *SubmissionSrvc) HasSubmitted(ctx context.Context, activityID, userID uuid.UUID) (bool, error) {
	ok, err := s.repo.Exists(ctx, activityID, userID)
	if err != nil {
		return false, ErrInternalSE().SetDebug(err)
	}
	return ok, nil
}
