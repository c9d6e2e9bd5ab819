package submsrvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/aieval"
	"github.com/edustage/backend/logger"
)

const maxContentLengthKB = 256

type SubmitWorkParams struct {
	ActivityID uuid.UUID
	Creator    uuid.UUID
	Title      string
	Content    []byte
	MediaType  string
}

// SubmitWork admits a participant's work into an activity. Admission is
// gated on the submission window and on enrollment; content passes
// moderation before it is stored. One submission per participant per
// activity, enforced by a conditional insert.
func (s *SubmissionSrvc) SubmitWork(ctx context.Context, p SubmitWorkParams) (*Submission, error) {
	if len(p.Content) > maxContentLengthKB*1024 {
		return nil, ErrSubmissionTooLong(maxContentLengthKB)
	}

	act, err := s.actSrvc.GetActivity(ctx, p.ActivityID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !actsrvc.InWindow(act, actsrvc.PhaseSubmission, now) {
		return nil, actsrvc.ErrNotInPhase(actsrvc.PhaseSubmission)
	}

	enrolled, err := s.actSrvc.IsEnrolled(ctx, p.ActivityID, p.Creator)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled()
	}

	approved, err := s.moderator.Moderate(ctx, string(p.Content))
	if err != nil {
		return nil, ErrInternalSE().SetDebug(fmt.Errorf("moderation call failed: %w", err))
	}
	if !approved {
		return nil, ErrContentRejected()
	}

	submID := uuid.New()
	contentKey := fmt.Sprintf("subm/%s/%s", p.ActivityID, submID)
	contentURL, err := s.uploader.Upload(ctx, p.Content, contentKey, p.MediaType)
	if err != nil {
		return nil, ErrInternalSE().SetDebug(fmt.Errorf("uploading content: %w", err))
	}

	subm := Submission{
		UUID:         submID,
		ActivityUUID: p.ActivityID,
		Creator:      p.Creator,
		Title:        p.Title,
		ContentKey:   contentKey,
		ContentURL:   contentURL,
		CreatedAt:    now,
		Status:       StatusSubmitted,
	}

	err = s.repo.CompareAndInsert(ctx, subm)
	if errors.Is(err, ErrDuplicateKey) {
		return nil, ErrAlreadySubmitted()
	}
	if err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}

	// Best effort: a lost request only delays the automated score, which
	// the aggregator treats as absent.
	err = s.evalQueue.Enqueue(ctx, aieval.EvalRequest{
		SubmUuid:   submID.String(),
		ContentKey: contentKey,
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to enqueue evaluation request",
			"submission", submID, "error", err)
	}

	return &subm, nil
}
