package actsrvc

import (
	"context"

	"github.com/google/uuid"
)

type CreateActivityParams struct {
	Title           string            `validate:"required,min=2,max=200"`
	Category        string            `validate:"required"`
	Creator         uuid.UUID         `validate:"required"`
	Weights         ScoreWeights      `validate:"required"`
	ExpectedVoters  int               `validate:"gte=0"`
	ExpertScaleMax  float64           `validate:"gte=0"`
	Criteria        []ExpertCriterion `validate:"dive"`
	JudgePanel      []uuid.UUID
	MaxParticipants int `validate:"gte=0"`
	Windows         Windows
}

// CreateActivity validates the configuration and persists a new activity in
// the draft state. Malformed windows or weights are rejected here, before
// any state exists.
func (s *ActivitySrvc) CreateActivity(ctx context.Context, p CreateActivityParams) (*Activity, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, ErrInvalidActivityConfig(err.Error()).SetDebug(err)
	}
	if err := p.Windows.Validate(); err != nil {
		return nil, ErrInvalidActivityConfig(err.Error()).SetDebug(err)
	}
	if p.Weights.PublicVote == 0 && p.Weights.Expert == 0 && p.Weights.AI == 0 {
		return nil, ErrInvalidActivityConfig("at least one scoring weight must be positive")
	}

	scaleMax := p.ExpertScaleMax
	if scaleMax == 0 {
		scaleMax = 100
	}

	act := Activity{
		UUID:            uuid.New(),
		Title:           p.Title,
		Category:        p.Category,
		Creator:         p.Creator,
		Weights:         p.Weights,
		ExpectedVoters:  p.ExpectedVoters,
		ExpertScaleMax:  scaleMax,
		Criteria:        p.Criteria,
		JudgePanel:      p.JudgePanel,
		MaxParticipants: p.MaxParticipants,
		Windows:         p.Windows,
		Status:          StatusDraft,
		CreatedAt:       s.now(),
	}

	if err := s.actRepo.Store(ctx, act); err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}

	return &act, nil
}

// PublishActivity moves a draft activity into its registration phase. This
// is the only explicit lifecycle transition; the rest follow the clock.
func (s *ActivitySrvc) PublishActivity(ctx context.Context, id uuid.UUID) (*Activity, error) {
	act, err := s.actRepo.Get(ctx, id)
	if err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}
	if act == nil {
		return nil, ErrActivityNotFound()
	}
	if act.Status != StatusDraft {
		return act, nil // publishing is idempotent
	}
	act.Status = StatusRegistration
	if err := s.actRepo.Store(ctx, *act); err != nil {
		return nil, ErrInternalSE().SetDebug(err)
	}
	return act, nil
}
