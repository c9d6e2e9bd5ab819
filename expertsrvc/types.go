package expertsrvc

import (
	"time"

	"github.com/google/uuid"

	"github.com/edustage/backend/actsrvc"
)

type CriterionScore struct {
	Criterion string  `json:"criterion"`
	Score     float64 `json:"score"`
}

// ExpertScore is one expert's structured scoring of one submission. An
// expert scores a submission at most once; a later attempt replaces the
// record wholesale.
type ExpertScore struct {
	ActivityUUID   uuid.UUID
	SubmissionUUID uuid.UUID
	ExpertUUID     uuid.UUID
	Scores         []CriterionScore
	Comment        string
	RecordedAt     time.Time
}

// WeightedSum folds the per-criterion scores into one number using the
// activity's declared criterion weights. Criteria the activity does not
// declare contribute nothing.
func (es ExpertScore) WeightedSum(criteria []actsrvc.ExpertCriterion) float64 {
	weights := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		weights[c.Name] = c.Weight
	}
	sum := 0.0
	for _, cs := range es.Scores {
		sum += cs.Score * weights[cs.Criterion]
	}
	return sum
}
