package ranksrvc

import (
	"github.com/edustage/backend/actsrvc"
)

// ScoringFacts are the point-in-time inputs to a submission's final score.
type ScoringFacts struct {
	VoteCount int
	// ExpertSums holds each expert's weighted criteria sum, one entry per
	// expert. Each sum is bounded by the expert scale times the sum of the
	// criterion weights.
	ExpertSums []float64
	// AIScore is the cached automated score on a 0..100 scale, nil while
	// the evaluation is pending or failed.
	AIScore *float64
}

// ComputeFinalScore combines the three scoring components into one score
// on a 0..100 scale. Each component is normalized before weighting and the
// result is divided by the sum of the weights that actually contributed: a
// component without data drops out of the denominator instead of dragging
// the score down as a zero. A submission with no facts at all scores 0, so
// every submission is rankable.
func ComputeFinalScore(act *actsrvc.Activity, facts ScoringFacts) float64 {
	var weightedTotal, contributingWeight float64

	if facts.VoteCount > 0 {
		weightedTotal += publicComponent(act, facts.VoteCount) * act.Weights.PublicVote
		contributingWeight += act.Weights.PublicVote
	}

	if len(facts.ExpertSums) > 0 {
		weightedTotal += expertComponent(act, facts.ExpertSums) * act.Weights.Expert
		contributingWeight += act.Weights.Expert
	}

	if facts.AIScore != nil {
		weightedTotal += *facts.AIScore * act.Weights.AI
		contributingWeight += act.Weights.AI
	}

	if contributingWeight == 0 {
		return 0
	}
	return weightedTotal / contributingWeight
}

// publicComponent maps the vote count onto 0..100. With a configured
// expected voter population the count is taken as a share of it; without
// one every vote is worth one point. Capped at 100 either way.
func publicComponent(act *actsrvc.Activity, votes int) float64 {
	var component float64
	if act.ExpectedVoters > 0 {
		component = float64(votes) * 100 / float64(act.ExpectedVoters)
	} else {
		component = float64(votes)
	}
	if component > 100 {
		return 100
	}
	return component
}

// expertComponent is the mean of the experts' weighted criteria sums,
// rescaled to 0..100. A sum ranges over [0, scaleMax * Σ criterion
// weights], since each per-criterion score is bounded by the scale, so
// both factors go into the divisor. Criterion weights only have to be
// positive; they need not sum to one.
func expertComponent(act *actsrvc.Activity, sums []float64) float64 {
	total := 0.0
	for _, sum := range sums {
		total += sum
	}
	mean := total / float64(len(sums))

	scaleMax := act.ExpertScaleMax
	if scaleMax <= 0 {
		scaleMax = 100
	}
	weightSum := 0.0
	for _, c := range act.Criteria {
		weightSum += c.Weight
	}
	if weightSum <= 0 {
		weightSum = 1
	}
	return mean / (scaleMax * weightSum) * 100
}
