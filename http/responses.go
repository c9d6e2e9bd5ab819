package http

import (
	"time"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/ranksrvc"
	"github.com/edustage/backend/submsrvc"
)

type ActivityResponse struct {
	UUID            string                    `json:"uuid"`
	Title           string                    `json:"title"`
	Category        string                    `json:"category"`
	Creator         string                    `json:"creator"`
	Status          string                    `json:"status"`
	Weights         actsrvc.ScoreWeights      `json:"weights"`
	ExpectedVoters  int                       `json:"expectedVoters"`
	ExpertScaleMax  float64                   `json:"expertScaleMax"`
	Criteria        []actsrvc.ExpertCriterion `json:"criteria"`
	JudgePanel      []string                  `json:"judgePanel"`
	MaxParticipants int                       `json:"maxParticipants"`
	Windows         actsrvc.Windows           `json:"windows"`
	CreatedAt       time.Time                 `json:"createdAt"`
}

func mapActivity(act *actsrvc.Activity) ActivityResponse {
	panel := make([]string, len(act.JudgePanel))
	for i, j := range act.JudgePanel {
		panel[i] = j.String()
	}
	return ActivityResponse{
		UUID:            act.UUID.String(),
		Title:           act.Title,
		Category:        act.Category,
		Creator:         act.Creator.String(),
		Status:          string(act.Status),
		Weights:         act.Weights,
		ExpectedVoters:  act.ExpectedVoters,
		ExpertScaleMax:  act.ExpertScaleMax,
		Criteria:        act.Criteria,
		JudgePanel:      panel,
		MaxParticipants: act.MaxParticipants,
		Windows:         act.Windows,
		CreatedAt:       act.CreatedAt,
	}
}

type SubmissionResponse struct {
	UUID         string    `json:"uuid"`
	ActivityUUID string    `json:"activityUuid"`
	Creator      string    `json:"creator"`
	Title        string    `json:"title"`
	ContentURL   string    `json:"contentUrl"`
	Status       string    `json:"status"`
	Rank         *int      `json:"rank"`
	FinalScore   *float64  `json:"finalScore"`
	CreatedAt    time.Time `json:"createdAt"`
}

func mapSubmission(subm *submsrvc.Submission) SubmissionResponse {
	return SubmissionResponse{
		UUID:         subm.UUID.String(),
		ActivityUUID: subm.ActivityUUID.String(),
		Creator:      subm.Creator.String(),
		Title:        subm.Title,
		ContentURL:   subm.ContentURL,
		Status:       string(subm.Status),
		Rank:         subm.Rank,
		FinalScore:   subm.FinalScore,
		CreatedAt:    subm.CreatedAt,
	}
}

type RankingResponse struct {
	ActivityUUID string                   `json:"activityUuid"`
	Seq          int64                    `json:"seq"`
	CreatedAt    time.Time                `json:"createdAt"`
	Entries      []ranksrvc.SnapshotEntry `json:"entries"`
}

func mapRanking(snap *ranksrvc.RankingSnapshot) RankingResponse {
	return RankingResponse{
		ActivityUUID: snap.ActivityUUID.String(),
		Seq:          snap.Seq,
		CreatedAt:    snap.CreatedAt,
		Entries:      snap.Entries,
	}
}
