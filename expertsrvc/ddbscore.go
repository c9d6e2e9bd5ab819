package expertsrvc

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

type ddbExpertScoreRow struct {
	SubmUuid     string              `dynamo:"subm_uuid,hash"`
	ExpertUuid   string              `dynamo:"expert_uuid,range"`
	ActivityUuid string              `dynamo:"activity_uuid"`
	Scores       []ddbCriterionScore `dynamo:"scores"`
	Comment      string              `dynamo:"comment"`
	RecordedAt   time.Time           `dynamo:"recorded_at,unixtime"`
}

type ddbCriterionScore struct {
	Criterion string  `dynamo:"criterion"`
	Score     float64 `dynamo:"score"`
}

type DdbExpertScoreRepo struct {
	table dynamo.Table
}

func NewDdbExpertScoreRepo(ddbClient *dynamodb.Client, tableName string) *DdbExpertScoreRepo {
	db := dynamo.NewFromIface(ddbClient)
	return &DdbExpertScoreRepo{table: db.Table(tableName)}
}

func (r *DdbExpertScoreRepo) Upsert(ctx context.Context, score ExpertScore) error {
	scores := make([]ddbCriterionScore, 0, len(score.Scores))
	for _, cs := range score.Scores {
		scores = append(scores, ddbCriterionScore{Criterion: cs.Criterion, Score: cs.Score})
	}
	row := ddbExpertScoreRow{
		SubmUuid:     score.SubmissionUUID.String(),
		ExpertUuid:   score.ExpertUUID.String(),
		ActivityUuid: score.ActivityUUID.String(),
		Scores:       scores,
		Comment:      score.Comment,
		RecordedAt:   score.RecordedAt,
	}
	// Unconditional put: replace-wholesale is the intended semantics.
	return r.table.Put(row).Run(ctx)
}

func (r *DdbExpertScoreRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]ExpertScore, error) {
	var rows []ddbExpertScoreRow
	err := r.table.Get("subm_uuid", submissionID.String()).All(ctx, &rows)
	if err != nil {
		return nil, err
	}
	res := make([]ExpertScore, 0, len(rows))
	for _, row := range rows {
		score, err := rowToExpertScore(row)
		if err != nil {
			return nil, err
		}
		res = append(res, *score)
	}
	return res, nil
}

func rowToExpertScore(row ddbExpertScoreRow) (*ExpertScore, error) {
	submID, err := uuid.Parse(row.SubmUuid)
	if err != nil {
		return nil, fmt.Errorf("parsing submission uuid: %w", err)
	}
	expertID, err := uuid.Parse(row.ExpertUuid)
	if err != nil {
		return nil, fmt.Errorf("parsing expert uuid: %w", err)
	}
	actID, err := uuid.Parse(row.ActivityUuid)
	if err != nil {
		return nil, fmt.Errorf("parsing activity uuid: %w", err)
	}
	scores := make([]CriterionScore, 0, len(row.Scores))
	for _, cs := range row.Scores {
		scores = append(scores, CriterionScore{Criterion: cs.Criterion, Score: cs.Score})
	}
	return &ExpertScore{
		ActivityUUID:   actID,
		SubmissionUUID: submID,
		ExpertUUID:     expertID,
		Scores:         scores,
		Comment:        row.Comment,
		RecordedAt:     row.RecordedAt,
	}, nil
}
