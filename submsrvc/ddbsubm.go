package submsrvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

// ddbSubmRow is keyed by (activity, creator) so the one-submission-per-
// participant rule is a single conditional write. Lookups by submission
// uuid go through the subm_uuid global secondary index.
type ddbSubmRow struct {
	ActivityUuid string    `dynamo:"activity_uuid,hash"`
	CreatorUuid  string    `dynamo:"creator_uuid,range"`
	SubmUuid     string    `dynamo:"subm_uuid" index:"subm_uuid-index,hash"`
	Title        string    `dynamo:"title"`
	ContentKey   string    `dynamo:"content_key"`
	ContentURL   string    `dynamo:"content_url"`
	CreatedAt    time.Time `dynamo:"created_at,unixtime"`
	Status       string    `dynamo:"status"`
	Rank         *int      `dynamo:"rank,omitempty"`
	FinalScore   *float64  `dynamo:"final_score,omitempty"`
}

type DdbSubmissionRepo struct {
	table dynamo.Table
}

func NewDdbSubmissionRepo(ddbClient *dynamodb.Client, tableName string) *DdbSubmissionRepo {
	db := dynamo.NewFromIface(ddbClient)
	return &DdbSubmissionRepo{table: db.Table(tableName)}
}

func (r *DdbSubmissionRepo) CompareAndInsert(ctx context.Context, subm Submission) error {
	err := r.table.Put(submToRow(subm)).If("attribute_not_exists(creator_uuid)").Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *DdbSubmissionRepo) Get(ctx context.Context, submissionID uuid.UUID) (*Submission, error) {
	row := new(ddbSubmRow)
	err := r.table.Get("subm_uuid", submissionID.String()).
		Index("subm_uuid-index").
		One(ctx, row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rowToSubm(*row)
}

func (r *DdbSubmissionRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]Submission, error) {
	var rows []ddbSubmRow
	err := r.table.Get("activity_uuid", activityID.String()).All(ctx, &rows)
	if err != nil {
		return nil, err
	}
	subs := make([]Submission, 0, len(rows))
	for _, row := range rows {
		subm, err := rowToSubm(row)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *subm)
	}
	return subs, nil
}

func (r *DdbSubmissionRepo) Exists(ctx context.Context, activityID, creatorID uuid.UUID) (bool, error) {
	var row ddbSubmRow
	err := r.table.Get("activity_uuid", activityID.String()).
		Range("creator_uuid", dynamo.Equal, creatorID.String()).
		One(ctx, &row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *DdbSubmissionRepo) StoreRankingResult(ctx context.Context, subs []Submission) error {
	for _, subm := range subs {
		err := r.table.Update("activity_uuid", subm.ActivityUUID.String()).
			Range("creator_uuid", subm.Creator.String()).
			Set("rank", subm.Rank).
			Set("final_score", subm.FinalScore).
			Set("status", string(StatusScored)).
			Run(ctx)
		if err != nil {
			return fmt.Errorf("updating ranking fields of %s: %w", subm.UUID, err)
		}
	}
	return nil
}

func submToRow(subm Submission) ddbSubmRow {
	return ddbSubmRow{
		ActivityUuid: subm.ActivityUUID.String(),
		CreatorUuid:  subm.Creator.String(),
		SubmUuid:     subm.UUID.String(),
		Title:        subm.Title,
		ContentKey:   subm.ContentKey,
		ContentURL:   subm.ContentURL,
		CreatedAt:    subm.CreatedAt,
		Status:       string(subm.Status),
		Rank:         subm.Rank,
		FinalScore:   subm.FinalScore,
	}
}

func rowToSubm(row ddbSubmRow) (*Submission, error) {
	id, err := uuid.Parse(row.SubmUuid)
	if err != nil {
		return nil, fmt.Errorf("parsing submission uuid: %w", err)
	}
	actID, err := uuid.Parse(row.ActivityUuid)
	if err != nil {
		return nil, fmt.Errorf("parsing activity uuid: %w", err)
	}
	creator, err := uuid.Parse(row.CreatorUuid)
	if err != nil {
		return nil, fmt.Errorf("parsing creator uuid: %w", err)
	}
	return &Submission{
		UUID:         id,
		ActivityUUID: actID,
		Creator:      creator,
		Title:        row.Title,
		ContentKey:   row.ContentKey,
		ContentURL:   row.ContentURL,
		CreatedAt:    row.CreatedAt,
		Status:       SubmissionStatus(row.Status),
		Rank:         row.Rank,
		FinalScore:   row.FinalScore,
	}, nil
}
