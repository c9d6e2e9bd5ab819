package votesrvc

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

// counterSortKey is the reserved range key of the per-submission counter
// row. Voter uuids never collide with it.
const counterSortKey = "#count"

// ddbVoteRow is keyed by (submission, voter) so the at-most-one-vote rule
// is a single conditional write against the partition.
type ddbVoteRow struct {
	SubmUuid     string    `dynamo:"subm_uuid,hash"`
	VoterUuid    string    `dynamo:"voter_uuid,range"`
	ActivityUuid string    `dynamo:"activity_uuid"`
	CastAt       time.Time `dynamo:"cast_at,unixtime"`
}

type ddbVoteCountRow struct {
	SubmUuid  string `dynamo:"subm_uuid,hash"`
	VoterUuid string `dynamo:"voter_uuid,range"`
	VoteCount int    `dynamo:"vote_count"`
}

type DdbVoteRepo struct {
	table dynamo.Table
}

func NewDdbVoteRepo(ddbClient *dynamodb.Client, tableName string) *DdbVoteRepo {
	db := dynamo.NewFromIface(ddbClient)
	return &DdbVoteRepo{table: db.Table(tableName)}
}

func (r *DdbVoteRepo) CompareAndInsert(ctx context.Context, v Vote) error {
	row := ddbVoteRow{
		SubmUuid:     v.SubmissionUUID.String(),
		VoterUuid:    v.VoterUUID.String(),
		ActivityUuid: v.ActivityUUID.String(),
		CastAt:       v.CastAt,
	}
	err := r.table.Put(row).If("attribute_not_exists(voter_uuid)").Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *DdbVoteRepo) IncrementCount(ctx context.Context, submissionID uuid.UUID) (int, error) {
	var updated ddbVoteCountRow
	err := r.table.Update("subm_uuid", submissionID.String()).
		Range("voter_uuid", counterSortKey).
		Add("vote_count", 1).
		Value(ctx, &updated)
	if err != nil {
		return 0, err
	}
	return updated.VoteCount, nil
}

func (r *DdbVoteRepo) Count(ctx context.Context, submissionID uuid.UUID) (int, error) {
	var row ddbVoteCountRow
	err := r.table.Get("subm_uuid", submissionID.String()).
		Range("voter_uuid", dynamo.Equal, counterSortKey).
		One(ctx, &row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.VoteCount, nil
}
