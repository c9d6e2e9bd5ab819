package ranksrvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

// The snapshots table holds three kinds of rows per activity partition:
// immutable snapshot rows under "snap#<seq>", one "#seq" counter row, and
// one "#current" pointer row whose seq only ever increases.
const (
	seqSortKey     = "#seq"
	currentSortKey = "#current"
)

type ddbSnapshotRow struct {
	ActivityUuid string     `dynamo:"activity_uuid,hash"`
	SortKey      string     `dynamo:"sort_key,range"`
	Seq          int64      `dynamo:"seq"`
	CreatedAt    time.Time  `dynamo:"created_at,unixtime"`
	Entries      []ddbEntry `dynamo:"entries"`
}

type ddbEntry struct {
	SubmUuid   string  `dynamo:"subm_uuid"`
	FinalScore float64 `dynamo:"final_score"`
	Rank       int     `dynamo:"rank"`
}

type ddbSeqRow struct {
	ActivityUuid string `dynamo:"activity_uuid,hash"`
	SortKey      string `dynamo:"sort_key,range"`
	Seq          int64  `dynamo:"seq"`
}

type DdbSnapshotRepo struct {
	table dynamo.Table
}

func NewDdbSnapshotRepo(ddbClient *dynamodb.Client, tableName string) *DdbSnapshotRepo {
	db := dynamo.NewFromIface(ddbClient)
	return &DdbSnapshotRepo{table: db.Table(tableName)}
}

func (r *DdbSnapshotRepo) NextSeq(ctx context.Context, activityID uuid.UUID) (int64, error) {
	var updated ddbSeqRow
	err := r.table.Update("activity_uuid", activityID.String()).
		Range("sort_key", seqSortKey).
		Add("seq", 1).
		Value(ctx, &updated)
	if err != nil {
		return 0, err
	}
	return updated.Seq, nil
}

func (r *DdbSnapshotRepo) Store(ctx context.Context, snap RankingSnapshot) (bool, error) {
	entries := make([]ddbEntry, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		entries = append(entries, ddbEntry{
			SubmUuid:   e.SubmissionUUID.String(),
			FinalScore: e.FinalScore,
			Rank:       e.Rank,
		})
	}

	// The snapshot row itself is immutable and append-only.
	snapRow := ddbSnapshotRow{
		ActivityUuid: snap.ActivityUUID.String(),
		SortKey:      fmt.Sprintf("snap#%020d", snap.Seq),
		Seq:          snap.Seq,
		CreatedAt:    snap.CreatedAt,
		Entries:      entries,
	}
	if err := r.table.Put(snapRow).Run(ctx); err != nil {
		return false, err
	}

	// Advance the current pointer only for a strictly newer snapshot. An
	// earlier pass finishing late loses this write and stays historical.
	currentRow := snapRow
	currentRow.SortKey = currentSortKey
	err := r.table.Put(currentRow).
		If("attribute_not_exists(seq) OR seq < ?", snap.Seq).
		Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *DdbSnapshotRepo) GetCurrent(ctx context.Context, activityID uuid.UUID) (*RankingSnapshot, error) {
	row := new(ddbSnapshotRow)
	err := r.table.Get("activity_uuid", activityID.String()).
		Range("sort_key", dynamo.Equal, currentSortKey).
		One(ctx, row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rowToSnapshot(*row)
}

func rowToSnapshot(row ddbSnapshotRow) (*RankingSnapshot, error) {
	actID, err := uuid.Parse(row.ActivityUuid)
	if err != nil {
		return nil, fmt.Errorf("parsing activity uuid: %w", err)
	}
	entries := make([]SnapshotEntry, 0, len(row.Entries))
	for _, e := range row.Entries {
		submID, err := uuid.Parse(e.SubmUuid)
		if err != nil {
			return nil, fmt.Errorf("parsing submission uuid: %w", err)
		}
		entries = append(entries, SnapshotEntry{
			SubmissionUUID: submID,
			FinalScore:     e.FinalScore,
			Rank:           e.Rank,
		})
	}
	return &RankingSnapshot{
		ActivityUUID: actID,
		Seq:          row.Seq,
		CreatedAt:    row.CreatedAt,
		Entries:      entries,
	}, nil
}
