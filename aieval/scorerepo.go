package aieval

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

// ErrAlreadyEvaluated is returned by CompareAndInsert when a cached score
// for the submission already exists.
var ErrAlreadyEvaluated = errors.New("submission already evaluated")

type ddbAiScoreRow struct {
	SubmUuid    string    `dynamo:"subm_uuid,hash"`
	Score       float64   `dynamo:"score"`
	Feedback    string    `dynamo:"feedback"`
	EvaluatedAt time.Time `dynamo:"evaluated_at,unixtime"`
}

type DdbScoreRepo struct {
	table dynamo.Table
}

func NewDdbScoreRepo(ddbClient *dynamodb.Client, tableName string) *DdbScoreRepo {
	db := dynamo.NewFromIface(ddbClient)
	return &DdbScoreRepo{table: db.Table(tableName)}
}

func (r *DdbScoreRepo) Get(ctx context.Context, submissionID uuid.UUID) (*Evaluation, error) {
	row := new(ddbAiScoreRow)
	err := r.table.Get("subm_uuid", submissionID.String()).One(ctx, row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &Evaluation{Score: row.Score, Feedback: row.Feedback}, nil
}

func (r *DdbScoreRepo) CompareAndInsert(ctx context.Context, submissionID uuid.UUID, ev Evaluation) error {
	row := ddbAiScoreRow{
		SubmUuid:    submissionID.String(),
		Score:       ev.Score,
		Feedback:    ev.Feedback,
		EvaluatedAt: time.Now(),
	}
	err := r.table.Put(row).If("attribute_not_exists(subm_uuid)").Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		return ErrAlreadyEvaluated
	}
	return err
}

type InMemScoreRepo struct {
	mu     sync.Mutex
	scores map[uuid.UUID]Evaluation
}

func NewInMemScoreRepo() *InMemScoreRepo {
	return &InMemScoreRepo{scores: make(map[uuid.UUID]Evaluation)}
}

func (r *InMemScoreRepo) Get(ctx context.Context, submissionID uuid.UUID) (*Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev, ok := r.scores[submissionID]; ok {
		return &ev, nil
	}
	return nil, nil
}

func (r *InMemScoreRepo) CompareAndInsert(ctx context.Context, submissionID uuid.UUID, ev Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scores[submissionID]; ok {
		return ErrAlreadyEvaluated
	}
	r.scores[submissionID] = ev
	return nil
}
