package actsrvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

// ddbActivityRow is the DynamoDB representation of an activity.
type ddbActivityRow struct {
	Uuid            string         `dynamo:"uuid,hash"` // Primary key
	Title           string         `dynamo:"title"`
	Category        string         `dynamo:"category"`
	Creator         string         `dynamo:"creator"`
	PublicWeight    float64        `dynamo:"public_weight"`
	ExpertWeight    float64        `dynamo:"expert_weight"`
	AiWeight        float64        `dynamo:"ai_weight"`
	ExpectedVoters  int            `dynamo:"expected_voters"`
	ExpertScaleMax  float64        `dynamo:"expert_scale_max"`
	Criteria        []ddbCriterion `dynamo:"criteria"`
	JudgePanel      []string       `dynamo:"judge_panel,set,omitempty"`
	MaxParticipants int            `dynamo:"max_participants"`
	RegStart        time.Time      `dynamo:"reg_start,unixtime"`
	RegEnd          time.Time      `dynamo:"reg_end,unixtime"`
	SubmStart       time.Time      `dynamo:"subm_start,unixtime"`
	SubmEnd         time.Time      `dynamo:"subm_end,unixtime"`
	VoteStart       time.Time      `dynamo:"vote_start,unixtime"`
	VoteEnd         time.Time      `dynamo:"vote_end,unixtime"`
	ResultAt        time.Time      `dynamo:"result_at,unixtime"`
	Status          string         `dynamo:"status"`
	CreatedAt       time.Time      `dynamo:"created_at,unixtime"`
}

type ddbCriterion struct {
	Name   string  `dynamo:"name"`
	Weight float64 `dynamo:"weight"`
}

type DdbActivityRepo struct {
	table dynamo.Table
}

func NewDdbActivityRepo(ddbClient *dynamodb.Client, tableName string) *DdbActivityRepo {
	db := dynamo.NewFromIface(ddbClient)
	return &DdbActivityRepo{table: db.Table(tableName)}
}

func (r *DdbActivityRepo) Store(ctx context.Context, act Activity) error {
	return r.table.Put(activityToRow(act)).Run(ctx)
}

func (r *DdbActivityRepo) Get(ctx context.Context, id uuid.UUID) (*Activity, error) {
	row := new(ddbActivityRow)
	err := r.table.Get("uuid", id.String()).One(ctx, row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	act, err := rowToActivity(*row)
	if err != nil {
		return nil, err
	}
	return act, nil
}

func (r *DdbActivityRepo) List(ctx context.Context) ([]Activity, error) {
	var rows []ddbActivityRow
	if err := r.table.Scan().All(ctx, &rows); err != nil {
		return nil, err
	}
	acts := make([]Activity, 0, len(rows))
	for _, row := range rows {
		act, err := rowToActivity(row)
		if err != nil {
			return nil, err
		}
		acts = append(acts, *act)
	}
	return acts, nil
}

func activityToRow(act Activity) ddbActivityRow {
	panel := make([]string, 0, len(act.JudgePanel))
	for _, j := range act.JudgePanel {
		panel = append(panel, j.String())
	}
	criteria := make([]ddbCriterion, 0, len(act.Criteria))
	for _, c := range act.Criteria {
		criteria = append(criteria, ddbCriterion{Name: c.Name, Weight: c.Weight})
	}
	return ddbActivityRow{
		Uuid:            act.UUID.String(),
		Title:           act.Title,
		Category:        act.Category,
		Creator:         act.Creator.String(),
		PublicWeight:    act.Weights.PublicVote,
		ExpertWeight:    act.Weights.Expert,
		AiWeight:        act.Weights.AI,
		ExpectedVoters:  act.ExpectedVoters,
		ExpertScaleMax:  act.ExpertScaleMax,
		Criteria:        criteria,
		JudgePanel:      panel,
		MaxParticipants: act.MaxParticipants,
		RegStart:        act.Windows.RegistrationStart,
		RegEnd:          act.Windows.RegistrationEnd,
		SubmStart:       act.Windows.SubmissionStart,
		SubmEnd:         act.Windows.SubmissionEnd,
		VoteStart:       act.Windows.VotingStart,
		VoteEnd:         act.Windows.VotingEnd,
		ResultAt:        act.Windows.ResultAt,
		Status:          string(act.Status),
		CreatedAt:       act.CreatedAt,
	}
}

func rowToActivity(row ddbActivityRow) (*Activity, error) {
	id, err := uuid.Parse(row.Uuid)
	if err != nil {
		return nil, fmt.Errorf("parsing activity uuid: %w", err)
	}
	creator, err := uuid.Parse(row.Creator)
	if err != nil {
		return nil, fmt.Errorf("parsing creator uuid: %w", err)
	}
	panel := make([]uuid.UUID, 0, len(row.JudgePanel))
	for _, j := range row.JudgePanel {
		id, err := uuid.Parse(j)
		if err != nil {
			return nil, fmt.Errorf("parsing judge uuid: %w", err)
		}
		panel = append(panel, id)
	}
	criteria := make([]ExpertCriterion, 0, len(row.Criteria))
	for _, c := range row.Criteria {
		criteria = append(criteria, ExpertCriterion{Name: c.Name, Weight: c.Weight})
	}
	return &Activity{
		UUID:     id,
		Title:    row.Title,
		Category: row.Category,
		Creator:  creator,
		Weights: ScoreWeights{
			PublicVote: row.PublicWeight,
			Expert:     row.ExpertWeight,
			AI:         row.AiWeight,
		},
		ExpectedVoters:  row.ExpectedVoters,
		ExpertScaleMax:  row.ExpertScaleMax,
		Criteria:        criteria,
		JudgePanel:      panel,
		MaxParticipants: row.MaxParticipants,
		Windows: Windows{
			RegistrationStart: row.RegStart,
			RegistrationEnd:   row.RegEnd,
			SubmissionStart:   row.SubmStart,
			SubmissionEnd:     row.SubmEnd,
			VotingStart:       row.VoteStart,
			VotingEnd:         row.VoteEnd,
			ResultAt:          row.ResultAt,
		},
		Status:    ActivityStatus(row.Status),
		CreatedAt: row.CreatedAt,
	}, nil
}

// participantCounterKey is the reserved sort key of the per-activity
// enrollment counter row. User uuids never collide with it.
const participantCounterKey = "#count"

// ddbParticipantRow has the activity as partition key and the user as sort
// key so the duplicate-enrollment check is a single conditional write.
type ddbParticipantRow struct {
	ActivityUuid string    `dynamo:"activity_uuid,hash"`
	UserUuid     string    `dynamo:"user_uuid,range"`
	EnrolledAt   time.Time `dynamo:"enrolled_at,unixtime"`
}

type DdbParticipantRepo struct {
	table dynamo.Table
}

func NewDdbParticipantRepo(ddbClient *dynamodb.Client, tableName string) *DdbParticipantRepo {
	db := dynamo.NewFromIface(ddbClient)
	return &DdbParticipantRepo{table: db.Table(tableName)}
}

// CompareAndInsert writes the participant row behind a conditional put and
// then claims a slot on the activity's counter row with a bounded
// conditional ADD, so concurrent enrollments cannot push past the limit.
// An enrollment that loses the slot race is rolled back.
func (r *DdbParticipantRepo) CompareAndInsert(ctx context.Context, p Participant, maxParticipants int) error {
	row := ddbParticipantRow{
		ActivityUuid: p.ActivityUUID.String(),
		UserUuid:     p.UserUUID.String(),
		EnrolledAt:   p.EnrolledAt,
	}
	err := r.table.Put(row).If("attribute_not_exists(user_uuid)").Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return err
	}

	if maxParticipants <= 0 {
		return nil
	}
	err = r.table.Update("activity_uuid", p.ActivityUUID.String()).
		Range("user_uuid", participantCounterKey).
		Add("participant_count", 1).
		If("attribute_not_exists(participant_count) OR participant_count < ?", maxParticipants).
		Run(ctx)
	if dynamo.IsCondCheckFailed(err) {
		delErr := r.table.Delete("activity_uuid", p.ActivityUUID.String()).
			Range("user_uuid", p.UserUUID.String()).
			Run(ctx)
		if delErr != nil {
			return delErr
		}
		return ErrCapacityReached
	}
	return err
}

func (r *DdbParticipantRepo) Exists(ctx context.Context, activityID, userID uuid.UUID) (bool, error) {
	var row ddbParticipantRow
	err := r.table.Get("activity_uuid", activityID.String()).
		Range("user_uuid", dynamo.Equal, userID.String()).
		One(ctx, &row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
