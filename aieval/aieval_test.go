package aieval

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"score": 80}`, extractJSON(`{"score": 80}`))
	assert.Equal(t, `{"score": 80}`, extractJSON("```json\n{\"score\": 80}\n```"))
	assert.Equal(t, `{"score": 80}`, extractJSON(`Sure! Here is the result: {"score": 80} Hope that helps.`))
	assert.Equal(t, "no braces here", extractJSON("no braces here"))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-5))
	assert.Equal(t, 55.5, clampScore(55.5))
	assert.Equal(t, 100.0, clampScore(180))
}

func TestScoreRepoCachesOnce(t *testing.T) {
	repo := NewInMemScoreRepo()
	ctx := context.Background()
	submID := uuid.New()

	got, err := repo.Get(ctx, submID)
	require.NoError(t, err)
	assert.Nil(t, got, "absent until evaluated")

	require.NoError(t, repo.CompareAndInsert(ctx, submID, Evaluation{Score: 72, Feedback: "solid"}))

	err = repo.CompareAndInsert(ctx, submID, Evaluation{Score: 99})
	assert.ErrorIs(t, err, ErrAlreadyEvaluated)

	got, err = repo.Get(ctx, submID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 72.0, got.Score, "the first evaluation wins")
}

type stubEvaluator struct {
	evaluations int
	score       float64
}

func (s *stubEvaluator) Evaluate(ctx context.Context, content string) (Evaluation, error) {
	s.evaluations++
	return Evaluation{Score: s.score, Feedback: "ok"}, nil
}

type stubFetcher struct {
	content map[string][]byte
}

func (s stubFetcher) Download(ctx context.Context, key string) ([]byte, error) {
	return s.content[key], nil
}

func TestConsumerHandleMessage(t *testing.T) {
	repo := NewInMemScoreRepo()
	evaluator := &stubEvaluator{score: 64}
	fetcher := stubFetcher{content: map[string][]byte{"subm/a/b": []byte("the work")}}
	consumer := NewConsumer(nil, "", evaluator, fetcher, repo)
	ctx := context.Background()

	submID := uuid.New()
	body, err := json.Marshal(EvalRequest{SubmUuid: submID.String(), ContentKey: "subm/a/b"})
	require.NoError(t, err)
	msg := string(body)

	require.NoError(t, consumer.handleMessage(ctx, &msg))
	assert.Equal(t, 1, evaluator.evaluations)

	got, err := repo.Get(ctx, submID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 64.0, got.Score)

	// Redelivery of the same message must not call the evaluator again.
	require.NoError(t, consumer.handleMessage(ctx, &msg))
	assert.Equal(t, 1, evaluator.evaluations)
}

func TestConsumerHandleMessageRejectsGarbage(t *testing.T) {
	consumer := NewConsumer(nil, "", &stubEvaluator{}, stubFetcher{}, NewInMemScoreRepo())
	ctx := context.Background()

	assert.Error(t, consumer.handleMessage(ctx, nil))

	garbage := "not json"
	assert.Error(t, consumer.handleMessage(ctx, &garbage))

	badUuid := `{"subm_uuid": "nope", "content_key": "k"}`
	assert.Error(t, consumer.handleMessage(ctx, &badUuid))
}
