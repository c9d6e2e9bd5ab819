package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/aieval"
	"github.com/edustage/backend/auth"
	"github.com/edustage/backend/expertsrvc"
	"github.com/edustage/backend/http"
	"github.com/edustage/backend/ranksrvc"
	"github.com/edustage/backend/submsrvc"
	"github.com/edustage/backend/votesrvc"
)

var (
	testJwtKey = []byte("test")
	base       = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type nullUploader struct{}

func (nullUploader) Upload(ctx context.Context, content []byte, key string, mediaType string) (string, error) {
	return "https://content.test/" + key, nil
}

type approveAll struct{}

func (approveAll) Moderate(ctx context.Context, content string) (bool, error) {
	return true, nil
}

type dropQueue struct{}

func (dropQueue) Enqueue(ctx context.Context, req aieval.EvalRequest) error {
	return nil
}

type testEnv struct {
	server *http.HttpServer
	clock  *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := base
	now := func() time.Time { return clock }

	actSrvc := actsrvc.NewActivitySrvc(actsrvc.NewInMemActivityRepo(), actsrvc.NewInMemParticipantRepo())
	actSrvc.SetClock(now)

	submSrvc := submsrvc.NewSubmissionSrvc(actSrvc, submsrvc.NewInMemSubmissionRepo(), nullUploader{}, approveAll{}, dropQueue{})
	submSrvc.SetClock(now)

	voteSrvc := votesrvc.NewVoteSrvc(actSrvc, submSrvc, votesrvc.NewInMemVoteRepo())
	voteSrvc.SetClock(now)

	expertSrvc := expertsrvc.NewExpertSrvc(actSrvc, submSrvc, expertsrvc.NewInMemExpertScoreRepo())
	expertSrvc.SetClock(now)

	aiScores := aieval.NewInMemScoreRepo()
	rankSrvc := ranksrvc.NewRankSrvc(actSrvc, submSrvc, voteSrvc, expertSrvc, aiScores, ranksrvc.NewInMemSnapshotRepo())
	rankSrvc.SetClock(now)

	actSrvc.SetRecomputer(rankSrvc)

	server := http.NewHttpServer(actSrvc, submSrvc, voteSrvc, expertSrvc, rankSrvc, testJwtKey)
	env := &testEnv{server: server, clock: &clock}
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, userID uuid.UUID, scopes ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != uuid.Nil {
		token, err := auth.GenerateJWT("tester", "tester@example.com", userID, scopes, testJwtKey)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Router().ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (status string, data json.RawMessage, code string) {
	t.Helper()
	var envelope struct {
		Status  string          `json:"status"`
		Data    json.RawMessage `json:"data"`
		Code    string          `json:"code"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "body: %s", w.Body.String())
	return envelope.Status, envelope.Data, envelope.Code
}

func validActivityBody(judges ...uuid.UUID) map[string]any {
	panel := make([]string, len(judges))
	for i, j := range judges {
		panel[i] = j.String()
	}
	return map[string]any{
		"title":          "Spring Poetry Slam",
		"category":       "literature",
		"weights":        map[string]float64{"publicVote": 1, "expert": 2},
		"expectedVoters": 100,
		"judgePanel":     panel,
		"criteria": []map[string]any{
			{"name": "overall", "weight": 1},
		},
		"windows": map[string]string{
			"registrationStart": base.Format(time.RFC3339),
			"registrationEnd":   base.Add(1 * time.Hour).Format(time.RFC3339),
			"submissionStart":   base.Add(1 * time.Hour).Format(time.RFC3339),
			"submissionEnd":     base.Add(2 * time.Hour).Format(time.RFC3339),
			"votingStart":       base.Add(2 * time.Hour).Format(time.RFC3339),
			"votingEnd":         base.Add(3 * time.Hour).Format(time.RFC3339),
			"resultAt":          base.Add(3 * time.Hour).Format(time.RFC3339),
		},
	}
}

func TestCreateActivityRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/activities", validActivityBody(), uuid.Nil)
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)

	w = env.do(t, "POST", "/activities", validActivityBody(), uuid.New())
	assert.Equal(t, nethttp.StatusForbidden, w.Code)

	w = env.do(t, "POST", "/activities", validActivityBody(), uuid.New(), auth.ScopeAdmin)
	assert.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())
}

func TestActivityContestFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := uuid.New()
	judge := uuid.New()

	// Create and publish.
	w := env.do(t, "POST", "/activities", validActivityBody(judge), admin, auth.ScopeAdmin)
	require.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())
	_, data, _ := decodeEnvelope(t, w)
	var created struct {
		UUID string `json:"uuid"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	actID := created.UUID

	w = env.do(t, "POST", "/activities/"+actID+"/publish", nil, admin, auth.ScopeAdmin)
	require.Equal(t, nethttp.StatusOK, w.Code)

	// Enroll during registration.
	participant := uuid.New()
	*env.clock = base.Add(30 * time.Minute)
	w = env.do(t, "POST", "/activities/"+actID+"/enroll", nil, participant)
	require.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())

	// An enrollment replay is rejected with a conflict.
	w = env.do(t, "POST", "/activities/"+actID+"/enroll", nil, participant)
	assert.Equal(t, nethttp.StatusConflict, w.Code)
	_, _, code := decodeEnvelope(t, w)
	assert.Equal(t, "already_enrolled", code)

	// Submit during the submission window.
	*env.clock = base.Add(90 * time.Minute)
	w = env.do(t, "POST", "/activities/"+actID+"/submissions", map[string]string{
		"title":   "Ode to March",
		"content": "the poem itself",
	}, participant)
	require.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())
	_, data, _ = decodeEnvelope(t, w)
	var subm struct {
		UUID string `json:"uuid"`
	}
	require.NoError(t, json.Unmarshal(data, &subm))

	// The participant sees their own standing.
	w = env.do(t, "GET", "/activities/"+actID+"/me", nil, participant)
	require.Equal(t, nethttp.StatusOK, w.Code)
	_, data, _ = decodeEnvelope(t, w)
	var standing struct {
		Enrolled     bool `json:"enrolled"`
		HasSubmitted bool `json:"hasSubmitted"`
	}
	require.NoError(t, json.Unmarshal(data, &standing))
	assert.True(t, standing.Enrolled)
	assert.True(t, standing.HasSubmitted)

	// Voting is rejected until the voting window opens.
	voter := uuid.New()
	votePath := fmt.Sprintf("/activities/%s/submissions/%s/votes", actID, subm.UUID)
	w = env.do(t, "POST", votePath, nil, voter)
	assert.Equal(t, nethttp.StatusConflict, w.Code)
	_, _, code = decodeEnvelope(t, w)
	assert.Equal(t, "not_in_phase", code)

	*env.clock = base.Add(150 * time.Minute)
	w = env.do(t, "POST", votePath, nil, voter)
	require.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())

	// A second vote by the same voter is a conflict.
	w = env.do(t, "POST", votePath, nil, voter)
	assert.Equal(t, nethttp.StatusConflict, w.Code)
	_, _, code = decodeEnvelope(t, w)
	assert.Equal(t, "duplicate_vote", code)

	// The judge scores the submission; an outsider may not.
	scorePath := fmt.Sprintf("/activities/%s/submissions/%s/expert-score", actID, subm.UUID)
	scoreBody := map[string]any{
		"scores": []map[string]any{{"criterion": "overall", "score": 80}},
	}
	w = env.do(t, "PUT", scorePath, scoreBody, uuid.New())
	assert.Equal(t, nethttp.StatusForbidden, w.Code)

	w = env.do(t, "PUT", scorePath, scoreBody, judge)
	require.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())

	// Recompute and read the ranking.
	w = env.do(t, "POST", "/activities/"+actID+"/recompute", nil, admin, auth.ScopeAdmin)
	require.Equal(t, nethttp.StatusOK, w.Code, "body: %s", w.Body.String())
	_, data, _ = decodeEnvelope(t, w)
	var ranking struct {
		Seq     int64 `json:"seq"`
		Entries []struct {
			SubmissionUuid string  `json:"submissionUuid"`
			FinalScore     float64 `json:"finalScore"`
			Rank           int     `json:"rank"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &ranking))
	require.Len(t, ranking.Entries, 1)
	assert.Equal(t, subm.UUID, ranking.Entries[0].SubmissionUuid)
	assert.Equal(t, 1, ranking.Entries[0].Rank)
	// 1 of 100 expected votes with weight 1 and an 80/100 expert average
	// with weight 2: (1*1 + 80*2) / 3
	assert.InDelta(t, (1.0+160.0)/3.0, ranking.Entries[0].FinalScore, 1e-9)

	// The public ranking endpoint needs no token.
	w = env.do(t, "GET", "/activities/"+actID+"/ranking", nil, uuid.Nil)
	assert.Equal(t, nethttp.StatusOK, w.Code)
}

func TestGetRankingBeforeAnyPass(t *testing.T) {
	env := newTestEnv(t)
	admin := uuid.New()

	w := env.do(t, "POST", "/activities", validActivityBody(), admin, auth.ScopeAdmin)
	require.Equal(t, nethttp.StatusOK, w.Code)
	_, data, _ := decodeEnvelope(t, w)
	var created struct {
		UUID string `json:"uuid"`
	}
	require.NoError(t, json.Unmarshal(data, &created))

	w = env.do(t, "GET", "/activities/"+created.UUID+"/ranking", nil, uuid.Nil)
	require.Equal(t, nethttp.StatusOK, w.Code)
	status, data, _ := decodeEnvelope(t, w)
	assert.Equal(t, "success", status)
	var ranking struct {
		Entries []any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &ranking))
	assert.Empty(t, ranking.Entries)
}

func TestGetActivityNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/activities/"+uuid.NewString(), nil, uuid.Nil)
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
	_, _, code := decodeEnvelope(t, w)
	assert.Equal(t, "activity_not_found", code)

	w = env.do(t, "GET", "/activities/not-a-uuid", nil, uuid.Nil)
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
}
