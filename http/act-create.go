package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/httpjson"
)

func (s *HttpServer) createActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	request := struct {
		Title           string                    `json:"title"`
		Category        string                    `json:"category"`
		Weights         actsrvc.ScoreWeights      `json:"weights"`
		ExpectedVoters  int                       `json:"expectedVoters"`
		ExpertScaleMax  float64                   `json:"expertScaleMax"`
		Criteria        []actsrvc.ExpertCriterion `json:"criteria"`
		JudgePanel      []string                  `json:"judgePanel"`
		MaxParticipants int                       `json:"maxParticipants"`
		Windows         actsrvc.Windows           `json:"windows"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpjson.WriteErrorJson(w, "invalid request body", http.StatusBadRequest, "invalid_request_body")
		return
	}

	panel := make([]uuid.UUID, 0, len(request.JudgePanel))
	for _, j := range request.JudgePanel {
		id, err := uuid.Parse(j)
		if err != nil {
			httpjson.WriteErrorJson(w, "invalid judge panel member uuid", http.StatusBadRequest, "invalid_request_body")
			return
		}
		panel = append(panel, id)
	}

	act, err := s.actSrvc.CreateActivity(r.Context(), actsrvc.CreateActivityParams{
		Title:           request.Title,
		Category:        request.Category,
		Creator:         userID,
		Weights:         request.Weights,
		ExpectedVoters:  request.ExpectedVoters,
		ExpertScaleMax:  request.ExpertScaleMax,
		Criteria:        request.Criteria,
		JudgePanel:      panel,
		MaxParticipants: request.MaxParticipants,
		Windows:         request.Windows,
	})
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapActivity(act))
}

func (s *HttpServer) publishActivity(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	activityID, ok := urlUuid(w, r, "activityId")
	if !ok {
		return
	}

	act, err := s.actSrvc.PublishActivity(r.Context(), activityID)
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapActivity(act))
}
