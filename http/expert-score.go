package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/edustage/backend/expertsrvc"
	"github.com/edustage/backend/httpjson"
)

func (s *HttpServer) recordExpertScore(w http.ResponseWriter, r *http.Request) {
	expertID, ok := requireUser(w, r)
	if !ok {
		return
	}
	activityID, ok := urlUuid(w, r, "activityId")
	if !ok {
		return
	}
	submissionID, ok := urlUuid(w, r, "submissionId")
	if !ok {
		return
	}

	request := struct {
		Scores  []expertsrvc.CriterionScore `json:"scores"`
		Comment string                      `json:"comment"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpjson.WriteErrorJson(w, "invalid request body", http.StatusBadRequest, "invalid_request_body")
		return
	}

	average, err := s.expertSrvc.RecordScore(r.Context(), expertsrvc.RecordScoreParams{
		ActivityID:   activityID,
		SubmissionID: submissionID,
		ExpertID:     expertID,
		Scores:       request.Scores,
		Comment:      request.Comment,
	})
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, struct {
		SubmissionUUID string  `json:"submissionUuid"`
		ExpertAverage  float64 `json:"expertAverage"`
	}{
		SubmissionUUID: submissionID.String(),
		ExpertAverage:  average,
	})
}
