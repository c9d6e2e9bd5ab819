package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/edustage/backend/httpjson"
	"github.com/edustage/backend/submsrvc"
)

func (s *HttpServer) submitWork(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	activityID, ok := urlUuid(w, r, "activityId")
	if !ok {
		return
	}

	request := struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		MediaType string `json:"mediaType"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpjson.WriteErrorJson(w, "invalid request body", http.StatusBadRequest, "invalid_request_body")
		return
	}
	if request.MediaType == "" {
		request.MediaType = "text/plain"
	}

	subm, err := s.submSrvc.SubmitWork(r.Context(), submsrvc.SubmitWorkParams{
		ActivityID: activityID,
		Creator:    userID,
		Title:      request.Title,
		Content:    []byte(request.Content),
		MediaType:  request.MediaType,
	})
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapSubmission(subm))
}

func (s *HttpServer) listSubmissions(w http.ResponseWriter, r *http.Request) {
	activityID, ok := urlUuid(w, r, "activityId")
	if !ok {
		return
	}

	subms, err := s.submSrvc.ListSubmissions(r.Context(), activityID)
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	response := make([]SubmissionResponse, len(subms))
	for i := range subms {
		response[i] = mapSubmission(&subms[i])
	}

	httpjson.WriteSuccessJson(w, response)
}
