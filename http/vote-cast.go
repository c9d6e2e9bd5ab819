package http

import (
	"log/slog"
	"net/http"

	"github.com/edustage/backend/httpjson"
)

func (s *HttpServer) castVote(w http.ResponseWriter, r *http.Request) {
	voterID, ok := requireUser(w, r)
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

	count, err := s.voteSrvc.CastVote(r.Context(), activityID, submissionID, voterID)
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, struct {
		SubmissionUUID string `json:"submissionUuid"`
		VoteCount      int    `json:"voteCount"`
	}{
		SubmissionUUID: submissionID.String(),
		VoteCount:      count,
	})
}
