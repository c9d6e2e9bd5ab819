package http

import (
	"log/slog"
	"net/http"

	"github.com/edustage/backend/httpjson"
)

func (s *HttpServer) enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	activityID, ok := urlUuid(w, r, "activityId")
	if !ok {
		return
	}

	if err := s.actSrvc.Enroll(r.Context(), activityID, userID); err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, struct {
		ActivityUUID string `json:"activityUuid"`
		UserUUID     string `json:"userUuid"`
	}{
		ActivityUUID: activityID.String(),
		UserUUID:     userID.String(),
	})
}

// participantStatus tells the caller where they stand in the activity:
// whether they enrolled and whether they already entered a work.
func (s *HttpServer) participantStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	activityID, ok := urlUuid(w, r, "activityId")
	if !ok {
		return
	}

	enrolled, err := s.actSrvc.IsEnrolled(r.Context(), activityID, userID)
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}
	submitted, err := s.submSrvc.HasSubmitted(r.Context(), activityID, userID)
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, struct {
		Enrolled     bool `json:"enrolled"`
		HasSubmitted bool `json:"hasSubmitted"`
	}{
		Enrolled:     enrolled,
		HasSubmitted: submitted,
	})
}
