package http

import (
	"log/slog"
	"net/http"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/httpjson"
)

func (s *HttpServer) getActivity(w http.ResponseWriter, r *http.Request) {
	activityID, ok := urlUuid(w, r, "activityId")
	if !ok {
		return
	}

	act, err := s.actSrvc.GetActivity(r.Context(), activityID)
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapActivity(act))
}

func (s *HttpServer) listActivities(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	status := actsrvc.ActivityStatus(r.URL.Query().Get("status"))

	activities, err := s.actSrvc.ListActivities(r.Context(), category, status)
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	response := make([]ActivityResponse, len(activities))
	for i := range activities {
		response[i] = mapActivity(&activities[i])
	}

	httpjson.WriteSuccessJson(w, response)
}
