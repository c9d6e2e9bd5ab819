package http

import (
	"log/slog"
	"net/http"

	"github.com/edustage/backend/httpjson"
)

func (s *HttpServer) getRanking(w http.ResponseWriter, r *http.Request) {
	activityID, ok := urlUuid(w, r, "activityId")
	if !ok {
		return
	}

	snap, err := s.rankSrvc.GetCurrentRanking(r.Context(), activityID)
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapRanking(snap))
}

func (s *HttpServer) forceRecompute(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	activityID, ok := urlUuid(w, r, "activityId")
	if !ok {
		return
	}

	if err := s.rankSrvc.RecomputeRanking(r.Context(), activityID); err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	snap, err := s.rankSrvc.GetCurrentRanking(r.Context(), activityID)
	if err != nil {
		httpjson.HandleError(slog.Default(), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapRanking(snap))
}
