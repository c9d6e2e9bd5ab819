package http

import (
	"net/http"

	"github.com/edustage/backend/conf"
	"github.com/edustage/backend/httpjson"
)

func (s *HttpServer) listActivityPresets(w http.ResponseWriter, r *http.Request) {
	presets := s.presets
	if presets == nil {
		presets = []conf.ActivityPreset{}
	}
	httpjson.WriteSuccessJson(w, presets)
}
