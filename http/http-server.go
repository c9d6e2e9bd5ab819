package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edustage/backend/actsrvc"
	"github.com/edustage/backend/auth"
	"github.com/edustage/backend/conf"
	"github.com/edustage/backend/expertsrvc"
	"github.com/edustage/backend/ranksrvc"
	"github.com/edustage/backend/submsrvc"
	"github.com/edustage/backend/votesrvc"
)

type HttpServer struct {
	actSrvc    *actsrvc.ActivitySrvc
	submSrvc   *submsrvc.SubmissionSrvc
	voteSrvc   *votesrvc.VoteSrvc
	expertSrvc *expertsrvc.ExpertSrvc
	rankSrvc   *ranksrvc.RankSrvc
	presets    []conf.ActivityPreset
	router     *chi.Mux
}

// SetActivityPresets publishes the scoring presets served on
// /activity-presets. Optional; without presets the endpoint returns an
// empty list.
func (s *HttpServer) SetActivityPresets(presets []conf.ActivityPreset) {
	s.presets = presets
}

func NewHttpServer(
	actSrvc *actsrvc.ActivitySrvc,
	submSrvc *submsrvc.SubmissionSrvc,
	voteSrvc *votesrvc.VoteSrvc,
	expertSrvc *expertsrvc.ExpertSrvc,
	rankSrvc *ranksrvc.RankSrvc,
	jwtKey []byte,
) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("edustage", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		RequestHeaders:   true,
		MessageFieldName: "message",
		Tags: map[string]string{
			"env": "dev",
		},
	})

	router.Use(httplog.RequestLogger(logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://edustage.app", "https://www.edustage.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	router.Use(auth.GetJwtAuthMiddleware(jwtKey))

	server := &HttpServer{
		actSrvc:    actSrvc,
		submSrvc:   submSrvc,
		voteSrvc:   voteSrvc,
		expertSrvc: expertSrvc,
		rankSrvc:   rankSrvc,
		router:     router,
	}

	server.routes()

	return server
}

func (s *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, s.router)
}

func (s *HttpServer) Router() *chi.Mux {
	return s.router
}

func (s *HttpServer) routes() {
	r := s.router
	r.Get("/activity-presets", s.listActivityPresets)
	r.Post("/activities", s.createActivity)
	r.Get("/activities", s.listActivities)
	r.Get("/activities/{activityId}", s.getActivity)
	r.Post("/activities/{activityId}/publish", s.publishActivity)
	r.Post("/activities/{activityId}/enroll", s.enroll)
	r.Get("/activities/{activityId}/me", s.participantStatus)
	r.Post("/activities/{activityId}/submissions", s.submitWork)
	r.Get("/activities/{activityId}/submissions", s.listSubmissions)
	r.Post("/activities/{activityId}/submissions/{submissionId}/votes", s.castVote)
	r.Put("/activities/{activityId}/submissions/{submissionId}/expert-score", s.recordExpertScore)
	r.Get("/activities/{activityId}/ranking", s.getRanking)
	r.Post("/activities/{activityId}/recompute", s.forceRecompute)
	r.Handle("/metrics", promhttp.Handler())
}
