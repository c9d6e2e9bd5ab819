package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edustage/backend/auth"
	"github.com/edustage/backend/httpjson"
)

// urlUuid parses a uuid path parameter, writing a 400 response on failure.
func urlUuid(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httpjson.WriteErrorJson(w, "invalid "+param, http.StatusBadRequest, "invalid_path_param")
		return uuid.Nil, false
	}
	return id, true
}

// requireUser extracts the authenticated user's uuid from the JWT claims,
// writing a 401 response if the request is anonymous.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims := auth.ClaimsFromContext(r.Context())
	userID, err := claims.UserUUID()
	if err != nil {
		httpjson.WriteErrorJson(w, "authentication required", http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// requireAdmin additionally checks the admin scope on the JWT claims.
func requireAdmin(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return uuid.Nil, false
	}
	if !auth.ClaimsFromContext(r.Context()).HasScope(auth.ScopeAdmin) {
		httpjson.WriteErrorJson(w, "admin access required", http.StatusForbidden, "not_authorized")
		return uuid.Nil, false
	}
	return userID, true
}
