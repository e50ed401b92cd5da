package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/venturelink/match-engine/internal/engine"
	"github.com/venturelink/match-engine/internal/registry"
)

// apiServer holds the HTTP handler set over an initialized engine.
type apiServer struct {
	env *engineEnv
}

func (s *apiServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) registerPropertyOwner(w http.ResponseWriter, r *http.Request) {
	var in engine.PropertyOwnerInput
	if !decodeBody(w, r, &in) {
		return
	}
	out, err := s.env.Engine.RegisterPropertyOwner(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *apiServer) registerFranchise(w http.ResponseWriter, r *http.Request) {
	var in engine.FranchiseInput
	if !decodeBody(w, r, &in) {
		return
	}
	out, err := s.env.Engine.RegisterFranchise(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *apiServer) registerEntrepreneur(w http.ResponseWriter, r *http.Request) {
	var in engine.EntrepreneurInput
	if !decodeBody(w, r, &in) {
		return
	}
	out, err := s.env.Engine.RegisterEntrepreneur(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *apiServer) listPropertyOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := s.env.Engine.ListPropertyOwners(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, owners)
}

func (s *apiServer) listFranchises(w http.ResponseWriter, r *http.Request) {
	frs, err := s.env.Engine.ListFranchises(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frs)
}

func (s *apiServer) listEntrepreneurs(w http.ResponseWriter, r *http.Request) {
	ents, err := s.env.Engine.ListEntrepreneurs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ents)
}

func (s *apiServer) getPropertyOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := s.env.Engine.GetPropertyOwner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, owner)
}

func (s *apiServer) getFranchise(w http.ResponseWriter, r *http.Request) {
	fr, err := s.env.Engine.GetFranchise(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fr)
}

func (s *apiServer) getEntrepreneur(w http.ResponseWriter, r *http.Request) {
	ent, err := s.env.Engine.GetEntrepreneur(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ent)
}

func (s *apiServer) propertyRecommendations(w http.ResponseWriter, r *http.Request) {
	report, err := s.env.Engine.PropertyRecommendations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *apiServer) franchiseMatches(w http.ResponseWriter, r *http.Request) {
	report, err := s.env.Engine.FranchiseMatches(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *apiServer) entrepreneurOpportunities(w http.ResponseWriter, r *http.Request) {
	report, err := s.env.Engine.EntrepreneurOpportunities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// contactUpdate is the PATCH body for contact routes. Omitted fields keep
// their stored values.
type contactUpdate struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *apiServer) updatePropertyContact(w http.ResponseWriter, r *http.Request) {
	updateContact(w, r, s.env.Engine.UpdatePropertyContact)
}

func (s *apiServer) updateFranchiseContact(w http.ResponseWriter, r *http.Request) {
	updateContact(w, r, s.env.Engine.UpdateFranchiseContact)
}

func (s *apiServer) updateEntrepreneurContact(w http.ResponseWriter, r *http.Request) {
	updateContact(w, r, s.env.Engine.UpdateEntrepreneurContact)
}

func updateContact(w http.ResponseWriter, r *http.Request, update func(ctx context.Context, id, email, phone string) error) {
	var in contactUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	if err := update(r.Context(), chi.URLParam(r, "id"), in.Email, in.Phone); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *apiServer) marketOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.env.Engine.MarketOverview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *apiServer) marketAnalysis(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng query parameters are required"})
		return
	}
	report, err := s.env.Engine.AnalyzeLocation(r.Context(), lat, lng, q.Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *apiServer) stats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.env.Engine.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *apiServer) clearAll(w http.ResponseWriter, r *http.Request) {
	if err := s.env.Engine.ClearAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, engine.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case eris.Is(err, registry.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		zap.L().Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
