package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/skyroutex/surveyplanner/core"
	"github.com/skyroutex/surveyplanner/internal/export"
	"github.com/skyroutex/surveyplanner/internal/logging"
	"github.com/skyroutex/surveyplanner/model"
)

// maxRequestBytes caps survey request bodies. Survey polygons and obstacle
// lists are small; anything past this is a client mistake.
const maxRequestBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type planResponse struct {
	ID          string             `json:"id"`
	CreatedAt   time.Time          `json:"createdAt"`
	Plan        *model.MissionPlan `json:"plan"`
	EncodedPath string             `json:"encodedPath,omitempty"`
}

type missionSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
	TotalWaypoints int       `json:"totalWaypoints"`
	ValidWaypoints int       `json:"validWaypoints"`
	WithinLimit    bool      `json:"withinLimit"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, ok := s.decodeSurveyConfig(w, r)
	if !ok {
		return
	}

	start := time.Now()
	plan, err := s.planner.Plan(cfg)
	if err != nil {
		var cfgErr *core.ConfigError
		if errors.As(err, &cfgErr) {
			writeJSON(w, http.StatusUnprocessableEntity, model.ValidationResult{
				Valid:  false,
				Errors: cfgErr.Errors,
			})
			return
		}
		s.log.Error(ctx, "plan failed", logging.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "plan failed"})
		return
	}
	s.planMetrics.ObservePlan(time.Since(start), plan)

	rec, err := s.store.Put(plan)
	if err != nil {
		s.log.Error(ctx, "store mission failed", logging.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "store mission failed"})
		return
	}

	s.log.Info(ctx, "mission planned",
		logging.String("mission_id", rec.ID),
		logging.String("name", cfg.Name),
		logging.Int("waypoints", plan.Stats.TotalWaypoints),
		logging.Int("valid", plan.Stats.ValidCount),
		logging.Float64("coverage_sq_m", plan.Stats.CoverageAreaSqMeters),
	)

	writeJSON(w, http.StatusCreated, planResponse{
		ID:          rec.ID,
		CreatedAt:   rec.CreatedAt,
		Plan:        plan,
		EncodedPath: export.EncodeFlightPath(plan.ValidWaypoints),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.decodeSurveyConfig(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, core.ValidateConfig(cfg))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records := s.store.List()
	summaries := make([]missionSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, missionSummary{
			ID:             rec.ID,
			Name:           rec.Plan.Config.Name,
			CreatedAt:      rec.CreatedAt,
			TotalWaypoints: rec.Plan.Stats.TotalWaypoints,
			ValidWaypoints: rec.Plan.Stats.ValidCount,
			WithinLimit:    rec.Plan.Limit.Valid,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec := s.store.Get(mux.Vars(r)["id"])
	if rec == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "mission not found"})
		return
	}
	writeJSON(w, http.StatusOK, planResponse{
		ID:          rec.ID,
		CreatedAt:   rec.CreatedAt,
		Plan:        rec.Plan,
		EncodedPath: export.EncodeFlightPath(rec.Plan.ValidWaypoints),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.Delete(id) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "mission not found"})
		return
	}
	s.log.Info(r.Context(), "mission deleted", logging.String("mission_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleKML(w http.ResponseWriter, r *http.Request) {
	rec := s.store.Get(mux.Vars(r)["id"])
	if rec == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "mission not found"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	if err := export.WriteKML(w, rec.Plan); err != nil {
		s.log.Error(r.Context(), "kml export failed",
			logging.String("mission_id", rec.ID),
			logging.String("error", err.Error()),
		)
	}
}

// decodeSurveyConfig validates the request body against the survey schema,
// then decodes it through the shared loader so wire defaults (obstacle kind
// synonyms, enabled-by-default zones) match file-based surveys. Schema failure
// reports the offending paths; decode only runs on documents the schema
// already accepted.
func (s *Server) decodeSurveyConfig(w http.ResponseWriter, r *http.Request) (model.SurveyConfig, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "read request body: " + err.Error()})
		return model.SurveyConfig{}, false
	}

	if err := s.validator.ValidateBytes(body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return model.SurveyConfig{}, false
	}

	cfg, err := core.LoadSurveyConfig(bytes.NewReader(body), "json")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "decode survey config: " + err.Error()})
		return model.SurveyConfig{}, false
	}
	return cfg, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
