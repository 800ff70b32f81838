package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"photoeccentric/app"
	"photoeccentric/domain/fit"
	"photoeccentric/domain/orbit"
	"photoeccentric/domain/target"
	"photoeccentric/internal/errors"
)

// fitRequest is the POST /api/fits payload: a light curve, the circular-fit
// starting point, the independent stellar-density draws, and the ensemble
// geometry shared by both stages.
type fitRequest struct {
	TargetID string    `json:"target_id"`
	Time     []float64 `json:"time"`
	Flux     []float64 `json:"flux"`
	FluxErr  []float64 `json:"flux_err"`

	Initial struct {
		PeriodDays          float64 `json:"period_days"`
		RadiusRatio         float64 `json:"rprs"`
		ScaledSemimajorAxis float64 `json:"a_rs"`
		Inclination         float64 `json:"inclination"`
	} `json:"initial"`

	RhoStar  []float64 `json:"rho_star"`
	InitialW float64   `json:"initial_w"`
	InitialE float64   `json:"initial_e"`

	Walkers int   `json:"walkers"`
	Steps   int   `json:"steps"`
	Discard int   `json:"discard"`
	Seed    int64 `json:"seed"`
}

// parameterView is one parameter's summary in a response.
type parameterView struct {
	Estimate   float64 `json:"estimate"`
	SigmaMinus float64 `json:"sigma_minus"`
	SigmaPlus  float64 `json:"sigma_plus"`
}

// resultView summarizes a fit without shipping the flattened samples.
type resultView struct {
	Labels      []string                 `json:"labels"`
	Parameters  map[string]parameterView `json:"parameters"`
	SampleCount int                      `json:"sample_count"`
}

type fitResponse struct {
	TargetID     string     `json:"target_id"`
	Transit      resultView `json:"transit"`
	Eccentricity resultView `json:"eccentricity"`
	GErr         float64    `json:"g_err"`
}

func viewOf(r *fit.Result) resultView {
	v := resultView{
		Labels:      r.Labels,
		Parameters:  make(map[string]parameterView, len(r.Labels)),
		SampleCount: r.SampleCount(),
	}
	for _, label := range r.Labels {
		bounds := r.Uncertainties[label]
		v.Parameters[label] = parameterView{
			Estimate:   r.Estimates[label],
			SigmaMinus: bounds.Minus,
			SigmaPlus:  bounds.Plus,
		}
	}
	return v
}

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleListTargets(w http.ResponseWriter, r *http.Request) {
	if a.catalog == nil {
		a.writeError(w, http.StatusServiceUnavailable, "no catalog configured")
		return
	}
	targets, err := a.catalog.Targets()
	if err != nil {
		a.writeAppError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, targets)
}

func (a *App) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	if a.catalog == nil {
		a.writeError(w, http.StatusServiceUnavailable, "no catalog configured")
		return
	}
	rec, err := a.catalog.Target(target.ID(chi.URLParam(r, "id")))
	if err != nil {
		a.writeAppError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, rec)
}

func (a *App) handleFit(w http.ResponseWriter, r *http.Request) {
	var req fitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "malformed fit request: "+err.Error())
		return
	}

	geometry := app.SamplerGeometry{
		Walkers: req.Walkers,
		Steps:   req.Steps,
		Discard: req.Discard,
		Seed:    req.Seed,
	}

	transitFit, err := a.service.FitTransit(r.Context(), app.TransitFitRequest{
		TargetID: req.TargetID,
		Time:     req.Time,
		Flux:     req.Flux,
		FluxErr:  req.FluxErr,
		Initial: orbit.OrbitalParameters{
			Period:              req.Initial.PeriodDays,
			RadiusRatio:         req.Initial.RadiusRatio,
			ScaledSemimajorAxis: req.Initial.ScaledSemimajorAxis,
			Inclination:         req.Initial.Inclination,
		},
		Geometry: geometry,
	})
	if err != nil {
		a.writeAppError(w, err)
		return
	}

	outcome, err := a.service.FitEccentricity(r.Context(), app.EccentricityFitRequest{
		TargetID:   req.TargetID,
		TransitFit: transitFit,
		RhoStar:    req.RhoStar,
		InitialW:   req.InitialW,
		InitialE:   req.InitialE,
		Geometry:   geometry,
	})
	if err != nil {
		a.writeAppError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, fitResponse{
		TargetID:     req.TargetID,
		Transit:      viewOf(transitFit),
		Eccentricity: viewOf(outcome.Fit),
		GErr:         outcome.GErr,
	})
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if a.runs == nil {
		a.writeError(w, http.StatusServiceUnavailable, "no run repository configured")
		return
	}
	targetID := r.URL.Query().Get("target")
	if targetID == "" {
		a.writeError(w, http.StatusBadRequest, "target query parameter is required")
		return
	}
	runs, err := a.runs.ListRuns(r.Context(), targetID)
	if err != nil {
		a.writeAppError(w, err)
		return
	}
	views := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		views = append(views, map[string]interface{}{
			"id":         run.ID,
			"target_id":  run.TargetID,
			"stage":      run.Stage,
			"walkers":    run.Walkers,
			"steps":      run.Steps,
			"discard":    run.Discard,
			"seed":       run.Seed,
			"created_at": run.CreatedAt,
			"result":     viewOf(run.Result),
		})
	}
	a.writeJSON(w, http.StatusOK, views)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := a.loadRun(w, r)
	if run == nil || err != nil {
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         run.ID,
		"target_id":  run.TargetID,
		"stage":      run.Stage,
		"walkers":    run.Walkers,
		"steps":      run.Steps,
		"discard":    run.Discard,
		"seed":       run.Seed,
		"created_at": run.CreatedAt,
		"result":     viewOf(run.Result),
	})
}

// loadRun parses the id path parameter and fetches the run, writing the
// error response itself on failure.
func (a *App) loadRun(w http.ResponseWriter, r *http.Request) (*fit.Run, error) {
	if a.runs == nil {
		a.writeError(w, http.StatusServiceUnavailable, "no run repository configured")
		return nil, errors.NotFound("run repository")
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "run id must be a UUID")
		return nil, err
	}
	run, err := a.runs.GetRun(r.Context(), id)
	if err != nil {
		a.writeAppError(w, err)
		return nil, err
	}
	return run, nil
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.log.Error("response encode failed: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]string{"error": message})
}

// writeAppError maps the error taxonomy onto HTTP statuses.
func (a *App) writeAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeDatabaseError, errors.CodeSamplerError, errors.CodeExternalModel:
		status = http.StatusInternalServerError
	}
	a.writeError(w, status, err.Error())
}
