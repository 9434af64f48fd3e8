// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the generation loop over HTTP with a small
// embedded browser UI: start a run, poll its progress, then view,
// preview, or download the finished plan.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/pdiddy/plan-engine/internal/export"
	"github.com/pdiddy/plan-engine/internal/generate"
	"github.com/pdiddy/plan-engine/internal/store"
	"github.com/pdiddy/plan-engine/pkg/types"
)

//go:embed web/index.html
var indexHTML []byte

// BackendFactory builds a text backend from resolved AI settings. The
// default is generate.NewBackend; tests substitute a stub.
type BackendFactory func(types.AIConfig) (generate.TextBackend, error)

// Server handles the web UI and the plan API.
type Server struct {
	cfg        types.ServerConfig
	gen        types.GenerationConfig
	specs      []types.SectionSpec
	plans      *store.Store // optional; nil disables history persistence
	jobs       *jobStore
	newBackend BackendFactory
}

// New builds a Server. specs defaults to the built-in section table;
// plans may be nil to skip persistence.
func New(cfg types.ServerConfig, gen types.GenerationConfig, specs []types.SectionSpec, plans *store.Store) *Server {
	if len(specs) == 0 {
		specs = generate.DefaultSections()
	}
	return &Server{
		cfg:        cfg,
		gen:        gen,
		specs:      specs,
		plans:      plans,
		jobs:       newJobStore(),
		newBackend: generate.NewBackend,
	}
}

// Routes returns the HTTP handler for the server.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sections", s.handleSections)
	mux.HandleFunc("POST /api/plans", s.handlePlanCreate)
	mux.HandleFunc("GET /api/plans/{id}", s.handlePlanStatus)
	mux.HandleFunc("GET /api/plans/{id}/download", s.handlePlanDownload)
	mux.HandleFunc("GET /api/plans/{id}/preview", s.handlePlanPreview)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})
	return mux
}

// --- Handlers ---

type planCreateReq struct {
	// APIKey is the caller's credential. Held in memory for the run
	// only; never logged or persisted.
	APIKey   string `json:"api_key"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Topic    string `json:"topic,omitempty"`
}

type planCreateResp struct {
	JobID string `json:"job_id"`
}

type jobResp struct {
	JobID    string              `json:"job_id"`
	Status   string              `json:"status"`
	Progress []string            `json:"progress"`
	Plan     *types.BusinessPlan `json:"plan,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func (s *Server) handleSections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.specs)
}

func (s *Server) handlePlanCreate(w http.ResponseWriter, r *http.Request) {
	var req planCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ai := s.resolveAI(req)
	if ai.APIKey == "" {
		http.Error(w, "an API key is required to generate a plan", http.StatusBadRequest)
		return
	}

	backend, err := s.newBackend(ai)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gen := s.gen
	gen.AIConfig = ai
	j := &job{id: uuid.NewString(), status: statusRunning}
	s.jobs.set(j)

	go s.runJob(j, backend, gen, req.Topic)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(planCreateResp{JobID: j.id})
}

// runJob executes one generation run to completion. Any error the loop
// itself returns (only cancellation or an empty section list) fails the
// job with a generic message; per-call failures degrade inside the loop.
func (s *Server) runJob(j *job, backend generate.TextBackend, gen types.GenerationConfig, topic string) {
	reporter := generate.WriterReporter{W: lineWriter{j: j}}
	g, err := generate.NewGenerator(backend, gen, reporter)
	if err != nil {
		j.fail(err.Error())
		return
	}

	plan, err := g.GeneratePlan(context.Background(), s.specs, topic)
	if err != nil {
		j.fail(fmt.Sprintf("generation failed: %v", err))
		return
	}

	if s.plans != nil {
		if err := s.plans.Save(context.Background(), plan); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save plan %s: %v\n", plan.ID, err)
		}
	}
	j.finish(plan)
}

func (s *Server) handlePlanStatus(w http.ResponseWriter, r *http.Request) {
	j, ok := s.jobs.get(r.PathValue("id"))
	if !ok {
		http.Error(w, "plan job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, j.snapshot())
}

func (s *Server) handlePlanDownload(w http.ResponseWriter, r *http.Request) {
	plan := s.completedPlan(r.PathValue("id"))
	if plan == nil {
		http.Error(w, "plan not ready", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="business_plan.txt"`)
	fmt.Fprint(w, export.Text(plan))
}

func (s *Server) handlePlanPreview(w http.ResponseWriter, r *http.Request) {
	plan := s.completedPlan(r.PathValue("id"))
	if plan == nil {
		http.Error(w, "plan not ready", http.StatusNotFound)
		return
	}
	html, err := export.HTML(plan)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

// completedPlan returns the finished plan for a job ID, or nil.
func (s *Server) completedPlan(id string) *types.BusinessPlan {
	j, ok := s.jobs.get(id)
	if !ok {
		return nil
	}
	return j.donePlan()
}

// resolveAI merges request overrides onto the server's configured AI
// settings. A client key always wins; when RequireClientKey is set the
// server's own key is never used.
func (s *Server) resolveAI(req planCreateReq) types.AIConfig {
	ai := s.gen.AIConfig
	if s.cfg.RequireClientKey {
		ai.APIKey = ""
	}
	if req.APIKey != "" {
		ai.APIKey = req.APIKey
	}
	if req.Provider != "" {
		ai.Provider = types.Provider(req.Provider)
	}
	if req.Model != "" {
		ai.Model = req.Model
	}
	return ai
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
