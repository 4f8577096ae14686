package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"fleetdispatch/internal/buildinfo"
	"fleetdispatch/internal/ga"
	"fleetdispatch/internal/jobs"
	"fleetdispatch/internal/metrics"
	"fleetdispatch/internal/model"
	"fleetdispatch/internal/store"
)

// Sync endpoint search defaults, matching the historical request schema.
const (
	defaultGenerations = 500
	defaultPatience    = 50
)

// OptimizeHandler handles POST /v1/optimize: synchronous single-vehicle
// CVRP optimization.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.optLimiter.Allow() {
		writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "optimize rate limit exceeded, retry later", r.URL.Path)
		return
	}
	var req model.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, titleInvalidInput, err.Error(), r.URL.Path)
		return
	}
	if err := validateOptimizeRequest(&req); err != nil {
		title := titleInvalidInput
		var sizeErr errSizeLimit
		if errors.As(err, &sizeErr) {
			title = titleSizeLimit
		}
		writeProblem(w, http.StatusBadRequest, title, err.Error(), r.URL.Path)
		return
	}

	depot := req.Locations[0]
	stops := make([]ga.Stop, len(req.Locations)-1)
	for i, l := range req.Locations[1:] {
		stops[i] = ga.Stop{ID: l.ID, X: l.X, Y: l.Y, Demand: l.Demand}
	}
	cfg := ga.Config{
		PopulationSize: req.PopulationSize,
		CrossoverRate:  req.CrossoverRate,
		MutationRate:   req.MutationRate,
		Generations:    req.Generations,
		Patience:       req.Patience,
		Seed:           req.Seed,
	}
	if cfg.Generations == 0 {
		cfg.Generations = defaultGenerations
	}
	if cfg.Patience == 0 {
		cfg.Patience = defaultPatience
	}

	start := time.Now()
	sol, err := ga.Solve(ga.Problem{
		Depot:    ga.Stop{ID: depot.ID, X: depot.X, Y: depot.Y},
		Stops:    stops,
		Capacity: req.VehicleCapacity,
	}, cfg)
	metrics.OptimizeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OptimizeRuns.WithLabelValues("error").Inc()
		writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
		return
	}
	metrics.OptimizeGenerations.Observe(float64(sol.Generations))

	resp := model.OptimizeResponse{
		TotalDistance: sol.TotalDistance,
		Routes:        sol.Routes,
		// legacy shape: flat permutation plus its fitness
		Distance: sol.Fitness,
		Path:     sol.Permutation,
	}
	if sol.Infeasible {
		metrics.OptimizeRuns.WithLabelValues("infeasible").Inc()
		resp.Infeasible = true
		resp.InfeasibleDetail = "a single location's demand exceeds the vehicle capacity; overloaded trips are reported, not clipped"
	} else {
		metrics.OptimizeRuns.WithLabelValues("ok").Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}

// DispatchHandler handles POST /v1/dispatch: submits an asynchronous fleet
// dispatch job and returns its id immediately.
func (s *Server) DispatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, titleInvalidInput, err.Error(), r.URL.Path)
		return
	}
	if err := validateDispatchRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, titleInvalidInput, err.Error(), r.URL.Path)
		return
	}
	id, err := s.Jobs.Submit(func(ctx context.Context) (any, error) {
		res, err := s.orchestrator.Run(ctx, req)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			writeProblem(w, http.StatusServiceUnavailable, "Service Busy", "dispatch queue is full, retry later", r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": id})
}

// DispatchJobHandler handles GET /v1/dispatch/jobs/{id}: idempotent job
// status read.
func (s *Server) DispatchJobHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/dispatch/jobs/")
	if id == "" || strings.Contains(id, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing job id", r.URL.Path)
		return
	}
	j, ok := s.Jobs.Status(id)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown job id", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// CustomersHandler handles POST/GET /v1/customers.
func (s *Server) CustomersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in model.CustomerIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeProblem(w, http.StatusBadRequest, titleInvalidInput, err.Error(), r.URL.Path)
			return
		}
		c, err := s.Store.CreateCustomer(r.Context(), in)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	case http.MethodGet:
		items, err := s.Store.ListCustomers(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// DepotsHandler handles POST/GET /v1/depots.
func (s *Server) DepotsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in model.DepotIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeProblem(w, http.StatusBadRequest, titleInvalidInput, err.Error(), r.URL.Path)
			return
		}
		d, err := s.Store.CreateDepot(r.Context(), in)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, d)
	case http.MethodGet:
		items, err := s.Store.ListDepots(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// VehiclesHandler handles POST/GET /v1/vehicles.
func (s *Server) VehiclesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in model.VehicleIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeProblem(w, http.StatusBadRequest, titleInvalidInput, err.Error(), r.URL.Path)
			return
		}
		if in.Capacity <= 0 {
			writeProblem(w, http.StatusBadRequest, titleInvalidInput, "capacity must be > 0", r.URL.Path)
			return
		}
		v, err := s.Store.CreateVehicle(r.Context(), in)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, v)
	case http.MethodGet:
		items, err := s.Store.ListVehicles(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// OrdersHandler handles POST/GET /v1/orders.
func (s *Server) OrdersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in model.OrderIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeProblem(w, http.StatusBadRequest, titleInvalidInput, err.Error(), r.URL.Path)
			return
		}
		if in.Demand < 0 {
			writeProblem(w, http.StatusBadRequest, titleInvalidInput, "demand must be >= 0", r.URL.Path)
			return
		}
		o, err := s.Store.CreateOrder(r.Context(), in)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeProblem(w, http.StatusBadRequest, titleInvalidInput, "unknown customerId", r.URL.Path)
				return
			}
			writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, o)
	case http.MethodGet:
		items, err := s.Store.ListOrders(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// TasksIndexHandler handles GET /v1/tasks.
func (s *Server) TasksIndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	items, err := s.Store.ListTasks(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// TaskByIDHandler handles GET /v1/tasks/{id}, including ordered stops.
func (s *Server) TaskByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/tasks/")
	if id == "" || strings.Contains(id, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing task id", r.URL.Path)
		return
	}
	t, err := s.Store.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "unknown task id", r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, titleInternalFailure, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Info()})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// Check DB connectivity when using Postgres store
	type pinger interface{ Ping(ctx context.Context) error }
	if pg, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
