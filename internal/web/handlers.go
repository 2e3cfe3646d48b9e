package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/cjeanneret/NadirGo/internal/debug"
	"github.com/cjeanneret/NadirGo/internal/logic/geometry"
	"github.com/cjeanneret/NadirGo/internal/logic/plan"
	"github.com/cjeanneret/NadirGo/internal/render"
)

const maxBodyBytes = 1 << 16

// Planner computes photo plans for one camera.
type Planner struct {
	Camera          geometry.Camera
	Defaults        plan.DatasetSpec // initial values of the form
	AllowedMotionPx float64
}

// Plan validates spec and builds the grid plan. Grids above
// plan.MaxWaypoints images are rejected before anything is allocated.
func (p Planner) Plan(spec plan.DatasetSpec) (*plan.GridPlan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return plan.CalculateGridPlan(p.Camera, spec, p.AllowedMotionPx)
}

// FormConfig holds default values for the planning form (from config).
type FormConfig struct {
	Camera          geometry.Camera  `json:"camera"`
	Dataset         plan.DatasetSpec `json:"dataset"`
	AllowedMotionPx float64          `json:"allowed_motion_px"`
}

// PlanResponse is the body returned by POST /plan.
type PlanResponse struct {
	ID        string          `json:"id"`
	Columns   int             `json:"columns"`
	Rows      int             `json:"rows"`
	Summary   plan.Summary    `json:"summary"`
	Waypoints []plan.Waypoint `json:"waypoints"`
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster *StatusBroadcaster
	Planner     Planner
	limiter     *rate.Limiter
	staticFS    fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// If limiter is nil, plan requests are not rate limited.
func NewHandlers(broadcaster *StatusBroadcaster, planner Planner, limiter *rate.Limiter, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster: broadcaster,
		Planner:     planner,
		limiter:     limiter,
		staticFS:    staticFS,
	}
}

// HandleConfig returns the form default values (from config) as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FormConfig{
		Camera:          h.Planner.Camera,
		Dataset:         h.Planner.Defaults,
		AllowedMotionPx: h.Planner.AllowedMotionPx,
	})
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandlePlan handles POST /plan: computes the plan and returns it as JSON.
func (h *Handlers) HandlePlan(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.computePlan(w, r)
	if !ok {
		return
	}

	id := uuid.NewString()
	summary := plan.Summarize(grid.Waypoints)
	debug.Live("Plan %s: %d columns x %d rows, %.1f m path", id, grid.Columns, grid.Rows, summary.PathLengthM)
	if h.Broadcaster != nil {
		h.Broadcaster.BroadcastPlan(id, fmt.Sprintf("%d waypoints, %.1f m path, %s at %.2f m/s",
			summary.Waypoints, summary.PathLengthM, summary.FlightTime.Round(time.Second), summary.SpeedMps))
	}

	writeJSON(w, http.StatusOK, PlanResponse{
		ID:        id,
		Columns:   grid.Columns,
		Rows:      grid.Rows,
		Summary:   summary,
		Waypoints: grid.Waypoints,
	})
}

// HandlePlot handles POST /plan/plot?format=svg|png: renders the plan.
func (h *Handlers) HandlePlot(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if format != "svg" && format != "png" {
		http.Error(w, "format must be svg or png", http.StatusBadRequest)
		return
	}

	grid, ok := h.computePlan(w, r)
	if !ok {
		return
	}

	// Render fully before writing headers so errors can still be reported.
	var buf bytes.Buffer
	if err := render.Write(&buf, grid.Waypoints, format, render.DefaultWidth, render.DefaultHeight); err != nil {
		debug.Error(err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Write(buf.Bytes())
}

// computePlan applies rate limiting, decodes and validates the dataset
// specification, then computes the plan. On failure the response is
// already written and ok is false.
func (h *Handlers) computePlan(w http.ResponseWriter, r *http.Request) (*plan.GridPlan, bool) {
	if h.limiter != nil && !h.limiter.Allow() {
		http.Error(w, "too many plan requests", http.StatusTooManyRequests)
		return nil, false
	}

	var spec plan.DatasetSpec
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return nil, false
	}

	grid, err := h.Planner.Plan(spec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return grid, true
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	if h.Broadcaster == nil {
		http.Error(w, "status stream unavailable", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debug.Error(fmt.Errorf("encode response: %w", err))
	}
}
