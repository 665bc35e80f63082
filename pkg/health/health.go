package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Checker reports whether a dependency is usable.
type Checker func(ctx context.Context) error

// Status is the health of the process or one of its dependencies.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckTimeout bounds a whole readiness evaluation.
const CheckTimeout = 5 * time.Second

// Response is the JSON body of both health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp *time.Time             `json:"timestamp,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of a single dependency check.
type CheckResult struct {
	Status   Status `json:"status"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

type registration struct {
	check    Checker
	critical bool
}

// Handler serves liveness and readiness endpoints.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]registration
}

// NewHandler returns a handler with no checks registered.
func NewHandler() *Handler {
	return &Handler{checkers: make(map[string]registration)}
}

// Register adds a critical checker. It is shorthand for RegisterCritical.
func (h *Handler) Register(name string, check Checker) {
	h.RegisterCritical(name, check)
}

// RegisterCritical adds a checker whose failure makes the service unready.
func (h *Handler) RegisterCritical(name string, check Checker) {
	h.register(name, check, true)
}

// RegisterNonCritical adds a checker whose failure only degrades readiness.
func (h *Handler) RegisterNonCritical(name string, check Checker) {
	h.register(name, check, false)
}

func (h *Handler) register(name string, check Checker, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = registration{check: check, critical: critical}
}

// LivenessHandler reports healthy whenever the process can serve requests.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs every registered checker concurrently. Any critical
// failure yields 503 unhealthy; non-critical failures yield 200 degraded.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), CheckTimeout)
		defer cancel()

		resp := h.Evaluate(ctx)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

// Evaluate runs all checkers and aggregates their results.
func (h *Handler) Evaluate(ctx context.Context) Response {
	h.mu.RLock()
	names := make([]string, 0, len(h.checkers))
	regs := make(map[string]registration, len(h.checkers))
	for name, reg := range h.checkers {
		names = append(names, name)
		regs[name] = reg
	}
	h.mu.RUnlock()
	sort.Strings(names)

	results := make([]CheckResult, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, reg registration) {
			defer wg.Done()
			res := CheckResult{Status: StatusHealthy, Critical: reg.critical}
			if err := reg.check(ctx); err != nil {
				res.Status = StatusUnhealthy
				res.Error = err.Error()
			}
			results[i] = res
		}(i, regs[name])
	}
	wg.Wait()

	now := time.Now().UTC()
	resp := Response{Status: StatusHealthy, Timestamp: &now, Checks: make(map[string]CheckResult, len(names))}
	for i, name := range names {
		res := results[i]
		resp.Checks[name] = res
		if res.Status != StatusUnhealthy {
			continue
		}
		if res.Critical {
			resp.Status = StatusUnhealthy
		} else if resp.Status == StatusHealthy {
			resp.Status = StatusDegraded
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
