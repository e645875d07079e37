package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

type Check interface {
	Name() string
	Check(ctx context.Context) Result
}

type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Checker runs registered checks in parallel and aggregates them into an
// overall status.
type Checker struct {
	checks []Check
	mu     sync.RWMutex
}

func NewChecker() *Checker {
	return &Checker{checks: make([]Check, 0)}
}

func (hc *Checker) Register(check Check) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks = append(hc.checks, check)
}

func (hc *Checker) Check(ctx context.Context) map[string]Result {
	hc.mu.RLock()
	checks := make([]Check, len(hc.checks))
	copy(checks, hc.checks)
	hc.mu.RUnlock()

	results := make(map[string]Result)
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, c := range checks {
		wg.Add(1)
		go func(ch Check) {
			defer wg.Done()
			start := time.Now()
			res := ch.Check(ctx)
			res.Duration = time.Since(start)
			mu.Lock()
			results[ch.Name()] = res
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	return results
}

func (hc *Checker) OverallStatus(results map[string]Result) Status {
	hasDegraded := false
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (hc *Checker) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		results := hc.Check(ctx)
		overall := hc.OverallStatus(results)
		resp := map[string]interface{}{
			"status":    overall,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks":    results,
		}
		w.Header().Set("Content-Type", "application/json")
		statusCode := http.StatusOK
		if overall == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(resp)
	}
}

// CheckFunc adapts a named function into a Check.
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) Result
}

func NewCheck(name string, fn func(ctx context.Context) Result) *CheckFunc {
	return &CheckFunc{CheckName: name, Fn: fn}
}

func (c *CheckFunc) Name() string { return c.CheckName }

func (c *CheckFunc) Check(ctx context.Context) Result {
	res := c.Fn(ctx)
	res.Name = c.CheckName
	return res
}

// Pinger is anything with connectivity we can probe, such as the session
// store or the event stream.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck reports healthy when Ping succeeds quickly, degraded when it
// is slow, unhealthy when it fails.
type PingCheck struct {
	name   string
	target Pinger
	slow   time.Duration
}

func NewPingCheck(name string, target Pinger, slow time.Duration) *PingCheck {
	if slow == 0 {
		slow = 500 * time.Millisecond
	}
	return &PingCheck{name: name, target: target, slow: slow}
}

func (p *PingCheck) Name() string { return p.name }

func (p *PingCheck) Check(ctx context.Context) Result {
	start := time.Now()
	err := p.target.Ping(ctx)
	duration := time.Since(start)
	res := Result{Name: p.name, Duration: duration}
	switch {
	case err != nil:
		res.Status = StatusUnhealthy
		res.Message = err.Error()
	case duration > p.slow:
		res.Status = StatusDegraded
		res.Message = "responding slowly"
	default:
		res.Status = StatusHealthy
	}
	return res
}
