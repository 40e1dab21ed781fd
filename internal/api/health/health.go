// Package health provides health check functionality for API components.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	apierrors "github.com/narvanalabs/logbook/internal/api/errors"
)

// Status represents the health status of a component.
type Status string

const (
	// StatusHealthy indicates the component is fully operational.
	StatusHealthy Status = "healthy"
	// StatusDegraded indicates the component is operational but with issues.
	StatusDegraded Status = "degraded"
	// StatusUnhealthy indicates the component is not operational.
	StatusUnhealthy Status = "unhealthy"
)

// ComponentStatus represents the health status of a single component.
type ComponentStatus struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Response represents the health check response.
type Response struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
}

// Pinger is an interface for components that can be pinged.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type component struct {
	name     string
	pinger   Pinger
	critical bool
}

// Checker aggregates the health of registered components.
type Checker struct {
	mu         sync.RWMutex
	components []component
	startTime  time.Time
	version    string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewChecker creates a new health checker.
func NewChecker(version string, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		startTime: time.Now(),
		version:   version,
		timeout:   5 * time.Second,
		logger:    logger,
	}
}

// Register adds a component whose failure makes the service unhealthy.
// A nil pinger is reported as unconfigured.
func (c *Checker) Register(name string, pinger Pinger) {
	c.add(component{name: name, pinger: pinger, critical: true})
}

// RegisterOptional adds a component whose failure only degrades the service.
func (c *Checker) RegisterOptional(name string, pinger Pinger) {
	c.add(component{name: name, pinger: pinger})
}

func (c *Checker) add(comp component) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.components = slices.DeleteFunc(c.components, func(existing component) bool {
		return existing.name == comp.name
	})
	c.components = append(c.components, comp)
}

// SetTimeout sets the timeout for health checks.
func (c *Checker) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

// Check pings every component and returns the aggregated response.
func (c *Checker) Check(ctx context.Context) *Response {
	c.mu.RLock()
	timeout := c.timeout
	comps := slices.Clone(c.components)
	c.mu.RUnlock()

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	statuses := make(map[string]ComponentStatus, len(comps))
	overall := StatusHealthy

	for _, comp := range comps {
		status := c.checkComponent(checkCtx, comp)
		if status.Status != StatusHealthy {
			if comp.critical {
				status.Status = StatusUnhealthy
			} else {
				status.Status = StatusDegraded
			}
			c.logger.Warn("health check failed", "component", comp.name, "message", status.Message)
		}
		statuses[comp.name] = status
		overall = worse(overall, status.Status)
	}

	return &Response{
		Status:     overall,
		Components: statuses,
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
	}
}

func (c *Checker) checkComponent(ctx context.Context, comp component) ComponentStatus {
	if comp.pinger == nil {
		return ComponentStatus{
			Status:  StatusUnhealthy,
			Message: comp.name + " not configured",
		}
	}

	start := time.Now()
	if err := comp.pinger.Ping(ctx); err != nil {
		return ComponentStatus{
			Status:  StatusUnhealthy,
			Message: comp.name + " ping failed: " + err.Error(),
		}
	}

	return ComponentStatus{
		Status:  StatusHealthy,
		Message: "ok",
		Latency: time.Since(start).String(),
	}
}

func worse(a, b Status) Status {
	rank := func(s Status) int {
		switch s {
		case StatusUnhealthy:
			return 2
		case StatusDegraded:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

// Handler returns an HTTP handler for health checks.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := c.Check(r.Context())

		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		apierrors.WriteJSON(w, status, response)
	}
}
