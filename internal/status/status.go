// Package status reports whether the web tier and its dependencies are ready to serve.
package status

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// States, from best to worst.
const (
	StateOperational = "operational"
	StateDegraded    = "degraded"
	StateDown        = "down"
)

const (
	defaultTTL     = 15 * time.Second
	defaultTimeout = 3 * time.Second
)

// Summary is the outcome of one round of probes.
type Summary struct {
	State      string      `json:"state"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Components []Component `json:"components"`
}

// Component is the status of one dependency.
type Component struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Probe checks one dependency. A failing optional probe degrades the summary; a failing
// required probe marks it down.
type Probe struct {
	Name     string
	Optional bool
	Check    func(ctx context.Context) error
}

// Checker runs probes concurrently and caches the summary for a short TTL. Concurrent
// callers share one round of probes.
type Checker struct {
	probes  []Probe
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	cached  Summary
	expires time.Time
}

// NewChecker builds a Checker. ttl <= 0 uses fifteen seconds.
func NewChecker(ttl time.Duration, probes ...Probe) *Checker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Checker{probes: probes, ttl: ttl, timeout: defaultTimeout, now: time.Now}
}

// Summary returns the cached summary, probing again once it has expired.
func (c *Checker) Summary(ctx context.Context) Summary {
	c.mu.RLock()
	if c.now().Before(c.expires) {
		s := cloneSummary(c.cached)
		c.mu.RUnlock()
		return s
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do("summary", func() (any, error) {
		s := c.run(ctx)
		c.mu.Lock()
		c.cached = s
		c.expires = c.now().Add(c.ttl)
		c.mu.Unlock()
		return s, nil
	})
	return cloneSummary(v.(Summary))
}

func (c *Checker) run(ctx context.Context) Summary {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	comps := make([]Component, len(c.probes))
	var g errgroup.Group
	for i, p := range c.probes {
		i, p := i, p
		g.Go(func() error {
			comps[i] = Component{Name: p.Name, Status: StateOperational}
			if err := p.Check(ctx); err != nil {
				comps[i].Status = StateDown
				comps[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	state := StateOperational
	for i, p := range c.probes {
		if comps[i].Status == StateOperational {
			continue
		}
		if !p.Optional {
			state = StateDown
			break
		}
		state = StateDegraded
	}
	return Summary{State: state, UpdatedAt: c.now().UTC(), Components: comps}
}

// Handler serves the summary as JSON: 200 unless a required dependency is down, then 503.
func (c *Checker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := c.Summary(r.Context())
		code := http.StatusOK
		if s.State == StateDown {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(s)
	})
}

func cloneSummary(src Summary) Summary {
	cp := src
	if len(src.Components) > 0 {
		cp.Components = make([]Component, len(src.Components))
		copy(cp.Components, src.Components)
	}
	return cp
}
