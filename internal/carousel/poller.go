// Package carousel keeps the home page slide set fresh and models slide navigation.
package carousel

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"autohub.ng/autohub-web/internal/api"
	"autohub.ng/autohub-web/internal/metrics"
)

const defaultPollInterval = 60 * time.Second

// Fetcher is the subset of api.Client the poller uses.
type Fetcher interface {
	Carousel(ctx context.Context, etag string) (api.CarouselResult, error)
}

// Snapshot is the slide set of one carousel version.
type Snapshot struct {
	Version   int64
	Slides    []api.Slide
	UpdatedAt time.Time
}

// Poller polls the carousel endpoint and replaces its snapshot only when the version
// changes. Unchanged polls (304 or same version) leave the snapshot and subscribers alone.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.RWMutex
	snap   Snapshot
	loaded bool
	etag   string

	subMu  sync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the poller logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPoller builds a poller. Call Run to start polling.
func NewPoller(f Fetcher, opts ...Option) *Poller {
	p := &Poller{
		fetcher:  f,
		interval: defaultPollInterval,
		logger:   zap.NewNop(),
		now:      time.Now,
		subs:     map[int]chan Snapshot{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot returns the current slide set and whether one has been loaded yet.
func (p *Poller) Snapshot() (Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap, p.loaded
}

// Refresh polls once. It reports whether the snapshot was replaced.
func (p *Poller) Refresh(ctx context.Context) (bool, error) {
	p.mu.RLock()
	etag := p.etag
	p.mu.RUnlock()

	res, err := p.fetcher.Carousel(ctx, etag)
	if err != nil {
		return false, err
	}
	if res.NotModified {
		return false, nil
	}

	p.mu.Lock()
	if res.ETag != "" {
		p.etag = res.ETag
	}
	if !res.Response.Success || (p.loaded && p.snap.Version == res.Response.Version) {
		p.mu.Unlock()
		return false, nil
	}
	slides := make([]api.Slide, 0, len(res.Response.Data))
	for _, s := range res.Response.Data {
		if s.Image != "" {
			slides = append(slides, s)
		}
	}
	p.snap = Snapshot{Version: res.Response.Version, Slides: slides, UpdatedAt: p.now()}
	p.loaded = true
	snap := p.snap
	p.mu.Unlock()

	metrics.CarouselVersionChanges.Inc()
	p.logger.Info("carousel updated", zap.Int64("version", snap.Version), zap.Int("slides", len(snap.Slides)))
	p.publish(snap)
	return true, nil
}

// Run polls immediately and then on every interval until ctx is cancelled. The ticker is
// stopped before Run returns.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.closeSubscribers()
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		p.logger.Warn("carousel poll failed", zap.Error(err))
	}
}

// Subscribe returns a channel receiving each new snapshot and a cancel function. A slow
// subscriber only ever sees the latest snapshot.
func (p *Poller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	p.subMu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = ch
	p.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.subMu.Lock()
			if c, ok := p.subs[id]; ok {
				delete(p.subs, id)
				close(c)
			}
			p.subMu.Unlock()
		})
	}
}

func (p *Poller) publish(s Snapshot) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for _, ch := range p.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func (p *Poller) closeSubscribers() {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}
}
