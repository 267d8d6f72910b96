package probe

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/atomic"
)

// Status is the most recent probe outcome as reported on /health.
type Status struct {
	State     string    `json:"state"` // "reachable", "unreachable", or "unknown"
	CheckedAt time.Time `json:"checkedAt,omitempty"`
}

// Probe periodically checks that the weather provider host answers at all.
// It issues one unauthenticated request per interval; any HTTP response
// (including 401) proves reachability. The result is informational only and
// never gates or retries user lookups.
type Probe struct {
	scheduler *gocron.Scheduler
	client    *http.Client
	baseURL   string
	interval  time.Duration

	reachable *atomic.Bool
	checkedAt *atomic.Int64 // unix seconds; 0 = never checked
}

// New creates a Probe. It does not start probing until Start is called.
func New(client *http.Client, baseURL string, interval time.Duration) *Probe {
	return &Probe{
		scheduler: gocron.NewScheduler(time.UTC),
		client:    client,
		baseURL:   baseURL,
		interval:  interval,
		reachable: atomic.NewBool(false),
		checkedAt: atomic.NewInt64(0),
	}
}

// Start schedules the periodic probe and runs the first check immediately.
func (p *Probe) Start() error {
	_, err := p.scheduler.Every(p.interval).StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		p.Check(ctx)
	})
	if err != nil {
		return err
	}

	p.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future probes.
func (p *Probe) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}

// Check performs a single reachability check and records the outcome.
func (p *Probe) Check(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		p.record(false)
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("probe: provider unreachable: %v", err)
		p.record(false)
		return
	}
	resp.Body.Close()

	p.record(true)
}

func (p *Probe) record(reachable bool) {
	p.reachable.Store(reachable)
	p.checkedAt.Store(time.Now().Unix())
}

// Status returns the outcome of the most recent check.
func (p *Probe) Status() Status {
	ts := p.checkedAt.Load()
	if ts == 0 {
		return Status{State: "unknown"}
	}

	state := "unreachable"
	if p.reachable.Load() {
		state = "reachable"
	}
	return Status{State: state, CheckedAt: time.Unix(ts, 0).UTC()}
}
