package vanity

import (
	"context"
	"log"
	"time"
)

// Clock hands out tickers so tests can drive the sweep by hand.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realClock struct{}

// RealClock is backed by time.NewTicker.
var RealClock Clock = realClock{}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

const DefaultSweepInterval = 10 * time.Minute

// Sweeper periodically removes assignments whose role was deleted by hand.
type Sweeper struct {
	manager  *Manager
	guilds   func() []string
	interval time.Duration
	clock    Clock
}

// NewSweeper builds a sweeper; guilds lists the guilds to check on every pass.
func NewSweeper(m *Manager, guilds func() []string, interval time.Duration, clock Clock) *Sweeper {
	if clock == nil {
		clock = RealClock
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		manager:  m,
		guilds:   guilds,
		interval: interval,
		clock:    clock,
	}
}

// Run sweeps on every tick until ctx is cancelled. The first sweep happens
// one interval after start.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.SweepOnce()
		}
	}
}

// SweepOnce runs a single pass and returns how many assignments were dropped.
func (s *Sweeper) SweepOnce() int {
	guildIDs := s.guilds()
	if len(guildIDs) == 0 {
		log.Println("[Cleanup] No guilds available, skipping sweep")
		return 0
	}

	removed, err := s.manager.Sweep(guildIDs)
	if err != nil {
		log.Printf("[Cleanup] Sweep finished with errors: %v", err)
	}
	if len(removed) > 0 {
		log.Printf("[Cleanup] Removed %d orphaned vanity assignments: %v", len(removed), removed)
	}
	return len(removed)
}
