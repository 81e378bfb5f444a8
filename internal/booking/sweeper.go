package booking

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically releases stale holds through the workflow.
// Expiry is enforced by this background sweep, not by per-request
// blocking: a hold past its timeout stays HELD until the next tick.
type Sweeper struct {
	wf       *Workflow
	interval time.Duration
}

// NewSweeper builds a Sweeper over the workflow with the given tick
// interval.
func NewSweeper(wf *Workflow, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{wf: wf, interval: interval}
}

// Run sweeps until ctx is cancelled. Intended to run on its own
// goroutine; a failed pass is logged and retried next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ids, err := s.wf.ExpireStale(ctx, time.Now().UTC())
			if err != nil {
				log.Printf("sweeper: expire pass failed: %v", err)
				continue
			}
			if len(ids) > 0 {
				log.Printf("sweeper: expired %d stale booking(s): %v", len(ids), ids)
			}
		}
	}
}
