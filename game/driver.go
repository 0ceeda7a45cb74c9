package game

import (
	"context"
	"sync/atomic"
	"time"
)

// Updater is the part of Game a Driver needs.
type Updater interface {
	Update(dtMillis int64)
}

// Driver calls Update on a fixed wall-clock cadence from its own goroutine.
// Elapsed time below one millisecond is carried to the next tick.
type Driver struct {
	target   Updater
	interval time.Duration
	paused   atomic.Bool
	updates  atomic.Int64
}

// NewDriver creates a driver for target. A non-positive interval uses 10ms.
func NewDriver(target Updater, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	return &Driver{target: target, interval: interval}
}

// SetPaused stops or resumes updates. Time spent paused is discarded.
func (d *Driver) SetPaused(paused bool) { d.paused.Store(paused) }

func (d *Driver) Paused() bool { return d.paused.Load() }

// Updates returns the number of Update calls made so far.
func (d *Driver) Updates() int64 { return d.updates.Load() }

// Run drives updates until ctx is cancelled and returns ctx.Err().
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	last := time.Now()
	var carry time.Duration
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last) + carry
			last = now
			if d.paused.Load() {
				carry = 0
				continue
			}

			ms := elapsed.Milliseconds()
			carry = elapsed - time.Duration(ms)*time.Millisecond
			d.target.Update(ms)
			d.updates.Add(1)
		}
	}
}
