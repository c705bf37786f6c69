package httputil

import (
	"context"
	"time"
)

// Pacer enforces a minimum gap between successive requests. The gap is
// measured from the last call to Done, or to Wait when the caller never
// reports completion.
// A Pacer is not safe for concurrent use; create one per request sequence.
type Pacer struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewPacer returns a Pacer that spaces calls at least interval apart.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval, now: time.Now, sleep: Sleep}
}

// Wait blocks until interval has elapsed since the previous request ended.
// The first call returns immediately. It returns ctx.Err() if the context
// ends while waiting.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.last.IsZero() {
		if d := p.interval - p.now().Sub(p.last); d > 0 {
			if err := p.sleep(ctx, d); err != nil {
				return err
			}
		}
	}
	p.last = p.now()
	return nil
}

// Done marks the end of the request started by the last Wait.
func (p *Pacer) Done() {
	p.last = p.now()
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
