package feed

import (
	"context"
	"time"
)

// Poller re-fetches the feed at a fixed interval for as long as its
// session is alive. It is an explicitly cancellable periodic task: Stop
// tears it down instead of leaving the tick running until process exit.
type Poller struct {
	ctrl     *Controller
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// StartPoller begins polling the controller every interval.
func StartPoller(ctrl *Controller, interval time.Duration) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		ctrl:     ctrl,
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go p.run(ctx)
	return p
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// equivalent to a manual reload with the current filters;
			// a stale tick result is dropped by the sequence guard
			p.ctrl.Load(ctx)
		}
	}
}

// Stop cancels the poller and waits for the loop to exit.
func (p *Poller) Stop() {
	p.cancel()
	<-p.done
}
