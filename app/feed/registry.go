package feed

import (
	"context"
	"sync"
	"time"

	"github.com/Foco22/chameleon-frontend/app/api"
	"github.com/Foco22/chameleon-frontend/app/models"
)

// Registry keeps one live controller (and its poller) per session:
// created when a session first opens the feed, torn down at logout or
// once the session has gone idle. All per-user feed state lives in the
// session's controller; nothing is shared across sessions.
type Registry struct {
	client   *api.Client
	interval time.Duration
	maxIdle  time.Duration

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	ctrl     *Controller
	poller   *Poller
	lastSeen time.Time
}

// NewRegistry builds a registry. pollInterval <= 0 disables polling,
// which the tests use to keep request traffic deterministic.
func NewRegistry(client *api.Client, pollInterval, maxIdle time.Duration) *Registry {
	return &Registry{
		client:   client,
		interval: pollInterval,
		maxIdle:  maxIdle,
		entries:  make(map[string]*entry),
	}
}

// Acquire returns the controller for the given session, creating it and
// starting its poller on first use. A changed API token (re-login) drops
// the old controller and builds a fresh one.
func (r *Registry) Acquire(sessionID, token string, user models.User, filter models.FilterState) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[sessionID]; ok {
		if e.ctrl.token == token {
			e.lastSeen = time.Now()
			return e.ctrl
		}
		r.removeLocked(sessionID)
	}

	ctrl := NewController(r.client, token, user, filter)
	e := &entry{ctrl: ctrl, lastSeen: time.Now()}
	if r.interval > 0 {
		e.poller = StartPoller(ctrl, r.interval)
	}
	r.entries[sessionID] = e
	return ctrl
}

// Release tears down a session's controller, stopping its poller.
func (r *Registry) Release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(sessionID)
}

func (r *Registry) removeLocked(sessionID string) {
	e, ok := r.entries[sessionID]
	if !ok {
		return
	}
	if e.poller != nil {
		e.poller.Stop()
	}
	delete(r.entries, sessionID)
}

// Sweep evicts controllers that have not been acquired within the idle
// limit and returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.maxIdle {
			r.removeLocked(id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until the context is cancelled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.maxIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(time.Now())
		}
	}
}

// Close stops every poller and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.entries {
		r.removeLocked(id)
	}
}

// Len reports how many sessions currently hold a live controller.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
