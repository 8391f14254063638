// Package stats contains the aggregation use cases.
package stats

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// RunToken ties one aggregation run to its cancellation context. A token is
// live until it is canceled or superseded by a newer run on the same
// controller.
type RunToken struct {
	ctx        context.Context
	cancel     context.CancelFunc
	controller *RunController
}

// Context returns the run-scoped context. The aggregator observes
// cancellation through it at every yield point.
func (t *RunToken) Context() context.Context {
	return t.ctx
}

// Live reports whether this token still identifies the controller's current
// run. Callers must re-check liveness at the point of result delivery, not
// just at chunk boundaries, so a stale run that somehow completes is
// discarded rather than applied.
func (t *RunToken) Live() bool {
	t.controller.mu.Lock()
	defer t.controller.mu.Unlock()
	return t.controller.current == t && t.ctx.Err() == nil
}

// Finish releases the token's context resources. Safe to call on superseded
// tokens.
func (t *RunToken) Finish() {
	t.cancel()
}

// RunController coordinates superseding aggregation runs for one query
// context. At most one non-canceled token exists at any instant; starting a
// new run cancels the previous one. The controller performs no I/O.
type RunController struct {
	mu      sync.Mutex
	current *RunToken
}

// NewRunController creates a new RunController instance.
func NewRunController() *RunController {
	return &RunController{}
}

// StartRun cancels any in-flight run and issues a fresh token derived from
// the given context.
func (c *RunController) StartRun(ctx context.Context) *RunToken {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.current.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	token := &RunToken{
		ctx:        runCtx,
		cancel:     cancel,
		controller: c,
	}
	c.current = token

	return token
}

// ControllerRegistry hands out one RunController per user so concurrent
// screens for different users never cancel each other. This replaces the
// module-level "last result" state of earlier revisions with explicit
// per-controller state.
type ControllerRegistry struct {
	mu          sync.Mutex
	controllers map[uuid.UUID]*RunController
}

// NewControllerRegistry creates a new ControllerRegistry instance.
func NewControllerRegistry() *ControllerRegistry {
	return &ControllerRegistry{
		controllers: make(map[uuid.UUID]*RunController),
	}
}

// For returns the controller for the given user, creating it on first use.
func (r *ControllerRegistry) For(userID uuid.UUID) *RunController {
	r.mu.Lock()
	defer r.mu.Unlock()

	controller, ok := r.controllers[userID]
	if !ok {
		controller = NewRunController()
		r.controllers[userID] = controller
	}
	return controller
}
