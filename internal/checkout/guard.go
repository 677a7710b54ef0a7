package checkout

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/types"
)

// flight is the single checkout a session may have in progress. It is held
// from create until the payment outcome is resolved, or until its deadline
// passes and a new checkout takes it over.
type flight struct {
	id         string
	deadline   time.Time
	resolving  bool
	source     Source
	request    types.PaymentOrderRequest
	quote      Quote
	gatewayRef string
}

func errInFlight() error {
	return pkgerrors.New(pkgerrors.CodeInFlight, "a checkout is already in progress")
}

// acquire claims the guard for a new checkout.
func (o *Orchestrator) acquire(ctx context.Context) (*flight, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	if o.current != nil {
		if now.Before(o.current.deadline) {
			return nil, errInFlight()
		}
		o.logg.Warn(o.logg.WithField(ctx, "pending_id", o.current.id), "taking over expired checkout")
	}
	f := &flight{id: o.newID(), deadline: now.Add(o.flightTimeout)}
	o.current = f
	return f, nil
}

// claim marks the matching flight as resolving so a second outcome for the
// same checkout cannot run concurrently.
func (o *Orchestrator) claim(pendingID string) (*flight, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil || o.current.id != pendingID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("no checkout %q in progress", pendingID))
	}
	if o.current.resolving {
		return nil, errInFlight()
	}
	o.current.resolving = true
	return o.current, nil
}

// unclaim returns a flight to the waiting state after a retryable problem.
func (o *Orchestrator) unclaim(f *flight) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == f {
		f.resolving = false
	}
}

// release frees the guard if f still owns it.
func (o *Orchestrator) release(f *flight) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == f {
		o.current = nil
	}
}

// InFlight reports whether a live checkout holds the guard.
func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current != nil && o.now().Before(o.current.deadline)
}
