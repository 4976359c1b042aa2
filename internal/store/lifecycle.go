// Package store keeps a visitor's client-side state: one slice per resource,
// each tracking the lifecycle of its latest request.
//
// Slices take no sequencing tokens. Two concurrent dispatches of the same
// operation both run, and whichever resolves last writes last.
package store

import (
	"context"
	"sync"

	"github.com/Skotchmaster/storefront/internal/apiclient"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

type Lifecycle struct {
	Status  Status `json:"status"`
	Loading bool   `json:"isLoading"`
	Error   string `json:"error,omitempty"`
}

func idle() Lifecycle { return Lifecycle{Status: StatusIdle} }

func (l *Lifecycle) begin() {
	l.Status = StatusPending
	l.Loading = true
	l.Error = ""
}

func (l *Lifecycle) fulfil() {
	l.Status = StatusFulfilled
	l.Loading = false
}

func (l *Lifecycle) reject(msg string) {
	l.Status = StatusRejected
	l.Loading = false
	l.Error = msg
}

// dispatch is the one async flow every slice operation goes through. The
// pending transition is visible before call starts; call runs without the
// lock; apply and the terminal transition run under it. A result that
// arrives after ctx was cancelled is discarded and the lifecycle goes back to
// idle, since nobody is left to render it.
func dispatch[T any](
	ctx context.Context,
	mu *sync.Mutex,
	lc *Lifecycle,
	fallback string,
	call func(context.Context) (T, error),
	apply func(T),
) (T, error) {
	mu.Lock()
	lc.begin()
	mu.Unlock()

	v, err := call(ctx)

	mu.Lock()
	defer mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		*lc = idle()
		var zero T
		if err == nil {
			err = ctxErr
		}
		return zero, err
	}
	if err != nil {
		lc.reject(apiclient.Message(err, fallback))
		var zero T
		return zero, err
	}
	apply(v)
	lc.fulfil()
	return v, nil
}

// dispatchErr adapts calls that return only an error.
func dispatchErr(
	ctx context.Context,
	mu *sync.Mutex,
	lc *Lifecycle,
	fallback string,
	call func(context.Context) error,
	apply func(),
) error {
	_, err := dispatch(ctx, mu, lc, fallback,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, call(ctx) },
		func(struct{}) { apply() },
	)
	return err
}
