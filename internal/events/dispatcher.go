package events

import (
	"context"
	"errors"
)

// Dispatcher receives events after the change that produced them committed.
type Dispatcher interface {
	Dispatch(ctx context.Context, evs []Event) error
}

type DispatcherFunc func(ctx context.Context, evs []Event) error

func (f DispatcherFunc) Dispatch(ctx context.Context, evs []Event) error { return f(ctx, evs) }

// Discard drops everything.
var Discard Dispatcher = DispatcherFunc(func(context.Context, []Event) error { return nil })

// MultiDispatcher fans out to every dispatcher and joins their errors.
type MultiDispatcher []Dispatcher

func (m MultiDispatcher) Dispatch(ctx context.Context, evs []Event) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, evs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
