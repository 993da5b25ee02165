package ctool

import "context"

// Observer receives progress and failure notes from pipeline stages as they
// run, in the order they occur. Service methods accept a nil Observer and
// substitute NopObserver.
type Observer interface {
	Info(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// NopObserver discards all notifications.
type NopObserver struct{}

func (NopObserver) Info(context.Context, string) {}

func (NopObserver) Error(context.Context, string) {}
