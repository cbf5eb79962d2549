package application

import "context"

// Notifier delivers out-of-band operator alerts, used when the storage
// layer fails mid-conversation.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _ string) error {
	return nil
}
