package application

import (
	"context"
	"fmt"
	"log/slog"

	"voicebot/internal/domain"
)

// Relay pumps messages from the transport through the command router and
// sends back the reply each handled message produces.
type Relay struct {
	source        UpdateSource
	replier       Replier
	store         ClipStore
	archive       ClipArchive
	conversations *Conversations
	notifier      Notifier
	logger        *slog.Logger
}

func NewRelay(
	source UpdateSource,
	replier Replier,
	store ClipStore,
	archive ClipArchive,
	notifier Notifier,
	logger *slog.Logger,
) *Relay {
	return &Relay{
		source:        source,
		replier:       replier,
		store:         store,
		archive:       archive,
		conversations: NewConversations(),
		notifier:      notifier,
		logger:        logger,
	}
}

func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("starting update source", "source", r.source.Name())
	if err := r.source.Start(ctx); err != nil {
		return fmt.Errorf("starting source: %w", err)
	}
	defer r.source.Stop()

	r.logger.Info("relay ready, waiting for messages")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := r.source.Next(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// A source that can no longer deliver is fatal; only
				// reply failures are worth riding out.
				return fmt.Errorf("getting message: %w", err)
			}
			if err := r.deliver(ctx, msg); err != nil {
				r.logger.Error("sending reply", "error", err)
			}
		}
	}
}

func (r *Relay) deliver(ctx context.Context, msg domain.Message) error {
	reply := r.Handle(ctx, msg)
	if reply.IsZero() {
		return nil
	}

	if len(reply.Voice) > 0 {
		if err := r.replier.SendVoice(ctx, reply.ChatID, reply.Voice); err != nil {
			return fmt.Errorf("sending voice reply: %w", err)
		}
		return nil
	}

	if err := r.replier.SendText(ctx, reply.ChatID, reply.Text); err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	return nil
}

func (r *Relay) notifyStorageFault(ctx context.Context, err error) {
	if notifyErr := r.notifier.Notify(ctx, fmt.Sprintf("storage fault: %s", err.Error())); notifyErr != nil {
		r.logger.Error("notifying storage fault", "error", notifyErr)
	}
}
