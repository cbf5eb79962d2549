package application

import (
	"context"

	"voicebot/internal/domain"
)

// UpdateSource delivers inbound messages from the chat transport.
type UpdateSource interface {
	Start(ctx context.Context) error
	Stop() error
	Next(ctx context.Context) (domain.Message, error)
	Name() string
}

// Replier sends outbound replies back to the chat transport.
type Replier interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendVoice(ctx context.Context, chatID int64, voice []byte) error
}
