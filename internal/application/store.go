package application

import (
	"context"

	"voicebot/internal/domain"
)

// ClipStore persists label to clip associations. Labels are passed with
// the marker prefix already applied. Committed records are never updated
// or deleted.
type ClipStore interface {
	Insert(ctx context.Context, rec domain.ClipRecord) error
	Lookup(ctx context.Context, label string) (*domain.ClipRecord, error)
}
