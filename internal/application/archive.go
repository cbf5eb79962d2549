package application

import "context"

// ClipArchive stores raw audio blobs keyed by clip identifier. Write
// must be durable before it returns; Delete is only used for clips whose
// conversation was cancelled or superseded.
type ClipArchive interface {
	Write(ctx context.Context, clipID string, data []byte) error
	Read(ctx context.Context, clipID string) ([]byte, error)
	Delete(ctx context.Context, clipID string) error
}
