package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ClipExtension is the file extension for archived audio blobs. Voice
// notes arrive OGG/Opus encoded from the transport.
const ClipExtension = ".ogg"

// ClipRecord is the durable association between an archived clip and the
// label its owner picked for it.
type ClipRecord struct {
	OwnerID int64
	ClipID  string
	Label   string
}

// NewClipID builds a unique clip identifier from the owner and the
// transport's file identifier, falling back to a random identifier when
// the transport supplies none.
func NewClipID(ownerID int64, fileID string) string {
	if fileID == "" {
		fileID = uuid.NewString()
	}
	return fmt.Sprintf("%d__%s", ownerID, fileID)
}
