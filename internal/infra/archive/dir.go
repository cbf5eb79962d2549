package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"voicebot/internal/domain"
)

// Dir stores one blob per clip under a single directory, named
// <clip_id>.ogg. Writes go through a temp file and a rename so a crashed
// write never leaves a half-written clip behind.
type Dir struct {
	dir string
}

func NewDir(dir string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}
	return &Dir{dir: dir}, nil
}

func (d *Dir) path(clipID string) string {
	return filepath.Join(d.dir, clipID+domain.ClipExtension)
}

func (d *Dir) Write(_ context.Context, clipID string, data []byte) error {
	tmp := d.path(clipID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing clip %s: %w", clipID, err)
	}
	if err := os.Rename(tmp, d.path(clipID)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing clip %s: %w", clipID, err)
	}
	return nil
}

func (d *Dir) Read(_ context.Context, clipID string) ([]byte, error) {
	data, err := os.ReadFile(d.path(clipID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: clip %s", domain.ErrNotFound, clipID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading clip %s: %w", clipID, err)
	}
	return data, nil
}

func (d *Dir) Delete(_ context.Context, clipID string) error {
	err := os.Remove(d.path(clipID))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: clip %s", domain.ErrNotFound, clipID)
	}
	if err != nil {
		return fmt.Errorf("deleting clip %s: %w", clipID, err)
	}
	return nil
}
