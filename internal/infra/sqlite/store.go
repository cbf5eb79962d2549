package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"voicebot/internal/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS voice_messages (
	user_id  INTEGER NOT NULL,
	filename TEXT    NOT NULL,
	command  TEXT    NOT NULL UNIQUE
);`

// Store persists clip/label associations in an embedded sqlite database.
// The UNIQUE constraint on command is what enforces system-wide label
// uniqueness.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, rec domain.ClipRecord) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO voice_messages (user_id, filename, command) VALUES (?, ?, ?)",
		rec.OwnerID, rec.ClipID, rec.Label,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", domain.ErrLabelTaken, rec.Label)
		}
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

func (s *Store) Lookup(ctx context.Context, label string) (*domain.ClipRecord, error) {
	rec := domain.ClipRecord{Label: label}
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, filename FROM voice_messages WHERE command = ?",
		label,
	).Scan(&rec.OwnerID, &rec.ClipID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, label)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", label, err)
	}
	return &rec, nil
}
