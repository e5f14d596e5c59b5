package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/caseboard/ufdr/backend/internal/store"

	"github.com/jackc/pgx/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const sourceFileColumns = `public_id, name, storage_key, state, error,
	chat_count, call_count, contact_count, flagged_count, created_at, updated_at`

// CreateSourceFile registers an uploaded export in the pending state.
func (s *Store) CreateSourceFile(ctx context.Context, name, storageKey string) (store.SourceFile, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return store.SourceFile{}, fmt.Errorf("failed to generate source file id: %w", err)
	}

	row := s.pool.QueryRow(ctx, `INSERT INTO source_files (public_id, name, storage_key, state)
		VALUES ($1, $2, $3, $4) RETURNING `+sourceFileColumns,
		publicID, name, storageKey, store.SourceStatePending)
	return scanSourceFile(row)
}

// SourceFileByID looks one source file up by its public id.
func (s *Store) SourceFileByID(ctx context.Context, publicID string) (store.SourceFile, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+sourceFileColumns+` FROM source_files
		WHERE public_id = $1`, publicID)
	return scanSourceFile(row)
}

// MarkSourceFileReady records a successful ingest with its per-type
// counts.
func (s *Store) MarkSourceFileReady(ctx context.Context, publicID string, counts store.IngestCounts) error {
	tag, err := s.pool.Exec(ctx, `UPDATE source_files
		SET state = $2, error = '', chat_count = $3, call_count = $4,
		    contact_count = $5, flagged_count = $6, updated_at = NOW()
		WHERE public_id = $1`,
		publicID, store.SourceStateReady, counts.Chats, counts.Calls, counts.Contacts, counts.Flagged)
	if err != nil {
		return fmt.Errorf("failed to mark source file ready: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// MarkSourceFileFailed records a failed ingest with its reason.
func (s *Store) MarkSourceFileFailed(ctx context.Context, publicID, reason string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE source_files
		SET state = $2, error = $3, updated_at = NOW()
		WHERE public_id = $1`,
		publicID, store.SourceStateFailed, reason)
	if err != nil {
		return fmt.Errorf("failed to mark source file failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListSourceFiles returns the most recently touched source files.
func (s *Store) ListSourceFiles(ctx context.Context, limit int) ([]store.SourceFile, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `SELECT `+sourceFileColumns+` FROM source_files
		ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list source files: %w", err)
	}
	defer rows.Close()

	files := make([]store.SourceFile, 0)
	for rows.Next() {
		file, err := scanSourceFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

// LatestReadySourceFile resolves the most recent successful ingest,
// store.ErrNotFound when nothing has been ingested yet.
func (s *Store) LatestReadySourceFile(ctx context.Context) (store.SourceFile, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+sourceFileColumns+` FROM source_files
		WHERE state = $1 ORDER BY updated_at DESC LIMIT 1`, store.SourceStateReady)
	return scanSourceFile(row)
}

func scanSourceFile(row pgx.Row) (store.SourceFile, error) {
	var file store.SourceFile
	err := row.Scan(
		&file.PublicID,
		&file.Name,
		&file.StorageKey,
		&file.State,
		&file.Error,
		&file.Counts.Chats,
		&file.Counts.Calls,
		&file.Counts.Contacts,
		&file.Counts.Flagged,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.SourceFile{}, store.ErrNotFound
	}
	if err != nil {
		return store.SourceFile{}, fmt.Errorf("failed to scan source file: %w", err)
	}
	return file, nil
}
