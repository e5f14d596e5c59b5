// Package store defines the persistence interface for normalized
// evidence and ingested source files. The concrete implementation
// lives in the pgx subpackage; handlers and workers only see this
// interface.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/caseboard/ufdr/backend/pkg/evidence"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Source file ingest states.
const (
	SourceStatePending = "pending"
	SourceStateReady   = "ready"
	SourceStateFailed  = "failed"
)

// StoredRecord is a persisted evidence record with its storage
// identity attached.
type StoredRecord struct {
	evidence.Record
	PublicID  string    `json:"id"`
	Seed      bool      `json:"seed,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SourceFile tracks one uploaded export through the ingest pipeline.
type SourceFile struct {
	PublicID   string       `json:"id"`
	Name       string       `json:"name"`
	StorageKey string       `json:"-"`
	State      string       `json:"state"`
	Error      string       `json:"error,omitempty"`
	Counts     IngestCounts `json:"counts"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// IngestCounts summarizes what one ingest run produced.
type IngestCounts struct {
	Chats    int64 `json:"chats"`
	Calls    int64 `json:"calls"`
	Contacts int64 `json:"contacts"`
	Flagged  int64 `json:"flagged"`
}

// Total is the number of records across all types.
func (c IngestCounts) Total() int64 {
	return c.Chats + c.Calls + c.Contacts
}

// SourceActivity aggregates the evidence table per source file.
type SourceActivity struct {
	SourceFile string    `json:"sourceFile"`
	Records    int64     `json:"records"`
	LatestAt   time.Time `json:"latestAt"`
}

// Filter narrows an evidence search. Zero values mean "no constraint".
// Entity strings in Entities, From, and To may use X as a digit
// wildcard; matching is case-insensitive.
type Filter struct {
	Types      []evidence.RecordType
	Flags      []evidence.FlagKind
	AnyFlags   []evidence.FlagKind
	Entities   []string
	From       string
	To         string
	After      time.Time
	SourceFile string
	Limit      int
}

// EvidenceStore is the persistence surface used by the server and the
// ingest worker.
type EvidenceStore interface {
	InsertRecords(ctx context.Context, records []evidence.Record, seed bool) (int64, error)
	DeleteSeedRecords(ctx context.Context) (int64, error)
	DeleteEmptyRecords(ctx context.Context) (int64, error)
	Search(ctx context.Context, filter Filter) ([]StoredRecord, error)

	CountAll(ctx context.Context) (int64, error)
	CountsByType(ctx context.Context, sourceFile string) (map[evidence.RecordType]int64, error)
	CountsByFlag(ctx context.Context, sourceFile string) (map[evidence.FlagKind]int64, error)
	DistinctSenders(ctx context.Context, sourceFile string) (int64, error)
	HasSeedData(ctx context.Context) (bool, error)
	SourceStats(ctx context.Context) ([]SourceActivity, error)

	CreateSourceFile(ctx context.Context, name, storageKey string) (SourceFile, error)
	SourceFileByID(ctx context.Context, publicID string) (SourceFile, error)
	MarkSourceFileReady(ctx context.Context, publicID string, counts IngestCounts) error
	MarkSourceFileFailed(ctx context.Context, publicID, reason string) error
	ListSourceFiles(ctx context.Context, limit int) ([]SourceFile, error)
	LatestReadySourceFile(ctx context.Context) (SourceFile, error)
}
