// Package pgx implements store.EvidenceStore on PostgreSQL. Queries
// are raw SQL over a pgxpool; the schema is owned by the SQL files
// under migrations/.
package pgx

import (
	"time"

	"github.com/caseboard/ufdr/backend/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL-backed evidence store.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.EvidenceStore = (*Store)(nil)

// New wraps an existing connection pool. The caller owns the pool
// lifecycle.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// observedAtLayouts are tried in order when parsing export timestamps
// for the sortable observed_at column. Unparseable timestamps store
// NULL and keep their verbatim text form.
var observedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseObservedAt(value string) *time.Time {
	for _, layout := range observedAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
