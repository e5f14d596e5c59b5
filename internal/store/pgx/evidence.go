package pgx

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caseboard/ufdr/backend/internal/store"
	"github.com/caseboard/ufdr/backend/internal/util"
	"github.com/caseboard/ufdr/backend/pkg/evidence"

	"github.com/jackc/pgx/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	insertChunkSize    = 1000
	searchLimitDefault = 250
)

const recordColumns = `public_id, record_type, from_participant, to_participant,
	recorded_at, content, country, duration_seconds, source, source_file,
	flags, metadata, is_seed, created_at`

const insertRecordSQL = `INSERT INTO evidence_records
	(public_id, record_type, from_participant, to_participant, recorded_at,
	 observed_at, content, country, duration_seconds, source, source_file,
	 flags, metadata, is_seed)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

// InsertRecords persists a normalized batch. Records are written in
// chunks through a pgx batch; the returned count is the number of rows
// actually inserted.
func (s *Store) InsertRecords(ctx context.Context, records []evidence.Record, seed bool) (int64, error) {
	var inserted int64

	for start := 0; start < len(records); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(records) {
			end = len(records)
		}

		batch := &pgx.Batch{}
		for _, record := range records[start:end] {
			publicID, err := gonanoid.New()
			if err != nil {
				return inserted, fmt.Errorf("failed to generate record id: %w", err)
			}

			metadata, err := json.Marshal(record.Metadata)
			if err != nil || record.Metadata == nil {
				metadata = []byte("{}")
			}

			batch.Queue(insertRecordSQL,
				publicID,
				string(record.Type),
				util.SanitizePostgresText(record.From),
				util.SanitizePostgresText(record.To),
				util.SanitizePostgresText(record.Timestamp),
				parseObservedAt(record.Timestamp),
				util.SanitizePostgresText(record.Content),
				util.SanitizePostgresText(record.Country),
				record.DurationSeconds,
				util.SanitizePostgresText(record.Source),
				util.SanitizePostgresText(record.SourceFile),
				flagsToText(record.Flags),
				util.SanitizePostgresText(string(metadata)),
				seed,
			)
		}

		results := s.pool.SendBatch(ctx, batch)
		for i := start; i < end; i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return inserted, fmt.Errorf("failed to insert evidence batch: %w", err)
			}
			inserted++
		}
		if err := results.Close(); err != nil {
			return inserted, fmt.Errorf("failed to close evidence batch: %w", err)
		}
	}

	return inserted, nil
}

// DeleteSeedRecords removes placeholder data before the first real
// ingest lands.
func (s *Store) DeleteSeedRecords(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM evidence_records WHERE is_seed`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete seed records: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteEmptyRecords removes rows with no anchor field at all, the
// residue of overly permissive export shapes.
func (s *Store) DeleteEmptyRecords(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM evidence_records
		WHERE from_participant = '' AND to_participant = ''
		  AND content = '' AND recorded_at = ''`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete empty records: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Search runs a filtered, recency-ordered, capped read.
func (s *Store) Search(ctx context.Context, filter store.Filter) ([]store.StoredRecord, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Types) > 0 {
		conds = append(conds, "record_type = ANY("+arg(typesToText(filter.Types))+")")
	}
	if filter.SourceFile != "" {
		conds = append(conds, "source_file = "+arg(filter.SourceFile))
	}
	// All requested flags must be present; any-of flags need overlap.
	if len(filter.Flags) > 0 {
		conds = append(conds, "flags @> "+arg(flagsToText(filter.Flags)))
	}
	if len(filter.AnyFlags) > 0 {
		conds = append(conds, "flags && "+arg(flagsToText(filter.AnyFlags)))
	}
	if filter.From != "" {
		conds = append(conds, "from_participant ~* "+arg(store.EntityPattern(filter.From)))
	}
	if filter.To != "" {
		conds = append(conds, "to_participant ~* "+arg(store.EntityPattern(filter.To)))
	}
	for _, entity := range filter.Entities {
		pattern := arg(store.EntityPattern(entity))
		conds = append(conds, fmt.Sprintf("(from_participant ~* %s OR to_participant ~* %s)", pattern, pattern))
	}
	if !filter.After.IsZero() {
		conds = append(conds, "COALESCE(observed_at, created_at) >= "+arg(filter.After))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = searchLimitDefault
	}

	query := "SELECT " + recordColumns + " FROM evidence_records"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY COALESCE(observed_at, created_at) DESC, id DESC LIMIT " + arg(limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search evidence: %w", err)
	}
	defer rows.Close()

	records := make([]store.StoredRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read evidence rows: %w", err)
	}
	return records, nil
}

// CountAll reports the total number of stored records.
func (s *Store) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM evidence_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// CountsByType aggregates record counts per type, optionally scoped to
// one source file.
func (s *Store) CountsByType(ctx context.Context, sourceFile string) (map[evidence.RecordType]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT record_type, COUNT(*) FROM evidence_records
		WHERE ($1 = '' OR source_file = $1) GROUP BY record_type`, sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to count by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[evidence.RecordType]int64)
	for rows.Next() {
		var (
			recordType string
			count      int64
		)
		if err := rows.Scan(&recordType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		counts[evidence.RecordType(recordType)] = count
	}
	return counts, rows.Err()
}

// CountsByFlag aggregates record counts per flag, optionally scoped to
// one source file.
func (s *Store) CountsByFlag(ctx context.Context, sourceFile string) (map[evidence.FlagKind]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT f, COUNT(*)
		FROM evidence_records, UNNEST(flags) AS f
		WHERE ($1 = '' OR source_file = $1) GROUP BY f`, sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to count by flag: %w", err)
	}
	defer rows.Close()

	counts := make(map[evidence.FlagKind]int64)
	for rows.Next() {
		var (
			flag  string
			count int64
		)
		if err := rows.Scan(&flag, &count); err != nil {
			return nil, fmt.Errorf("failed to scan flag count: %w", err)
		}
		counts[evidence.FlagKind(flag)] = count
	}
	return counts, rows.Err()
}

// DistinctSenders counts distinct non-empty from participants.
func (s *Store) DistinctSenders(ctx context.Context, sourceFile string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT from_participant) FROM evidence_records
		WHERE from_participant <> '' AND ($1 = '' OR source_file = $1)`, sourceFile).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct senders: %w", err)
	}
	return count, nil
}

// HasSeedData reports whether any placeholder rows are still present.
func (s *Store) HasSeedData(ctx context.Context) (bool, error) {
	var present bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM evidence_records WHERE is_seed)`).Scan(&present)
	if err != nil {
		return false, fmt.Errorf("failed to check seed data: %w", err)
	}
	return present, nil
}

// SourceStats aggregates the evidence table per source file, most
// recently touched first.
func (s *Store) SourceStats(ctx context.Context) ([]store.SourceActivity, error) {
	rows, err := s.pool.Query(ctx, `SELECT source_file, COUNT(*), MAX(created_at)
		FROM evidence_records WHERE source_file <> ''
		GROUP BY source_file ORDER BY MAX(created_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sources: %w", err)
	}
	defer rows.Close()

	stats := make([]store.SourceActivity, 0)
	for rows.Next() {
		var activity store.SourceActivity
		if err := rows.Scan(&activity.SourceFile, &activity.Records, &activity.LatestAt); err != nil {
			return nil, fmt.Errorf("failed to scan source stats: %w", err)
		}
		stats = append(stats, activity)
	}
	return stats, rows.Err()
}

func scanRecord(rows pgx.Rows) (store.StoredRecord, error) {
	var (
		record   store.StoredRecord
		flags    []string
		metadata []byte
	)
	err := rows.Scan(
		&record.PublicID,
		(*string)(&record.Type),
		&record.From,
		&record.To,
		&record.Timestamp,
		&record.Content,
		&record.Country,
		&record.DurationSeconds,
		&record.Source,
		&record.SourceFile,
		&flags,
		&metadata,
		&record.Seed,
		&record.CreatedAt,
	)
	if err != nil {
		return store.StoredRecord{}, fmt.Errorf("failed to scan evidence row: %w", err)
	}

	record.Flags = make([]evidence.FlagKind, 0, len(flags))
	for _, flag := range flags {
		record.Flags = append(record.Flags, evidence.FlagKind(flag))
	}
	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &record.Metadata)
	}
	return record, nil
}

func flagsToText(flags []evidence.FlagKind) []string {
	out := make([]string, 0, len(flags))
	for _, flag := range flags {
		out = append(out, string(flag))
	}
	return out
}

func typesToText(types []evidence.RecordType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
