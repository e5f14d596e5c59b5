package server

import (
	"context"
	"os"
	"path/filepath"

	"github.com/caseboard/ufdr/backend/internal/store"
	"github.com/caseboard/ufdr/backend/internal/util"
	"github.com/caseboard/ufdr/backend/pkg/evidence"
	"github.com/caseboard/ufdr/backend/pkg/flags"
	"github.com/caseboard/ufdr/backend/pkg/logger"
	"github.com/caseboard/ufdr/backend/pkg/normalize"
)

// SeedIfEmpty loads the SEED_FILE export into an empty store so a
// fresh deployment has something to show. Seed rows are marked and
// removed by the first real ingest. Every failure here only logs; a
// missing or broken seed file never blocks startup.
func SeedIfEmpty(ctx context.Context, evStore store.EvidenceStore) {
	seedPath := util.GetEnvString("SEED_FILE", "")
	if seedPath == "" {
		return
	}

	count, err := evStore.CountAll(ctx)
	if err != nil {
		logger.Error("[Seed] Failed to check store", "err", err)
		return
	}
	if count > 0 {
		return
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		logger.Warn("[Seed] Seed file not readable", "path", seedPath, "err", err)
		return
	}

	parsed, err := normalize.ParseExport(filepath.Base(seedPath), data)
	if err != nil {
		logger.Warn("[Seed] Seed file not parsable", "path", seedPath, "err", err)
		return
	}

	records := make([]evidence.Record, 0, len(parsed))
	for _, record := range parsed {
		if !record.HasAnchor() {
			continue
		}
		record.Flags = flags.Classify(record)
		records = append(records, record)
	}

	inserted, err := evStore.InsertRecords(ctx, records, true)
	if err != nil {
		logger.Error("[Seed] Failed to insert seed records", "err", err)
		return
	}
	logger.Info("[Seed] Loaded placeholder data", "path", seedPath, "records", inserted)
}
