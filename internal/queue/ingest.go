package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/caseboard/ufdr/backend/internal/storage"
	"github.com/caseboard/ufdr/backend/internal/store"
	"github.com/caseboard/ufdr/backend/internal/util"
	"github.com/caseboard/ufdr/backend/pkg/evidence"
	"github.com/caseboard/ufdr/backend/pkg/flags"
	"github.com/caseboard/ufdr/backend/pkg/logger"
	"github.com/caseboard/ufdr/backend/pkg/normalize"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rabbitmq/amqp091-go"
)

// IngestJobMsg is the payload published to ingest_queue for each
// uploaded export.
type IngestJobMsg struct {
	Message      string `json:"message"`
	SourceFileID string `json:"source_file_id"`
	FileName     string `json:"file_name"`
	StorageKey   string `json:"storage_key"`
}

// PublishIngestJob enqueues one export for processing.
func PublishIngestJob(ch *amqp091.Channel, job IngestJobMsg) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal ingest job: %w", err)
	}
	return PublishFIFO(ch, IngestQueue, body)
}

// ProcessIngestMessage runs one export through the full pipeline:
// download, parse, normalize, classify, filter, and the two-phase
// write (seed delete, then bulk insert). The write is deliberately
// non-transactional; a crash between the phases leaves an empty store
// that the next ingest repairs.
//
// Permanent failures (unparsable or unsupported exports) mark the
// source file failed and ack; transient failures return an error so
// the message retries.
func ProcessIngestMessage(ctx context.Context, s3Client *s3.Client, evStore store.EvidenceStore, msgBody string) error {
	var msg IngestJobMsg
	if err := json.Unmarshal([]byte(msgBody), &msg); err != nil {
		return fmt.Errorf("failed to unmarshal ingest message: %w", err)
	}

	logger.Info("[Ingest] Processing export", "source_file_id", msg.SourceFileID, "file", msg.FileName)

	data, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) ([]byte, error) {
		return storage.GetFile(ctx, s3Client, msg.StorageKey)
	})
	if err != nil {
		return fmt.Errorf("failed to download export %s: %w", msg.StorageKey, err)
	}

	parsed, err := normalize.ParseExport(msg.FileName, data)
	if err != nil {
		logger.Error("[Ingest] Export is not parsable", "file", msg.FileName, "err", err)
		if markErr := evStore.MarkSourceFileFailed(ctx, msg.SourceFileID, err.Error()); markErr != nil {
			return fmt.Errorf("failed to mark source file failed: %w", markErr)
		}
		return nil
	}

	classify := flags.Classify
	records := make([]evidence.Record, 0, len(parsed))
	var counts store.IngestCounts
	for _, record := range parsed {
		if !supportedType(record.Type) || !record.HasAnchor() {
			continue
		}
		record.Flags = classify(record)
		records = append(records, record)

		switch record.Type {
		case evidence.TypeChat:
			counts.Chats++
		case evidence.TypeCall:
			counts.Calls++
		case evidence.TypeContact:
			counts.Contacts++
		}
		if len(record.Flags) > 0 {
			counts.Flagged++
		}
	}

	deleted, err := evStore.DeleteSeedRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear seed records: %w", err)
	}
	if deleted > 0 {
		logger.Info("[Ingest] Cleared seed records", "count", deleted)
	}

	inserted, err := evStore.InsertRecords(ctx, records, false)
	if err != nil {
		if markErr := evStore.MarkSourceFileFailed(ctx, msg.SourceFileID, err.Error()); markErr != nil {
			logger.Error("[Ingest] Failed to mark source file failed", "err", markErr)
		}
		return fmt.Errorf("failed to insert records: %w", err)
	}

	if err := evStore.MarkSourceFileReady(ctx, msg.SourceFileID, counts); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("[Ingest] Source file row vanished", "source_file_id", msg.SourceFileID)
			return nil
		}
		return fmt.Errorf("failed to mark source file ready: %w", err)
	}

	logger.Info("[Ingest] Export processed",
		"source_file_id", msg.SourceFileID,
		"file", msg.FileName,
		"inserted", inserted,
		"chats", counts.Chats,
		"calls", counts.Calls,
		"contacts", counts.Contacts,
		"flagged", counts.Flagged,
	)
	return nil
}

func supportedType(t evidence.RecordType) bool {
	for _, supported := range evidence.SupportedTypes {
		if t == supported {
			return true
		}
	}
	return false
}
