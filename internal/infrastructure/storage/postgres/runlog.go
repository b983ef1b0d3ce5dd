package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"costline/internal/core/id"
	"costline/internal/domain/reports"
	"costline/pkg/logger"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// RunEntry is one persisted report run.
type RunEntry struct {
	ID                id.ID           `db:"id"`
	Kind              string          `db:"kind"`
	Period            string          `db:"period"`
	Location          string          `db:"location"`
	Category          string          `db:"category"`
	RowCount          int             `db:"row_count"`
	Millis            int64           `db:"millis"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// RunLog persists a trace of executed reports for later audit. Large
// payloads are zstd-compressed before insert.
type RunLog struct {
	pool              *Pool
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewRunLog creates a report run log.
func NewRunLog(pool *Pool) (*RunLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &RunLog{
		pool:              pool,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// RecordRun implements reports.RunRecorder. Failures are logged and
// swallowed: the run log must never fail a report.
func (l *RunLog) RecordRun(ctx context.Context, run reports.Run) {
	entry := RunEntry{
		ID:              id.New(),
		Kind:            run.Kind,
		Period:          run.Period,
		Location:        run.Location,
		Category:        run.Category,
		RowCount:        run.RowCount,
		Millis:          run.Millis,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	payload, err := json.Marshal(run)
	if err != nil {
		logger.Warn(ctx, "marshal report run", "error", err)
		return
	}
	entry.Payload = payload

	if len(entry.Payload) > l.compressThreshold {
		entry.PayloadCompressed = l.encoder.EncodeAll(entry.Payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_report_runs (
			id, kind, period, location, category, row_count, millis,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = l.pool.Exec(ctx, sql,
		entry.ID, entry.Kind, entry.Period, entry.Location, entry.Category,
		entry.RowCount, entry.Millis,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)
	if err != nil {
		logger.Warn(ctx, "record report run", "error", err)
	}
}

// History returns recent runs of one report kind, newest first.
// Compressed payloads are expanded before return.
func (l *RunLog) History(ctx context.Context, kind string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	sql := `
		SELECT id, kind, period, location, category, row_count, millis,
			   payload, payload_compressed, compression_algo, created_at
		FROM sys_report_runs
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := l.pool.Query(ctx, sql, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("query report runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		err := rows.Scan(
			&e.ID, &e.Kind, &e.Period, &e.Location, &e.Category,
			&e.RowCount, &e.Millis,
			&e.Payload, &e.PayloadCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan report run: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := l.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Ensure interface compliance
var _ reports.RunRecorder = (*RunLog)(nil)
