package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"siteval/api/internal/schema"
)

// ErrNotFound marks an identifier with no persisted record. Callers treat
// it as "this is a brand-new record", not as a failure.
var ErrNotFound = errors.New("store: record not found")

// The server owns the post-save status: every successful save lands the
// record in on-progress regardless of what the submitted payload claims.
const statusOnProgress = "on-progress"

// SaveResult carries the server-side fields of a successful save.
type SaveResult struct {
	Status    string
	UpdatedAt time.Time
}

// Summary is one dashboard row.
type Summary struct {
	ID         string    `json:"id"`
	ClientName string    `json:"clientName"`
	City       string    `json:"city"`
	BankName   string    `json:"bankName"`
	Status     string    `json:"status"`
	UpdatedBy  string    `json:"updatedBy"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PostgresStore implements the record store against Postgres, with the
// nested payload kept as jsonb.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// GetRecord fetches a record by identifier, or ErrNotFound.
func (s *PostgresStore) GetRecord(ctx context.Context, id string) (schema.Record, error) {
	const query = `SELECT payload, status, feedback, updated_by, updated_at FROM valuation_records WHERE id=$1`
	var (
		payload   []byte
		status    string
		feedback  string
		updatedBy string
		updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&payload, &status, &feedback, &updatedBy, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Record{}, ErrNotFound
	}
	if err != nil {
		return schema.Record{}, fmt.Errorf("get record: %w", err)
	}

	var rec schema.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return schema.Record{}, fmt.Errorf("decode record %s: %w", id, err)
	}
	rec.ID = id
	rec.Status = status
	rec.Feedback = feedback
	rec.UpdatedBy = updatedBy
	rec.UpdatedAt = updatedAt
	return rec, nil
}

// SaveRecord upserts the record payload and returns the server-side fields.
// The stored status is forced to on-progress; the caller must adopt the
// returned status rather than its own.
func (s *PostgresStore) SaveRecord(ctx context.Context, id string, rec schema.Record) (SaveResult, error) {
	rec.ID = id
	rec.Status = statusOnProgress
	payload, err := json.Marshal(rec)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode record %s: %w", id, err)
	}

	const query = `
		INSERT INTO valuation_records (id, status, feedback, payload, updated_by, updated_at)
		VALUES ($1, $2, '', $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET
			status=EXCLUDED.status,
			feedback='',
			payload=EXCLUDED.payload,
			updated_by=EXCLUDED.updated_by,
			updated_at=NOW()
		RETURNING status, updated_at
	`
	var result SaveResult
	if err := s.db.QueryRowContext(ctx, query, id, statusOnProgress, payload, rec.UpdatedBy).
		Scan(&result.Status, &result.UpdatedAt); err != nil {
		return SaveResult{}, fmt.Errorf("save record %s: %w", id, err)
	}
	return result, nil
}

// SetStatus transitions a record's workflow status with optional feedback
// and returns the updated record.
func (s *PostgresStore) SetStatus(ctx context.Context, id, status, feedback string) (schema.Record, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE valuation_records SET status=$2, feedback=$3, updated_at=NOW() WHERE id=$1
	`, id, status, feedback)
	if err != nil {
		return schema.Record{}, fmt.Errorf("set status %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return schema.Record{}, ErrNotFound
	}
	return s.GetRecord(ctx, id)
}

// ListRecords returns dashboard summaries, most recently updated first.
func (s *PostgresStore) ListRecords(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const query = `
		SELECT id, status, payload, updated_by, updated_at
		FROM valuation_records
		ORDER BY updated_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			item    Summary
			payload []byte
		)
		if err := rows.Scan(&item.ID, &item.Status, &payload, &item.UpdatedBy, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		var rec schema.Record
		if err := json.Unmarshal(payload, &rec); err == nil {
			flat := schema.ToFlat(rec)
			item.ClientName = flat.String("clientName")
			item.City = flat.String("city")
			item.BankName = flat.String("bankName")
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
