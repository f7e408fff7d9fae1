package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"siteval/api/internal/schema"
)

// PgFTS is the Postgres fallback searcher, querying the jsonb payload of
// valuation_records directly.
type PgFTS struct {
	db *sql.DB
}

func NewPgFTS(db *sql.DB) *PgFTS {
	return &PgFTS{db: db}
}

// Search matches the query text against client name, address, and city.
func (p *PgFTS) Search(ctx context.Context, q Query) ([]RecordDoc, int64, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, status, payload, updated_at
		FROM valuation_records
		WHERE ($1 = '' OR
			payload->'sections'->'ownerDetails'->>'clientName' ILIKE '%'||$1||'%' OR
			payload->'sections'->'ownerDetails'->>'address' ILIKE '%'||$1||'%' OR
			payload->'sections'->'cityClassification'->>'city' ILIKE '%'||$1||'%')
		AND ($2 = '' OR status = $2)
		ORDER BY updated_at DESC
		LIMIT $3
	`
	rows, err := p.db.QueryContext(ctx, query, q.Text, q.Status, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("pgfts search: %w", err)
	}
	defer rows.Close()

	var results []RecordDoc
	for rows.Next() {
		var (
			doc     RecordDoc
			payload []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Status, &payload, &doc.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan search row: %w", err)
		}
		var rec schema.Record
		if err := json.Unmarshal(payload, &rec); err == nil {
			fillDoc(&doc, rec)
		}
		results = append(results, doc)
	}
	return results, int64(len(results)), rows.Err()
}

// LoadAllDocs reads every record for reindexing into Meilisearch.
func (p *PgFTS) LoadAllDocs(ctx context.Context) ([]RecordDoc, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, status, payload, updated_at FROM valuation_records`)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var docs []RecordDoc
	for rows.Next() {
		var (
			doc     RecordDoc
			payload []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Status, &payload, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var rec schema.Record
		if err := json.Unmarshal(payload, &rec); err == nil {
			fillDoc(&doc, rec)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func fillDoc(doc *RecordDoc, rec schema.Record) {
	flat := schema.ToFlat(rec)
	doc.ClientName = flat.String("clientName")
	doc.Address = flat.String("address")
	doc.City = flat.String("city")
	doc.BankName = flat.String("bankName")
}
