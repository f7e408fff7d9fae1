package search

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxRecords = "siteval_records"

// Meili indexes and searches records via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the records index.
// The client starts unhealthy if the initial connection fails and recovers
// through the background health loop.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxRecords,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("search: create index %s (may already exist): %v", idxRecords, err)
	}

	index := m.client.Index(idxRecords)
	filterable := []interface{}{"status", "bankName", "city"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("search: update filterable attrs: %v", err)
	}
	searchable := []string{"clientName", "address", "city"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("search: update searchable attrs: %v", err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Printf("search: meilisearch recovered")
				m.configureIndex()
			}
			if err != nil && wasHealthy {
				log.Printf("search: meilisearch went away: %v", err)
			}
		}
	}
}

// Healthy reports the last observed health state.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Close stops the health loop.
func (m *Meili) Close() {
	close(m.done)
}

// IndexRecord upserts one record document.
func (m *Meili) IndexRecord(doc RecordDoc) error {
	if _, err := m.client.Index(idxRecords).UpdateDocuments([]RecordDoc{doc}, nil); err != nil {
		return fmt.Errorf("index record %s: %w", doc.ID, err)
	}
	return nil
}

// IndexRecords upserts a batch of record documents.
func (m *Meili) IndexRecords(docs []RecordDoc) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := m.client.Index(idxRecords).UpdateDocuments(docs, nil); err != nil {
		return fmt.Errorf("index records: %w", err)
	}
	return nil
}

// Search runs a text query with an optional status filter.
func (m *Meili) Search(q Query) ([]RecordDoc, int64, error) {
	limit := int64(q.Limit)
	if limit <= 0 {
		limit = 50
	}
	req := &meili.SearchRequest{Limit: limit}
	if q.Status != "" {
		req.Filter = fmt.Sprintf("status = %q", q.Status)
	}

	res, err := m.client.Index(idxRecords).Search(strings.TrimSpace(q.Text), req)
	if err != nil {
		return nil, 0, fmt.Errorf("meili search: %w", err)
	}

	results := make([]RecordDoc, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc RecordDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		results = append(results, doc)
	}
	return results, res.EstimatedTotalHits, nil
}
