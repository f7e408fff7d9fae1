// Package search indexes saved valuation records for the dashboard.
// Meilisearch is preferred when healthy; Postgres is the fallback.
package search

import "time"

// RecordDoc is the searchable projection of a saved record.
type RecordDoc struct {
	ID         string    `json:"id"`
	ClientName string    `json:"clientName"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	BankName   string    `json:"bankName"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Query is a dashboard search request.
type Query struct {
	Text   string
	Status string
	Limit  int
}

// Response is a search result page.
type Response struct {
	Results []RecordDoc `json:"results"`
	Total   int64       `json:"total"`
	Query   string      `json:"query"`
}

func nonNil(r []RecordDoc) []RecordDoc {
	if r == nil {
		return []RecordDoc{}
	}
	return r
}
