package export

import (
	"context"
	"fmt"

	"siteval/api/internal/schema"
)

// RecordSource is the slice of the record store the exporter needs.
type RecordSource interface {
	GetRecord(ctx context.Context, id string) (schema.Record, error)
}

type Service struct {
	records RecordSource
}

func NewService(records RecordSource) *Service {
	return &Service{records: records}
}

// ExportPDF renders the record's summary report as a PDF.
func (s *Service) ExportPDF(ctx context.Context, recordID string) (*Result, error) {
	rec, err := s.records.GetRecord(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", recordID, err)
	}

	html, err := renderHTML(rec)
	if err != nil {
		return nil, err
	}

	flat := schema.ToFlat(rec)
	title := rec.ID
	if name := flat.String("clientName"); name != "" {
		title = rec.ID + "-" + name
	}
	return renderPDF(html, title)
}
