package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode"

	"siteval/api/internal/schema"
)

// TemplateData is the rendered summary of one record.
type TemplateData struct {
	Title       string
	RecordID    string
	Status      string
	GeneratedAt time.Time
	Sections    []TemplateSection
	Custom      []schema.CustomField
	Items       []schema.ValuationItem
}

// TemplateSection is one titled block of label/value rows.
type TemplateSection struct {
	Name string
	Rows []TemplateRow
}

type TemplateRow struct {
	Label string
	Value string
}

var recordTemplate = template.Must(template.New("record").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Georgia, serif; color: #1a1a1a; font-size: 12px; }
h1 { font-size: 20px; border-bottom: 2px solid #1a1a1a; padding-bottom: 6px; }
h2 { font-size: 14px; margin-top: 18px; }
table { width: 100%; border-collapse: collapse; margin-top: 6px; }
td, th { border: 1px solid #999; padding: 4px 8px; text-align: left; vertical-align: top; }
td.label { width: 40%; color: #444; }
.meta { color: #666; font-size: 11px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Record {{.RecordID}} &middot; Status: {{.Status}} &middot; Generated {{.GeneratedAt.Format "02 Jan 2006 15:04"}}</p>
{{range .Sections}}
<h2>{{.Name}}</h2>
<table>
{{range .Rows}}<tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{end}}
{{if .Items}}
<h2>Valuation Details</h2>
<table>
<tr><th>Description</th><th>Area</th><th>Rate per Unit</th><th>Amount</th></tr>
{{range .Items}}<tr><td>{{.Description}}</td><td>{{.Area}}</td><td>{{.RatePerUnit}}</td><td>{{.Amount}}</td></tr>
{{end}}</table>
{{end}}
{{if .Custom}}
<h2>Additional Fields</h2>
<table>
{{range .Custom}}<tr><td class="label">{{.Name}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{end}}
</body>
</html>`))

// buildTemplateData projects a record into displayable sections, grouped by
// the mapping table's canonical sections in table order. Empty values are
// skipped; the "other" free-text indirection is left to the raw values.
func buildTemplateData(rec schema.Record) TemplateData {
	flat := schema.ToFlat(rec)

	title := flat.String("clientName")
	if title == "" {
		title = "Valuation Report"
	} else {
		title = "Valuation Report - " + title
	}

	var (
		sections []TemplateSection
		current  *TemplateSection
		lastName string
	)
	for _, fm := range schema.Mappings {
		sectionKey := fm.Sources[0][:strings.IndexByte(fm.Sources[0], '.')]
		if sectionKey != lastName {
			sections = append(sections, TemplateSection{Name: humanize(sectionKey)})
			current = &sections[len(sections)-1]
			lastName = sectionKey
		}
		value := displayValue(flat, fm)
		if value == "" {
			continue
		}
		current.Rows = append(current.Rows, TemplateRow{Label: humanize(fm.Flat), Value: value})
	}

	// Drop sections with nothing to show.
	filtered := sections[:0]
	for _, s := range sections {
		if len(s.Rows) > 0 {
			filtered = append(filtered, s)
		}
	}

	return TemplateData{
		Title:       title,
		RecordID:    rec.ID,
		Status:      rec.Status,
		GeneratedAt: time.Now(),
		Sections:    filtered,
		Custom:      rec.Custom,
		Items:       rec.Items,
	}
}

func displayValue(flat schema.FlatFieldSet, fm schema.FieldMapping) string {
	switch fm.Kind {
	case schema.KindBool:
		if flat.Bool(fm.Flat) {
			return "Yes"
		}
		return ""
	case schema.KindNumber:
		s := flat.String(fm.Flat)
		if s == "0" {
			return ""
		}
		return s
	default:
		return strings.TrimSpace(flat.String(fm.Flat))
	}
}

// humanize turns a camelCase key into a spaced, capitalized label.
func humanize(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func renderHTML(rec schema.Record) (string, error) {
	var buf bytes.Buffer
	if err := recordTemplate.Execute(&buf, buildTemplateData(rec)); err != nil {
		return "", fmt.Errorf("render record template: %w", err)
	}
	return buf.String(), nil
}
