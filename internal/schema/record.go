// Package schema defines the canonical nested valuation record, the flat
// editable field view, and the bidirectional translation between them.
package schema

import (
	"fmt"
	"strings"
	"time"
)

// Record is the persisted valuation report. Sections holds the nested form
// data as decoded JSON so that fields from older schema revisions remain
// addressable by path. Flat carries the legacy single-level copy written by
// earlier clients; on translation the nested location always wins and the
// flat value is the fallback for fields not yet migrated.
type Record struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Feedback  string          `json:"feedback,omitempty"`
	Sections  map[string]any  `json:"sections"`
	Flat      FlatFieldSet    `json:"pdfDetails,omitempty"`
	Custom    []CustomField   `json:"customFields,omitempty"`
	Items     []ValuationItem `json:"valuationItems,omitempty"`
	Assets    AssetURLs       `json:"assets"`
	UpdatedBy string          `json:"updatedBy,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt,omitempty"`
}

// FlatFieldSet is the single-level key/value view bound to the editing
// surface. It is a cache of the record, never the system of record.
type FlatFieldSet map[string]any

// Clone returns a shallow copy. Values are scalars, so a shallow copy is a
// full copy for translation purposes.
func (f FlatFieldSet) Clone() FlatFieldSet {
	out := make(FlatFieldSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// String returns the field as a string, tolerating numeric and bool values.
func (f FlatFieldSet) String(key string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return trimFloat(t)
	case int:
		return fmt.Sprintf("%d", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Bool returns the field as a bool, tolerating string encodings.
func (f FlatFieldSet) Bool(key string) bool {
	switch t := f[key].(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true") || t == "1" || strings.EqualFold(t, "yes")
	case float64:
		return t != 0
	default:
		return false
	}
}

// CustomField is a user-managed name/value pair independent of the fixed
// schema. Names are unique case-insensitively within a record and keep
// insertion order.
type CustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AddCustomField appends a custom field, rejecting case-insensitive
// duplicates and blank names.
func AddCustomField(list []CustomField, name, value string) ([]CustomField, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return list, fmt.Errorf("custom field name is required")
	}
	for _, existing := range list {
		if strings.EqualFold(existing.Name, trimmed) {
			return list, fmt.Errorf("custom field %q already exists", existing.Name)
		}
	}
	return append(list, CustomField{Name: trimmed, Value: value}), nil
}

// CloneCustomFields returns an independent copy of the list.
func CloneCustomFields(list []CustomField) []CustomField {
	if list == nil {
		return nil
	}
	out := make([]CustomField, len(list))
	copy(out, list)
	return out
}

// ValuationItem is one row of the valuation line-items table.
type ValuationItem struct {
	Description string  `json:"description"`
	Area        float64 `json:"area"`
	RatePerUnit float64 `json:"ratePerUnit"`
	Amount      float64 `json:"amount"`
}

// StoredAsset is a durably stored image or document.
type StoredAsset struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// AssetURLs groups the persisted asset lists of a record. LocationPhoto
// holds at most one entry.
type AssetURLs struct {
	Photos        []StoredAsset            `json:"photos,omitempty"`
	LocationPhoto []StoredAsset            `json:"locationPhoto,omitempty"`
	Documents     []StoredAsset            `json:"documents,omitempty"`
	AreaPhotos    map[string][]StoredAsset `json:"areaPhotos,omitempty"`
}
