// Package assets resolves the asset lists of an editing session against
// durable object storage.
package assets

import (
	"siteval/api/internal/schema"
)

// Ref is one image or document on the editing surface. Exactly one of
// {Data, URL} is meaningfully populated: a local-pending ref carries file
// bytes and no durable URL, a persisted ref carries a URL and no bytes. A
// local-pending ref must never be written to the domain record.
type Ref struct {
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`
	Data []byte `json:"data,omitempty"`
}

// IsPending reports whether the ref still awaits upload.
func (r Ref) IsPending() bool {
	return r.URL == "" && len(r.Data) > 0
}

// IsPersisted reports whether the ref has a durable URL.
func (r Ref) IsPersisted() bool {
	return r.URL != ""
}

// Stored converts a persisted ref to its record representation.
func (r Ref) Stored() schema.StoredAsset {
	return schema.StoredAsset{URL: r.URL, Name: r.Name, Size: r.Size}
}

// FromStored converts a record asset back into a persisted ref for the
// editing surface.
func FromStored(a schema.StoredAsset) Ref {
	return Ref{URL: a.URL, Name: a.Name, Size: a.Size}
}

// FromStoredList converts a record asset list.
func FromStoredList(list []schema.StoredAsset) []Ref {
	if list == nil {
		return nil
	}
	out := make([]Ref, len(list))
	for i, a := range list {
		out[i] = FromStored(a)
	}
	return out
}
