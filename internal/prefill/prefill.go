// Package prefill seeds a brand-new record's fields from the last
// successfully saved one. It is a convenience heuristic: it must never
// block record creation, so callers swallow any failure around it.
package prefill

import (
	"siteval/api/internal/draft"
	"siteval/api/internal/schema"
)

// Apply copies the seed onto a fresh field set. The seed's fields are
// overlaid on top of the given defaults, so defaults survive for any key
// the seed does not carry; the four identity fields are then set
// explicitly. The returned custom field list is the seed's, wholesale, not
// a merge. Inputs are not mutated.
func Apply(fields schema.FlatFieldSet, seed draft.Seed) (schema.FlatFieldSet, []schema.CustomField) {
	out := fields.Clone()
	for k, v := range seed.Fields {
		out[k] = v
	}
	out["bankName"] = seed.BankName
	out["city"] = seed.City
	out["dsa"] = seed.DSA
	out["engineerName"] = seed.EngineerName
	return out, schema.CloneCustomFields(seed.Custom)
}

// SeedFrom builds the seed to store after a successful save.
func SeedFrom(fields schema.FlatFieldSet, custom []schema.CustomField) draft.Seed {
	return draft.Seed{
		Fields:       fields.Clone(),
		Custom:       schema.CloneCustomFields(custom),
		BankName:     fields.String("bankName"),
		City:         fields.String("city"),
		DSA:          fields.String("dsa"),
		EngineerName: fields.String("engineerName"),
	}
}
