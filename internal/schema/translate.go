package schema

import (
	"strconv"
	"strings"
)

// ToFlat derives the editable flat view from a record. Resolution order per
// field: the first nested source path whose key exists (an explicit empty
// string counts as present), then the record's legacy flat value, then the
// kind default. Legacy flat entries not covered by the mapping table are
// preserved verbatim so round-tripping never loses fields. The input is not
// mutated.
func ToFlat(rec Record) FlatFieldSet {
	out := Defaults()
	for k, v := range rec.Flat {
		out[k] = v
	}
	for _, fm := range Mappings {
		if v, ok := lookupFirst(rec.Sections, fm.Sources); ok {
			out[fm.Flat] = coerce(v, fm.Kind)
		}
	}
	return out
}

// ToNested rebuilds the nested sections from a flat field set. Each nested
// field has exactly one flat source; numeric fields default to zero,
// booleans to false, everything else to the empty string. The input is not
// mutated.
func ToNested(flat FlatFieldSet) map[string]any {
	sections := make(map[string]any)
	for _, fm := range Mappings {
		section, field, ok := splitPath(fm.Sources[0])
		if !ok {
			continue
		}
		sec, _ := sections[section].(map[string]any)
		if sec == nil {
			sec = make(map[string]any)
			sections[section] = sec
		}
		sec[field] = coerce(flat[fm.Flat], fm.Kind)
	}
	return sections
}

// lookupFirst walks the source paths in priority order and returns the
// first value whose key exists. A missing or malformed section never
// errors; it just falls through to the next source.
func lookupFirst(sections map[string]any, sources []string) (any, bool) {
	for _, path := range sources {
		section, field, ok := splitPath(path)
		if !ok {
			continue
		}
		sec, ok := sections[section].(map[string]any)
		if !ok {
			continue
		}
		if v, ok := sec[field]; ok {
			return v, true
		}
	}
	return nil, false
}

func splitPath(path string) (section, field string, ok bool) {
	i := strings.IndexByte(path, '.')
	if i <= 0 || i == len(path)-1 {
		return "", "", false
	}
	return path[:i], path[i+1:], true
}

// coerce normalizes a raw JSON value to the field's kind. nil yields the
// kind default.
func coerce(v any, kind Kind) any {
	switch kind {
	case KindNumber:
		return toNumber(v)
	case KindBool:
		return toBool(v)
	default:
		return toString(v)
	}
}

func toNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func toBool(v any) bool {
	switch t := v.(type) {
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

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return trimFloat(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
