// Package validate checks a flat field set before a save is allowed.
package validate

import (
	"strconv"
	"strings"

	"siteval/api/internal/schema"
)

// OtherSentinel is the selector value that redirects a field to its paired
// free-text input.
const OtherSentinel = "Other"

// selectorPairs are selector fields whose value "Other" makes the paired
// free-text field the required source of truth.
var selectorPairs = []struct {
	key, otherKey, label string
}{
	{"bankName", "otherBankName", "Bank name"},
	{"city", "otherCity", "City"},
	{"dsa", "otherDsa", "DSA"},
	{"engineerName", "otherEngineerName", "Engineer name"},
}

// Resolve returns the effective value of a selector field: the paired
// free-text value when the selector is set to Other, the selector value
// otherwise.
func Resolve(fields schema.FlatFieldSet, key, otherKey string) string {
	v := strings.TrimSpace(fields.String(key))
	if strings.EqualFold(v, OtherSentinel) {
		return strings.TrimSpace(fields.String(otherKey))
	}
	return v
}

// Validate returns an ordered list of human-readable violations. An empty
// list is the only condition permitting submission. It never panics and
// never returns an error: a malformed value is a violation, not a fault.
func Validate(fields schema.FlatFieldSet) []string {
	var violations []string

	if strings.TrimSpace(fields.String("clientName")) == "" {
		violations = append(violations, "Client name is required")
	}
	if strings.TrimSpace(fields.String("address")) == "" {
		violations = append(violations, "Address is required")
	}

	if digits := digitsOnly(fields.String("mobileNumber")); len(digits) != 10 {
		violations = append(violations, "Mobile number must be 10 digits")
	}

	for _, pair := range selectorPairs {
		if Resolve(fields, pair.key, pair.otherKey) == "" {
			violations = append(violations, pair.label+" is required")
		}
	}

	if fields.Bool("paymentCollected") && strings.TrimSpace(fields.String("collectedByName")) == "" {
		violations = append(violations, "Collected-by name is required when payment is collected")
	}

	violations = append(violations, validateCoordinates(fields)...)

	return violations
}

// validateCoordinates checks latitude/longitude as a pair: both optional,
// but once either is supplied both must be plausible numbers in range.
func validateCoordinates(fields schema.FlatFieldSet) []string {
	lat := strings.TrimSpace(fields.String("latitude"))
	lon := strings.TrimSpace(fields.String("longitude"))
	if lat == "" && lon == "" {
		return nil
	}

	var violations []string
	if v, err := strconv.ParseFloat(lat, 64); err != nil || v < -90 || v > 90 {
		violations = append(violations, "Latitude must be a number between -90 and 90")
	}
	if v, err := strconv.ParseFloat(lon, 64); err != nil || v < -180 || v > 180 {
		violations = append(violations, "Longitude must be a number between -180 and 180")
	}
	return violations
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
