package schema

import (
	"reflect"
	"testing"
)

func sampleRecord() Record {
	return Record{
		ID: "V-100",
		Sections: map[string]any{
			"ownerDetails": map[string]any{
				"clientName":   "Asha Rao",
				"address":      "12 Lake View Road",
				"mobileNumber": "9876543210",
			},
			"documentInfo": map[string]any{
				"bankName": "HDFC",
				"dsa":      "Prime Finance",
			},
			"rateInfo": map[string]any{
				"landRate": 1250.0,
			},
			"facilities": map[string]any{
				"lift": true,
			},
		},
	}
}

func TestToFlatReadsCanonicalLocations(t *testing.T) {
	flat := ToFlat(sampleRecord())

	if got := flat.String("clientName"); got != "Asha Rao" {
		t.Errorf("clientName = %q, want Asha Rao", got)
	}
	if got := flat.String("bankName"); got != "HDFC" {
		t.Errorf("bankName = %q, want HDFC", got)
	}
	if got, ok := flat["landRate"].(float64); !ok || got != 1250 {
		t.Errorf("landRate = %v, want 1250", flat["landRate"])
	}
	if !flat.Bool("lift") {
		t.Error("lift should be true")
	}
}

func TestToFlatCurrentSchemaWinsOverLegacyFlat(t *testing.T) {
	rec := sampleRecord()
	rec.Flat = FlatFieldSet{"bankName": "SBI"}

	flat := ToFlat(rec)
	if got := flat.String("bankName"); got != "HDFC" {
		t.Errorf("bankName = %q, want nested HDFC over legacy flat SBI", got)
	}
}

func TestToFlatLegacyNestedLocationFallback(t *testing.T) {
	rec := Record{
		Sections: map[string]any{
			"propertyBoundaries": map[string]any{"north": "Plot 14"},
		},
	}

	flat := ToFlat(rec)
	if got := flat.String("northBy"); got != "Plot 14" {
		t.Errorf("northBy = %q, want legacy propertyBoundaries.north value", got)
	}
}

func TestToFlatExplicitEmptyStringIsPresent(t *testing.T) {
	rec := Record{
		Sections: map[string]any{
			"documentInfo": map[string]any{"bankName": ""},
		},
		Flat: FlatFieldSet{"bankName": "Axis"},
	}

	flat := ToFlat(rec)
	if got := flat.String("bankName"); got != "" {
		t.Errorf("bankName = %q, want empty: explicit empty nested value wins", got)
	}
}

func TestToFlatPreservesUnknownLegacyFields(t *testing.T) {
	rec := sampleRecord()
	rec.Flat = FlatFieldSet{"legacyOnlyKey": "keep me"}

	flat := ToFlat(rec)
	if got := flat.String("legacyOnlyKey"); got != "keep me" {
		t.Errorf("legacyOnlyKey = %q, want preserved verbatim", got)
	}
}

func TestToFlatFlatFallbackWhenNestedMissing(t *testing.T) {
	rec := Record{Flat: FlatFieldSet{"village": "Kondapur"}}

	flat := ToFlat(rec)
	if got := flat.String("village"); got != "Kondapur" {
		t.Errorf("village = %q, want flat fallback Kondapur", got)
	}
}

func TestToFlatMissingSectionsUseDefaults(t *testing.T) {
	flat := ToFlat(Record{})
	if !reflect.DeepEqual(flat, Defaults()) {
		t.Error("empty record should translate to the default field set")
	}
}

func TestToFlatDoesNotMutateInput(t *testing.T) {
	rec := sampleRecord()
	rec.Flat = FlatFieldSet{"extra": "x"}
	_ = ToFlat(rec)

	if len(rec.Flat) != 1 || rec.Flat["extra"] != "x" {
		t.Error("ToFlat mutated the input record's flat map")
	}
	owner := rec.Sections["ownerDetails"].(map[string]any)
	if owner["clientName"] != "Asha Rao" {
		t.Error("ToFlat mutated the input record's sections")
	}
}

func TestToNestedBuildsCanonicalSections(t *testing.T) {
	flat := Defaults()
	flat["clientName"] = "Asha Rao"
	flat["landRate"] = "1250"
	flat["lift"] = "true"

	nested := ToNested(flat)

	owner, _ := nested["ownerDetails"].(map[string]any)
	if owner == nil || owner["clientName"] != "Asha Rao" {
		t.Fatalf("ownerDetails.clientName = %v, want Asha Rao", owner)
	}
	rate, _ := nested["rateInfo"].(map[string]any)
	if rate == nil || rate["landRate"] != float64(1250) {
		t.Errorf("rateInfo.landRate = %v, want 1250 coerced to number", rate)
	}
	fac, _ := nested["facilities"].(map[string]any)
	if fac == nil || fac["lift"] != true {
		t.Errorf("facilities.lift = %v, want true", fac)
	}
}

func TestToNestedNumericZeroDefault(t *testing.T) {
	nested := ToNested(FlatFieldSet{"fairMarketValue": "not a number"})
	result, _ := nested["valuationResult"].(map[string]any)
	if result == nil || result["fairMarketValue"] != float64(0) {
		t.Errorf("fairMarketValue = %v, want 0", result)
	}
}

func TestTranslationRoundTripIsStable(t *testing.T) {
	rec := sampleRecord()

	first := ToFlat(rec)
	nested := ToNested(first)
	second := ToFlat(Record{Sections: nested, Flat: first})
	if !reflect.DeepEqual(ToNested(second), nested) {
		t.Error("nested projection changed across a round trip")
	}

	third := ToFlat(Record{Sections: ToNested(second), Flat: second})
	if !reflect.DeepEqual(third, second) {
		t.Error("flat set changed on a repeated forward translation")
	}
}

func TestRoundTripPreservesUnderstoodFields(t *testing.T) {
	rec := sampleRecord()
	nested := ToNested(ToFlat(rec))

	owner, _ := nested["ownerDetails"].(map[string]any)
	if owner["clientName"] != "Asha Rao" || owner["mobileNumber"] != "9876543210" {
		t.Errorf("ownerDetails lost fields across round trip: %v", owner)
	}
	rate, _ := nested["rateInfo"].(map[string]any)
	if rate["landRate"] != float64(1250) {
		t.Errorf("rateInfo.landRate = %v, want 1250", rate["landRate"])
	}
}

func TestAddCustomField(t *testing.T) {
	list, err := AddCustomField(nil, "Lift Certificate", "available")
	if err != nil {
		t.Fatalf("AddCustomField failed: %v", err)
	}
	if _, err := AddCustomField(list, "lift certificate", "dup"); err == nil {
		t.Error("expected case-insensitive duplicate to be rejected")
	}
	if _, err := AddCustomField(list, "   ", "x"); err == nil {
		t.Error("expected blank name to be rejected")
	}
	list, err = AddCustomField(list, "Parking Slot", "P-12")
	if err != nil {
		t.Fatalf("AddCustomField failed: %v", err)
	}
	if list[0].Name != "Lift Certificate" || list[1].Name != "Parking Slot" {
		t.Errorf("insertion order not preserved: %v", list)
	}
}

func TestMappingTableIsWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, fm := range Mappings {
		if fm.Flat == "" || len(fm.Sources) == 0 {
			t.Fatalf("mapping entry %+v is incomplete", fm)
		}
		if seen[fm.Flat] {
			t.Errorf("duplicate flat key %q", fm.Flat)
		}
		seen[fm.Flat] = true
		for _, src := range fm.Sources {
			if _, _, ok := splitPath(src); !ok {
				t.Errorf("source %q of %q is not a section.field path", src, fm.Flat)
			}
		}
	}
}
