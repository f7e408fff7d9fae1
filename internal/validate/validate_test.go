package validate

import (
	"strings"
	"testing"

	"siteval/api/internal/schema"
)

func validFields() schema.FlatFieldSet {
	f := schema.Defaults()
	f["clientName"] = "Asha Rao"
	f["address"] = "12 Lake View Road, Chennai"
	f["mobileNumber"] = "98765-43210"
	f["bankName"] = "HDFC"
	f["city"] = "Chennai"
	f["dsa"] = "Prime Finance"
	f["engineerName"] = "R. Kumar"
	return f
}

func contains(violations []string, fragment string) bool {
	for _, v := range violations {
		if strings.Contains(v, fragment) {
			return true
		}
	}
	return false
}

func TestValidFieldsPass(t *testing.T) {
	if violations := Validate(validFields()); len(violations) != 0 {
		t.Errorf("expected no violations, got %v", violations)
	}
}

func TestMobileNumberMustBeTenDigits(t *testing.T) {
	f := validFields()
	f["mobileNumber"] = "12345"
	if violations := Validate(f); !contains(violations, "10 digits") {
		t.Errorf("expected a 10 digits violation, got %v", violations)
	}

	// Non-digits are stripped before counting.
	f["mobileNumber"] = "(987) 654-3210"
	if violations := Validate(f); contains(violations, "10 digits") {
		t.Errorf("formatted 10-digit number should pass, got %v", violations)
	}
}

func TestRequiredFields(t *testing.T) {
	f := validFields()
	f["clientName"] = "  "
	f["address"] = ""
	violations := Validate(f)
	if !contains(violations, "Client name") || !contains(violations, "Address") {
		t.Errorf("expected client name and address violations, got %v", violations)
	}
}

func TestOtherSentinelRedirectsToFreeText(t *testing.T) {
	f := validFields()
	f["bankName"] = "Other"
	f["otherBankName"] = ""
	if violations := Validate(f); !contains(violations, "Bank name") {
		t.Errorf("Other with empty free text should fail, got %v", violations)
	}

	f["otherBankName"] = "Canara Bank"
	if violations := Validate(f); contains(violations, "Bank name") {
		t.Errorf("Other with free text should pass, got %v", violations)
	}
}

func TestCollectedByRequiredOnlyWhenPaymentCollected(t *testing.T) {
	f := validFields()
	f["paymentCollected"] = false
	f["collectedByName"] = ""
	if violations := Validate(f); contains(violations, "Collected-by") {
		t.Errorf("collected-by should be optional without payment, got %v", violations)
	}

	f["paymentCollected"] = true
	if violations := Validate(f); !contains(violations, "Collected-by") {
		t.Errorf("collected-by should be required with payment, got %v", violations)
	}
}

func TestCoordinatesOptionalAsAPair(t *testing.T) {
	f := validFields()
	f["latitude"] = ""
	f["longitude"] = ""
	if violations := Validate(f); len(violations) != 0 {
		t.Errorf("empty coordinate pair should pass, got %v", violations)
	}

	f["latitude"] = "13.0827"
	if violations := Validate(f); !contains(violations, "Longitude") {
		t.Errorf("supplying one coordinate should require the other, got %v", violations)
	}

	f["longitude"] = "80.2707"
	if violations := Validate(f); len(violations) != 0 {
		t.Errorf("valid pair should pass, got %v", violations)
	}

	f["latitude"] = "95"
	if violations := Validate(f); !contains(violations, "Latitude") {
		t.Errorf("out-of-range latitude should fail, got %v", violations)
	}
}

func TestValidationIsDeterministic(t *testing.T) {
	f := schema.FlatFieldSet{"mobileNumber": "12345"}
	first := Validate(f)
	second := Validate(f)
	if len(first) != len(second) {
		t.Fatalf("violation count changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("violation order changed at %d: %q vs %q", i, first[i], second[i])
		}
	}
}
