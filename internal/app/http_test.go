package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler(records *fakeRecords) http.Handler {
	svc, _, _ := newTestService(records, nil, nil)
	return NewHTTPServer(svc, nil, "*").Handler()
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, asUser bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if asUser {
		req.Header.Set("X-User-Id", "u1")
		req.Header.Set("X-User-Name", "Asha Rao")
		req.Header.Set("X-Role", "user")
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(&fakeRecords{})
	recorder := doRequest(t, handler, http.MethodGet, "/api/health", "", false)
	if recorder.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", recorder.Code)
	}
}

func TestMissingIdentityHeaderIsUnauthorized(t *testing.T) {
	handler := newTestHandler(&fakeRecords{})
	recorder := doRequest(t, handler, http.MethodGet, "/api/valuations/V-100", "", false)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestOpenUnknownRecordReturnsNewState(t *testing.T) {
	handler := newTestHandler(&fakeRecords{})
	recorder := doRequest(t, handler, http.MethodGet, "/api/valuations/V-100", "", true)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var state EditorState
	if err := json.Unmarshal(recorder.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !state.IsNew || state.RecordID != "V-100" {
		t.Errorf("state = %+v, want new record V-100", state)
	}
}

func TestCreateRecordReturnsGeneratedID(t *testing.T) {
	handler := newTestHandler(&fakeRecords{})
	recorder := doRequest(t, handler, http.MethodPost, "/api/valuations", "", true)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", recorder.Code)
	}
	var state EditorState
	if err := json.Unmarshal(recorder.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(state.RecordID, "val_") {
		t.Errorf("record id = %q, want val_ prefix", state.RecordID)
	}
	if !state.IsNew {
		t.Error("created record should be new")
	}
}

func TestSubmitWithoutFieldsIsRejected(t *testing.T) {
	handler := newTestHandler(&fakeRecords{})
	recorder := doRequest(t, handler, http.MethodPut, "/api/valuations/V-100", `{}`, true)
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", recorder.Code)
	}
}

func TestSubmitValidationErrorShape(t *testing.T) {
	handler := newTestHandler(&fakeRecords{})
	body := `{"fields":{"clientName":"","address":"12 Lake View Road","mobileNumber":"98765"}}`
	recorder := doRequest(t, handler, http.MethodPut, "/api/valuations/V-100", body, true)
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", recorder.Code)
	}
	var response struct {
		Code    string `json:"code"`
		Details struct {
			Violations []string `json:"violations"`
		} `json:"details"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", response.Code)
	}
	if len(response.Details.Violations) == 0 {
		t.Error("expected violation messages in details")
	}
}

func TestStatusChangeForbiddenForUserRole(t *testing.T) {
	handler := newTestHandler(&fakeRecords{})
	body := `{"status":"approved"}`
	recorder := doRequest(t, handler, http.MethodPost, "/api/valuations/V-100/status", body, true)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", recorder.Code)
	}
}

func TestExportUnavailableWithoutExporter(t *testing.T) {
	handler := newTestHandler(&fakeRecords{})
	recorder := doRequest(t, handler, http.MethodGet, "/api/valuations/V-100/export", "", true)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", recorder.Code)
	}
}
