package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"siteval/api/internal/assets"
	"siteval/api/internal/export"
	"siteval/api/internal/schema"
	"siteval/api/internal/search"
	"siteval/api/internal/store"
	"siteval/api/internal/util"
	"siteval/api/internal/workflow"
)

// Exporter renders a record as a downloadable file.
type Exporter interface {
	ExportPDF(ctx context.Context, recordID string) (*export.Result, error)
}

type HTTPServer struct {
	service    *Service
	exporter   Exporter
	corsOrigin string
}

// NewHTTPServer wires the service behind HTTP. exporter may be nil when
// PDF export is not configured.
func NewHTTPServer(service *Service, exporter Exporter, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, exporter: exporter, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}
		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{"status": "error", "error": err.Error()}
		}
		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/valuations" {
		s.handleDashboard(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/valuations" {
		state, err := s.service.Open(r.Context(), session, util.NewID("val"))
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, state)
		return
	}

	parts := splitPath(r.URL.Path)
	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "valuations" {
		s.handleValuation(w, r, session, parts[2], parts)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	statusFilter := strings.TrimSpace(r.URL.Query().Get("status"))
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be an integer", nil)
			return
		}
		limit = parsed
	}

	if q != "" || statusFilter != "" {
		payload := s.service.Search(r.Context(), search.Query{Text: q, Status: statusFilter, Limit: limit})
		writeJSON(w, http.StatusOK, payload)
		return
	}

	items, err := s.service.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Could not list records", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": items})
}

func (s *HTTPServer) handleValuation(w http.ResponseWriter, r *http.Request, session Session, recordID string, parts []string) {
	if len(parts) == 3 {
		switch r.Method {
		case http.MethodGet:
			state, err := s.service.Open(r.Context(), session, recordID)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, state)
			return
		case http.MethodPut:
			s.handleSubmit(w, r, session, recordID)
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	if len(parts) == 4 && parts[3] == "draft" && r.Method == http.MethodPost {
		var body struct {
			Fields schema.FlatFieldSet  `json:"fields"`
			Custom []schema.CustomField `json:"customFields"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.MirrorDraft(r.Context(), session, recordID, body.Fields, body.Custom); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if len(parts) == 4 && parts[3] == "status" && r.Method == http.MethodPost {
		var body struct {
			Status   string `json:"status"`
			Feedback string `json:"feedback"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		state, err := s.service.Review(r.Context(), session, recordID, body.Status, body.Feedback)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, state)
		return
	}

	if len(parts) == 4 && parts[3] == "history" && r.Method == http.MethodGet {
		limit := 50
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		items, err := s.service.History(recordID, limit)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"history": items})
		return
	}

	if len(parts) == 5 && parts[3] == "history" && r.Method == http.MethodGet {
		payload, err := s.service.PayloadAt(recordID, parts[4])
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}

	if len(parts) == 4 && parts[3] == "export" && r.Method == http.MethodGet {
		if s.exporter == nil {
			writeError(w, http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "PDF export is not configured", nil)
			return
		}
		result, err := s.exporter.ExportPDF(r.Context(), recordID)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Filename+"\"")
		w.Header().Set("Content-Type", result.MimeType)
		_, _ = w.Write(result.Data)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleSubmit(w http.ResponseWriter, r *http.Request, session Session, recordID string) {
	var body struct {
		Fields        schema.FlatFieldSet     `json:"fields"`
		Custom        []schema.CustomField    `json:"customFields"`
		Items         []schema.ValuationItem  `json:"valuationItems"`
		Photos        []assets.Ref            `json:"photos"`
		LocationPhoto []assets.Ref            `json:"locationPhoto"`
		Documents     []assets.Ref            `json:"documents"`
		AreaPhotos    map[string][]assets.Ref `json:"areaPhotos"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if body.Fields == nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "fields are required", nil)
		return
	}

	state, err := s.service.Submit(r.Context(), session, SubmitInput{
		RecordID:      recordID,
		Fields:        body.Fields,
		Custom:        body.Custom,
		Items:         body.Items,
		Photos:        body.Photos,
		LocationPhoto: body.LocationPhoto,
		Documents:     body.Documents,
		AreaPhotos:    body.AreaPhotos,
	})
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// requireSession reads the caller identity asserted by the gateway. There
// is no credential handling here; the headers are trusted upstream.
func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-User-Id header is required", nil)
		return Session{}, false
	}
	userName := strings.TrimSpace(r.Header.Get("X-User-Name"))
	if userName == "" {
		userName = userID
	}
	return Session{
		UserID:   userID,
		UserName: userName,
		Role:     workflow.NormalizeRole(strings.TrimSpace(r.Header.Get("X-Role"))),
	}, true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id, X-User-Name, X-Role, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, export.ErrPDFDependencyMissing) {
		return http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "PDF export dependency missing", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
