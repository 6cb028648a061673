package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/recordfilter/internal/api"
	"github.com/TimurManjosov/recordfilter/internal/filter"
	"github.com/TimurManjosov/recordfilter/internal/predicate"
)

// NewTestServer creates a server backed by the default predicate registry
// with logging discarded.
func NewTestServer(t *testing.T, opts api.Options) *api.Server {
	t.Helper()
	svc := filter.NewService(predicate.Default(), zerolog.Nop())
	return api.NewServer(svc, zerolog.Nop(), opts)
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// FilterBody builds a filter request body from a data array and a condition.
func FilterBody(t *testing.T, data []map[string]any, condition map[string]any) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{"data": data, "condition": condition})
	if err != nil {
		t.Fatalf("marshal filter body: %v", err)
	}
	return string(b)
}

// DecodeRecords decodes a successful filter response into the records it
// lists.
func DecodeRecords(t *testing.T, rr *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var texts []string
	if err := json.NewDecoder(rr.Body).Decode(&texts); err != nil {
		t.Fatalf("decode filter response: %v", err)
	}
	records := make([]map[string]any, len(texts))
	for i, text := range texts {
		if err := json.Unmarshal([]byte(text), &records[i]); err != nil {
			t.Fatalf("record %d is not JSON: %v", i, err)
		}
	}
	return records
}
