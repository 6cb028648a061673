package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/TimurManjosov/recordfilter/internal/api"
	"github.com/TimurManjosov/recordfilter/internal/filter"
	"github.com/TimurManjosov/recordfilter/internal/testutil"
)

func newTestRouter(t *testing.T, opts api.Options) http.Handler {
	t.Helper()
	return testutil.NewTestServer(t, opts).Router()
}

func postFilter(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := &testutil.HTTPRequest{Method: http.MethodPost, Path: path, Body: body}
	return req.Do(t, handler)
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := &testutil.HTTPRequest{Method: http.MethodGet, Path: path}
	return req.Do(t, handler)
}

func TestHealthz(t *testing.T) {
	handler := newTestRouter(t, api.Options{})

	rr := get(t, handler, "/healthz")

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("Expected body 'ok', got '%s'", rr.Body.String())
	}
}

func TestHandleFilter_Include(t *testing.T) {
	handler := newTestRouter(t, api.Options{})

	for _, path := range []string{"/api/FilterData", "/v1/filter"} {
		t.Run(path, func(t *testing.T) {
			body := `{"data": [{"a":1},{"a":2}], "condition": {"include": {"a": 1}}}`
			rr := postFilter(t, handler, path, body)

			if rr.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}
			var records []string
			if err := json.NewDecoder(rr.Body).Decode(&records); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if len(records) != 1 || records[0] != "{\n  \"a\": 1\n}" {
				t.Errorf("Expected one pretty-printed record, got %q", records)
			}
		})
	}
}

func TestHandleFilter_EmptyResultIsEmptyArray(t *testing.T) {
	handler := newTestRouter(t, api.Options{})

	rr := postFilter(t, handler, "/v1/filter", `{"data": [{"a":1}], "condition": {"include": {"a": 5}}}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("Expected '[]', got '%s'", got)
	}
}

func TestHandleFilter_Exclude(t *testing.T) {
	handler := newTestRouter(t, api.Options{})

	body := testutil.FilterBody(t,
		[]map[string]any{{"plan": "free", "id": 1}, {"plan": "premium", "id": 2}, {"plan": "free", "id": 3}},
		map[string]any{"exclude": map[string]any{"plan": "free"}},
	)
	rr := postFilter(t, handler, "/api/FilterData", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	records := testutil.DecodeRecords(t, rr)
	if len(records) != 1 || records[0]["plan"] != "premium" {
		t.Errorf("Expected only the premium record, got %v", records)
	}
}

func TestHandleFilter_ValidationErrors(t *testing.T) {
	handler := newTestRouter(t, api.Options{})

	tests := []struct {
		name       string
		body       string
		wantErrors []string
	}{
		{name: "empty body", body: "", wantErrors: []string{filter.MsgNotObject}},
		{name: "missing both", body: `{}`, wantErrors: []string{filter.MsgDataNull, filter.MsgConditionNull}},
		{name: "data not a list", body: `{"data": "not-an-array", "condition": {}}`, wantErrors: []string{filter.MsgDataNotList}},
		{
			name:       "missing field",
			body:       `{"data": [{"a":1},{"b":1}], "condition": {"exclude": {"a": 1}}}`,
			wantErrors: []string{filter.MsgFieldNotInData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postFilter(t, handler, "/v1/filter", tt.body)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
			var resp api.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Code != api.ErrCodeValidation {
				t.Errorf("Expected Code VALIDATION_ERROR, got '%s'", resp.Code)
			}
			if strings.Join(resp.Errors, "|") != strings.Join(tt.wantErrors, "|") {
				t.Errorf("Expected errors %q, got %q", tt.wantErrors, resp.Errors)
			}
			if resp.RequestID == "" {
				t.Error("Expected request_id in error response")
			}
		})
	}
}

func TestHandleFilter_MalformedJSON(t *testing.T) {
	handler := newTestRouter(t, api.Options{})

	rr := postFilter(t, handler, "/v1/filter", "{not json")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rr.Code)
	}
	var resp api.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Code != api.ErrCodeInvalidJSON {
		t.Errorf("Expected Code INVALID_JSON, got '%s'", resp.Code)
	}
	if len(resp.Errors) != 0 {
		t.Errorf("Parse failures must not carry a validation log, got %q", resp.Errors)
	}
}

func TestHandleFilter_BodyTooLarge(t *testing.T) {
	handler := newTestRouter(t, api.Options{MaxBodyBytes: 32})

	body := `{"data": [{"a":1},{"a":2},{"a":3}], "condition": {}}`
	rr := postFilter(t, handler, "/v1/filter", body)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected status 413, got %d", rr.Code)
	}
}

func TestHandleFilter_ETagIsDeterministic(t *testing.T) {
	handler := newTestRouter(t, api.Options{})
	body := `{"data": [{"a":1},{"a":2},{"a":1}], "condition": {"include": {"a": 1}}}`

	first := postFilter(t, handler, "/v1/filter", body)
	second := postFilter(t, handler, "/v1/filter", body)
	other := postFilter(t, handler, "/v1/filter", `{"data": [{"a":2}], "condition": {}}`)

	tag := first.Header().Get("ETag")
	if !strings.HasPrefix(tag, `W/"`) {
		t.Fatalf("Expected weak ETag, got '%s'", tag)
	}
	if tag != second.Header().Get("ETag") {
		t.Errorf("Same request produced different ETags: %s vs %s", tag, second.Header().Get("ETag"))
	}
	if first.Body.String() != second.Body.String() {
		t.Error("Same request produced different bodies")
	}
	if tag == other.Header().Get("ETag") {
		t.Error("Different results should not share an ETag")
	}
}

func TestHandleFilter_RateLimited(t *testing.T) {
	handler := newTestRouter(t, api.Options{RateLimitPerIP: 2})
	body := `{"data": [], "condition": {}}`

	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, postFilter(t, handler, "/v1/filter", body).Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("First two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Third request should be limited, got %d", codes[2])
	}
}

func TestHandleFilter_MethodNotAllowed(t *testing.T) {
	handler := newTestRouter(t, api.Options{})

	rr := get(t, handler, "/v1/filter")

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}

func TestHandleKinds(t *testing.T) {
	handler := newTestRouter(t, api.Options{})

	rr := get(t, handler, "/v1/kinds")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var resp struct {
		Kinds []string `json:"kinds"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if strings.Join(resp.Kinds, ",") != "exclude,include" {
		t.Errorf("Expected kinds [exclude include], got %v", resp.Kinds)
	}
}

func TestHandleFilter_Concurrent(t *testing.T) {
	handler := newTestRouter(t, api.Options{})
	body := `{"data": [{"n":1},{"n":2},{"n":3},{"n":2}], "condition": {"exclude": {"n": 2}}}`
	want := postFilter(t, handler, "/v1/filter", body).Body.String()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := postFilter(t, handler, "/v1/filter", body)
			if rr.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", rr.Code)
				return
			}
			if rr.Body.String() != want {
				t.Errorf("Concurrent result differs: %s", rr.Body.String())
			}
		}()
	}
	wg.Wait()
}
