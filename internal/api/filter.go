package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cespare/xxhash/v2"

	"github.com/TimurManjosov/recordfilter/internal/document"
	"github.com/TimurManjosov/recordfilter/internal/telemetry"
)

// kindsResponse is the body of GET /v1/kinds.
type kindsResponse struct {
	Kinds []string `json:"kinds"`
}

// handleFilter handles POST /api/FilterData and POST /v1/filter.
// On success the body is a JSON array of pretty-printed records.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RequestTooLargeError(w, r, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		InternalError(w, r, "failed to read request body")
		return
	}

	var body *string
	if len(raw) > 0 {
		text := string(raw)
		body = &text
	}

	res, err := s.filter.Filter(r.Context(), body)
	if err != nil {
		var perr *document.ParseError
		if errors.As(err, &perr) {
			telemetry.ObserveFilter(telemetry.OutcomeParseError, 0, 0)
			InvalidJSONError(w, r, perr.Error())
			return
		}
		InternalError(w, r, "filter failed")
		return
	}
	if !res.OK() {
		telemetry.ObserveFilter(telemetry.OutcomeInvalid, 0, 0)
		FilterError(w, r, res.Errors)
		return
	}

	telemetry.ObserveFilter(telemetry.OutcomeOK, res.Scanned, len(res.Records))
	w.Header().Set("ETag", resultETag(res.Records))
	writeJSON(w, http.StatusOK, res.Records)
}

// handleKinds handles GET /v1/kinds
func (s *Server) handleKinds(w http.ResponseWriter, _ *http.Request) {
	kinds := s.filter.Registry().Kinds()
	resp := kindsResponse{Kinds: make([]string, len(kinds))}
	for i, k := range kinds {
		resp.Kinds[i] = string(k)
	}
	writeJSON(w, http.StatusOK, resp)
}

// resultETag hashes the ordered record list. Equal results give equal tags.
func resultETag(records []string) string {
	d := xxhash.New()
	for _, rec := range records {
		_, _ = d.WriteString(rec)
		_, _ = d.Write([]byte{0})
	}
	return fmt.Sprintf(`W/"%016x"`, d.Sum64())
}
