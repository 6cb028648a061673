// Package filter validates filter requests, compiles their condition object
// into predicates and applies those predicates to the request's data array.
//
// The pipeline is parse -> validate -> compile -> evaluate. Validation and
// compilation problems are reported together in Result.Errors; only a body
// that is not JSON at all is returned as an error.
package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/recordfilter/internal/document"
	"github.com/TimurManjosov/recordfilter/internal/predicate"
)

// Result is the outcome of one filter request: either Records or Errors is
// set, never both.
type Result struct {
	Records []string // matching records, pretty-printed, in input order
	Errors  ErrorLog
	Scanned int // number of records in data, zero when data is not an array
}

// OK reports whether the request produced records rather than errors.
func (r Result) OK() bool { return r.Errors.Empty() }

// Err returns the error log as a *Error, or nil when r is OK.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Log: r.Errors}
}

// Service runs filter requests against a predicate registry.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	registry predicate.Registry
	log      zerolog.Logger
}

// NewService returns a Service using reg. The logger is used when the request
// context carries none.
func NewService(reg predicate.Registry, log zerolog.Logger) *Service {
	return &Service{registry: reg, log: log}
}

// Registry returns the predicate registry the service compiles against.
func (s *Service) Registry() predicate.Registry { return s.registry }

// Filter runs the full pipeline on an optional raw body. The returned error
// is non-nil only for a malformed body (*document.ParseError).
func (s *Service) Filter(ctx context.Context, body *string) (Result, error) {
	doc, err := document.Parse(body)
	if err != nil {
		return Result{}, err
	}
	return s.FilterDocument(ctx, doc), nil
}

// FilterDocument runs validation, compilation and evaluation on an already
// parsed request document (nil when absent).
func (s *Service) FilterDocument(ctx context.Context, doc *document.Node) Result {
	log := s.logger(ctx)

	if errs := Validate(doc); !errs.Empty() {
		log.Warn().Strs("errors", errs).Msg("filter request rejected")
		return Result{Errors: errs}
	}

	data := doc.Get(fieldData)
	spec := BuildSpec(doc.Get(fieldCondition))
	preds, errs := Compile(data, spec, s.registry)
	if !errs.Empty() {
		log.Warn().Strs("errors", errs).Int("records", data.Len()).Msg("filter condition rejected")
		return Result{Errors: errs}
	}

	records := Evaluate(data, preds)
	log.Info().
		Int("records", data.Len()).
		Int("matched", len(records)).
		Strs("kinds", activeKinds(preds)).
		Msg("filter request processed")
	return Result{Records: records, Scanned: data.Len()}
}

func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.log
}

func activeKinds(preds []Compiled) []string {
	kinds := make([]string, len(preds))
	for i, p := range preds {
		kinds[i] = p.Kind
	}
	return kinds
}
