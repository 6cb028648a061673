package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/recordfilter/internal/document"
	"github.com/TimurManjosov/recordfilter/internal/predicate"
)

func newTestService() *Service {
	return NewService(predicate.Default(), zerolog.Nop())
}

func run(t *testing.T, body string) Result {
	t.Helper()
	res, err := newTestService().Filter(context.Background(), &body)
	if err != nil {
		t.Fatalf("Filter() unexpected error: %v", err)
	}
	return res
}

func pretty(t *testing.T, records ...string) []string {
	t.Helper()
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = document.MustParse(r).Pretty()
	}
	return out
}

func TestFilter_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "include",
			body: `{"data": [{"a":1},{"a":2}], "condition": {"include": {"a": 1}}}`,
			want: []string{"{\n  \"a\": 1\n}"},
		},
		{
			name: "exclude",
			body: `{"data": [{"a":1},{"a":2}], "condition": {"exclude": {"a": 1}}}`,
			want: []string{"{\n  \"a\": 2\n}"},
		},
		{
			name: "include and exclude combined",
			body: `{"data": [{"a":1,"b":"x"},{"a":1,"b":"y"},{"a":2,"b":"x"}],
				"condition": {"include": {"a": 1}, "exclude": {"b": "y"}}}`,
			want: []string{"{\n  \"a\": 1,\n  \"b\": \"x\"\n}"},
		},
		{
			name: "array form with object element",
			body: `{"data": [{"a":1},{"a":2}], "condition": {"include": [{"a": 2}]}}`,
			want: []string{"{\n  \"a\": 2\n}"},
		},
		{
			name: "nested object flattened",
			body: `{"data": [{"a":1,"b":2},{"a":1,"b":3}], "condition": {"include": {"group": {"b": 3}}}}`,
			want: []string{"{\n  \"a\": 1,\n  \"b\": 3\n}"},
		},
		{
			name: "string values",
			body: `{"data": [{"plan":"free"},{"plan":"premium"},{"plan":"premium"}], "condition": {"include": {"plan": "premium"}}}`,
			want: []string{"{\n  \"plan\": \"premium\"\n}", "{\n  \"plan\": \"premium\"\n}"},
		},
		{
			name: "type sensitive equality",
			body: `{"data": [{"a":1},{"a":"1"},{"a":1.0}], "condition": {"include": {"a": 1}}}`,
			want: []string{"{\n  \"a\": 1\n}"},
		},
		{
			name: "no matches",
			body: `{"data": [{"a":1}], "condition": {"include": {"a": 9}}}`,
			want: []string{},
		},
		{
			name: "empty data",
			body: `{"data": [], "condition": {"include": {"a": 1}}}`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.body)
			if !res.OK() {
				t.Fatalf("unexpected errors: %v", res.Errors)
			}
			if diff := cmp.Diff(tt.want, res.Records); diff != "" {
				t.Errorf("Records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_EmptyConditionReturnsAllData(t *testing.T) {
	body := `{"data": [{"b":2,"a":1},{"a":"x"},{"n":null}], "condition": {}}`
	res := run(t, body)

	want := pretty(t, `{"b":2,"a":1}`, `{"a":"x"}`, `{"n":null}`)
	if diff := cmp.Diff(want, res.Records); diff != "" {
		t.Errorf("Records mismatch (-want +got):\n%s", diff)
	}
	if res.Scanned != 3 {
		t.Errorf("Scanned = %d, want 3", res.Scanned)
	}
}

func TestFilter_Deterministic(t *testing.T) {
	body := `{"data": [{"k":"b","v":1},{"k":"a","v":2},{"k":"c","v":1},{"k":"d","v":1}],
		"condition": {"include": {"v": 1}}}`

	first := run(t, body)
	for i := 0; i < 20; i++ {
		again := run(t, body)
		if diff := cmp.Diff(first.Records, again.Records); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
	want := pretty(t, `{"k":"b","v":1}`, `{"k":"c","v":1}`, `{"k":"d","v":1}`)
	if diff := cmp.Diff(want, first.Records); diff != "" {
		t.Errorf("order not preserved (-want +got):\n%s", diff)
	}
}

func TestFilter_IncludeExcludePartition(t *testing.T) {
	data := `[{"c":"US","i":0},{"c":"CA","i":1},{"c":"US","i":2},{"c":"MX","i":3},{"c":1,"i":4}]`
	inc := run(t, `{"data": `+data+`, "condition": {"include": {"c": "US"}}}`)
	exc := run(t, `{"data": `+data+`, "condition": {"exclude": {"c": "US"}}}`)

	seen := map[string]int{}
	for _, r := range inc.Records {
		seen[r]++
	}
	for _, r := range exc.Records {
		seen[r]++
	}
	all := run(t, `{"data": `+data+`, "condition": {}}`)
	if len(inc.Records)+len(exc.Records) != len(all.Records) {
		t.Fatalf("include(%d) + exclude(%d) != data(%d)", len(inc.Records), len(exc.Records), len(all.Records))
	}
	for _, r := range all.Records {
		if seen[r] != 1 {
			t.Errorf("record %s seen %d times, want exactly once", r, seen[r])
		}
	}
}

func TestFilter_UnknownKindIgnored(t *testing.T) {
	res := run(t, `{"data": [{"a":1},{"a":2}], "condition": {"bogus": {"missing": 1}, "other": ["x"]}}`)
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Records) != 2 {
		t.Errorf("got %d records, want 2", len(res.Records))
	}
}

func TestFilter_ScalarKindValueReturnsAllData(t *testing.T) {
	for _, cond := range []string{`{"include": "a"}`, `{"include": null}`, `{"exclude": 5}`} {
		t.Run(cond, func(t *testing.T) {
			res := run(t, `{"data": [{"a":1},{"a":2}], "condition": `+cond+`}`)
			if res.Errors.Contains(MsgFieldNotInData) {
				t.Fatalf("unexpected errors: %v", res.Errors)
			}
			want := pretty(t, `{"a":1}`, `{"a":2}`)
			if diff := cmp.Diff(want, res.Records); diff != "" {
				t.Errorf("Records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ErrorLog
	}{
		{name: "absent body", body: "", want: ErrorLog{MsgNotObject}},
		{name: "null body", body: "null", want: ErrorLog{MsgNotObject}},
		{name: "missing data", body: `{"condition": {}}`, want: ErrorLog{MsgDataNull}},
		{name: "missing condition", body: `{"data": []}`, want: ErrorLog{MsgConditionNull}},
		{name: "missing both", body: `{}`, want: ErrorLog{MsgDataNull, MsgConditionNull}},
		{name: "explicit nulls", body: `{"data": null, "condition": null}`, want: ErrorLog{MsgDataNull, MsgConditionNull}},
		{name: "top-level array", body: `[1, 2]`, want: ErrorLog{MsgDataNull, MsgConditionNull}},
		{name: "data not a list", body: `{"data": "not-an-array", "condition": {}}`, want: ErrorLog{MsgDataNotList}},
		{
			name: "data not a list with valid constraint",
			body: `{"data": {"a": 1}, "condition": {"include": {"a": 1}}}`,
			want: ErrorLog{MsgDataNotList},
		},
		{
			name: "field missing from one record",
			body: `{"data": [{"a":1},{"b":2}], "condition": {"include": {"a": 1}}}`,
			want: ErrorLog{MsgFieldNotInData},
		},
		{
			name: "field null in one record",
			body: `{"data": [{"a":1},{"a":null}], "condition": {"include": {"a": 1}}}`,
			want: ErrorLog{MsgFieldNotInData},
		},
		{
			name: "bare field name without value",
			body: `{"data": [{"a":1}], "condition": {"include": ["a"]}}`,
			want: ErrorLog{MsgFieldNotInData},
		},
		{
			name: "null constraint value",
			body: `{"data": [{"a":1}], "condition": {"exclude": {"a": null}}}`,
			want: ErrorLog{MsgFieldNotInData},
		},
		{
			name: "one error per failing field",
			body: `{"data": [{"a":1}], "condition": {"include": {"x": 1, "y": 2}, "exclude": {"z": 3}}}`,
			want: ErrorLog{MsgFieldNotInData, MsgFieldNotInData, MsgFieldNotInData},
		},
		{
			name: "records that are not objects",
			body: `{"data": [1, 2], "condition": {"include": {"a": 1}}}`,
			want: ErrorLog{MsgFieldNotInData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.body)
			if res.OK() {
				t.Fatalf("expected errors, got records %v", res.Records)
			}
			if res.Records != nil {
				t.Errorf("Records = %v, want nil alongside errors", res.Records)
			}
			if diff := cmp.Diff(tt.want, res.Errors); diff != "" {
				t.Errorf("Errors mismatch (-want +got):\n%s", diff)
			}
			var ferr *Error
			if !errors.As(res.Err(), &ferr) {
				t.Fatalf("Err() = %v, want *Error", res.Err())
			}
		})
	}
}

func TestFilter_MalformedBodyIsFatal(t *testing.T) {
	body := "{not json"
	res, err := newTestService().Filter(context.Background(), &body)
	if err == nil {
		t.Fatal("Filter() error = nil, want ParseError")
	}
	var perr *document.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *document.ParseError", err)
	}
	if !res.Errors.Empty() || res.Records != nil {
		t.Errorf("Result should be zero on parse failure, got %+v", res)
	}
}

func TestFilter_NilBody(t *testing.T) {
	res, err := newTestService().Filter(context.Background(), nil)
	if err != nil {
		t.Fatalf("Filter(nil) error = %v", err)
	}
	if diff := cmp.Diff(ErrorLog{MsgNotObject}, res.Errors); diff != "" {
		t.Errorf("Errors mismatch (-want +got):\n%s", diff)
	}
}

func TestResult_ErrNilWhenOK(t *testing.T) {
	if err := (Result{Records: []string{}}).Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Log: ErrorLog{MsgDataNull, MsgConditionNull}}
	want := "filter: Data node is null; Condition node is null"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
