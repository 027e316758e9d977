package tags

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/CaliLuke/go-umlsem/model"
)

func newElement(tags ...model.Tag) *model.Element {
	e := &model.Element{}
	e.Name = "Person"
	e.Tags = tags
	return e
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestSingleValue(t *testing.T) {
	tests := []struct {
		name      string
		tags      []model.Tag
		mandatory bool
		want      string
		warns     bool
	}{
		{"present", []model.Tag{{Key: "name", Value: "persoon"}}, true, "persoon", false},
		{"absent optional", nil, false, "dflt", false},
		{"absent mandatory", nil, true, "dflt", true},
		{"duplicate keeps first", []model.Tag{{Key: "name", Value: "a"}, {Key: "name", Value: "b"}}, false, "a", true},
		{"other keys ignored", []model.Tag{{Key: "uri", Value: "x"}}, false, "dflt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := captureLogger()
			got := SingleValue(logger, newElement(tt.tags...), "name", "dflt", tt.mandatory)
			if got != tt.want {
				t.Errorf("SingleValue = %q, want %q", got, tt.want)
			}
			if warned := strings.Contains(buf.String(), "level=WARN"); warned != tt.warns {
				t.Errorf("warned = %v, want %v; log:\n%s", warned, tt.warns, buf.String())
			}
		})
	}
}

func TestBoolAndIgnored(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{" yes ", true},
		{"1", true},
		{"false", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			e := newElement(model.Tag{Key: KeyIgnore, Value: tt.value})
			if got := Ignored(e); got != tt.want {
				t.Errorf("Ignored(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
	if Ignored(newElement()) {
		t.Error("untagged element reported as ignored")
	}
}

func TestValuesOrder(t *testing.T) {
	e := newElement(
		model.Tag{Key: KeyParentURI, Value: "http://a"},
		model.Tag{Key: "other", Value: "x"},
		model.Tag{Key: KeyParentURI, Value: "http://b"},
	)
	got := Values(e, KeyParentURI)
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Errorf("Values = %v, want [http://a http://b]", got)
	}
	if !Has(e, "other") || Has(e, "missing") {
		t.Error("Has returned an unexpected result")
	}
}

func TestFacts(t *testing.T) {
	mappings := []Mapping{
		{Tag: "label-nl", Predicate: "http://www.w3.org/2000/01/rdf-schema#label", Mandatory: true, Language: "nl"},
		{Tag: "definition-nl", Predicate: "http://www.w3.org/2000/01/rdf-schema#comment", Mandatory: true, Language: "nl"},
		{Tag: "usage-nl", Predicate: "http://www.w3.org/ns/vann#usageNote", Language: "nl"},
		{Tag: "status", Predicate: "http://example.org/status"},
	}
	e := newElement(
		model.Tag{Key: "label-nl", Value: "Persoon"},
		model.Tag{Key: "status", Value: "stable"},
	)

	logger, buf := captureLogger()
	facts := Facts(logger, e, mappings)

	if len(facts) != 3 {
		t.Fatalf("expected 3 facts, got %d: %+v", len(facts), facts)
	}
	if facts[0].Value != "Persoon" || facts[0].Language != "nl" {
		t.Errorf("facts[0] = %+v", facts[0])
	}
	if facts[1].Value != Placeholder || facts[1].Tag != "definition-nl" {
		t.Errorf("expected placeholder for missing mandatory definition, got %+v", facts[1])
	}
	if facts[2].Value != "stable" || facts[2].Language != "" {
		t.Errorf("facts[2] = %+v", facts[2])
	}
	if !strings.Contains(buf.String(), "definition-nl") {
		t.Errorf("expected warning naming the missing tag, log:\n%s", buf.String())
	}
}

func TestParseCardinality(t *testing.T) {
	tests := []struct {
		input        string
		lower, upper string
		nilLower     bool
		nilUpper     bool
	}{
		{input: "0..1", lower: "0", upper: "1"},
		{input: "1", lower: "1", upper: "1"},
		{input: "1..*", lower: "1", upper: "*"},
		{input: " 0 .. 5 ", lower: "0", upper: "5"},
		{input: "2..", lower: "2", nilUpper: true},
		{input: "", nilLower: true, nilUpper: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lo, hi := ParseCardinality(tt.input)
			checkBound(t, "lower", lo, tt.lower, tt.nilLower)
			checkBound(t, "upper", hi, tt.upper, tt.nilUpper)
		})
	}
}

func checkBound(t *testing.T, name string, got *string, want string, wantNil bool) {
	t.Helper()
	if wantNil {
		if got != nil {
			t.Errorf("%s = %q, want nil", name, *got)
		}
		return
	}
	if got == nil {
		t.Fatalf("%s = nil, want %q", name, want)
	}
	if *got != want {
		t.Errorf("%s = %q, want %q", name, *got, want)
	}
}
