package llm

import (
	"errors"
	"testing"
)

func TestExtractJSONDirect(t *testing.T) {
	inv, err := ExtractJSON(`{"a": 1}`)
	if err != nil {
		t.Fatalf("ExtractJSON() error = %v", err)
	}
	if inv["a"] != float64(1) {
		t.Fatalf("inv = %#v", inv)
	}
}

func TestExtractJSONFromProse(t *testing.T) {
	inv, err := ExtractJSON(`Here is the result: {"a":1} Thanks!`)
	if err != nil {
		t.Fatalf("ExtractJSON() error = %v", err)
	}
	if inv["a"] != float64(1) {
		t.Fatalf("inv = %#v", inv)
	}
}

func TestExtractJSONNestedBraces(t *testing.T) {
	inv, err := ExtractJSON("Sure: {\"outer\": {\"inner\": 2}} done")
	if err != nil {
		t.Fatalf("ExtractJSON() error = %v", err)
	}
	outer, ok := inv["outer"].(map[string]any)
	if !ok || outer["inner"] != float64(2) {
		t.Fatalf("inv = %#v", inv)
	}
}

func TestExtractJSONFailure(t *testing.T) {
	for _, in := range []string{"no braces at all", "{broken", "} {", ""} {
		if _, err := ExtractJSON(in); !errors.Is(err, ErrNoJSON) {
			t.Fatalf("ExtractJSON(%q) error = %v, want ErrNoJSON", in, err)
		}
	}
}
