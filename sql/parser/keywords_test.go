package parser

import (
	"strings"
	"testing"
)

func TestKeywordOf(t *testing.T) {
	tests := []struct {
		text string
		want Keyword
	}{
		{"SELECT", KwSelect},
		{"select", KwSelect},
		{"Between", KwBetween},
		{"AUTOINCREMENT", KwAutoincrement},
		{"current_timestamp", KwCurrentTimestamp},
	}

	for _, tt := range tests {
		kw, ok := KeywordOf(tt.text)
		if !ok || kw != tt.want {
			t.Errorf("KeywordOf(%q) = %v, %v; want %v", tt.text, kw, ok, tt.want)
		}
	}

	if _, ok := KeywordOf("definitely_not_a_keyword"); ok {
		t.Error("expected miss for non-keyword")
	}
}

func TestKeywordNamesRoundTrip(t *testing.T) {
	// every keyword's canonical name must resolve back to itself
	for kw, name := range keywordNames {
		got, ok := KeywordOf(name)
		if !ok || got != kw {
			t.Errorf("keyword %s does not round-trip through its name", name)
		}
		if name != strings.ToUpper(name) {
			t.Errorf("keyword name %q is not uppercase", name)
		}
	}
}

func TestFunctionOf(t *testing.T) {
	fn, ok := FunctionOf("upper")
	if !ok || fn != FnUpper {
		t.Errorf("FunctionOf(upper) = %v, %v", fn, ok)
	}
	fn, ok = FunctionOf("COALESCE")
	if !ok || fn != FnCoalesce {
		t.Errorf("FunctionOf(COALESCE) = %v, %v", fn, ok)
	}
	if _, ok := FunctionOf("frobnicate"); ok {
		t.Error("expected miss for unknown function")
	}
}

func TestFunctionSpecs(t *testing.T) {
	for _, fn := range []Function{FnCount, FnSum, FnAvg, FnMin, FnMax} {
		if !fn.IsAggregate() {
			t.Errorf("expected %s to be an aggregate", fn)
		}
	}
	for _, fn := range []Function{FnUpper, FnCoalesce, FnRandom} {
		if fn.IsAggregate() {
			t.Errorf("expected %s not to be an aggregate", fn)
		}
	}

	min, max := FnSubstr.ArgRange()
	if min != 2 || max != 3 {
		t.Errorf("SUBSTR arg range = %d..%d, want 2..3", min, max)
	}
	min, max = FnCoalesce.ArgRange()
	if min != 2 || max != -1 {
		t.Errorf("COALESCE arg range = %d..%d, want 2..unbounded", min, max)
	}
}
