package extract

import "testing"

func TestReassembleParagraphsJoinsLineTokens(t *testing.T) {
	tokens := []Token{
		{Text: "Invoice", Line: 0, Top: 100, Height: 20},
		{Text: "Number:", Line: 0, Top: 100, Height: 20},
		{Text: "42", Line: 0, Top: 100, Height: 20},
	}
	if got := ReassembleParagraphs(tokens); got != "Invoice Number: 42" {
		t.Fatalf("got %q", got)
	}
}

func TestReassembleParagraphsGapThresholds(t *testing.T) {
	// baseline = 20. Line B sits 25 below A (<= 30): single newline.
	// Line C sits 45 below B (> 30): paragraph break.
	tokens := []Token{
		{Text: "alpha", Line: 0, Top: 100, Height: 20},
		{Text: "beta", Line: 1, Top: 125, Height: 20},
		{Text: "gamma", Line: 2, Top: 170, Height: 20},
	}
	want := "alpha\nbeta\n\ngamma"
	if got := ReassembleParagraphs(tokens); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReassembleParagraphsGapAtExactThreshold(t *testing.T) {
	// gap == 1.5x baseline stays a single newline
	tokens := []Token{
		{Text: "a", Line: 0, Top: 100, Height: 20},
		{Text: "b", Line: 1, Top: 130, Height: 20},
	}
	if got := ReassembleParagraphs(tokens); got != "a\nb" {
		t.Fatalf("got %q", got)
	}
}

func TestReassembleParagraphsEmpty(t *testing.T) {
	if got := ReassembleParagraphs(nil); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestAverageHeightDefaultsWhenZero(t *testing.T) {
	if got := averageHeight([]Token{{Height: 0}}); got != defaultBaseline {
		t.Fatalf("got %v, want %v", got, defaultBaseline)
	}
	if got := averageHeight(nil); got != defaultBaseline {
		t.Fatalf("got %v, want %v", got, defaultBaseline)
	}
}
