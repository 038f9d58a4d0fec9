package extract

import (
	"math"
	"strings"
	"testing"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t1000\t1500\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t100\t80\t20\t90\tInvoice\n" +
	"5\t1\t1\t1\t1\t2\t100\t100\t80\t20\t80\tTotal\n" +
	"5\t1\t1\t1\t2\t1\t10\t125\t80\t20\t85\t100.00\n" +
	"5\t1\t2\t1\t1\t1\t10\t300\t80\t20\t-1\tFooter\n"

func TestTokensFromTSV(t *testing.T) {
	tokens, conf := tokensFromTSV(sampleTSV)
	if len(tokens) != 4 {
		t.Fatalf("len(tokens) = %d, want 4", len(tokens))
	}

	// first two words share a line index, the third starts a new line
	if tokens[0].Line != tokens[1].Line {
		t.Fatalf("words on the same TSV line got indexes %d and %d", tokens[0].Line, tokens[1].Line)
	}
	if tokens[2].Line == tokens[1].Line {
		t.Fatalf("new line_num did not advance the line index")
	}
	// block 2 reuses line_num 1 but must not fold into block 1's line
	if tokens[3].Line == tokens[0].Line {
		t.Fatalf("line index not unique across blocks")
	}

	if tokens[2].Top != 125 || tokens[2].Height != 20 {
		t.Fatalf("geometry = (%v, %v), want (125, 20)", tokens[2].Top, tokens[2].Height)
	}

	// mean of 90, 80, 85 (the -1 is skipped) = 85 -> 0.85
	if math.Abs(float64(conf)-0.85) > 1e-6 {
		t.Fatalf("conf = %v, want 0.85", conf)
	}
}

func TestTokensFromTSVShortRows(t *testing.T) {
	tokens, conf := tokensFromTSV("header\nnot\tenough\tcolumns\n")
	if len(tokens) != 0 || conf != 0 {
		t.Fatalf("expected no tokens from malformed TSV, got %d", len(tokens))
	}
}

func TestTokensFromTSVSkipsEmptyWords(t *testing.T) {
	tsv := strings.ReplaceAll(sampleTSV, "Footer", "   ")
	tokens, _ := tokensFromTSV(tsv)
	if len(tokens) != 3 {
		t.Fatalf("len(tokens) = %d, want 3", len(tokens))
	}
}
