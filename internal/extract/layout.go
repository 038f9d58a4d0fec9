package extract

import "strings"

// Token is a single recognized word with the geometry needed to rebuild
// paragraph structure.
type Token struct {
	Text   string
	Line   int
	Top    float64
	Height float64
}

// defaultBaseline is the spacing baseline used when a page has no tokens.
const defaultBaseline = 15.0

// paragraphGapFactor: a vertical jump beyond this multiple of the baseline
// separates paragraphs instead of lines.
const paragraphGapFactor = 1.5

// ReassembleParagraphs rebuilds readable text from word tokens. Tokens on the
// same line index are joined with single spaces. Between line groups a single
// newline is emitted when the vertical gap stays within 1.5x the average
// token height, and a blank line when it exceeds it.
func ReassembleParagraphs(tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}

	baseline := averageHeight(tokens)

	type lineGroup struct {
		words []string
		top   float64
	}

	var groups []lineGroup
	current := lineGroup{top: tokens[0].Top}
	currentLine := tokens[0].Line
	for _, tok := range tokens {
		if tok.Line != currentLine {
			groups = append(groups, current)
			current = lineGroup{top: tok.Top}
			currentLine = tok.Line
		}
		if tok.Top < current.top {
			current.top = tok.Top
		}
		if s := strings.TrimSpace(tok.Text); s != "" {
			current.words = append(current.words, s)
		}
	}
	groups = append(groups, current)

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			gap := g.top - groups[i-1].top
			if gap > paragraphGapFactor*baseline {
				b.WriteString("\n\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString(strings.Join(g.words, " "))
	}
	return b.String()
}

func averageHeight(tokens []Token) float64 {
	if len(tokens) == 0 {
		return defaultBaseline
	}
	var sum float64
	for _, t := range tokens {
		sum += t.Height
	}
	avg := sum / float64(len(tokens))
	if avg <= 0 {
		return defaultBaseline
	}
	return avg
}
