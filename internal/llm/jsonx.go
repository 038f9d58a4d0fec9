package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON marks a model response from which no JSON object could be
// recovered; the interpreter escalates its seed before retrying.
var ErrNoJSON = errors.New("no JSON object could be extracted from response")

// ExtractJSON parses a model response into an Invoice. Valid JSON parses
// directly; otherwise the substring between the first '{' and the last '}'
// is tried, which recovers payloads wrapped in explanatory prose.
func ExtractJSON(responseText string) (Invoice, error) {
	var inv Invoice
	if err := json.Unmarshal([]byte(responseText), &inv); err == nil {
		return inv, nil
	}

	first := strings.Index(responseText, "{")
	last := strings.LastIndex(responseText, "}")
	if first != -1 && last != -1 && first < last {
		if err := json.Unmarshal([]byte(responseText[first:last+1]), &inv); err == nil {
			return inv, nil
		}
	}

	return nil, ErrNoJSON
}
