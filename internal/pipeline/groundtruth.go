package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadGroundTruth reads the operator-curated expected-PO mapping: artifact
// filename -> list of PO numbers. An empty list is meaningful (the document
// is expected to carry no PO). An empty path yields an empty mapping, which
// treats every document as "no PO expected".
func LoadGroundTruth(path string) (map[string][]string, error) {
	if path == "" {
		return map[string][]string{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ground truth %s: %w", path, err)
	}

	var gt map[string][]string
	if err := json.Unmarshal(raw, &gt); err != nil {
		return nil, fmt.Errorf("parse ground truth %s: %w", path, err)
	}
	return gt, nil
}
