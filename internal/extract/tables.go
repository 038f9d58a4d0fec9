package extract

import (
	"regexp"
	"strings"
)

var reBlankRun = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)*`)

// TablesFromPageText derives candidate tables from raw page text: the text is
// split on runs of one or more blank lines, and each block becomes a table
// whose rows are the block's non-blank trimmed lines.
func TablesFromPageText(pageText string) [][]string {
	var tables [][]string
	for _, block := range reBlankRun.Split(pageText, -1) {
		var rows []string
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				rows = append(rows, line)
			}
		}
		if len(rows) > 0 {
			tables = append(tables, rows)
		}
	}
	return tables
}
