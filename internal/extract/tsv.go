package extract

import (
	"strconv"
	"strings"
)

// Tesseract TSV columns (level 5 rows are words):
// level page_num block_num par_num line_num word_num left top width height conf text
const (
	tsvColLevel = 0
	tsvColBlock = 2
	tsvColPar   = 3
	tsvColLine  = 4
	tsvColTop   = 7
	tsvColHight = 9
	tsvColConf  = 10
	tsvColText  = 11
	tsvColCount = 12
)

// tokensFromTSV parses tesseract TSV output into word tokens and the mean
// word confidence in 0..1. Line indexes are made unique across blocks and
// paragraphs so downstream grouping never folds distinct lines together.
func tokensFromTSV(tsv string) ([]Token, float32) {
	var tokens []Token
	var confSum, confN float64

	lineIndex := -1
	prevKey := ""
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || ln == "" { // skip header
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < tsvColCount {
			continue // defensive
		}
		if cols[tsvColLevel] != "5" {
			continue
		}

		text := strings.TrimSpace(cols[tsvColText])
		if text == "" {
			continue
		}

		key := cols[tsvColBlock] + "/" + cols[tsvColPar] + "/" + cols[tsvColLine]
		if key != prevKey {
			lineIndex++
			prevKey = key
		}

		top, _ := strconv.ParseFloat(cols[tsvColTop], 64)
		height, _ := strconv.ParseFloat(cols[tsvColHight], 64)
		tokens = append(tokens, Token{
			Text:   text,
			Line:   lineIndex,
			Top:    top,
			Height: height,
		})

		if conf := cols[tsvColConf]; conf != "" && conf != "-1" {
			if v, err := strconv.ParseFloat(conf, 64); err == nil {
				confSum += v
				confN++
			}
		}
	}

	var mean float32
	if confN > 0 {
		mean = float32(confSum / confN / 100.0)
	}
	return tokens, mean
}
