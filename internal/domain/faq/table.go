package faq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yanqian/advisor-assistant/pkg/tabular"
)

const (
	columnQuestion = "question"
	columnAnswer   = "answer"
	columnTags     = "tags"
)

// ErrMissingColumn reports a corpus table without a required column.
var ErrMissingColumn = errors.New("missing required column")

// Table is a decoded corpus sheet: a header row followed by data rows.
type Table = tabular.Table

// missingMarkers are cell values spreadsheet and dataframe exports use for
// absent data.
var missingMarkers = map[string]struct{}{
	"":      {},
	"nan":   {},
	"-nan":  {},
	"na":    {},
	"n/a":   {},
	"#n/a":  {},
	"<na>":  {},
	"null":  {},
	"none":  {},
	"nil":   {},
	"#null": {},
}

// BuildCorpus turns a table into entries. Header matching is
// case-insensitive; question and answer columns are required and tags is
// optional. Row order is preserved and rows with a blank question or answer
// are skipped.
func BuildCorpus(table Table) (Corpus, error) {
	columns := make(map[string]int, len(table.Header))
	for idx, name := range table.Header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := columns[key]; !seen {
			columns[key] = idx
		}
	}

	qcol, hasQuestion := columns[columnQuestion]
	acol, hasAnswer := columns[columnAnswer]
	tcol, hasTags := columns[columnTags]
	switch {
	case !hasQuestion:
		return Corpus{}, fmt.Errorf("%w: %q", ErrMissingColumn, "Question")
	case !hasAnswer:
		return Corpus{}, fmt.Errorf("%w: %q", ErrMissingColumn, "Answer")
	}

	entries := make(Corpus, 0, len(table.Rows))
	for _, row := range table.Rows {
		question := cell(row, qcol)
		answer := cell(row, acol)
		if isMissing(question) || isMissing(answer) {
			continue
		}
		tags := ""
		if hasTags {
			if raw := cell(row, tcol); !isMissing(raw) {
				tags = raw
			}
		}
		entries = append(entries, NewEntry(question, answer, tags))
	}
	return entries, nil
}

func cell(row []string, idx int) string {
	return strings.TrimSpace(tabular.Cell(row, idx))
}

func isMissing(value string) bool {
	_, ok := missingMarkers[strings.ToLower(strings.TrimSpace(value))]
	return ok
}
