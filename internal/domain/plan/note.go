package plan

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
)

const noteRule = "----------------------------------------"

// AdvisorNote renders a plain-text note an advisor can file with the plan.
func AdvisorNote(summary Summary, issues []Issue, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Advisor Assistant validation note (%s)\n", at.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Program: %s | Catalog: %s\n", summary.Program, summary.CatalogYear)
	fmt.Fprintf(&b, "Issue count: %d\n", len(issues))
	b.WriteString(noteRule)
	if len(issues) == 0 {
		b.WriteString("\nNo issues detected.")
		return b.String()
	}
	for i, issue := range issues {
		fmt.Fprintf(&b, "\n%d. %s — %s: %s", i+1, issue.Type, issue.Course, issue.Details)
	}
	return b.String()
}

// IssuesCSV exports issues with a type,course,details header.
func IssuesCSV(issues []Issue) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"type", "course", "details"}); err != nil {
		return nil, err
	}
	for _, issue := range issues {
		if err := w.Write([]string{issue.Type, issue.Course, issue.Details}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
