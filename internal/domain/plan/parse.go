package plan

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yanqian/advisor-assistant/pkg/tabular"
)

// columnAliases lists accepted header spellings per canonical column, in
// lookup order after the canonical name itself.
var columnAliases = map[string][]string{
	"Category": {"Core Category", "Cat", "Area", "Type", "Requirement", "Req Area"},
	"Credits":  {"Credit", "Credit Hours", "Hours", "Cr", "Units", "Cr Hrs", "CrHrs", "Credit_Hours"},
	"Course":   {"Course ID", "CourseID", "Course Code", "Subject+Number", "Course Title", "Course Name", "Title"},
	"Status":   {"Planned/Completed", "State", "PlanStatus"},
}

// ParsePlan decodes a CSV or XLSX plan and resolves its columns.
func ParsePlan(filename string, content []byte) (Plan, error) {
	table, err := tabular.Decode(filename, content)
	if err != nil {
		return Plan{}, err
	}
	return FromTable(table), nil
}

// FromTable resolves canonical columns by name or alias and reads each row.
// Non-numeric credits, including NaN and infinities, are kept with
// CreditsValid=false and count as zero.
func FromTable(table tabular.Table) Plan {
	lookup := make(map[string]int, len(table.Header))
	for idx, name := range table.Header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := lookup[key]; !seen {
			lookup[key] = idx
		}
	}

	catIdx, catName := pickColumn(table.Header, lookup, "Category")
	crIdx, crName := pickColumn(table.Header, lookup, "Credits")
	courseIdx, courseName := pickColumn(table.Header, lookup, "Course")
	statusIdx, statusName := pickColumn(table.Header, lookup, "Status")

	p := Plan{
		Columns: Columns{Category: catName, Credits: crName, Course: courseName, Status: statusName},
		Courses: make([]Course, 0, len(table.Rows)),
	}
	for i, row := range table.Rows {
		c := Course{
			Row:      i + 1,
			Course:   strings.TrimSpace(tabular.Cell(row, courseIdx)),
			Category: strings.TrimSpace(tabular.Cell(row, catIdx)),
			Status:   strings.TrimSpace(tabular.Cell(row, statusIdx)),
		}
		c.RawCredits = strings.TrimSpace(tabular.Cell(row, crIdx))
		c.Credits, c.CreditsValid = parseCredits(c.RawCredits)
		p.Courses = append(p.Courses, c)
	}
	return p
}

func parseCredits(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func pickColumn(header []string, lookup map[string]int, canonical string) (int, string) {
	for _, key := range append([]string{canonical}, columnAliases[canonical]...) {
		if idx, ok := lookup[strings.ToLower(key)]; ok {
			return idx, strings.TrimSpace(header[idx])
		}
	}
	return -1, ""
}

func rowLabel(row int) string {
	return fmt.Sprintf("row %d", row)
}
