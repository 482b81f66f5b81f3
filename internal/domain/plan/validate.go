package plan

import (
	"fmt"
	"strings"
)

// Validate checks a parsed plan. Row checks only run when both Category and
// Credits resolved.
func Validate(p Plan, opts Options) Report {
	if opts.MinCredits <= 0 {
		opts.MinCredits = DefaultMinCredits
	}
	report := Report{
		Issues:  []Issue{},
		Columns: p.Columns,
		Courses: p.Courses,
		Summary: Summary{
			Courses:        len(p.Courses),
			CoreCategories: len(opts.CoreCategories),
		},
	}

	for _, c := range p.Courses {
		switch c.Status {
		case StatusCompleted:
			report.Summary.Completed++
		case StatusPlanned:
			report.Summary.Planned++
		}
	}

	if p.Columns.Category == "" {
		report.Issues = append(report.Issues, Issue{Type: IssueMissingColumn, Course: "(n/a)", Details: "plan missing 'Category' column"})
	}
	if p.Columns.Credits == "" {
		report.Issues = append(report.Issues, Issue{Type: IssueMissingColumn, Course: "(n/a)", Details: "plan missing 'Credits' column"})
	}
	if p.Columns.Category == "" || p.Columns.Credits == "" {
		return report
	}

	var total float64
	for _, c := range p.Courses {
		if c.Category == "" {
			report.Issues = append(report.Issues, Issue{Type: IssueBlankCategory, Course: c.Label(), Details: "Category is empty"})
		}
		if !c.CreditsValid {
			report.Issues = append(report.Issues, Issue{Type: IssueBadCredits, Course: c.Label(), Details: fmt.Sprintf("Credits '%s' is not numeric", c.RawCredits)})
			continue
		}
		total += c.Credits
	}
	report.Summary.TotalCredits = total

	if total < opts.MinCredits {
		report.Issues = append(report.Issues, Issue{
			Type:    IssueLowLoad,
			Course:  "(overall)",
			Details: fmt.Sprintf("Total credits %.1f < %s", total, formatCredits(opts.MinCredits)),
		})
	}

	if len(opts.CoreCategories) > 0 {
		source := opts.CoreMapName
		if source == "" {
			source = "core map"
		}
		for _, c := range p.Courses {
			key := strings.ToLower(c.Category)
			if key == "" {
				continue
			}
			if _, ok := opts.CoreCategories[key]; !ok {
				report.Issues = append(report.Issues, Issue{
					Type:    IssueUnknownCategory,
					Course:  c.Label(),
					Details: fmt.Sprintf("'%s' not found in %s", c.Category, source),
				})
			}
		}
	}
	return report
}

func formatCredits(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
