package plan

// Issue types reported by the validator.
const (
	IssueMissingColumn   = "Missing column"
	IssueBlankCategory   = "Blank category"
	IssueBadCredits      = "Bad credits"
	IssueLowLoad         = "Low load"
	IssueUnknownCategory = "Unknown category"
)

// DefaultMinCredits is the lowest total credit load accepted for a term.
const DefaultMinCredits = 12.0

// Status values counted in the plan overview. Matching is exact.
const (
	StatusCompleted = "Completed"
	StatusPlanned   = "Planned"
)

// Course is one row of an uploaded plan.
type Course struct {
	Row          int     `json:"row"`
	Course       string  `json:"course"`
	Category     string  `json:"category"`
	Credits      float64 `json:"credits"`
	RawCredits   string  `json:"rawCredits"`
	CreditsValid bool    `json:"creditsValid"`
	Status       string  `json:"status,omitempty"`
}

// Label names the course for issue reports, falling back to its row number.
func (c Course) Label() string {
	if c.Course != "" {
		return c.Course
	}
	return rowLabel(c.Row)
}

// Columns records which header each canonical column resolved to. Empty
// means the column was not found.
type Columns struct {
	Category string `json:"category"`
	Credits  string `json:"credits"`
	Course   string `json:"course"`
	Status   string `json:"status"`
}

// Plan is a parsed student course plan.
type Plan struct {
	Columns Columns  `json:"columns"`
	Courses []Course `json:"courses"`
}

// Issue is a single validation finding.
type Issue struct {
	Type    string `json:"type"`
	Course  string `json:"course"`
	Details string `json:"details"`
}

// Summary describes the validated plan and the rules applied to it.
type Summary struct {
	Program        string  `json:"program"`
	CatalogYear    string  `json:"catalogYear"`
	RulesVersion   string  `json:"rulesVersion"`
	TotalCredits   float64 `json:"totalCredits"`
	Courses        int     `json:"courses"`
	Completed      int     `json:"completedCourses"`
	Planned        int     `json:"plannedCourses"`
	CoreCategories int     `json:"coreCategories"`
	Sources        Sources `json:"sources"`
}

// Sources counts the rows of the reference sheets loaded beside the plan.
// An unreadable sheet counts as zero.
type Sources struct {
	CoreRows    int `json:"coreRows"`
	PolicyRows  int `json:"policyRows"`
	ContactRows int `json:"contactRows"`
}

// Report is the outcome of validating a plan.
type Report struct {
	Issues  []Issue  `json:"issues"`
	Summary Summary  `json:"summary"`
	Columns Columns  `json:"columns"`
	Courses []Course `json:"courses"`
	Note    string   `json:"note"`
}

// Options tune Validate.
type Options struct {
	MinCredits     float64
	CoreCategories map[string]struct{}
	CoreMapName    string
}

// Config configures the plan service.
type Config struct {
	MinCredits     float64
	CoreMapPath    string
	PoliciesPath   string
	ContactsPath   string
	RulesVersion   string
	MaxUploadBytes int64
}

// Request is an uploaded plan plus the context it is checked against.
type Request struct {
	Program     string
	CatalogYear string
	Filename    string
	Content     []byte
}
