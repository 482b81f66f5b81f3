package plan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/yanqian/advisor-assistant/pkg/errors"
	"github.com/yanqian/advisor-assistant/pkg/tabular"
	"github.com/yanqian/advisor-assistant/pkg/util"
)

// DefaultRulesVersion labels the rule set reported in summaries.
const DefaultRulesVersion = "0.1-simplified"

// Service validates uploaded plans.
type Service interface {
	Validate(ctx context.Context, req Request) (Report, error)
}

type service struct {
	cfg    Config
	logger *slog.Logger
	now    util.Clock

	coreOnce sync.Once
	core     map[string]struct{}
}

// NewService constructs the plan validator.
func NewService(cfg Config, logger *slog.Logger) Service {
	if cfg.MinCredits <= 0 {
		cfg.MinCredits = DefaultMinCredits
	}
	if cfg.RulesVersion == "" {
		cfg.RulesVersion = DefaultRulesVersion
	}
	return &service{
		cfg:    cfg,
		logger: logger.With("component", "plan.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Validate(ctx context.Context, req Request) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, apperrors.Wrap(apperrors.CodePlan, "plan validation cancelled", err)
	}
	if len(req.Content) == 0 {
		return Report{}, apperrors.Wrap(apperrors.CodeInvalidInput, "plan file is empty", nil)
	}
	if s.cfg.MaxUploadBytes > 0 && int64(len(req.Content)) > s.cfg.MaxUploadBytes {
		return Report{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("plan file exceeds %d bytes", s.cfg.MaxUploadBytes), nil)
	}

	parsed, err := ParsePlan(req.Filename, req.Content)
	if err != nil {
		return Report{}, apperrors.Wrap(apperrors.CodeInvalidInput, "plan file could not be read", err)
	}

	report := Validate(parsed, Options{
		MinCredits:     s.cfg.MinCredits,
		CoreCategories: s.coreCategories(),
		CoreMapName:    filepath.Base(s.cfg.CoreMapPath),
	})
	report.Summary.Program = strings.TrimSpace(req.Program)
	report.Summary.CatalogYear = strings.TrimSpace(req.CatalogYear)
	report.Summary.RulesVersion = s.cfg.RulesVersion
	report.Summary.Sources = s.summarizeSources()
	report.Note = AdvisorNote(report.Summary, report.Issues, s.now())

	s.logger.Info("plan validated",
		"program", report.Summary.Program,
		"courses", report.Summary.Courses,
		"issues", len(report.Issues),
	)
	return report, nil
}

// coreCategories reads the core map once. An absent or unreadable map
// disables the unknown-category check.
func (s *service) coreCategories() map[string]struct{} {
	s.coreOnce.Do(func() {
		if s.cfg.CoreMapPath == "" {
			return
		}
		cats, err := LoadCoreCategories(s.cfg.CoreMapPath)
		if err != nil {
			s.logger.Warn("core map unavailable", "path", s.cfg.CoreMapPath, "error", err)
			return
		}
		s.core = cats
		s.logger.Info("core map loaded", "path", s.cfg.CoreMapPath, "categories", len(cats))
	})
	return s.core
}

// summarizeSources re-reads the reference sheets so edits show up without a
// restart.
func (s *service) summarizeSources() Sources {
	return Sources{
		CoreRows:    countRows(s.cfg.CoreMapPath),
		PolicyRows:  countRows(s.cfg.PoliciesPath),
		ContactRows: countRows(s.cfg.ContactsPath),
	}
}

func countRows(path string) int {
	if path == "" {
		return 0
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	table, err := tabular.Decode(path, content)
	if err != nil {
		return 0
	}
	return len(table.Rows)
}

// LoadCoreCategories reads the lowercased Category column of a core map
// sheet.
func LoadCoreCategories(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	table, err := tabular.Decode(path, content)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, name := range table.Header {
		if name == "Category" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("core map %s has no Category column", path)
	}
	cats := make(map[string]struct{}, len(table.Rows))
	for _, row := range table.Rows {
		if v := strings.ToLower(strings.TrimSpace(tabular.Cell(row, idx))); v != "" {
			cats[v] = struct{}{}
		}
	}
	return cats, nil
}
