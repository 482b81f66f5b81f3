package plan

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/advisor-assistant/pkg/errors"
)

func newTestService(t *testing.T, cfg Config) Service {
	t.Helper()
	return NewService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeCoreMap(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "core_map.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestServiceValidateReport(t *testing.T) {
	path := writeCoreMap(t, "Category,Description\nCore,Major core\nElective,Free elective\n")
	svc := newTestService(t, Config{CoreMapPath: path})

	plan := "Course ID,Credit Hours,Area,Status\nPT 101,4,Core,Planned\nPT 102,4,core,Planned\nMUS 100,3,Music,Completed\n"
	report, err := svc.Validate(context.Background(), Request{
		Program:     " Physical Therapy ",
		CatalogYear: "2025-2026",
		Filename:    "plan.csv",
		Content:     []byte(plan),
	})
	require.NoError(t, err)

	require.Equal(t, "Physical Therapy", report.Summary.Program)
	require.Equal(t, "2025-2026", report.Summary.CatalogYear)
	require.Equal(t, DefaultRulesVersion, report.Summary.RulesVersion)
	require.Equal(t, 2, report.Summary.CoreCategories)
	require.InDelta(t, 11.0, report.Summary.TotalCredits, 1e-9)
	require.Equal(t, []string{IssueLowLoad, IssueUnknownCategory}, issueTypes(report))
	require.Equal(t, "MUS 100", report.Issues[1].Course)
}

func TestServiceValidateWithoutCoreMap(t *testing.T) {
	svc := newTestService(t, Config{CoreMapPath: filepath.Join(t.TempDir(), "missing.csv")})

	report, err := svc.Validate(context.Background(), Request{
		Filename: "plan.csv",
		Content:  []byte("Course,Credits,Category\nX,12,Anything\n"),
	})
	require.NoError(t, err)
	require.Empty(t, report.Issues)
	require.Zero(t, report.Summary.CoreCategories)
}

func TestServiceValidateRejectsBadUploads(t *testing.T) {
	svc := newTestService(t, Config{MaxUploadBytes: 16})
	ctx := context.Background()

	_, err := svc.Validate(ctx, Request{Filename: "plan.csv"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Validate(ctx, Request{Filename: "plan.csv", Content: []byte("Course,Credits,Category\nX,1,Y\n")})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Validate(ctx, Request{Filename: "plan.doc", Content: []byte("x")})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestLoadCoreCategoriesRequiresCategoryColumn(t *testing.T) {
	path := writeCoreMap(t, "Area\nCore\n")
	_, err := LoadCoreCategories(path)
	require.Error(t, err)
}

func TestServiceValidateSummarizesSourcesAndNote(t *testing.T) {
	dir := t.TempDir()
	core := filepath.Join(dir, "core_map.csv")
	policies := filepath.Join(dir, "policies.csv")
	require.NoError(t, os.WriteFile(core, []byte("Category\nCore\nElective\nMajor\n"), 0o600))
	require.NoError(t, os.WriteFile(policies, []byte("Policy\nWithdrawal\n"), 0o600))

	svc := newTestService(t, Config{
		CoreMapPath:  core,
		PoliciesPath: policies,
		ContactsPath: filepath.Join(dir, "missing.csv"),
	})
	svc.(*service).now = func() time.Time { return time.Date(2025, 1, 2, 15, 4, 0, 0, time.UTC) }

	report, err := svc.Validate(context.Background(), Request{
		Program:     "Nursing",
		CatalogYear: "2024-2025",
		Filename:    "plan.csv",
		Content:     []byte("Course,Credits,Category,Status\nN 101,6,Core,Completed\nN 102,6,Major,Planned\n"),
	})
	require.NoError(t, err)

	require.Equal(t, Sources{CoreRows: 3, PolicyRows: 1, ContactRows: 0}, report.Summary.Sources)
	require.Equal(t, 1, report.Summary.Completed)
	require.Equal(t, 1, report.Summary.Planned)
	require.Empty(t, report.Issues)
	require.Equal(t, "Advisor Assistant validation note (2025-01-02 15:04)\n"+
		"Program: Nursing | Catalog: 2024-2025\n"+
		"Issue count: 0\n"+
		"----------------------------------------\n"+
		"No issues detected.", report.Note)
}
